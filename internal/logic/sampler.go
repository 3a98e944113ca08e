package logic

// Sample is one committed bin: the readings taken and where they went.
type Sample struct {
	At       Millis
	Bin      Cursor
	Readings [NumChannels]float64
	Extrema  [NumChannels]Pair
}

// Sampler decides when a bin is due and commits readings into the history
// and extrema trackers. It owns the cursor.
type Sampler struct {
	source  SampleSource
	history *History
	extrema *Extrema
	cursor  Cursor
	current [NumChannels]float64
}

// NewSampler takes the first reading of each channel and uses it to
// initialize the history and extrema. The cursor starts at bin 0.
func NewSampler(source SampleSource) *Sampler {
	var first [NumChannels]float64
	for _, ch := range Channels {
		first[ch] = source.ReadChannel(ch)
	}
	return &Sampler{
		source:  source,
		history: NewHistory(first),
		extrema: NewExtrema(first),
		current: first,
	}
}

// MaybeSample commits a sample if the clock's bin equals the cursor.
// A bin missed because of a late poll is not backfilled; the cursor simply
// waits for the clock to come round to it again.
func (s *Sampler) MaybeSample(now Millis) (Sample, bool) {
	if BinAt(now) != s.cursor {
		return Sample{}, false
	}

	sample := Sample{At: now, Bin: s.cursor}
	for _, ch := range Channels {
		r := s.source.ReadChannel(ch)
		s.history.Record(ch, r, s.cursor)
		s.extrema.Update(ch, r)
		s.current[ch] = r
		sample.Readings[ch] = r
		sample.Extrema[ch] = s.extrema.Get(ch)
	}
	s.cursor = s.cursor.Next()
	return sample, true
}

// Cursor returns the bin the next sample will be written to.
func (s *Sampler) Cursor() Cursor {
	return s.cursor
}

// Current returns the most recent reading for the channel.
func (s *Sampler) Current(ch Channel) float64 {
	return s.current[ch]
}

// Window returns the channel's history oldest to newest.
func (s *Sampler) Window(ch Channel) [HistorySize]float64 {
	return s.history.Window(ch, s.cursor)
}

// Extrema returns the tracker fed by this sampler.
func (s *Sampler) Extrema() *Extrema {
	return s.extrema
}
