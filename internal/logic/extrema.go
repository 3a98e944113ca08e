package logic

// Pair is a running high/low since the last reset.
type Pair struct {
	High float64
	Low  float64
}

// Extrema tracks a Pair per channel. Pairs only widen until Reset.
type Extrema struct {
	pairs [NumChannels]Pair
}

// NewExtrema starts each channel collapsed on its first reading.
func NewExtrema(initial [NumChannels]float64) *Extrema {
	e := &Extrema{}
	for _, ch := range Channels {
		e.Reset(ch, initial[ch])
	}
	return e
}

// Update widens the channel's pair to include reading.
func (e *Extrema) Update(ch Channel, reading float64) {
	p := &e.pairs[ch]
	if reading > p.High {
		p.High = reading
	}
	if reading < p.Low {
		p.Low = reading
	}
}

// Reset collapses the channel's pair onto reading.
func (e *Extrema) Reset(ch Channel, reading float64) {
	e.pairs[ch] = Pair{High: reading, Low: reading}
}

// Get returns the channel's current pair.
func (e *Extrema) Get(ch Channel) Pair {
	return e.pairs[ch]
}
