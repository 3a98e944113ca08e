package logic

// Counts tracks device activity since start.
type Counts struct {
	Samples      int
	ShortPresses int
	LongPresses  int
	Resets       int
	Bounced      int
}

// Snapshot is a copy of the device state for status reporting.
type Snapshot struct {
	Mode     Mode
	Cursor   Cursor
	Readings [NumChannels]float64
	Extrema  [NumChannels]Pair
	Windows  [NumChannels][HistorySize]float64
	Counts   Counts
}

// Device owns all monitor state: sampler (history, extrema, cursor), button
// classifier and view. Only the goroutine running the poll loop may call its
// methods, except Mode which is safe from anywhere.
type Device struct {
	sampler    *Sampler
	classifier *Classifier
	view       *View
	renderer   Renderer
	counts     Counts
}

// NewDevice takes the initial readings from source and draws the live view.
func NewDevice(source SampleSource, renderer Renderer) (*Device, error) {
	d := &Device{
		sampler:    NewSampler(source),
		classifier: NewClassifier(DebounceWindow, LongPressThreshold),
		view:       NewView(),
		renderer:   renderer,
	}
	return d, d.Redraw()
}

// Tick checks whether a bin is due and, if so, samples and redraws.
// The returned error is the renderer's; the sample is committed regardless.
func (d *Device) Tick(now Millis) (Sample, bool, error) {
	sample, ok := d.sampler.MaybeSample(now)
	if !ok {
		return Sample{}, false, nil
	}
	d.counts.Samples++
	if !DependsOnSamples(d.view.Mode()) {
		return sample, true, nil
	}
	return sample, true, d.Redraw()
}

// HandleEdge classifies a raw button edge and applies any resulting press.
func (d *Device) HandleEdge(e Edge) (Press, error) {
	p := d.classifier.Process(e)
	d.counts.Bounced = d.classifier.Bounced()
	if p == PressNone {
		return p, nil
	}
	return p, d.Apply(p)
}

// Apply runs a press through the view and performs the resulting action.
func (d *Device) Apply(p Press) error {
	switch p {
	case PressShort:
		d.counts.ShortPresses++
	case PressLong:
		d.counts.LongPresses++
	}

	switch d.view.Transition(p) {
	case ActionResetInside:
		d.resetExtrema(Inside)
	case ActionResetOutside:
		d.resetExtrema(Outside)
	case ActionNone:
		return nil
	}
	return d.Redraw()
}

func (d *Device) resetExtrema(ch Channel) {
	d.sampler.Extrema().Reset(ch, d.sampler.Current(ch))
	d.counts.Resets++
}

// Redraw sends the active view and only the data it needs to the renderer.
func (d *Device) Redraw() error {
	ext := d.sampler.Extrema()
	switch d.view.Mode() {
	case ModeHighLowIn:
		p := ext.Get(Inside)
		return d.renderer.DrawHighLow(Inside.Label(), p.High, p.Low)
	case ModeHighLowOut:
		p := ext.Get(Outside)
		return d.renderer.DrawHighLow(Outside.Label(), p.High, p.Low)
	case ModeHistoryIn:
		return d.renderer.DrawHistory(Inside.Label(), d.sampler.Window(Inside))
	case ModeHistoryOut:
		return d.renderer.DrawHistory(Outside.Label(), d.sampler.Window(Outside))
	default:
		return d.renderer.DrawLive(d.sampler.Current(Inside), d.sampler.Current(Outside))
	}
}

// Mode returns the active display mode.
func (d *Device) Mode() Mode {
	return d.view.Mode()
}

// Snapshot copies the current device state.
func (d *Device) Snapshot() Snapshot {
	s := Snapshot{
		Mode:   d.view.Mode(),
		Cursor: d.sampler.Cursor(),
		Counts: d.counts,
	}
	for _, ch := range Channels {
		s.Readings[ch] = d.sampler.Current(ch)
		s.Extrema[ch] = d.sampler.Extrema().Get(ch)
		s.Windows[ch] = d.sampler.Window(ch)
	}
	return s
}
