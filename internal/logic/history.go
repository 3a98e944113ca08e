package logic

// History holds one fixed ring of readings per channel, one slot per bin.
// Every slot is defined from construction onward.
type History struct {
	bufs [NumChannels][HistorySize]float64
}

// NewHistory fills every slot of each channel with its first reading so an
// early graph is flat rather than empty.
func NewHistory(initial [NumChannels]float64) *History {
	h := &History{}
	for _, ch := range Channels {
		for i := range h.bufs[ch] {
			h.bufs[ch][i] = initial[ch]
		}
	}
	return h
}

// Record overwrites the slot at cursor.
func (h *History) Record(ch Channel, reading float64, cursor Cursor) {
	h.bufs[ch][cursor] = reading
}

// Slot returns the raw value stored at cursor.
func (h *History) Slot(ch Channel, cursor Cursor) float64 {
	return h.bufs[ch][cursor]
}

// Window returns the channel's history oldest to newest, given the cursor of
// the next bin to be written. The last element is the most recent sample.
func (h *History) Window(ch Channel, next Cursor) [HistorySize]float64 {
	var w [HistorySize]float64
	for k := range w {
		w[k] = h.bufs[ch][next.Offset(k-HistorySize)]
	}
	return w
}
