// Package lightbox manages the modal single-image viewer over the displayed sequence.
package lightbox

// State is the presentation view of a lightbox.
type State struct {
	Open        bool
	ActiveIndex int // -1 when closed
}

// Lightbox tracks which displayed image is open. The sequence length is passed
// on every call so navigation always wraps against the live length.
type Lightbox struct {
	open   bool
	active int
}

// New returns a closed lightbox.
func New() *Lightbox {
	return &Lightbox{active: -1}
}

// Open shows the image at index. Out-of-range indices are rejected without a state change.
func (lb *Lightbox) Open(index, length int) bool {
	if index < 0 || index >= length {
		return false
	}
	lb.open = true
	lb.active = index
	return true
}

// Next advances to the following image, wrapping to the first.
func (lb *Lightbox) Next(length int) (int, bool) {
	return lb.step(1, length)
}

// Previous moves to the preceding image, wrapping to the last.
func (lb *Lightbox) Previous(length int) (int, bool) {
	return lb.step(-1, length)
}

func (lb *Lightbox) step(delta, length int) (int, bool) {
	if !lb.open || length <= 0 {
		return lb.active, false
	}
	lb.active = ((lb.active+delta)%length + length) % length
	return lb.active, true
}

// Close hides the viewer and clears the active index.
func (lb *Lightbox) Close() {
	lb.open = false
	lb.active = -1
}

// IsOpen reports whether the viewer is shown.
func (lb *Lightbox) IsOpen() bool { return lb.open }

// Active returns the active index clamped into the live sequence, or false when closed.
func (lb *Lightbox) Active(length int) (int, bool) {
	if !lb.open || length <= 0 {
		return -1, false
	}
	return lb.active % length, true
}

// State returns the current state against the live sequence length.
func (lb *Lightbox) State(length int) State {
	idx, ok := lb.Active(length)
	return State{Open: ok, ActiveIndex: idx}
}
