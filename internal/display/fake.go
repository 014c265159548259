package display

// Frame is one lit digit as seen by a FakeDriver.
type Frame struct {
	Digit    int
	Segments byte
}

// FakeDriver is a test double that records what Refresh lit.
type FakeDriver struct {
	// ScreenOffs counts ScreenOff calls.
	ScreenOffs int

	// Segments holds the last pattern passed to SegmentsOn.
	Segments byte

	// Frames records one entry per DigitOn call.
	Frames []Frame

	// Err, if set, is returned by every method.
	Err error
}

// NewFakeDriver creates a FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// ScreenOff records the call.
func (f *FakeDriver) ScreenOff() error {
	f.ScreenOffs++
	f.Segments = 0
	return f.Err
}

// SegmentsOn stores the pattern.
func (f *FakeDriver) SegmentsOn(segments byte) error {
	f.Segments = segments
	return f.Err
}

// DigitOn records a frame with the current pattern.
func (f *FakeDriver) DigitOn(digit int) error {
	f.Frames = append(f.Frames, Frame{Digit: digit, Segments: f.Segments})
	return f.Err
}

// Reset clears recorded calls.
func (f *FakeDriver) Reset() {
	f.ScreenOffs = 0
	f.Segments = 0
	f.Frames = nil
	f.Err = nil
}
