package display

import (
	"errors"
	"testing"
)

func newRenderer(t *testing.T, digits int) (*Renderer, *FakeDriver) {
	t.Helper()
	drv := NewFakeDriver()
	r, err := New(digits, drv)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, drv
}

func TestNewTurnsScreenOff(t *testing.T) {
	r, drv := newRenderer(t, 4)
	if drv.ScreenOffs != 1 {
		t.Errorf("ScreenOffs: got %d, want 1", drv.ScreenOffs)
	}
	if r.Digits() != 4 {
		t.Errorf("Digits: got %d, want 4", r.Digits())
	}
	for i, b := range r.Memory() {
		if b != 0 {
			t.Errorf("digit %d: expected blank, got %#x", i, b)
		}
	}
	if _, _, factor := r.Flashing(); factor != 0 {
		t.Errorf("expected blinking disabled, got factor %d", factor)
	}
}

func TestNewDigitCount(t *testing.T) {
	for _, n := range []int{0, -1, MaxDigits + 1} {
		_, err := New(n, NewFakeDriver())
		if !errors.Is(err, ErrDigitCount) {
			t.Errorf("New(%d): expected ErrDigitCount, got %v", n, err)
		}
	}
}

func TestNewDriverError(t *testing.T) {
	drv := NewFakeDriver()
	drv.Err = errors.New("bus fault")
	if _, err := New(4, drv); err == nil {
		t.Error("expected error from failing driver")
	}
}

func TestImages(t *testing.T) {
	want := map[uint8]byte{
		0: 0x3f, 1: 0x06, 2: 0x5b, 3: 0x4f, 4: 0x66,
		5: 0x6d, 6: 0x7d, 7: 0x07, 8: 0x7f, 9: 0x6f,
	}
	for d, w := range want {
		if got := Image(d); got != w {
			t.Errorf("Image(%d): got %#x, want %#x", d, got, w)
		}
	}
	if Image(10) != 0 {
		t.Error("non-BCD values should render blank")
	}
}

func TestWriteBCD(t *testing.T) {
	r, _ := newRenderer(t, 4)
	r.WriteBCD([]uint8{1, 2, 3, 4})

	mem := r.Memory()
	for i, d := range []uint8{1, 2, 3, 4} {
		if mem[i] != Image(d) {
			t.Errorf("digit %d: got %#x, want %#x", i, mem[i], Image(d))
		}
	}
}

func TestWriteBCDTruncatesAndBlanks(t *testing.T) {
	r, _ := newRenderer(t, 4)
	r.WriteBCD([]uint8{1, 2, 3, 4, 5, 6})
	if mem := r.Memory(); mem[3] != Image(4) {
		t.Errorf("digit 3: got %#x, want %#x", mem[3], Image(4))
	}

	r.WriteBCD([]uint8{7})
	mem := r.Memory()
	if mem[0] != Image(7) {
		t.Errorf("digit 0: got %#x", mem[0])
	}
	for i := 1; i < 4; i++ {
		if mem[i] != 0 {
			t.Errorf("digit %d: expected blank after short write, got %#x", i, mem[i])
		}
	}
}

func TestToggleDot(t *testing.T) {
	r, _ := newRenderer(t, 4)
	r.WriteBCD([]uint8{1, 2, 3, 4})

	r.ToggleDot(1)
	if mem := r.Memory(); mem[1] != Image(2)|SegmentDP {
		t.Errorf("expected dot on digit 1, got %#x", mem[1])
	}

	r.ToggleDot(1)
	if mem := r.Memory(); mem[1] != Image(2) {
		t.Errorf("second toggle should clear the dot, got %#x", mem[1])
	}

	// out of range is ignored
	r.ToggleDot(-1)
	r.ToggleDot(4)
}

func TestWriteBCDClearsDots(t *testing.T) {
	r, _ := newRenderer(t, 4)
	r.WriteBCD([]uint8{1, 2, 3, 4})
	r.ToggleDot(0)
	r.ToggleDot(3)

	r.WriteBCD([]uint8{1, 2, 3, 4})
	for i, b := range r.Memory() {
		if b&SegmentDP != 0 {
			t.Errorf("digit %d: dot survived WriteBCD", i)
		}
	}
}

func TestRefreshCyclesDigits(t *testing.T) {
	r, drv := newRenderer(t, 4)
	r.WriteBCD([]uint8{1, 2, 3, 4})
	drv.Reset()

	for i := 0; i < 8; i++ {
		if err := r.Refresh(); err != nil {
			t.Fatalf("Refresh: %v", err)
		}
	}

	if drv.ScreenOffs != 8 {
		t.Errorf("ScreenOffs: got %d, want 8", drv.ScreenOffs)
	}
	if len(drv.Frames) != 8 {
		t.Fatalf("frames: got %d, want 8", len(drv.Frames))
	}
	for i, f := range drv.Frames {
		if f.Digit != i%4 {
			t.Errorf("frame %d: digit %d, want %d", i, f.Digit, i%4)
		}
		if f.Segments != Image(uint8(i%4+1)) {
			t.Errorf("frame %d: segments %#x", i, f.Segments)
		}
	}
}

func TestRefreshReturnsDriverError(t *testing.T) {
	r, drv := newRenderer(t, 4)
	drv.Err = errors.New("line busy")
	if err := r.Refresh(); err == nil {
		t.Error("expected driver error")
	}
	// the cursor still advances
	drv.Err = nil
	drv.Reset()
	r.Refresh()
	if drv.Frames[0].Digit != 1 {
		t.Errorf("expected digit 1, got %d", drv.Frames[0].Digit)
	}
}

// TestFlashDigitsDutyCycle checks digits 0..3 are blank exactly while the
// blink counter is above half the period.
func TestFlashDigitsDutyCycle(t *testing.T) {
	r, drv := newRenderer(t, 6)
	r.WriteBCD([]uint8{8, 8, 8, 8, 8, 8})
	r.FlashDigits(0, 3, 200)
	drv.Reset()

	const cycles = 200
	for i := 0; i < cycles*6; i++ {
		r.Refresh()
	}

	counter := 0
	blank := make(map[int]int)
	for i, f := range drv.Frames {
		if f.Digit == 0 {
			counter = (counter + 1) % 200
		}
		wantBlank := f.Digit <= 3 && counter > 100
		if wantBlank && f.Segments != 0 {
			t.Fatalf("frame %d (digit %d, counter %d): expected blank", i, f.Digit, counter)
		}
		if !wantBlank && f.Segments != Image(8) {
			t.Fatalf("frame %d (digit %d, counter %d): expected lit, got %#x", i, f.Digit, counter, f.Segments)
		}
		if f.Segments == 0 {
			blank[f.Digit]++
		}
	}

	for d := 0; d <= 3; d++ {
		if blank[d] != 99 {
			t.Errorf("digit %d: blank %d cycles, want 99", d, blank[d])
		}
	}
	for d := 4; d <= 5; d++ {
		if blank[d] != 0 {
			t.Errorf("digit %d outside the window was blanked %d times", d, blank[d])
		}
	}
}

func TestFlashDigitsZeroDisables(t *testing.T) {
	r, drv := newRenderer(t, 4)
	r.WriteBCD([]uint8{8, 8, 8, 8})
	r.FlashDigits(0, 3, 200)
	for i := 0; i < 4*150; i++ {
		r.Refresh()
	}

	r.FlashDigits(0, 0, 0)
	drv.Reset()
	for i := 0; i < 4*300; i++ {
		r.Refresh()
	}
	for i, f := range drv.Frames {
		if f.Segments == 0 {
			t.Fatalf("frame %d: digit %d blanked with blinking disabled", i, f.Digit)
		}
	}
}

func TestFlashDigitsResetsCounter(t *testing.T) {
	r, drv := newRenderer(t, 2)
	r.WriteBCD([]uint8{1, 1})
	r.FlashDigits(0, 1, 4)
	for i := 0; i < 2*3; i++ {
		r.Refresh()
	}

	// counter is now 3 (> 4/2): blank. Restarting the window makes it lit.
	r.FlashDigits(0, 1, 4)
	drv.Reset()
	r.Refresh() // digit 0, counter -> 1
	if drv.Frames[0].Segments == 0 {
		t.Error("expected lit right after FlashDigits")
	}
}
