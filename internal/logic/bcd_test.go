package logic

import "testing"

func TestIncrementPair(t *testing.T) {
	tests := []struct {
		name  string
		in    [2]uint8
		limit [2]uint8
		want  [2]uint8
	}{
		{"minutes units", [2]uint8{3, 4}, minutesLimit, [2]uint8{3, 5}},
		{"minutes carry", [2]uint8{0, 9}, minutesLimit, [2]uint8{1, 0}},
		{"minutes wrap", [2]uint8{5, 9}, minutesLimit, [2]uint8{0, 0}},
		{"hours units", [2]uint8{1, 2}, hoursLimit, [2]uint8{1, 3}},
		{"hours carry", [2]uint8{1, 9}, hoursLimit, [2]uint8{2, 0}},
		{"hours wrap", [2]uint8{2, 3}, hoursLimit, [2]uint8{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.in
			incrementPair(n[:], tt.limit)
			if n != tt.want {
				t.Errorf("got %v, want %v", n, tt.want)
			}
		})
	}
}

func TestDecrementPair(t *testing.T) {
	tests := []struct {
		name  string
		in    [2]uint8
		limit [2]uint8
		want  [2]uint8
	}{
		{"minutes units", [2]uint8{3, 4}, minutesLimit, [2]uint8{3, 3}},
		{"minutes borrow", [2]uint8{1, 0}, minutesLimit, [2]uint8{0, 9}},
		{"minutes wrap", [2]uint8{0, 0}, minutesLimit, [2]uint8{5, 9}},
		{"hours borrow", [2]uint8{2, 0}, hoursLimit, [2]uint8{1, 9}},
		{"hours wrap", [2]uint8{0, 0}, hoursLimit, [2]uint8{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.in
			decrementPair(n[:], tt.limit)
			if n != tt.want {
				t.Errorf("got %v, want %v", n, tt.want)
			}
		})
	}
}

// TestPairCycles walks a full cycle in each direction and checks it visits
// every value once and ends where it started.
func TestPairCycles(t *testing.T) {
	for _, tc := range []struct {
		limit [2]uint8
		size  int
	}{
		{minutesLimit, 60},
		{hoursLimit, 24},
	} {
		seen := make(map[[2]uint8]bool)
		n := [2]uint8{0, 0}
		for i := 0; i < tc.size; i++ {
			seen[n] = true
			incrementPair(n[:], tc.limit)
		}
		if n != [2]uint8{0, 0} {
			t.Errorf("limit %v: increment cycle ended at %v", tc.limit, n)
		}
		if len(seen) != tc.size {
			t.Errorf("limit %v: visited %d values, want %d", tc.limit, len(seen), tc.size)
		}

		for i := 0; i < tc.size; i++ {
			decrementPair(n[:], tc.limit)
			if !seen[n] {
				t.Errorf("limit %v: decrement reached unseen value %v", tc.limit, n)
			}
		}
		if n != [2]uint8{0, 0} {
			t.Errorf("limit %v: decrement cycle ended at %v", tc.limit, n)
		}
	}
}
