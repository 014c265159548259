package logic

var (
	minutesLimit = [2]uint8{5, 9}
	hoursLimit   = [2]uint8{2, 3}
)

// incrementPair advances a two-digit BCD value, wrapping from limit to 00.
func incrementPair(n []uint8, limit [2]uint8) {
	if n[0] == limit[0] && n[1] == limit[1] {
		n[0], n[1] = 0, 0
		return
	}
	n[1]++
	if n[1] > 9 {
		n[1] = 0
		n[0]++
		if n[0] > limit[0] {
			n[0] = 0
		}
	}
}

// decrementPair steps a two-digit BCD value back, wrapping from 00 to limit.
func decrementPair(n []uint8, limit [2]uint8) {
	if n[0] == 0 && n[1] == 0 {
		n[0], n[1] = limit[0], limit[1]
		return
	}
	if n[1] == 0 {
		n[1] = 9
		n[0]--
		return
	}
	n[1]--
}
