package mqtt

// bufferedMsg is a serialized message waiting for the connection to return.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer keeps the most recent messages published while disconnected.
// Not safe for concurrent use.
type ringBuffer struct {
	buf     []bufferedMsg
	start   int
	count   int
	dropped int
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &ringBuffer{buf: make([]bufferedMsg, capacity)}
}

// push appends msg, overwriting the oldest message when full.
func (r *ringBuffer) push(msg bufferedMsg) {
	n := len(r.buf)
	if r.count == n {
		r.buf[r.start] = msg
		r.start = (r.start + 1) % n
		r.dropped++
		return
	}
	r.buf[(r.start+r.count)%n] = msg
	r.count++
}

// drainAll returns the buffered messages oldest first, plus how many were
// dropped since the last drain, and empties the buffer.
func (r *ringBuffer) drainAll() ([]bufferedMsg, int) {
	dropped := r.dropped
	if r.count == 0 {
		r.dropped = 0
		return nil, dropped
	}
	out := make([]bufferedMsg, r.count)
	for i := range out {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	r.start, r.count, r.dropped = 0, 0, 0
	return out, dropped
}

func (r *ringBuffer) len() int {
	return r.count
}
