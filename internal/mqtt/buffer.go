package mqtt

import "log"

// bufferedMsg is a serialized MQTT message waiting for a connection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer keeps the newest messages published while the broker is
// unreachable. When full, the oldest message is overwritten.
// Callers must synchronize.
type ringBuffer struct {
	msgs    []bufferedMsg
	start   int // oldest message
	count   int
	dropped int // overwritten since the last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &ringBuffer{msgs: make([]bufferedMsg, capacity)}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	capacity := len(r.msgs)
	if r.count < capacity {
		r.msgs[(r.start+r.count)%capacity] = msg
		r.count++
		return
	}

	if r.dropped == 0 {
		log.Printf("mqtt: offline buffer full (%d messages), dropping oldest", capacity)
	}
	r.dropped++
	r.msgs[r.start] = msg
	r.start = (r.start + 1) % capacity
}

// drainAll returns the buffered messages oldest first and empties the buffer.
func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.count == 0 {
		return nil
	}

	capacity := len(r.msgs)
	out := make([]bufferedMsg, 0, r.count)
	for i := 0; i < r.count; i++ {
		idx := (r.start + i) % capacity
		out = append(out, r.msgs[idx])
		r.msgs[idx] = bufferedMsg{}
	}
	if r.dropped > 0 {
		log.Printf("mqtt: %d buffered messages were dropped while offline", r.dropped)
	}

	r.start, r.count, r.dropped = 0, 0, 0
	return out
}

func (r *ringBuffer) len() int {
	return r.count
}
