package logger

// lineRing holds the newest log lines in a fixed-size circular buffer.
// The rotator snapshots it when trimming a log file back down.
type lineRing struct {
	lines    []string
	capacity int
	head     int
	size     int
	written  int // lines pushed since the last rotation
}

func newLineRing(capacity int) *lineRing {
	return &lineRing{
		lines:    make([]string, capacity),
		capacity: capacity,
	}
}

// push appends a line, overwriting the oldest once full.
func (r *lineRing) push(line string) {
	r.lines[r.head] = line

	r.head = (r.head + 1) % r.capacity
	if r.size < r.capacity {
		r.size++
	}

	r.written++
}

// snapshot returns the buffered lines, oldest first.
func (r *lineRing) snapshot() []string {
	if r.size == 0 {
		return nil
	}

	ordered := make([]string, r.size)
	start := (r.head - r.size + r.capacity) % r.capacity

	for i := range r.size {
		ordered[i] = r.lines[(start+i)%r.capacity]
	}

	return ordered
}
