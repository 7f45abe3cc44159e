package memhold

// ring keeps the most recent RSS samples.
type ring struct {
	data   []uint64
	idx    int
	maxLen int
}

func newRing(maxLen int) ring {
	return ring{
		data:   make([]uint64, 0, maxLen),
		idx:    0,
		maxLen: maxLen,
	}
}

func (r *ring) push(v uint64) {
	if r.maxLen == 0 {
		return
	}

	// the first round
	if len(r.data) < r.maxLen {
		r.data = append(r.data, v)
		return
	}

	// full, overwrite the oldest sample
	r.data[r.idx] = v
	r.idx = (r.idx + 1) % r.maxLen
}

func (r *ring) len() int {
	return len(r.data)
}

func (r *ring) avg() uint64 {
	if len(r.data) == 0 {
		return 0
	}

	var sum uint64
	for _, v := range r.data {
		sum += v
	}
	return sum / uint64(len(r.data))
}
