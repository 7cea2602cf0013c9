package utils

// History remembers the fingerprints of the most recent generations so the
// driver can stop once a pattern has settled into a still life or a short cycle.
// Only hashes are kept, never the grids themselves.
type History struct {
	window []string
	size   int
}

// NewHistory keeps up to size fingerprints
func NewHistory(size int) *History {
	if size < 2 {
		size = 2
	}
	return &History{size: size, window: make([]string, 0, size)}
}

// Settled reports whether fingerprint matches one of the remembered generations,
// i.e. the pattern is static or cycles with a period shorter than the window
func (h *History) Settled(fingerprint string) bool {
	for _, f := range h.window {
		if f == fingerprint {
			return true
		}
	}
	return false
}

// Record adds a fingerprint, dropping the oldest when the window is full
func (h *History) Record(fingerprint string) {
	if len(h.window) == h.size {
		copy(h.window, h.window[1:])
		h.window = h.window[:h.size-1]
	}
	h.window = append(h.window, fingerprint)
}

// Reset forgets every remembered generation
func (h *History) Reset() {
	h.window = h.window[:0]
}
