package alertstate

// history is a fixed-capacity FIFO buffer. Adding beyond capacity evicts
// the oldest entry. Not safe for concurrent use; the Store's lock guards it.
type history[T any] struct {
	buf   []T
	limit int
}

func newHistory[T any](limit int) *history[T] {
	if limit <= 0 {
		limit = 1
	}
	return &history[T]{limit: limit}
}

func (h *history[T]) add(item T) {
	if len(h.buf) < h.limit {
		h.buf = append(h.buf, item)
		return
	}
	copy(h.buf, h.buf[1:])
	h.buf[len(h.buf)-1] = item
}

// list returns a copy, oldest first.
func (h *history[T]) list() []T {
	out := make([]T, len(h.buf))
	copy(out, h.buf)
	return out
}
