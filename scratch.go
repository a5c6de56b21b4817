package brief

import "sync"

// Scratch is the landing buffer for byte and string payloads pulled out of
// sources that cannot hand out views of their own storage. A zero Scratch
// grows without bound; NewBoundedScratch caps the capacity for callers that
// need allocation control.
type Scratch struct {
	buf   []byte
	limit int // 0 means unbounded
}

// NewScratch returns an unbounded scratch with the given initial capacity.
func NewScratch(capacity int) *Scratch {
	return &Scratch{buf: make([]byte, 0, capacity)}
}

// NewBoundedScratch returns a scratch that refuses to grow past capacity.
// Payloads that do not fit fail with ErrBufferTooSmall.
func NewBoundedScratch(capacity int) *Scratch {
	return &Scratch{buf: make([]byte, 0, capacity), limit: capacity}
}

// Reset discards the contents but keeps the allocation.
func (s *Scratch) Reset() {
	s.buf = s.buf[:0]
}

// Bytes returns the current contents. The slice is valid until the next
// Reset or append.
func (s *Scratch) Bytes() []byte {
	return s.buf
}

func (s *Scratch) appendByte(b byte) error {
	if s.limit > 0 && len(s.buf)+1 > s.limit {
		return ErrBufferTooSmall
	}
	s.buf = append(s.buf, b)
	return nil
}

// reserve extends the buffer by n bytes and returns the writable tail.
func (s *Scratch) reserve(n int) ([]byte, error) {
	if s.limit > 0 && len(s.buf)+n > s.limit {
		return nil, ErrBufferTooSmall
	}
	old := len(s.buf)
	if cap(s.buf)-old < n {
		grown := make([]byte, old, old+n)
		copy(grown, s.buf)
		s.buf = grown
	}
	s.buf = s.buf[:old+n]
	return s.buf[old:], nil
}

var scratchPool = sync.Pool{
	New: func() any { return NewScratch(512) },
}

func getScratch() *Scratch {
	s := scratchPool.Get().(*Scratch)
	s.Reset()
	return s
}

func putScratch(s *Scratch) {
	// Oversized buffers are dropped so the pool stays small.
	if cap(s.buf) <= 1<<16 {
		scratchPool.Put(s)
	}
}
