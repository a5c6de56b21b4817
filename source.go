package brief

import (
	"io"
)

// Source is the byte-pulling side of the format. The decoder drives it one
// designator or payload at a time; implementations map those pulls onto a
// slice, an io.Reader, or a budget-enforcing wrapper.
//
// ReadBytes reports whether the returned slice aliases the source's own
// storage. Borrowed data lives as long as the input; data landed in scratch
// is only valid until the next read and must be copied by the caller if it
// needs to outlive that.
type Source interface {
	// PeekByte returns the next byte without consuming it.
	PeekByte() (byte, error)
	// ReadByte consumes and returns the next byte.
	ReadByte() (byte, error)
	// ReadExact fills p completely.
	ReadExact(p []byte) error
	// ReadBytes produces the next n bytes, borrowing from the source when
	// possible and landing them in scratch otherwise.
	ReadBytes(n int, scratch *Scratch) (data []byte, borrowed bool, err error)
	// SkipBytes consumes and discards the next n bytes.
	SkipBytes(n int) error
}

// SliceSource reads from an in-memory slice and hands out zero-copy views
// of it.
type SliceSource struct {
	data []byte
	off  int
}

// NewSliceSource returns a source over data. The source holds data without
// copying it.
func NewSliceSource(data []byte) *SliceSource {
	return &SliceSource{data: data}
}

// Rest returns the unconsumed remainder of the input.
func (s *SliceSource) Rest() []byte {
	return s.data[s.off:]
}

func (s *SliceSource) PeekByte() (byte, error) {
	if s.off >= len(s.data) {
		return 0, ErrUnexpectedEnd
	}
	return s.data[s.off], nil
}

func (s *SliceSource) ReadByte() (byte, error) {
	if s.off >= len(s.data) {
		return 0, ErrUnexpectedEnd
	}
	b := s.data[s.off]
	s.off++
	return b, nil
}

func (s *SliceSource) ReadExact(p []byte) error {
	if len(s.data)-s.off < len(p) {
		return ErrUnexpectedEnd
	}
	copy(p, s.data[s.off:])
	s.off += len(p)
	return nil
}

func (s *SliceSource) ReadBytes(n int, _ *Scratch) ([]byte, bool, error) {
	if len(s.data)-s.off < n {
		return nil, false, ErrUnexpectedEnd
	}
	data := s.data[s.off : s.off+n : s.off+n]
	s.off += n
	return data, true, nil
}

func (s *SliceSource) SkipBytes(n int) error {
	if len(s.data)-s.off < n {
		return ErrUnexpectedEnd
	}
	s.off += n
	return nil
}

// ReaderSource adapts an io.Reader. It buffers at most the single byte
// needed for peeking; payloads land in the decoder's scratch.
type ReaderSource struct {
	r    io.Reader
	next int16 // buffered peek byte, -1 when empty
}

// NewReaderSource returns a source over r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r, next: -1}
}

func (s *ReaderSource) readOne() (byte, error) {
	var one [1]byte
	if _, err := io.ReadFull(s.r, one[:]); err != nil {
		return 0, mapEOF(err)
	}
	return one[0], nil
}

func (s *ReaderSource) PeekByte() (byte, error) {
	if s.next >= 0 {
		return byte(s.next), nil
	}
	b, err := s.readOne()
	if err != nil {
		return 0, err
	}
	s.next = int16(b)
	return b, nil
}

func (s *ReaderSource) ReadByte() (byte, error) {
	if s.next >= 0 {
		b := byte(s.next)
		s.next = -1
		return b, nil
	}
	return s.readOne()
}

func (s *ReaderSource) ReadExact(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if s.next >= 0 {
		p[0] = byte(s.next)
		s.next = -1
		p = p[1:]
	}
	if _, err := io.ReadFull(s.r, p); err != nil {
		return mapEOF(err)
	}
	return nil
}

func (s *ReaderSource) ReadBytes(n int, scratch *Scratch) ([]byte, bool, error) {
	if scratch == nil {
		return nil, false, ErrBufferTooSmall
	}
	p, err := scratch.reserve(n)
	if err != nil {
		return nil, false, err
	}
	if err := s.ReadExact(p); err != nil {
		return nil, false, err
	}
	return p, false, nil
}

func (s *ReaderSource) SkipBytes(n int) error {
	if n == 0 {
		return nil
	}
	if s.next >= 0 {
		s.next = -1
		n--
	}
	if _, err := io.CopyN(io.Discard, s.r, int64(n)); err != nil {
		return mapEOF(err)
	}
	return nil
}

// mapEOF turns io-level end-of-stream errors into the format's own error.
// Anything else passes through untouched.
func mapEOF(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrUnexpectedEnd
	}
	return err
}
