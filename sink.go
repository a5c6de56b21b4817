package brief

import "io"

// Sink is the byte-accepting side of the format. Writes are all-or-nothing:
// a sink that cannot take the whole write takes none of it and reports the
// error, so a failed encode never leaves a torn value behind.
type Sink interface {
	WriteByte(b byte) error
	WriteAll(p []byte) error
}

// SliceSink writes into a caller-provided slice of fixed size. Writes past
// the end fail with ErrBufferTooSmall.
type SliceSink struct {
	buf []byte
	n   int
}

// NewSliceSink returns a sink over buf. The written prefix is available
// from Bytes.
func NewSliceSink(buf []byte) *SliceSink {
	return &SliceSink{buf: buf}
}

// Bytes returns the written prefix of the underlying slice.
func (s *SliceSink) Bytes() []byte {
	return s.buf[:s.n]
}

func (s *SliceSink) WriteByte(b byte) error {
	if s.n >= len(s.buf) {
		return ErrBufferTooSmall
	}
	s.buf[s.n] = b
	s.n++
	return nil
}

func (s *SliceSink) WriteAll(p []byte) error {
	if len(s.buf)-s.n < len(p) {
		return ErrBufferTooSmall
	}
	copy(s.buf[s.n:], p)
	s.n += len(p)
	return nil
}

// BufferSink appends to a growable buffer.
type BufferSink struct {
	buf []byte
}

// NewBufferSink returns a sink that appends to buf, growing as needed.
// A nil buf is fine.
func NewBufferSink(buf []byte) *BufferSink {
	return &BufferSink{buf: buf}
}

// Bytes returns everything written so far.
func (s *BufferSink) Bytes() []byte {
	return s.buf
}

func (s *BufferSink) WriteByte(b byte) error {
	s.buf = append(s.buf, b)
	return nil
}

func (s *BufferSink) WriteAll(p []byte) error {
	s.buf = append(s.buf, p...)
	return nil
}

// BoundedSink appends to a growable buffer up to a fixed capacity, for
// callers that want allocation control without preallocating.
type BoundedSink struct {
	buf []byte
	max int
}

// NewBoundedSink returns a sink that grows up to capacity bytes.
func NewBoundedSink(capacity int) *BoundedSink {
	return &BoundedSink{max: capacity}
}

// Bytes returns everything written so far.
func (s *BoundedSink) Bytes() []byte {
	return s.buf
}

func (s *BoundedSink) WriteByte(b byte) error {
	if len(s.buf)+1 > s.max {
		return ErrBufferTooSmall
	}
	s.buf = append(s.buf, b)
	return nil
}

func (s *BoundedSink) WriteAll(p []byte) error {
	if len(s.buf)+len(p) > s.max {
		return ErrBufferTooSmall
	}
	s.buf = append(s.buf, p...)
	return nil
}

// WriterSink forwards writes to an io.Writer.
type WriterSink struct {
	w   io.Writer
	one [1]byte
}

// NewWriterSink returns a sink over w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) WriteByte(b byte) error {
	s.one[0] = b
	return s.WriteAll(s.one[:])
}

func (s *WriterSink) WriteAll(p []byte) error {
	n, err := s.w.Write(p)
	if err == nil && n < len(p) {
		return io.ErrShortWrite
	}
	return err
}
