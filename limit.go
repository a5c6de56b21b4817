package brief

// LimitedSource enforces a byte budget on a wrapped source. Every pull is
// checked against the remaining budget first and fails with ErrLimitReached
// when it would exceed it. The budget only shrinks when the wrapped pull
// succeeds, so a failed pull leaves it untouched.
type LimitedSource struct {
	src       Source
	remaining int
}

// NewLimitedSource wraps src with a budget of limit bytes.
func NewLimitedSource(src Source, limit int) *LimitedSource {
	return &LimitedSource{src: src, remaining: limit}
}

// Remaining returns the unused part of the budget.
func (l *LimitedSource) Remaining() int {
	return l.remaining
}

func (l *LimitedSource) PeekByte() (byte, error) {
	// Peeking consumes nothing, but an exhausted budget cannot produce
	// another byte either.
	if l.remaining < 1 {
		return 0, ErrLimitReached
	}
	return l.src.PeekByte()
}

func (l *LimitedSource) ReadByte() (byte, error) {
	if l.remaining < 1 {
		return 0, ErrLimitReached
	}
	b, err := l.src.ReadByte()
	if err != nil {
		return 0, err
	}
	l.remaining--
	return b, nil
}

func (l *LimitedSource) ReadExact(p []byte) error {
	if l.remaining < len(p) {
		return ErrLimitReached
	}
	if err := l.src.ReadExact(p); err != nil {
		return err
	}
	l.remaining -= len(p)
	return nil
}

func (l *LimitedSource) ReadBytes(n int, scratch *Scratch) ([]byte, bool, error) {
	if l.remaining < n {
		return nil, false, ErrLimitReached
	}
	data, borrowed, err := l.src.ReadBytes(n, scratch)
	if err != nil {
		return nil, false, err
	}
	l.remaining -= n
	return data, borrowed, nil
}

func (l *LimitedSource) SkipBytes(n int) error {
	if l.remaining < n {
		return ErrLimitReached
	}
	if err := l.src.SkipBytes(n); err != nil {
		return err
	}
	l.remaining -= n
	return nil
}

// LimitedSink enforces a byte budget on a wrapped sink, with the same
// check-then-commit behavior as LimitedSource.
type LimitedSink struct {
	sink      Sink
	remaining int
}

// NewLimitedSink wraps sink with a budget of limit bytes.
func NewLimitedSink(sink Sink, limit int) *LimitedSink {
	return &LimitedSink{sink: sink, remaining: limit}
}

// Remaining returns the unused part of the budget.
func (l *LimitedSink) Remaining() int {
	return l.remaining
}

func (l *LimitedSink) WriteByte(b byte) error {
	if l.remaining < 1 {
		return ErrLimitReached
	}
	if err := l.sink.WriteByte(b); err != nil {
		return err
	}
	l.remaining--
	return nil
}

func (l *LimitedSink) WriteAll(p []byte) error {
	if l.remaining < len(p) {
		return ErrLimitReached
	}
	if err := l.sink.WriteAll(p); err != nil {
		return err
	}
	l.remaining -= len(p)
	return nil
}
