package brief

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SourceTestSuite struct {
	suite.Suite
}

func (s *SourceTestSuite) TestSliceSourceBorrows() {
	input := []byte{1, 2, 3, 4, 5}
	src := NewSliceSource(input)

	b, err := src.PeekByte()
	s.Require().NoError(err)
	s.Assert().EqualValues(1, b)

	b, err = src.ReadByte()
	s.Require().NoError(err)
	s.Assert().EqualValues(1, b)

	data, borrowed, err := src.ReadBytes(3, nil)
	s.Require().NoError(err)
	s.Assert().True(borrowed)
	s.Assert().Equal([]byte{2, 3, 4}, data)

	// Borrowed data must alias the input, not a copy of it.
	input[1] = 99
	s.Assert().EqualValues(99, data[0])

	s.Assert().Equal([]byte{5}, src.Rest())
}

func (s *SourceTestSuite) TestSliceSourceEnd() {
	src := NewSliceSource([]byte{7})
	s.Require().NoError(src.SkipBytes(1))

	_, err := src.PeekByte()
	s.Assert().ErrorIs(err, ErrUnexpectedEnd)
	_, err = src.ReadByte()
	s.Assert().ErrorIs(err, ErrUnexpectedEnd)
	_, _, err = src.ReadBytes(1, nil)
	s.Assert().ErrorIs(err, ErrUnexpectedEnd)
	s.Assert().ErrorIs(src.SkipBytes(1), ErrUnexpectedEnd)
}

func (s *SourceTestSuite) TestReaderSourcePeekThenRead() {
	src := NewReaderSource(strings.NewReader("abc"))

	b, err := src.PeekByte()
	s.Require().NoError(err)
	s.Assert().EqualValues('a', b)

	// The peeked byte must be handed back by every read form.
	p := make([]byte, 2)
	s.Require().NoError(src.ReadExact(p))
	s.Assert().Equal([]byte("ab"), p)

	b, err = src.ReadByte()
	s.Require().NoError(err)
	s.Assert().EqualValues('c', b)

	_, err = src.ReadByte()
	s.Assert().ErrorIs(err, ErrUnexpectedEnd)
}

func (s *SourceTestSuite) TestReaderSourceScratch() {
	src := NewReaderSource(strings.NewReader("hello"))
	scratch := NewScratch(8)

	data, borrowed, err := src.ReadBytes(5, scratch)
	s.Require().NoError(err)
	s.Assert().False(borrowed)
	s.Assert().Equal([]byte("hello"), data)
}

func (s *SourceTestSuite) TestReaderSourceNeedsScratch() {
	src := NewReaderSource(strings.NewReader("hello"))
	_, _, err := src.ReadBytes(5, nil)
	s.Assert().ErrorIs(err, ErrBufferTooSmall)
}

func (s *SourceTestSuite) TestReaderSourceSkip() {
	src := NewReaderSource(strings.NewReader("abcdef"))
	_, err := src.PeekByte()
	s.Require().NoError(err)

	s.Require().NoError(src.SkipBytes(4))
	b, err := src.ReadByte()
	s.Require().NoError(err)
	s.Assert().EqualValues('e', b)

	s.Assert().ErrorIs(src.SkipBytes(2), ErrUnexpectedEnd)
}

func TestSourceSuite(t *testing.T) {
	suite.Run(t, new(SourceTestSuite))
}

type SinkTestSuite struct {
	suite.Suite
}

func (s *SinkTestSuite) TestSliceSinkFixed() {
	buf := make([]byte, 4)
	sink := NewSliceSink(buf)

	s.Require().NoError(sink.WriteByte(1))
	s.Require().NoError(sink.WriteAll([]byte{2, 3}))
	s.Assert().Equal([]byte{1, 2, 3}, sink.Bytes())

	// A write that does not fit must not be applied partially.
	s.Assert().ErrorIs(sink.WriteAll([]byte{4, 5}), ErrBufferTooSmall)
	s.Assert().Equal([]byte{1, 2, 3}, sink.Bytes())

	s.Require().NoError(sink.WriteByte(4))
	s.Assert().ErrorIs(sink.WriteByte(5), ErrBufferTooSmall)
}

func (s *SinkTestSuite) TestBufferSinkGrows() {
	sink := NewBufferSink(nil)
	for i := 0; i < 100; i++ {
		s.Require().NoError(sink.WriteByte(byte(i)))
	}
	s.Assert().Len(sink.Bytes(), 100)
}

func (s *SinkTestSuite) TestBoundedSink() {
	sink := NewBoundedSink(3)
	s.Require().NoError(sink.WriteAll([]byte{1, 2, 3}))
	s.Assert().ErrorIs(sink.WriteByte(4), ErrBufferTooSmall)
	s.Assert().Equal([]byte{1, 2, 3}, sink.Bytes())
}

func (s *SinkTestSuite) TestWriterSink() {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)
	s.Require().NoError(sink.WriteByte(0xAB))
	s.Require().NoError(sink.WriteAll([]byte{1, 2}))
	s.Assert().Equal([]byte{0xAB, 1, 2}, buf.Bytes())
}

func TestSinkSuite(t *testing.T) {
	suite.Run(t, new(SinkTestSuite))
}

func TestLimitedSource(t *testing.T) {
	t.Run("EnforcesBudget", func(t *testing.T) {
		src := NewLimitedSource(NewSliceSource([]byte{1, 2, 3, 4}), 2)

		_, err := src.ReadByte()
		require.NoError(t, err)
		require.NoError(t, src.SkipBytes(1))

		_, err = src.ReadByte()
		assert.ErrorIs(t, err, ErrLimitReached)
		_, err = src.PeekByte()
		assert.ErrorIs(t, err, ErrLimitReached)
	})

	t.Run("FailedReadKeepsBudget", func(t *testing.T) {
		src := NewLimitedSource(NewSliceSource([]byte{1}), 4)
		err := src.ReadExact(make([]byte, 2))
		assert.ErrorIs(t, err, ErrUnexpectedEnd)
		assert.Equal(t, 4, src.Remaining())
	})
}

func TestLimitedSink(t *testing.T) {
	sink := NewLimitedSink(NewBufferSink(nil), 3)
	require.NoError(t, sink.WriteAll([]byte{1, 2, 3}))
	assert.ErrorIs(t, sink.WriteByte(4), ErrLimitReached)
	assert.Equal(t, 0, sink.Remaining())
}

func TestScratch(t *testing.T) {
	t.Run("GrowsUnbounded", func(t *testing.T) {
		s := NewScratch(2)
		p, err := s.reserve(100)
		require.NoError(t, err)
		assert.Len(t, p, 100)
		s.Reset()
		assert.Empty(t, s.Bytes())
	})

	t.Run("BoundedRefusesOverflow", func(t *testing.T) {
		s := NewBoundedScratch(4)
		_, err := s.reserve(3)
		require.NoError(t, err)
		_, err = s.reserve(2)
		assert.ErrorIs(t, err, ErrBufferTooSmall)
	})
}
