package brief

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type person struct {
	Name string `brief:"name"`
	Age  uint8  `brief:"age"`
}

// personWire is the full encoding of person{Name: "Holla", Age: 21} with
// name keys: a map of two string-keyed entries.
var personWire = []byte{
	17,                          // MapStart
	11, 4, 'n', 'a', 'm', 'e',   // key "name"
	11, 5, 'H', 'o', 'l', 'l', 'a', // value "Holla"
	11, 3, 'a', 'g', 'e',        // key "age"
	3, 21,                       // value 21
	18,                          // MapEnd
}

type MarshalTestSuite struct {
	suite.Suite
}

func (s *MarshalTestSuite) TestGoldenStruct() {
	data, err := Marshal(person{Name: "Holla", Age: 21})
	s.Require().NoError(err)
	s.Assert().Equal(personWire, data)

	var got person
	s.Require().NoError(Unmarshal(data, &got))
	s.Assert().Equal(person{Name: "Holla", Age: 21}, got)
}

func (s *MarshalTestSuite) TestIndexKeys() {
	cfg := DefaultConfig()
	cfg.UseIndices = true
	data, err := MarshalWithConfig(person{Name: "Holla", Age: 21}, cfg)
	s.Require().NoError(err)
	s.Assert().Equal([]byte{
		17,
		3, 0, 11, 5, 'H', 'o', 'l', 'l', 'a',
		3, 1, 3, 21,
		18,
	}, data)

	// Index-keyed data decodes without any configuration.
	var got person
	s.Require().NoError(Unmarshal(data, &got))
	s.Assert().Equal(person{Name: "Holla", Age: 21}, got)
}

func (s *MarshalTestSuite) TestPrimitiveRoundTrips() {
	type everything struct {
		B   bool
		I   int64
		U   uint32
		F32 float32
		F64 float64
		S   string
		R   rune
		Bs  []byte
		Is  []int
		M   map[string]uint64
		P   *uint64
	}
	seven := uint64(7)
	in := everything{
		B: true, I: -5000, U: 123456, F32: 1.5, F64: -2.25,
		S: "héllo", R: 'x', Bs: []byte{9, 8}, Is: []int{-1, 0, 1},
		M: map[string]uint64{"a": 1, "b": 2}, P: &seven,
	}
	data, err := Marshal(in)
	s.Require().NoError(err)

	var got everything
	s.Require().NoError(Unmarshal(data, &got))
	s.Assert().Equal(in, got)
}

func (s *MarshalTestSuite) TestNilsAndOptionals() {
	type opt struct {
		P *uint64
		S []int
		M map[string]int
	}
	data, err := Marshal(opt{})
	s.Require().NoError(err)

	var got opt
	s.Require().NoError(Unmarshal(data, &got))
	s.Assert().Nil(got.P)
	s.Assert().Empty(got.S)
	s.Assert().Empty(got.M)
}

func (s *MarshalTestSuite) TestOmitEmpty() {
	type note struct {
		Text string `brief:"text"`
		Tag  string `brief:"tag,omitempty"`
	}
	data, err := Marshal(note{Text: "hi"})
	s.Require().NoError(err)
	withTag, err := Marshal(note{Text: "hi", Tag: "t"})
	s.Require().NoError(err)
	s.Assert().Less(len(data), len(withTag))

	var got note
	s.Require().NoError(Unmarshal(data, &got))
	s.Assert().Equal(note{Text: "hi"}, got)
}

func (s *MarshalTestSuite) TestSkippedFieldConsumesIndex() {
	type v1 struct {
		A uint8 `brief:"a"`
		B uint8 `brief:"b"`
		C uint8 `brief:"c"`
	}
	type v2 struct {
		A uint8 `brief:"a"`
		B uint8 `brief:"-"`
		C uint8 `brief:"c"`
	}

	cfg := DefaultConfig()
	cfg.UseIndices = true
	data, err := MarshalWithConfig(v1{A: 1, B: 2, C: 3}, cfg)
	s.Require().NoError(err)

	// C keeps wire index 2 in both versions, so old data still lands right.
	var got v2
	s.Require().NoError(Unmarshal(data, &got))
	s.Assert().EqualValues(1, got.A)
	s.Assert().Zero(got.B)
	s.Assert().EqualValues(3, got.C)
}

func (s *MarshalTestSuite) TestUnknownFieldsSkipped() {
	type grown struct {
		Name  string `brief:"name"`
		Age   uint8  `brief:"age"`
		Extra []int  `brief:"extra"`
	}
	data, err := Marshal(grown{Name: "Holla", Age: 21, Extra: []int{1, 2}})
	s.Require().NoError(err)

	var got person
	s.Require().NoError(Unmarshal(data, &got))
	s.Assert().Equal(person{Name: "Holla", Age: 21}, got)
}

func (s *MarshalTestSuite) TestAddedFieldKeepsDefault() {
	// Old wire decodes into a grown declaration, leaving the new field
	// at its zero value.
	type personV2 struct {
		Name string `brief:"name"`
		Age  uint8  `brief:"age"`
		Nick string `brief:"nick"`
	}
	data, err := Marshal(person{Name: "Holla", Age: 21})
	s.Require().NoError(err)

	var got personV2
	s.Require().NoError(Unmarshal(data, &got))
	s.Assert().Equal(personV2{Name: "Holla", Age: 21}, got)
}

func (s *MarshalTestSuite) TestReorderedFieldsByName() {
	type abc struct {
		A uint8  `brief:"a"`
		B string `brief:"b"`
		C bool   `brief:"c"`
	}
	// Same fields, declared in a different order.
	type bca struct {
		B string `brief:"b"`
		C bool   `brief:"c"`
		A uint8  `brief:"a"`
	}
	data, err := Marshal(abc{A: 1, B: "two", C: true})
	s.Require().NoError(err)

	var got bca
	s.Require().NoError(Unmarshal(data, &got))
	s.Assert().Equal(bca{B: "two", C: true, A: 1}, got)

	// And back the other way.
	data, err = Marshal(got)
	s.Require().NoError(err)
	var back abc
	s.Require().NoError(Unmarshal(data, &back))
	s.Assert().Equal(abc{A: 1, B: "two", C: true}, back)
}

func (s *MarshalTestSuite) TestDeterministicMapOrder() {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	first, err := Marshal(m)
	s.Require().NoError(err)
	for i := 0; i < 10; i++ {
		again, err := Marshal(m)
		s.Require().NoError(err)
		s.Require().Equal(first, again)
	}
}

func (s *MarshalTestSuite) TestAnyFieldDecodesToValue() {
	data, err := Marshal(person{Name: "Holla", Age: 21})
	s.Require().NoError(err)

	var got any
	s.Require().NoError(Unmarshal(data, &got))
	v, ok := got.(Value)
	s.Require().True(ok)
	name, ok := v.Field("name", 0)
	s.Require().True(ok)
	str, _ := name.AsString()
	s.Assert().Equal("Holla", str)
}

func (s *MarshalTestSuite) TestByteArrayAsSequence() {
	in := [3]uint8{1, 2, 3}
	data, err := Marshal(in)
	s.Require().NoError(err)
	s.Assert().EqualValues(TypeSeqStart, data[0])

	var got [3]uint8
	s.Require().NoError(Unmarshal(data, &got))
	s.Assert().Equal(in, got)
}

func (s *MarshalTestSuite) TestBytesIntoIntSlice() {
	data, err := Marshal([]byte{10, 20})
	s.Require().NoError(err)

	var got []int
	s.Require().NoError(Unmarshal(data, &got))
	s.Assert().Equal([]int{10, 20}, got)
}

func (s *MarshalTestSuite) TestStringIntoRuneSlice() {
	data, err := Marshal("héllo")
	s.Require().NoError(err)

	var got []rune
	s.Require().NoError(Unmarshal(data, &got))
	s.Assert().Equal([]rune("héllo"), got)
}

func TestMarshalSuite(t *testing.T) {
	suite.Run(t, new(MarshalTestSuite))
}

func TestExcessData(t *testing.T) {
	data, err := Marshal(uint64(5))
	require.NoError(t, err)
	padded := append(data, 0)

	var got uint64
	assert.ErrorIs(t, Unmarshal(padded, &got), ErrExcessData)

	cfg := DefaultConfig()
	cfg.ErrorOnExcessData = false
	require.NoError(t, UnmarshalWithConfig(padded, &got, cfg))
	assert.EqualValues(t, 5, got)
}

func TestSizeLimits(t *testing.T) {
	big := person{Name: "a long enough name to blow a tiny budget", Age: 1}

	cfg := DefaultConfig()
	cfg.MaxSize = 8
	_, err := MarshalWithConfig(big, cfg)
	assert.ErrorIs(t, err, ErrLimitReached)

	data, err := Marshal(big)
	require.NoError(t, err)
	var got person
	assert.ErrorIs(t, UnmarshalWithConfig(data, &got, cfg), ErrLimitReached)

	cfg.MaxSize = len(data)
	require.NoError(t, UnmarshalWithConfig(data, &got, cfg))
}

func TestMarshalTo(t *testing.T) {
	buf := make([]byte, 64)
	data, err := MarshalTo(buf, person{Name: "Holla", Age: 21})
	require.NoError(t, err)
	assert.Equal(t, personWire, data)

	_, err = MarshalTo(make([]byte, 4), person{Name: "Holla", Age: 21})
	assert.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestMarshalBounded(t *testing.T) {
	data, err := MarshalBounded(uint64(300), 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 0xAC, 0x02}, data)

	_, err = MarshalBounded(person{Name: "Holla", Age: 21}, 4)
	assert.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestMarshalWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarshalWriter(&buf, person{Name: "Holla", Age: 21}))
	assert.Equal(t, personWire, buf.Bytes())
}

func TestUnmarshalReader(t *testing.T) {
	var got person
	require.NoError(t, UnmarshalReader(bytes.NewReader(personWire), &got))
	assert.Equal(t, person{Name: "Holla", Age: 21}, got)

	// Trailing bytes are rejected on the reader path too.
	padded := append(append([]byte(nil), personWire...), 0)
	err := UnmarshalReader(bytes.NewReader(padded), &got)
	assert.ErrorIs(t, err, ErrExcessData)
}

func TestBorrowedBytesAliasInput(t *testing.T) {
	type blob struct {
		Data []byte `brief:"data"`
	}
	data, err := Marshal(blob{Data: []byte{1, 2, 3}})
	require.NoError(t, err)

	var got blob
	require.NoError(t, Unmarshal(data, &got))
	require.Equal(t, []byte{1, 2, 3}, got.Data)

	// Mutating the input shows through: the decode did not copy.
	data[len(data)-3] = 99
	assert.EqualValues(t, 99, got.Data[1])
}

func TestReaderPathCopies(t *testing.T) {
	type blob struct {
		Data []byte `brief:"data"`
	}
	data, err := Marshal(blob{Data: []byte{1, 2, 3}})
	require.NoError(t, err)

	var got blob
	require.NoError(t, UnmarshalReader(bytes.NewReader(data), &got))
	data[len(data)-3] = 99
	assert.EqualValues(t, 2, got.Data[1])
}

// ticks encodes itself doubled on the wire, halving on the way back in.
type ticks uint64

func (t ticks) MarshalBrief(e *Encoder) error {
	e.EncodeUint(uint64(t) * 2)
	return e.Err()
}

func (t *ticks) UnmarshalBrief(d *Decoder) error {
	v, err := d.DecodeUint64()
	if err != nil {
		return err
	}
	*t = ticks(v / 2)
	return nil
}

func TestCustomMarshaler(t *testing.T) {
	data, err := Marshal(ticks(21))
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 42}, data)

	var got ticks
	require.NoError(t, Unmarshal(data, &got))
	assert.EqualValues(t, 21, got)

	// Custom codecs also apply to nested fields.
	type clock struct {
		T ticks `brief:"t"`
	}
	data, err = Marshal(clock{T: 3})
	require.NoError(t, err)
	var gotClock clock
	require.NoError(t, Unmarshal(data, &gotClock))
	assert.EqualValues(t, 3, gotClock.T)
}

func TestUnmarshalTargetValidation(t *testing.T) {
	data, err := Marshal(uint64(1))
	require.NoError(t, err)

	var u uint64
	assert.ErrorIs(t, Unmarshal(data, u), ErrNilTarget)
	assert.ErrorIs(t, Unmarshal(data, (*uint64)(nil)), ErrNilTarget)
}

func TestWrongShape(t *testing.T) {
	data, err := Marshal(true)
	require.NoError(t, err)

	var s string
	var wrong *WrongTypeError
	err = Unmarshal(data, &s)
	require.ErrorAs(t, err, &wrong)
	assert.EqualValues(t, TypeBooleanTrue, wrong.Found)
}
