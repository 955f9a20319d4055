package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	seq := NewSequence(Number(3), Number(4))
	seq.Append(String("x"))

	assert.Equal(t, 3, seq.Len())
	assert.Equal(t, Number(4), seq.At(1))
	assert.Equal(t, Undefined{}, seq.At(9))

	require.NoError(t, seq.Put(0, Bool(true)))
	require.NoError(t, seq.Put(3, Null{}))
	require.NoError(t, seq.Put(5, Number(1)))
	assert.Equal(t, `[true,4,"x",null,undefined,1]`, string(Canonical(seq)))

	require.Error(t, seq.Put(-1, Null{}))
}

func TestSequenceConstructorCopies(t *testing.T) {
	elems := []Value{Number(1), Number(2)}
	seq := NewSequence(elems...)
	elems[0] = Number(99)

	assert.Equal(t, Number(1), seq.At(0))

	vals := seq.Values()
	vals[1] = Number(99)
	assert.Equal(t, Number(2), seq.At(1))
}

func TestMapInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set(String("z"), Number(1)).Set(String("a"), Number(2)).Set(Number(5), Number(3))
	m.Set(String("z"), Number(10)) // existing key keeps position

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []Value{String("z"), String("a"), Number(5)}, m.Keys())

	v, ok := m.Get(String("z"))
	require.True(t, ok)
	assert.Equal(t, Number(10), v)
}

func TestMapSameValueZero(t *testing.T) {
	m := NewMap()
	m.Set(Number(math.NaN()), String("nan"))
	m.Set(Number(math.Copysign(0, -1)), String("zero"))

	v, ok := m.Get(Number(math.NaN()))
	require.True(t, ok)
	assert.Equal(t, String("nan"), v)

	v, ok = m.Get(Number(0))
	require.True(t, ok)
	assert.Equal(t, String("zero"), v)

	// Number and String keys stay distinct.
	assert.False(t, m.Has(String("0")))
}

func TestMapReferenceKeys(t *testing.T) {
	k1 := NewObject()
	k2 := NewObject()
	m := NewMap().Set(k1, Number(1))

	assert.True(t, m.Has(k1))
	assert.False(t, m.Has(k2), "structurally equal keys are different identities")
}

func TestMapDelete(t *testing.T) {
	m := NewMap().Set(String("a"), Number(1)).Set(String("b"), Number(2)).Set(String("c"), Number(3))

	assert.True(t, m.Delete(String("a")))
	assert.False(t, m.Delete(String("a")))
	assert.Equal(t, `map{"b":2,"c":3}`, string(Canonical(m)))

	v, ok := m.Get(String("c"))
	require.True(t, ok)
	assert.Equal(t, Number(3), v)
}

func TestSet(t *testing.T) {
	s := NewSet(Number(1), Number(2), Number(1), Number(3))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, `set{1,2,3}`, string(Canonical(s)))

	s.Add(Number(2))
	assert.Equal(t, 3, s.Len())

	assert.True(t, s.Delete(Number(1)))
	assert.True(t, s.Has(Number(3)))
	assert.False(t, s.Has(Number(1)))

	e, ok := s.At(0)
	require.True(t, ok)
	assert.Equal(t, Number(2), e)
	_, ok = s.At(5)
	assert.False(t, ok)
}

func TestCollectionsIterateInOrder(t *testing.T) {
	m := NewMap().Set(String("x"), Number(1)).Set(String("y"), Number(2))
	var keys []Value
	for k := range m.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []Value{String("x"), String("y")}, keys)

	var elems []Value
	for e := range NewSet(String("b"), String("a")).All() {
		elems = append(elems, e)
	}
	assert.Equal(t, []Value{String("b"), String("a")}, elems)
}

func TestZeroValueCollections(t *testing.T) {
	var m Map
	assert.False(t, m.Has(String("k")))
	assert.False(t, m.Delete(String("k")))
	m.Set(String("k"), Number(1)).Set(Number(2), Number(3))
	v, ok := m.Get(String("k"))
	require.True(t, ok)
	assert.Equal(t, Number(1), v)
	assert.Equal(t, 2, m.Len())

	var s Set
	assert.False(t, s.Has(Number(1)))
	s.Add(Number(1)).Add(Number(1)).Add(String("x"))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Delete(Number(1)))
	assert.Equal(t, []Value{String("x")}, s.Values())
}
