package value

import (
	"fmt"
	"iter"
	"math"
	"slices"
)

// Sequence is an indexable, ordered collection.
type Sequence struct {
	elems []Value
}

func (*Sequence) value() {}

// NewSequence creates a sequence holding elems in order.
func NewSequence(elems ...Value) *Sequence {
	return &Sequence{elems: slices.Clone(elems)}
}

// Len returns the number of elements.
func (s *Sequence) Len() int { return len(s.elems) }

// At returns the element at i. Out of range yields Undefined.
func (s *Sequence) At(i int) Value {
	if i < 0 || i >= len(s.elems) {
		return Undefined{}
	}
	return s.elems[i]
}

// Put stores v at i. Writing at Len() appends; beyond that pads with
// Undefined.
func (s *Sequence) Put(i int, v Value) error {
	if i < 0 {
		return fmt.Errorf("index %d out of range", i)
	}
	for len(s.elems) < i {
		s.elems = append(s.elems, Undefined{})
	}
	if i == len(s.elems) {
		s.elems = append(s.elems, v)
		return nil
	}
	s.elems[i] = v
	return nil
}

// Append adds values at the end.
func (s *Sequence) Append(vals ...Value) {
	s.elems = append(s.elems, vals...)
}

// Grow ensures room for n more elements.
func (s *Sequence) Grow(n int) {
	s.elems = slices.Grow(s.elems, n)
}

// All iterates index/element pairs in order.
func (s *Sequence) All() iter.Seq2[int, Value] {
	return slices.All(s.elems)
}

// Values returns a copy of the elements.
func (s *Sequence) Values() []Value {
	return slices.Clone(s.elems)
}

// nanKey stands in for NaN so that NaN keys collide with each other.
type nanKey struct{}

func (nanKey) value() {}

// keyOf maps a Value to its SameValueZero identity: primitives by value,
// NaN equal to NaN, -0 equal to +0, references by pointer.
func keyOf(v Value) Value {
	if n, ok := v.(Number); ok {
		f := float64(n)
		if math.IsNaN(f) {
			return nanKey{}
		}
		if f == 0 {
			return Number(0)
		}
	}
	return v
}

// Map is an insertion-ordered map from Value keys to Values.
// The zero value is an empty map ready to use.
type Map struct {
	keys  []Value
	vals  []Value
	index map[Value]int
}

func (*Map) value() {}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{index: make(map[Value]int)}
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Set stores v under k. An existing key keeps its position.
func (m *Map) Set(k, v Value) *Map {
	id := keyOf(k)
	if i, ok := m.index[id]; ok {
		m.vals[i] = v
		return m
	}
	if m.index == nil {
		m.index = make(map[Value]int)
	}
	m.index[id] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
	return m
}

// Get returns the value stored under k.
func (m *Map) Get(k Value) (Value, bool) {
	i, ok := m.index[keyOf(k)]
	if !ok {
		return nil, false
	}
	return m.vals[i], true
}

// Has reports whether k is present.
func (m *Map) Has(k Value) bool {
	_, ok := m.index[keyOf(k)]
	return ok
}

// Delete removes k, reporting whether it was present.
func (m *Map) Delete(k Value) bool {
	id := keyOf(k)
	i, ok := m.index[id]
	if !ok {
		return false
	}
	m.keys = slices.Delete(m.keys, i, i+1)
	m.vals = slices.Delete(m.vals, i, i+1)
	delete(m.index, id)
	for j := i; j < len(m.keys); j++ {
		m.index[keyOf(m.keys[j])] = j
	}
	return true
}

// All iterates entries in insertion order.
func (m *Map) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []Value {
	return slices.Clone(m.keys)
}

// Set is an insertion-ordered collection of unique Values.
// The zero value is an empty set ready to use.
type Set struct {
	elems []Value
	index map[Value]int
}

func (*Set) value() {}

// NewSet creates a set from elems; duplicates collapse onto the first.
func NewSet(elems ...Value) *Set {
	s := &Set{index: make(map[Value]int, len(elems))}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.elems) }

// Add inserts v if absent.
func (s *Set) Add(v Value) *Set {
	id := keyOf(v)
	if _, ok := s.index[id]; ok {
		return s
	}
	if s.index == nil {
		s.index = make(map[Value]int)
	}
	s.index[id] = len(s.elems)
	s.elems = append(s.elems, v)
	return s
}

// Has reports whether v is present.
func (s *Set) Has(v Value) bool {
	_, ok := s.index[keyOf(v)]
	return ok
}

// Delete removes v, reporting whether it was present.
func (s *Set) Delete(v Value) bool {
	id := keyOf(v)
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.elems = slices.Delete(s.elems, i, i+1)
	delete(s.index, id)
	for j := i; j < len(s.elems); j++ {
		s.index[keyOf(s.elems[j])] = j
	}
	return true
}

// At returns the i-th element in iteration order.
func (s *Set) At(i int) (Value, bool) {
	if i < 0 || i >= len(s.elems) {
		return nil, false
	}
	return s.elems[i], true
}

// All iterates elements in insertion order.
func (s *Set) All() iter.Seq[Value] {
	return slices.Values(s.elems)
}

// Values returns a copy of the elements.
func (s *Set) Values() []Value {
	return slices.Clone(s.elems)
}
