package value

import "math"

// Equal reports deep structural equality of a and b.
//
// Order matters for every container. Opaque values compare by identity,
// records compare shape by identity and enumerable fields by value.
// Cycles are handled coinductively: a pair already under comparison is
// assumed equal. Equal ignores sharing topology; compare Canonical output
// when topology matters.
func Equal(a, b Value) bool {
	e := equality{seen: make(map[valuePair]bool)}
	return e.equal(a, b)
}

type valuePair struct{ a, b Value }

type equality struct {
	seen map[valuePair]bool
}

func (e *equality) equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}

	switch x := a.(type) {
	case Number:
		y := b.(Number)
		return x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
	case Undefined, Null, Bool, String, *Opaque, nil:
		return a == b
	}

	if a == b {
		return true
	}
	p := valuePair{a, b}
	if e.seen[p] {
		return true
	}
	e.seen[p] = true

	switch x := a.(type) {
	case *Instant:
		return x.t.Equal(b.(*Instant).t)
	case *Pattern:
		y := b.(*Pattern)
		return x.source == y.source && x.flags == y.flags
	case *Sequence:
		y := b.(*Sequence)
		if len(x.elems) != len(y.elems) {
			return false
		}
		for i := range x.elems {
			if !e.equal(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	case *Map:
		y := b.(*Map)
		if len(x.keys) != len(y.keys) {
			return false
		}
		for i := range x.keys {
			if !e.equal(x.keys[i], y.keys[i]) || !e.equal(x.vals[i], y.vals[i]) {
				return false
			}
		}
		return true
	case *Set:
		y := b.(*Set)
		if len(x.elems) != len(y.elems) {
			return false
		}
		for i := range x.elems {
			if !e.equal(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	case *Record:
		y := b.(*Record)
		if x.shape != y.shape {
			return false
		}
		xk, yk := x.Keys(), y.Keys()
		if len(xk) != len(yk) {
			return false
		}
		for i, k := range xk {
			if k != yk[i] || !e.equal(x.fields[k].v, y.fields[k].v) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
