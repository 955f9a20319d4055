package value

import (
	"bytes"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Canonical renders v as deterministic text capturing content and topology.
//
// Format:
//   - primitives: undefined, null, true, false, numbers, Go-quoted NFC strings
//   - instant: @ followed by RFC 3339 in UTC; pattern: /"source"/flags
//   - sequence [a,b], map map{k:v}, set set{a,b}
//   - record {"k":v}; shaped records prefix the quoted shape name, nil
//     shape (bare)
//   - opaque: opaque("label")
//
// A reference reached more than once is labeled &n on first render and
// written *n afterwards, n counting from 1 in render order. Two graphs with
// equal Canonical output have the same content, order and sharing.
func Canonical(v Value) []byte {
	c := &canonicalizer{
		counts: Occurrences(v),
		labels: make(map[Value]int),
	}
	c.write(v)
	return c.buf.Bytes()
}

type canonicalizer struct {
	buf    bytes.Buffer
	counts map[Value]int
	labels map[Value]int
	next   int
}

func (c *canonicalizer) write(v Value) {
	switch x := v.(type) {
	case nil:
		c.buf.WriteString("<nil>")
		return
	case Undefined:
		c.buf.WriteString("undefined")
		return
	case Null:
		c.buf.WriteString("null")
		return
	case Bool:
		c.buf.WriteString(strconv.FormatBool(bool(x)))
		return
	case Number:
		c.buf.WriteString(FormatNumber(float64(x)))
		return
	case String:
		c.writeString(string(x))
		return
	}

	if n, ok := c.labels[v]; ok {
		c.buf.WriteByte('*')
		c.buf.WriteString(strconv.Itoa(n))
		return
	}
	if c.counts[v] > 1 {
		c.next++
		c.labels[v] = c.next
		c.buf.WriteByte('&')
		c.buf.WriteString(strconv.Itoa(c.next))
	}

	switch x := v.(type) {
	case *Instant:
		c.buf.WriteByte('@')
		c.buf.WriteString(x.t.UTC().Format(time.RFC3339Nano))
	case *Pattern:
		c.buf.WriteByte('/')
		c.writeString(x.source)
		c.buf.WriteByte('/')
		c.buf.WriteString(x.flags)
	case *Opaque:
		c.buf.WriteString("opaque(")
		c.writeString(x.label)
		c.buf.WriteByte(')')
	case *Sequence:
		c.buf.WriteByte('[')
		for i, e := range x.elems {
			if i > 0 {
				c.buf.WriteByte(',')
			}
			c.write(e)
		}
		c.buf.WriteByte(']')
	case *Map:
		c.buf.WriteString("map{")
		for i, k := range x.keys {
			if i > 0 {
				c.buf.WriteByte(',')
			}
			c.write(k)
			c.buf.WriteByte(':')
			c.write(x.vals[i])
		}
		c.buf.WriteByte('}')
	case *Set:
		c.buf.WriteString("set{")
		for i, e := range x.elems {
			if i > 0 {
				c.buf.WriteByte(',')
			}
			c.write(e)
		}
		c.buf.WriteByte('}')
	case *Record:
		switch {
		case x.shape == nil:
			c.buf.WriteString("(bare)")
		case x.shape != ObjectShape():
			c.writeString(x.shape.name)
		}
		c.buf.WriteByte('{')
		i := 0
		for k, fv := range x.All() {
			if i > 0 {
				c.buf.WriteByte(',')
			}
			c.writeString(k)
			c.buf.WriteByte(':')
			c.write(fv)
			i++
		}
		c.buf.WriteByte('}')
	}
}

// writeString writes s NFC-normalised and quoted.
func (c *canonicalizer) writeString(s string) {
	c.buf.WriteString(strconv.Quote(norm.NFC.String(s)))
}

// FormatNumber renders f the way Canonical does: integers without exponent
// below 1e21, NaN, Infinity, -Infinity and -0 spelled out.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0 && math.Signbit(f):
		return "-0"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
