package value

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// Value is a sealed interface over the supported kinds.
// Only the types in this package implement it.
type Value interface {
	value() // Sealed
}

// Undefined is the absence value.
type Undefined struct{}

func (Undefined) value() {}

// Null is the explicit null value.
type Null struct{}

func (Null) value() {}

// Bool is a boolean primitive.
type Bool bool

func (Bool) value() {}

// Number is a double precision number primitive.
type Number float64

func (Number) value() {}

// String is a text primitive.
type String string

func (String) value() {}

// Instant is a mutable point in time.
type Instant struct {
	t time.Time
}

func (*Instant) value() {}

// NewInstant creates an Instant at t.
func NewInstant(t time.Time) *Instant {
	return &Instant{t: t}
}

// Time returns the instant as a time.Time.
func (i *Instant) Time() time.Time { return i.t }

// SetTime moves the instant to t.
func (i *Instant) SetTime(t time.Time) { i.t = t }

// EpochMillis returns milliseconds since the Unix epoch.
func (i *Instant) EpochMillis() int64 { return i.t.UnixMilli() }

// Opaque carries a Go value the union does not model, such as a callable or
// a native handle. Cloning shares or rejects it depending on policy.
type Opaque struct {
	label string
	v     any
}

func (*Opaque) value() {}

// NewOpaque wraps v under a descriptive label.
func NewOpaque(label string, v any) *Opaque {
	return &Opaque{label: label, v: v}
}

// Label returns the descriptive label.
func (o *Opaque) Label() string { return o.label }

// Unwrap returns the wrapped Go value.
func (o *Opaque) Unwrap() any { return o.v }

// Field is a name/value pair for record construction.
type Field struct {
	Name  string
	Value Value
}

// F is shorthand for Field.
// Example: NewObject(F("a", Number(1)), F("b", String("x")))
func F(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// From converts plain Go data into a Value.
// Supported: nil, bool, ints, floats, string, time.Time, []any,
// map[string]any (sorted keys become record fields) and Values themselves.
func From(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case float64:
		return Number(val), nil
	case string:
		return String(val), nil
	case time.Time:
		return NewInstant(val), nil
	case []any:
		seq := NewSequence()
		for i, elem := range val {
			ev, err := From(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			seq.Append(ev)
		}
		return seq, nil
	case map[string]any:
		rec := NewRecord(ObjectShape())
		for _, k := range slices.Sorted(maps.Keys(val)) {
			ev, err := From(val[k])
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			rec.Set(k, ev)
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}
