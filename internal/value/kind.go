package value

// Kind identifies which case of the union a Value is.
type Kind int

const (
	KindInvalid Kind = iota
	KindUndefined
	KindNull
	KindBool
	KindNumber
	KindString
	KindInstant
	KindPattern
	KindSequence
	KindMap
	KindSet
	KindRecord
	KindOpaque
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindUndefined: "undefined",
	KindNull:      "null",
	KindBool:      "bool",
	KindNumber:    "number",
	KindString:    "string",
	KindInstant:   "instant",
	KindPattern:   "pattern",
	KindSequence:  "sequence",
	KindMap:       "map",
	KindSet:       "set",
	KindRecord:    "record",
	KindOpaque:    "opaque",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// KindOf reports the kind of v. A nil Value is KindInvalid.
func KindOf(v Value) Kind {
	switch v.(type) {
	case Undefined:
		return KindUndefined
	case Null:
		return KindNull
	case Bool:
		return KindBool
	case Number:
		return KindNumber
	case String:
		return KindString
	case *Instant:
		return KindInstant
	case *Pattern:
		return KindPattern
	case *Sequence:
		return KindSequence
	case *Map:
		return KindMap
	case *Set:
		return KindSet
	case *Record:
		return KindRecord
	case *Opaque:
		return KindOpaque
	default:
		return KindInvalid
	}
}

// IsPrimitive reports whether v is an immutable primitive.
func IsPrimitive(v Value) bool {
	switch KindOf(v) {
	case KindUndefined, KindNull, KindBool, KindNumber, KindString:
		return true
	}
	return false
}

// IsComposite reports whether v is a container with children.
func IsComposite(v Value) bool {
	switch KindOf(v) {
	case KindSequence, KindMap, KindSet, KindRecord:
		return true
	}
	return false
}

// IsReference reports whether v has pointer identity
// (every kind that is not a primitive).
func IsReference(v Value) bool {
	k := KindOf(v)
	return k != KindInvalid && !IsPrimitive(v)
}
