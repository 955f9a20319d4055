package value

import (
	"fmt"
	"strconv"
	"strings"
)

type stepKind int

const (
	stepField stepKind = iota // .name
	stepIndex                 // [n]
	stepKey                   // ["text"] or a map key
)

// Step is one hop in a Path.
type Step struct {
	kind  stepKind
	name  string
	index int
	key   Value
}

// FieldStep addresses a record field or a string map key.
func FieldStep(name string) Step { return Step{kind: stepField, name: name} }

// IndexStep addresses a sequence index or set position.
func IndexStep(i int) Step { return Step{kind: stepIndex, index: i} }

// KeyStep addresses a map entry by key.
func KeyStep(k Value) Step { return Step{kind: stepKey, key: k} }

func (s Step) String() string {
	switch s.kind {
	case stepField:
		return "." + s.name
	case stepIndex:
		return "[" + strconv.Itoa(s.index) + "]"
	default:
		switch k := s.key.(type) {
		case String:
			return "[" + strconv.Quote(string(k)) + "]"
		case Number:
			return "[" + FormatNumber(float64(k)) + "]"
		case Bool, Null, Undefined:
			return "[" + string(Canonical(k)) + "]"
		default:
			return "[<" + KindOf(k).String() + ">]"
		}
	}
}

// Path addresses a node inside a graph, relative to its root.
type Path []Step

// String renders the path rooted at $, e.g. $.b.d[2]["k"].
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

// Append returns p extended with s without aliasing p's backing array.
func (p Path) Append(s Step) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// ParsePath parses a path such as "b.d[2]", "$.h[\"key\"]" or "".
// A leading $ and a leading dot are both optional.
func ParsePath(s string) (Path, error) {
	src := s
	s = strings.TrimPrefix(s, "$")
	var path Path
	first := true
	for len(s) > 0 {
		switch {
		case s[0] == '[':
			end, step, err := parseBracket(s)
			if err != nil {
				return nil, fmt.Errorf("path %q: %w", src, err)
			}
			path = append(path, step)
			s = s[end:]
		case s[0] == '.' || first:
			if s[0] == '.' {
				s = s[1:]
			}
			n := strings.IndexAny(s, ".[]")
			if n < 0 {
				n = len(s)
			}
			if n == 0 {
				return nil, fmt.Errorf("path %q: empty field name", src)
			}
			path = append(path, FieldStep(s[:n]))
			s = s[n:]
		default:
			return nil, fmt.Errorf("path %q: unexpected %q", src, s[0])
		}
		first = false
	}
	return path, nil
}

// parseBracket parses a leading [n] or ["text"] and returns its length.
func parseBracket(s string) (int, Step, error) {
	if len(s) > 1 && s[1] == '"' {
		// Find the closing quote, honoring escapes.
		for i := 2; i < len(s); i++ {
			switch s[i] {
			case '\\':
				i++
			case '"':
				if i+1 >= len(s) || s[i+1] != ']' {
					return 0, Step{}, fmt.Errorf("missing ] after key")
				}
				text, err := strconv.Unquote(s[1 : i+1])
				if err != nil {
					return 0, Step{}, fmt.Errorf("bad key: %w", err)
				}
				return i + 2, KeyStep(String(text)), nil
			}
		}
		return 0, Step{}, fmt.Errorf("unterminated key")
	}

	end := strings.IndexByte(s, ']')
	if end < 0 {
		return 0, Step{}, fmt.Errorf("missing ]")
	}
	n, err := strconv.Atoi(s[1:end])
	if err != nil || n < 0 {
		return 0, Step{}, fmt.Errorf("bad index %q", s[1:end])
	}
	return end + 1, IndexStep(n), nil
}

// Resolve follows path from root.
func Resolve(root Value, path Path) (Value, error) {
	cur := root
	for i, step := range path {
		next, err := lookup(cur, step)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path[:i+1], err)
		}
		cur = next
	}
	return cur, nil
}

func lookup(v Value, s Step) (Value, error) {
	switch x := v.(type) {
	case *Record:
		name, ok := s.fieldName()
		if !ok {
			return nil, fmt.Errorf("record field must be text")
		}
		if fv, ok := x.Get(name); ok {
			return fv, nil
		}
		return nil, fmt.Errorf("no field %q", name)
	case *Sequence:
		if s.kind != stepIndex {
			return nil, fmt.Errorf("sequence needs an index")
		}
		if s.index >= x.Len() {
			return nil, fmt.Errorf("index %d out of range (len %d)", s.index, x.Len())
		}
		return x.At(s.index), nil
	case *Set:
		if s.kind != stepIndex {
			return nil, fmt.Errorf("set needs a position")
		}
		e, ok := x.At(s.index)
		if !ok {
			return nil, fmt.Errorf("position %d out of range (len %d)", s.index, x.Len())
		}
		return e, nil
	case *Map:
		mv, ok := x.Get(s.mapKey())
		if !ok {
			return nil, fmt.Errorf("no key %s", s)
		}
		return mv, nil
	default:
		return nil, fmt.Errorf("cannot step into %s", KindOf(v))
	}
}

// Assign stores v at path inside root. The parent must be a record,
// sequence or map; the empty path cannot be assigned.
func Assign(root Value, path Path, v Value) error {
	if len(path) == 0 {
		return fmt.Errorf("cannot assign to the root")
	}
	parent, err := Resolve(root, path[:len(path)-1])
	if err != nil {
		return err
	}
	last := path[len(path)-1]
	switch x := parent.(type) {
	case *Record:
		name, ok := last.fieldName()
		if !ok {
			return fmt.Errorf("%s: record field must be text", path)
		}
		x.Set(name, v)
	case *Sequence:
		if last.kind != stepIndex {
			return fmt.Errorf("%s: sequence needs an index", path)
		}
		if err := x.Put(last.index, v); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	case *Map:
		x.Set(last.mapKey(), v)
	default:
		return fmt.Errorf("%s: cannot assign into %s", path, KindOf(parent))
	}
	return nil
}

func (s Step) fieldName() (string, bool) {
	switch s.kind {
	case stepField:
		return s.name, true
	case stepIndex:
		return strconv.Itoa(s.index), true
	default:
		k, ok := s.key.(String)
		return string(k), ok
	}
}

func (s Step) mapKey() Value {
	switch s.kind {
	case stepField:
		return String(s.name)
	case stepIndex:
		return Number(s.index)
	default:
		return s.key
	}
}
