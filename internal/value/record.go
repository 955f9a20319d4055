package value

import (
	"fmt"
	"iter"
	"slices"
	"sync"
)

// Method is behavior attached to a Shape and invoked on a record.
type Method func(self *Record, args ...Value) (Value, error)

// Shape describes what a record was constructed from: a name, a parent,
// inherited default fields and methods. Shapes are shared by every record
// built from them and are never cloned.
type Shape struct {
	name     string
	parent   *Shape
	defaults map[string]Value
	methods  map[string]Method
}

// NewShape creates a shape deriving from parent (which may be nil).
func NewShape(name string, parent *Shape) *Shape {
	return &Shape{
		name:     name,
		parent:   parent,
		defaults: make(map[string]Value),
		methods:  make(map[string]Method),
	}
}

var objectShape = sync.OnceValue(func() *Shape {
	return NewShape("Object", nil)
})

// ObjectShape returns the shape of plain records.
func ObjectShape() *Shape { return objectShape() }

// Name returns the shape name.
func (s *Shape) Name() string { return s.name }

// Parent returns the parent shape, or nil.
func (s *Shape) Parent() *Shape { return s.parent }

// Define sets an inherited default field.
func (s *Shape) Define(name string, v Value) *Shape {
	s.defaults[name] = v
	return s
}

// Method attaches behavior under name.
func (s *Shape) Method(name string, fn Method) *Shape {
	s.methods[name] = fn
	return s
}

// Is reports whether s is other or derives from it.
func (s *Shape) Is(other *Shape) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

func (s *Shape) lookupDefault(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.defaults[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *Shape) lookupMethod(name string) (Method, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if fn, ok := cur.methods[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// ShapeRegistry hands out one Shape per name.
// Shapes created here derive from ObjectShape.
type ShapeRegistry struct {
	mu     sync.Mutex
	byName map[string]*Shape
}

// NewShapeRegistry creates a registry seeded with ObjectShape.
func NewShapeRegistry() *ShapeRegistry {
	obj := ObjectShape()
	return &ShapeRegistry{byName: map[string]*Shape{obj.Name(): obj}}
}

// Register adds s under its name, replacing any previous entry.
func (r *ShapeRegistry) Register(s *Shape) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[s.Name()] = s
}

// Get returns the shape named name, creating it on first use.
func (r *ShapeRegistry) Get(name string) *Shape {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byName[name]; ok {
		return s
	}
	s := NewShape(name, ObjectShape())
	r.byName[name] = s
	return s
}

type recordField struct {
	v      Value
	hidden bool
}

// Record is a keyed bag of named fields with a shape.
// Own fields keep insertion order; hidden fields are own but not
// enumerable. The zero value is an empty record with a nil shape.
type Record struct {
	shape  *Shape
	names  []string
	fields map[string]recordField
}

func (*Record) value() {}

// NewRecord creates an empty record of shape (nil is allowed).
func NewRecord(shape *Shape) *Record {
	return &Record{shape: shape, fields: make(map[string]recordField)}
}

// NewObject creates a plain record from fields in order.
func NewObject(fields ...Field) *Record {
	r := NewRecord(ObjectShape())
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Shape returns the record's shape, or nil.
func (r *Record) Shape() *Shape { return r.shape }

// Set stores an enumerable own field. An existing field keeps its position
// and becomes enumerable.
func (r *Record) Set(name string, v Value) *Record {
	r.put(name, v, false)
	return r
}

// Hide stores a non-enumerable own field.
func (r *Record) Hide(name string, v Value) *Record {
	r.put(name, v, true)
	return r
}

func (r *Record) put(name string, v Value, hidden bool) {
	if r.fields == nil {
		r.fields = make(map[string]recordField)
	}
	if _, ok := r.fields[name]; !ok {
		r.names = append(r.names, name)
	}
	r.fields[name] = recordField{v: v, hidden: hidden}
}

// Own returns an own field, enumerable or hidden.
func (r *Record) Own(name string) (Value, bool) {
	f, ok := r.fields[name]
	return f.v, ok
}

// Get returns an own field, falling back to the shape chain.
func (r *Record) Get(name string) (Value, bool) {
	if f, ok := r.fields[name]; ok {
		return f.v, true
	}
	if r.shape == nil {
		return nil, false
	}
	return r.shape.lookupDefault(name)
}

// Delete removes an own field, reporting whether it existed.
func (r *Record) Delete(name string) bool {
	if _, ok := r.fields[name]; !ok {
		return false
	}
	delete(r.fields, name)
	r.names = slices.DeleteFunc(r.names, func(n string) bool { return n == name })
	return true
}

// Keys returns own enumerable field names in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.names))
	for _, n := range r.names {
		if !r.fields[n].hidden {
			keys = append(keys, n)
		}
	}
	return keys
}

// Len returns the number of own enumerable fields.
func (r *Record) Len() int {
	n := 0
	for _, f := range r.fields {
		if !f.hidden {
			n++
		}
	}
	return n
}

// All iterates own enumerable fields in insertion order.
func (r *Record) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, n := range r.names {
			f := r.fields[n]
			if f.hidden {
				continue
			}
			if !yield(n, f.v) {
				return
			}
		}
	}
}

// Call invokes the shape method name with r as receiver.
func (r *Record) Call(name string, args ...Value) (Value, error) {
	if r.shape != nil {
		if fn, ok := r.shape.lookupMethod(name); ok {
			return fn(r, args...)
		}
	}
	return nil, fmt.Errorf("record has no method %q", name)
}
