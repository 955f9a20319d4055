// Package value defines the closed value union that graphclone operates on.
//
// Every datum is one of a fixed set of kinds. Primitives (Undefined, Null,
// Bool, Number, String) are immutable Go values. Everything else is a pointer
// type, so identity is pointer identity:
//   - *Instant and *Pattern are reference values without children
//   - *Sequence, *Map, *Set and *Record are composites
//   - *Opaque wraps anything the union does not model
//
// The package imports nothing internal. clone, document, harness and cli all
// build on it.
package value
