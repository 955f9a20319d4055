// Package clone implements GraphCloner: deep duplication of a value graph
// that preserves cycles and shared references.
//
// The algorithm is a depth-first descent with an identity map from original
// node to clone. The map is created per call and dropped when the call
// returns, so nothing leaks between invocations and a Cloner may be used
// from many goroutines at once.
//
// Ordering invariant: every composite clone is registered in the identity
// map before any of its children are cloned. A child that refers back to an
// ancestor therefore resolves to the in-progress clone.
//
// Instants and patterns go through the identity map as well. Two references
// to one instant come out as two references to one new instant, not as two
// separate copies. Mutating that instant through either reference in the
// clone is visible through the other.
//
// Values the union does not model (value.Opaque) are shared by default.
// WithUnsupported(Reject) turns them into an UNSUPPORTED_KIND error instead.
package clone
