package clone

import "github.com/roach88/graphclone/internal/value"

// Overlap lists the reference values reachable from both original and
// clone, in the order a walk of clone first reaches them. Opaque values are
// left out: sharing them is what the Share policy asks for. A correct deep
// clone has no overlap.
func Overlap(original, clone value.Value) []value.Value {
	inOriginal := value.Occurrences(original)

	var out []value.Value
	visited := make(map[value.Value]bool)
	var walk func(v value.Value)
	walk = func(v value.Value) {
		if !value.IsReference(v) || visited[v] {
			return
		}
		visited[v] = true
		if _, opaque := v.(*value.Opaque); !opaque && inOriginal[v] > 0 {
			out = append(out, v)
		}
		value.Children(v, func(c value.Value) bool {
			walk(c)
			return true
		})
	}
	walk(clone)
	return out
}
