package value

// Children calls yield for each direct child of v in traversal order:
// sequence and set elements, map keys and values interleaved, and record
// enumerable field values. Non-composites have no children.
func Children(v Value, yield func(Value) bool) {
	switch x := v.(type) {
	case *Sequence:
		for _, e := range x.elems {
			if !yield(e) {
				return
			}
		}
	case *Map:
		for i, k := range x.keys {
			if !yield(k) || !yield(x.vals[i]) {
				return
			}
		}
	case *Set:
		for _, e := range x.elems {
			if !yield(e) {
				return
			}
		}
	case *Record:
		for _, val := range x.All() {
			if !yield(val) {
				return
			}
		}
	}
}

// Occurrences counts how many times each reference value is reached from
// root, counting root itself once. A count above one means the node is
// shared or sits on a cycle.
func Occurrences(root Value) map[Value]int {
	counts := make(map[Value]int)
	var walk func(v Value)
	walk = func(v Value) {
		if !IsReference(v) {
			return
		}
		counts[v]++
		if counts[v] > 1 {
			return
		}
		Children(v, func(c Value) bool {
			walk(c)
			return true
		})
	}
	walk(root)
	return counts
}

// Reachable returns every reference value reachable from root, root included.
func Reachable(root Value) []Value {
	counts := Occurrences(root)
	out := make([]Value, 0, len(counts))
	for v := range counts {
		out = append(out, v)
	}
	return out
}
