// Package harness runs clone conformance scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files. The input graph uses the document codec's
// dialect, so anchors and aliases express sharing and cycles:
//
//	name: nested_cycle
//	description: "Cycles survive and mutations stay on their side"
//	input: &root
//	  a: 1
//	  b: {c: 2, d: [3, 4, {e: 5}]}
//	  circular: *root
//	options:
//	  unsupported: reject
//	mutations:
//	  - target: clone
//	    path: b.d[2].e
//	    set: 999
//	assertions:
//	  - type: equal
//	  - type: same_node
//	    paths: ["$", circular]
//	  - type: value
//	    target: original
//	    path: b.d[2].e
//	    expect: 5
//
// # Assertion Types
//
//   - equal: clone equals the original before mutations
//   - fingerprint_match: fingerprints agree before mutations
//   - independent: no reference value is reachable from both graphs
//   - distinct / shared: identity of the value at path across graphs
//   - same_node: several paths reach one object inside the clone
//   - value: the value at path in target equals expect
//   - error: cloning fails with the given code
//
// # Snapshots
//
// Every run ends with a snapshot of the canonical original and clone after
// mutations. Canonical text carries content and topology but no addresses,
// so snapshots are deterministic and compared against golden files.
package harness
