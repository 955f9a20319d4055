// Package document reads and writes value graphs as YAML.
//
// The mapping between YAML and the value union:
//
//	null, true, 1, 1.5, .nan, "text"   primitives
//	!undefined                         Undefined
//	!instant 2024-01-02T03:04:05Z      Instant (a plain !!timestamp also works)
//	!pattern /source/flags             Pattern
//	[a, b]                             Sequence
//	!set [a, b]                        Set
//	!map {k: v}                        Map (keys may be any node)
//	{k: v}                             Record of the Object shape
//	!Point {k: v}                      Record of registry shape "Point"
//	!bare {k: v}                       Record without a shape
//	!opaque label                      Opaque
//
// Anchors and aliases express shared references. An alias to an enclosing
// anchor is a cycle. Encoding writes anchors n1, n2, ... for every node
// reached more than once.
package document
