package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", "$"},
		{"$", "$"},
		{"a", "$.a"},
		{"$.a", "$.a"},
		{".a.b", "$.a.b"},
		{"b.d[2].e", "$.b.d[2].e"},
		{`h["key"]`, `$.h["key"]`},
		{`[0]["a.b"]`, `$[0]["a.b"]`},
		{`["q\"x"]`, `$["q\"x"]`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.String())
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, in := range []string{"a..b", "a[", "a[x]", "a[-1]", `a["x`, `a["x"`, "a]"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePath(in)
			assert.Error(t, err)
		})
	}
}

func testGraph() *Record {
	return NewObject(
		F("a", Number(1)),
		F("b", NewObject(
			F("c", Number(2)),
			F("d", NewSequence(Number(3), Number(4), NewObject(F("e", Number(5))))),
		)),
		F("h", NewMap().Set(String("key"), String("value")).Set(Number(7), String("seven"))),
		F("i", NewSet(Number(1), Number(2), Number(3))),
	)
}

func TestResolve(t *testing.T) {
	root := testGraph()

	tests := []struct {
		path     string
		expected Value
	}{
		{"a", Number(1)},
		{"b.c", Number(2)},
		{"b.d[1]", Number(4)},
		{"b.d[2].e", Number(5)},
		{`b["c"]`, Number(2)},
		{"h.key", String("value")},
		{`h["key"]`, String("value")},
		{"h[7]", String("seven")},
		{"i[2]", Number(3)},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := ParsePath(tt.path)
			require.NoError(t, err)
			got, err := Resolve(root, p)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	got, err := Resolve(root, nil)
	require.NoError(t, err)
	assert.Same(t, root, got)
}

func TestResolveErrors(t *testing.T) {
	root := testGraph()

	tests := []struct {
		path   string
		errMsg string
	}{
		{"zz", `no field "zz"`},
		{"b.d[9]", "out of range"},
		{"b.d.x", "sequence needs an index"},
		{"a.x", "cannot step into number"},
		{"i.x", "set needs a position"},
		{"h.nope", "no key"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := ParsePath(tt.path)
			require.NoError(t, err)
			_, err = Resolve(root, p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestAssign(t *testing.T) {
	root := testGraph()

	for path, v := range map[string]Value{
		"b.c":      Number(999),
		"b.d[3]":   String("appended"),
		"h.key":    String("changed"),
		"new":      Bool(true),
		`h["new"]`: Null{},
	} {
		p, err := ParsePath(path)
		require.NoError(t, err)
		require.NoError(t, Assign(root, p, v), path)

		got, err := Resolve(root, p)
		require.NoError(t, err)
		assert.Equal(t, v, got, path)
	}
}

func TestAssignErrors(t *testing.T) {
	root := testGraph()

	require.Error(t, Assign(root, nil, Number(1)))

	p, _ := ParsePath("i[0]")
	require.Error(t, Assign(root, p, Number(1)))

	p, _ = ParsePath("b.d.x")
	require.Error(t, Assign(root, p, Number(1)))

	p, _ = ParsePath("missing.x")
	require.Error(t, Assign(root, p, Number(1)))
}

func TestPathAppendDoesNotAlias(t *testing.T) {
	base := Path{FieldStep("a")}
	p1 := base.Append(IndexStep(1))
	p2 := base.Append(KeyStep(String("k")))

	assert.Equal(t, `$.a[1]`, p1.String())
	assert.Equal(t, `$.a["k"]`, p2.String())
	assert.Equal(t, `$.a[<record>]`, base.Append(KeyStep(NewObject())).String())
}
