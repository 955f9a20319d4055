package document

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphclone/internal/value"
)

const sampleDoc = `
a: 1
b: &b
  c: 2
  d: [3, 4, {e: 5}]
f: !instant 2024-03-01T12:00:00Z
g: !pattern /pattern/gi
h: !map
  key: value
  7: seven
  ? [1, 2]
  : pair
i: !set [1, 2, 3, 2]
j: !undefined
k: null
l: "1"
m: .nan
n: 2024-01-02
s: *b
o: !opaque callable
p: !Point {x: 1, y: 2}
q: !bare {z: true}
`

func TestDecodeSample(t *testing.T) {
	v, err := Decode([]byte(sampleDoc))
	require.NoError(t, err)

	expected := `{"a":1,"b":&1{"c":2,"d":[3,4,{"e":5}]},"f":@2024-03-01T12:00:00Z,"g":/"pattern"/gi,` +
		`"h":map{"key":"value",7:"seven",[1,2]:"pair"},"i":set{1,2,3},"j":undefined,"k":null,"l":"1",` +
		`"m":NaN,"n":@2024-01-02T00:00:00Z,"s":*1,"o":opaque("callable"),"p":"Point"{"x":1,"y":2},"q":(bare){"z":true}}`
	assert.Equal(t, expected, string(value.Canonical(v)))
}

func TestDecodeKinds(t *testing.T) {
	v, err := Decode([]byte(sampleDoc))
	require.NoError(t, err)
	root := v.(*value.Record)

	get := func(name string) value.Value {
		fv, ok := root.Get(name)
		require.True(t, ok, name)
		return fv
	}

	assert.Same(t, value.ObjectShape(), root.Shape())
	assert.Same(t, get("b"), get("s"), "alias resolves to the anchored node")

	f := get("f").(*value.Instant)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli(), f.EpochMillis())

	g := get("g").(*value.Pattern)
	assert.Equal(t, "gi", g.Flags())

	assert.Equal(t, value.String("1"), get("l"))
	assert.True(t, math.IsNaN(float64(get("m").(value.Number))))
	assert.Equal(t, value.Undefined{}, get("j"))
	assert.Nil(t, get("q").(*value.Record).Shape())
	assert.Equal(t, "Point", get("p").(*value.Record).Shape().Name())
}

func TestDecodeCycles(t *testing.T) {
	t.Run("nested", func(t *testing.T) {
		v, err := Decode([]byte("root: &r {name: loop, self: *r}\n"))
		require.NoError(t, err)

		root, _ := v.(*value.Record).Get("root")
		self, _ := root.(*value.Record).Get("self")
		assert.Same(t, root, self)
	})

	t.Run("root", func(t *testing.T) {
		v, err := Decode([]byte("&r {self: *r}\n"))
		require.NoError(t, err)
		assert.Equal(t, `&1{"self":*1}`, string(value.Canonical(v)))
	})

	t.Run("through sequence", func(t *testing.T) {
		v, err := Decode([]byte("&l [1, *l]\n"))
		require.NoError(t, err)
		seq := v.(*value.Sequence)
		assert.Same(t, seq, seq.At(1))
	})
}

func TestShapesSharedWithinCodec(t *testing.T) {
	c := NewCodec(nil)
	a, err := c.Decode([]byte("!Point {x: 1}\n"))
	require.NoError(t, err)
	b, err := c.Decode([]byte("!Point {x: 2}\n"))
	require.NoError(t, err)

	assert.Same(t, a.(*value.Record).Shape(), b.(*value.Record).Shape())
	assert.Same(t, c.Shapes().Get("Point"), a.(*value.Record).Shape())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		errMsg string
	}{
		{"empty", "", "empty document"},
		{"bad yaml", "a: [1, 2", "failed to parse YAML"},
		{"unknown anchor", "a: *nope\n", "failed to parse YAML"},
		{"binary", "a: !!binary aGVsbG8=\n", "unsupported scalar tag !!binary"},
		{"scalar shape tag", "a: !Point 5\n", "unsupported scalar tag !Point"},
		{"reserved mapping tag", "a: !set {x: 1}\n", "unsupported mapping tag !set"},
		{"sequence tag", "a: !map [1]\n", "unsupported sequence tag !map"},
		{"composite record key", "? [1]\n: x\n", "record field names must be scalars"},
		{"bad pattern", "a: !pattern nope\n", "expected /source/flags"},
		{"bad instant", "a: !instant yesterday\n", "bad instant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDecodeErrorPosition(t *testing.T) {
	_, err := Decode([]byte("a: 1\nb: !pattern nope\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestEncodeRoundTrip(t *testing.T) {
	v, err := Decode([]byte(sampleDoc))
	require.NoError(t, err)
	root := v.(*value.Record)
	root.Set("loop", root)
	root.Set("neg", value.Number(-1.25))
	root.Set("big", value.Number(1e300))
	root.Set("inf", value.Number(math.Inf(-1)))
	root.Set("negzero", value.Number(math.Copysign(0, -1)))
	root.Set("text", value.String("null"))
	root.Set("empty", value.String(""))
	root.Set("multi", value.String("line one\nline two"))

	out, err := Encode(root)
	require.NoError(t, err)

	back, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, string(value.Canonical(root)), string(value.Canonical(back)), "encoded:\n%s", out)
}

func TestEncodeAnchors(t *testing.T) {
	shared := value.NewObject(value.F("x", value.Number(1)))
	root := value.NewObject(value.F("p", shared), value.F("q", shared))

	out, err := Encode(root)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "&n1")
	assert.Contains(t, text, "*n1")
	assert.Equal(t, 1, strings.Count(text, "x: 1"))
}

func TestEncodeTags(t *testing.T) {
	root := value.NewObject(
		value.F("set", value.NewSet(value.Number(1))),
		value.F("map", value.NewMap().Set(value.Number(1), value.Bool(true))),
		value.F("when", value.NewInstant(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))),
		value.F("re", value.MustPattern("a+", "i")),
		value.F("fn", value.NewOpaque("callable", nil)),
		value.F("bare", value.NewRecord(nil)),
		value.F("point", value.NewRecord(value.NewShape("Point", nil))),
	)

	out, err := Encode(root)
	require.NoError(t, err)

	text := string(out)
	for _, want := range []string{"!set", "!map", "!instant 2024-01-02T03:04:05Z", "!pattern /a+/i", "!opaque callable", "!bare", "!Point"} {
		assert.Contains(t, text, want)
	}
}

func TestEncodeSkipsHiddenFields(t *testing.T) {
	rec := value.NewObject(value.F("shown", value.Number(1)))
	rec.Hide("hidden", value.Number(2))

	out, err := Encode(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hidden")
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(nil)
	require.Error(t, err)

	_, err = Encode(value.NewRecord(value.NewShape("set", nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be written as a tag")

	_, err = Encode(value.NewObject(value.F("bad", value.NewRecord(value.NewShape("", nil)))))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "bad"`)
}
