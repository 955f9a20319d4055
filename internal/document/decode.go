package document

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/graphclone/internal/value"
)

// Tags with special meaning. Any other local tag on a mapping names a shape.
const (
	TagUndefined = "!undefined"
	TagInstant   = "!instant"
	TagPattern   = "!pattern"
	TagSet       = "!set"
	TagMap       = "!map"
	TagBare      = "!bare"
	TagOpaque    = "!opaque"
)

var reservedTags = map[string]bool{
	TagUndefined: true,
	TagInstant:   true,
	TagPattern:   true,
	TagSet:       true,
	TagMap:       true,
	TagBare:      true,
	TagOpaque:    true,
}

// Codec converts between YAML and value graphs. Records decoded with the
// same Codec share shapes by name.
type Codec struct {
	shapes *value.ShapeRegistry
}

// NewCodec creates a codec resolving shape tags through shapes.
// A nil registry gets a fresh one.
func NewCodec(shapes *value.ShapeRegistry) *Codec {
	if shapes == nil {
		shapes = value.NewShapeRegistry()
	}
	return &Codec{shapes: shapes}
}

// Shapes returns the codec's shape registry.
func (c *Codec) Shapes() *value.ShapeRegistry { return c.shapes }

// Decode parses one YAML document into a value graph.
func Decode(data []byte) (value.Value, error) {
	return NewCodec(nil).Decode(data)
}

// Decode parses one YAML document into a value graph.
func (c *Codec) Decode(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return c.DecodeNode(&doc)
}

// DecodeNode converts an already parsed node (document or content node).
func (c *Codec) DecodeNode(n *yaml.Node) (value.Value, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil, fmt.Errorf("empty document")
		}
		n = n.Content[0]
	}
	if n.Kind == 0 {
		return nil, fmt.Errorf("empty document")
	}

	d := &decoder{
		codec:   c,
		nodes:   make(map[*yaml.Node]value.Value),
		anchors: make(map[string]value.Value),
	}
	return d.decode(n)
}

// decoder holds the node -> value table for one DecodeNode call.
type decoder struct {
	codec   *Codec
	nodes   map[*yaml.Node]value.Value
	anchors map[string]value.Value
}

// register must run before children are decoded so aliases back to an
// enclosing node resolve to it.
func (d *decoder) register(n *yaml.Node, v value.Value) {
	d.nodes[n] = v
	if n.Anchor != "" {
		d.anchors[n.Anchor] = v
	}
}

func (d *decoder) decode(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return d.alias(n)
	case yaml.ScalarNode:
		v, err := d.scalar(n)
		if err != nil {
			return nil, err
		}
		d.register(n, v)
		return v, nil
	case yaml.SequenceNode:
		return d.sequence(n)
	case yaml.MappingNode:
		return d.mapping(n)
	default:
		return nil, nodeError(n, "unexpected node kind %d", n.Kind)
	}
}

func (d *decoder) alias(n *yaml.Node) (value.Value, error) {
	if v, ok := d.nodes[n.Alias]; ok {
		return v, nil
	}
	// A node copied out of its tree (e.g. into a struct field) is registered
	// under its own address; fall back to the anchor name.
	if v, ok := d.anchors[n.Value]; ok {
		return v, nil
	}
	if n.Alias == nil {
		return nil, nodeError(n, "unknown anchor %q", n.Value)
	}
	return d.decode(n.Alias)
}

func (d *decoder) scalar(n *yaml.Node) (value.Value, error) {
	switch tag := n.ShortTag(); tag {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return value.Number(f), nil
	case "!!str":
		return value.String(n.Value), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return value.NewInstant(t), nil
	case TagUndefined:
		return value.Undefined{}, nil
	case TagInstant:
		t, err := time.Parse(time.RFC3339Nano, n.Value)
		if err != nil {
			return nil, nodeError(n, "bad instant: %v", err)
		}
		return value.NewInstant(t), nil
	case TagPattern:
		p, err := value.ParsePattern(n.Value)
		if err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return p, nil
	case TagOpaque:
		return value.NewOpaque(n.Value, nil), nil
	default:
		return nil, nodeError(n, "unsupported scalar tag %s", tag)
	}
}

func (d *decoder) sequence(n *yaml.Node) (value.Value, error) {
	switch tag := n.ShortTag(); tag {
	case "!!seq":
		seq := value.NewSequence()
		d.register(n, seq)
		seq.Grow(len(n.Content))
		for _, child := range n.Content {
			v, err := d.decode(child)
			if err != nil {
				return nil, err
			}
			seq.Append(v)
		}
		return seq, nil
	case TagSet:
		set := value.NewSet()
		d.register(n, set)
		for _, child := range n.Content {
			v, err := d.decode(child)
			if err != nil {
				return nil, err
			}
			set.Add(v)
		}
		return set, nil
	default:
		return nil, nodeError(n, "unsupported sequence tag %s", tag)
	}
}

func (d *decoder) mapping(n *yaml.Node) (value.Value, error) {
	tag := n.ShortTag()
	if tag == TagMap {
		m := value.NewMap()
		d.register(n, m)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := d.decode(n.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := d.decode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	}

	var shape *value.Shape
	switch {
	case tag == "!!map":
		shape = value.ObjectShape()
	case tag == TagBare:
		shape = nil
	case strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!") && !reservedTags[tag]:
		shape = d.codec.shapes.Get(tag[1:])
	default:
		return nil, nodeError(n, "unsupported mapping tag %s", tag)
	}

	rec := value.NewRecord(shape)
	d.register(n, rec)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if key.Kind == yaml.AliasNode && key.Alias != nil {
			key = key.Alias
		}
		if key.Kind != yaml.ScalarNode {
			return nil, nodeError(key, "record field names must be scalars (use !map for composite keys)")
		}
		v, err := d.decode(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		rec.Set(key.Value, v)
	}
	return rec, nil
}

func nodeError(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d, column %d: %s", n.Line, n.Column, fmt.Sprintf(format, args...))
}
