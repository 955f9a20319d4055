package document

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/graphclone/internal/value"
)

// Encode writes v as a YAML document.
func Encode(v value.Value) ([]byte, error) {
	return NewCodec(nil).Encode(v)
}

// Encode writes v as a YAML document.
func (c *Codec) Encode(v value.Value) ([]byte, error) {
	node, err := c.EncodeNode(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to write YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to write YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeNode converts v into a YAML node tree. Nodes reached more than once
// carry anchors; later references are aliases.
func (c *Codec) EncodeNode(v value.Value) (*yaml.Node, error) {
	e := &encoder{
		counts:  value.Occurrences(v),
		emitted: make(map[value.Value]*yaml.Node),
	}
	return e.encode(v)
}

type encoder struct {
	counts  map[value.Value]int
	emitted map[value.Value]*yaml.Node
	next    int
}

func scalarNode(tag, text string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
}

func (e *encoder) encode(v value.Value) (*yaml.Node, error) {
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("cannot encode nil value")
	case value.Undefined:
		return scalarNode(TagUndefined, ""), nil
	case value.Null:
		return scalarNode("!!null", "null"), nil
	case value.Bool:
		return scalarNode("!!bool", strconv.FormatBool(bool(x))), nil
	case value.Number:
		return numberNode(float64(x)), nil
	case value.String:
		return scalarNode("!!str", string(x)), nil
	}

	if target, ok := e.emitted[v]; ok {
		return &yaml.Node{Kind: yaml.AliasNode, Value: target.Anchor, Alias: target}, nil
	}

	node := &yaml.Node{}
	if e.counts[v] > 1 {
		e.next++
		node.Anchor = fmt.Sprintf("n%d", e.next)
	}
	e.emitted[v] = node

	switch x := v.(type) {
	case *value.Instant:
		node.Kind, node.Tag, node.Value = yaml.ScalarNode, TagInstant, x.Time().Format(time.RFC3339Nano)
	case *value.Pattern:
		node.Kind, node.Tag, node.Value = yaml.ScalarNode, TagPattern, x.String()
	case *value.Opaque:
		node.Kind, node.Tag, node.Value = yaml.ScalarNode, TagOpaque, x.Label()
	case *value.Sequence:
		node.Kind, node.Tag = yaml.SequenceNode, "!!seq"
		for _, elem := range x.All() {
			child, err := e.encode(elem)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
	case *value.Set:
		node.Kind, node.Tag = yaml.SequenceNode, TagSet
		for elem := range x.All() {
			child, err := e.encode(elem)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
	case *value.Map:
		node.Kind, node.Tag = yaml.MappingNode, TagMap
		for k, mv := range x.All() {
			kn, err := e.encode(k)
			if err != nil {
				return nil, err
			}
			vn, err := e.encode(mv)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, kn, vn)
		}
	case *value.Record:
		tag, err := recordTag(x.Shape())
		if err != nil {
			return nil, err
		}
		node.Kind, node.Tag = yaml.MappingNode, tag
		for name, fv := range x.All() {
			vn, err := e.encode(fv)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			node.Content = append(node.Content, scalarNode("!!str", name), vn)
		}
	default:
		return nil, fmt.Errorf("cannot encode %s value", value.KindOf(v))
	}
	return node, nil
}

func recordTag(shape *value.Shape) (string, error) {
	switch {
	case shape == nil:
		return TagBare, nil
	case shape == value.ObjectShape():
		return "!!map", nil
	case shape.Name() == "" || reservedTags["!"+shape.Name()]:
		return "", fmt.Errorf("shape name %q cannot be written as a tag", shape.Name())
	default:
		return "!" + shape.Name(), nil
	}
}

// numberNode picks a tag whose implicit resolution round-trips the number.
func numberNode(f float64) *yaml.Node {
	switch {
	case math.IsNaN(f):
		return scalarNode("!!float", ".nan")
	case math.IsInf(f, 1):
		return scalarNode("!!float", ".inf")
	case math.IsInf(f, -1):
		return scalarNode("!!float", "-.inf")
	case f == 0 && math.Signbit(f):
		return scalarNode("!!float", "-0.0")
	case f == math.Trunc(f) && math.Abs(f) < 1<<53:
		return scalarNode("!!int", strconv.FormatFloat(f, 'f', -1, 64))
	default:
		return scalarNode("!!float", strconv.FormatFloat(f, 'g', -1, 64))
	}
}
