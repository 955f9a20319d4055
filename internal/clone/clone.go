package clone

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/graphclone/internal/value"
)

// Policy decides what happens to values the union does not model.
type Policy int

const (
	// Share returns unsupported values unchanged: the clone and the original
	// point at the same Opaque.
	Share Policy = iota

	// Reject fails the clone with an UNSUPPORTED_KIND error.
	Reject
)

func (p Policy) String() string {
	switch p {
	case Share:
		return "share"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "share" or "reject".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "share":
		return Share, nil
	case "reject":
		return Reject, nil
	default:
		return 0, fmt.Errorf("invalid policy %q: must be share or reject", s)
	}
}

// Option configures a Cloner.
type Option func(*Cloner)

// WithUnsupported sets the policy for Opaque values.
func WithUnsupported(p Policy) Option {
	return func(c *Cloner) { c.unsupported = p }
}

// WithMaxDepth limits how deep reference values may sit below the root.
// Zero means unlimited.
func WithMaxDepth(n int) Option {
	return func(c *Cloner) { c.maxDepth = n }
}

// WithLogger sets the logger for per-invocation debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cloner) { c.logger = l }
}

// Cloner holds clone options. It carries no per-call state and is safe for
// concurrent use.
type Cloner struct {
	unsupported Policy
	maxDepth    int
	logger      *slog.Logger
}

// New creates a Cloner. The zero configuration shares unsupported values,
// has no depth limit and discards logs.
func New(opts ...Option) *Cloner {
	c := &Cloner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats describes one clone invocation.
type Stats struct {
	// Nodes counts reference values allocated in the clone.
	Nodes int `json:"nodes"`

	// MemoHits counts references resolved through the identity map
	// (shared nodes and back-edges of cycles).
	MemoHits int `json:"memo_hits"`

	// Passthrough counts unsupported values shared with the original.
	Passthrough int `json:"passthrough"`

	// Depth is the deepest level a reference value was reached at.
	Depth int `json:"depth"`
}

// Clone deep-copies v with the default options: unsupported values are
// shared, depth is unlimited. It never fails.
func Clone(v value.Value) value.Value {
	out, err := New().Clone(v)
	if err != nil {
		// Unreachable: sharing cannot fail and patterns were valid when built.
		panic(err)
	}
	return out
}

// Clone deep-copies v.
func (c *Cloner) Clone(v value.Value) (value.Value, error) {
	out, _, err := c.CloneWithStats(v)
	return out, err
}

// CloneWithStats deep-copies v and reports what the invocation did.
func (c *Cloner) CloneWithStats(v value.Value) (value.Value, Stats, error) {
	inv := &invocation{
		cloner: c,
		seen:   make(map[value.Value]value.Value),
	}

	debug := c.logger.Enabled(context.Background(), slog.LevelDebug)
	if debug {
		inv.id = uuid.Must(uuid.NewV7()).String()
		c.logger.Debug("clone started",
			"invocation", inv.id,
			"root", value.KindOf(v).String(),
			"policy", c.unsupported.String(),
		)
	}

	out, err := inv.clone(v, 0)
	if err != nil {
		if debug {
			c.logger.Debug("clone failed", "invocation", inv.id, "error", err)
		}
		return nil, inv.stats, err
	}

	if debug {
		c.logger.Debug("clone finished",
			"invocation", inv.id,
			"nodes", inv.stats.Nodes,
			"memo_hits", inv.stats.MemoHits,
			"passthrough", inv.stats.Passthrough,
			"depth", inv.stats.Depth,
		)
	}
	return out, inv.stats, nil
}

// invocation is the state of one top-level Clone call.
type invocation struct {
	cloner *Cloner
	id     string
	seen   map[value.Value]value.Value // original -> clone
	path   value.Path
	stats  Stats
}

func (inv *invocation) clone(v value.Value, depth int) (value.Value, error) {
	if v == nil || value.IsPrimitive(v) {
		return v, nil
	}
	if dup, ok := inv.seen[v]; ok {
		inv.stats.MemoHits++
		return dup, nil
	}
	if limit := inv.cloner.maxDepth; limit > 0 && depth > limit {
		return nil, newDepthError(slices.Clone(inv.path), v, limit)
	}
	inv.stats.Depth = max(inv.stats.Depth, depth)

	switch x := v.(type) {
	case *value.Instant:
		out := value.NewInstant(x.Time())
		inv.register(v, out)
		return out, nil

	case *value.Pattern:
		out, err := value.NewPattern(x.Source(), x.Flags())
		if err != nil {
			return nil, &Error{
				Code:    ErrCodePattern,
				Message: "cannot rebuild pattern",
				Path:    slices.Clone(inv.path),
				Kind:    value.KindPattern,
				Err:     err,
			}
		}
		inv.register(v, out)
		return out, nil

	case *value.Sequence:
		out := value.NewSequence()
		inv.register(v, out)
		out.Grow(x.Len())
		for i, elem := range x.All() {
			c, err := inv.child(value.IndexStep(i), elem, depth)
			if err != nil {
				return nil, err
			}
			out.Append(c)
		}
		return out, nil

	case *value.Map:
		out := value.NewMap()
		inv.register(v, out)
		for k, mv := range x.All() {
			step := value.KeyStep(k)
			ck, err := inv.child(step, k, depth)
			if err != nil {
				return nil, err
			}
			cv, err := inv.child(step, mv, depth)
			if err != nil {
				return nil, err
			}
			out.Set(ck, cv)
		}
		return out, nil

	case *value.Set:
		out := value.NewSet()
		inv.register(v, out)
		i := 0
		for elem := range x.All() {
			c, err := inv.child(value.IndexStep(i), elem, depth)
			if err != nil {
				return nil, err
			}
			out.Add(c)
			i++
		}
		return out, nil

	case *value.Record:
		// The shape is shared, not cloned: behavior stays attached.
		out := value.NewRecord(x.Shape())
		inv.register(v, out)
		for name, fv := range x.All() {
			c, err := inv.child(value.FieldStep(name), fv, depth)
			if err != nil {
				return nil, err
			}
			out.Set(name, c)
		}
		return out, nil

	default:
		// *value.Opaque, the only other reference kind.
		return inv.unsupported(v)
	}
}

// child clones v one level below the current node with step pushed on the
// path.
func (inv *invocation) child(step value.Step, v value.Value, depth int) (value.Value, error) {
	inv.path = append(inv.path, step)
	out, err := inv.clone(v, depth+1)
	inv.path = inv.path[:len(inv.path)-1]
	return out, err
}

// register records orig -> clone. Callers must register composites before
// cloning their children.
func (inv *invocation) register(orig, clone value.Value) {
	inv.seen[orig] = clone
	inv.stats.Nodes++
}

func (inv *invocation) unsupported(v value.Value) (value.Value, error) {
	if inv.cloner.unsupported == Reject {
		return nil, newUnsupportedError(slices.Clone(inv.path), v)
	}
	inv.stats.Passthrough++
	if inv.id != "" {
		label := ""
		if o, ok := v.(*value.Opaque); ok {
			label = o.Label()
		}
		inv.cloner.logger.Debug("sharing unsupported value",
			"invocation", inv.id,
			"path", inv.path.String(),
			"label", label,
		)
	}
	return v, nil
}
