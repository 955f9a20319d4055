package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/graphclone/internal/clone"
	"github.com/roach88/graphclone/internal/document"
	"github.com/roach88/graphclone/internal/value"
)

// Harness is the scenario execution engine. Each Run gets a fresh harness so
// shapes registered by one scenario never leak into another.
type Harness struct {
	codec  *document.Codec
	cloner *clone.Cloner
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Decode the input graph
//  2. Clone it with the scenario's options
//  3. Record equality and fingerprints before anything is mutated
//  4. Apply mutations (skipped when the clone failed)
//  5. Evaluate assertions and take the snapshot
//
// An error is returned only for a broken scenario; failed assertions are
// reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with clone debug logs sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	h, err := newHarness(scenario.Options, logger)
	if err != nil {
		return nil, err
	}

	original, err := h.codec.DecodeNode(&scenario.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}

	result := NewResult()
	actx := &AssertionContext{Original: original, Codec: h.codec}
	actx.Clone, result.Stats, actx.CloneErr = h.cloner.CloneWithStats(original)

	if actx.CloneErr == nil {
		actx.EqualBefore = value.Equal(original, actx.Clone)
		actx.OriginalFingerprint = value.Fingerprint(original)
		actx.CloneFingerprint = value.Fingerprint(actx.Clone)

		if err := h.applyMutations(scenario.Mutations, actx, result); err != nil {
			return nil, err
		}
	}

	for _, msg := range EvaluateAssertions(actx, scenario.Assertions) {
		result.AddError(msg)
	}
	if actx.CloneErr != nil && !expectsError(scenario.Assertions) {
		result.AddError(fmt.Sprintf("clone failed: %v", actx.CloneErr))
	}

	result.Snapshot = Snapshot{
		Scenario: scenario.Name,
		Original: string(value.Canonical(original)),
	}
	if actx.CloneErr != nil {
		result.Snapshot.Error = actx.CloneErr.Error()
	} else {
		result.Snapshot.Clone = string(value.Canonical(actx.Clone))
	}

	h.logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result, nil
}

func newHarness(opts Options, logger *slog.Logger) (*Harness, error) {
	cloneOpts := []clone.Option{
		clone.WithMaxDepth(opts.MaxDepth),
		clone.WithLogger(logger),
	}
	if opts.Unsupported != "" {
		policy, err := clone.ParsePolicy(opts.Unsupported)
		if err != nil {
			return nil, fmt.Errorf("invalid options: %w", err)
		}
		cloneOpts = append(cloneOpts, clone.WithUnsupported(policy))
	}

	return &Harness{
		codec:  document.NewCodec(nil),
		cloner: clone.New(cloneOpts...),
		logger: logger,
	}, nil
}

// applyMutations stores each mutation's value. A malformed path or value is
// a scenario error; a path that does not resolve is a failed run.
func (h *Harness) applyMutations(mutations []Mutation, actx *AssertionContext, result *Result) error {
	for i := range mutations {
		m := &mutations[i]

		path, err := value.ParsePath(m.Path)
		if err != nil {
			return fmt.Errorf("mutations[%d]: %w", i, err)
		}
		v, err := h.codec.DecodeNode(&m.Set)
		if err != nil {
			return fmt.Errorf("mutations[%d]: failed to decode set: %w", i, err)
		}

		root := actx.Clone
		if m.Target == TargetOriginal {
			root = actx.Original
		}
		if err := value.Assign(root, path, v); err != nil {
			result.AddError(fmt.Sprintf("mutations[%d]: %v", i, err))
			continue
		}
		h.logger.Debug("mutation applied", "target", m.Target, "path", path.String())
	}
	return nil
}

func expectsError(assertions []Assertion) bool {
	for _, a := range assertions {
		if a.Type == AssertError {
			return true
		}
	}
	return false
}
