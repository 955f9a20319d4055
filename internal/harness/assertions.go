package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/graphclone/internal/clone"
	"github.com/roach88/graphclone/internal/document"
	"github.com/roach88/graphclone/internal/value"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// AssertionContext is what assertions evaluate against. Equality and
// fingerprints are taken before mutations; graphs are read after.
type AssertionContext struct {
	Original value.Value
	Clone    value.Value
	CloneErr error

	EqualBefore         bool
	OriginalFingerprint string
	CloneFingerprint    string

	// Codec decodes expected values so shaped records share shapes with
	// the input.
	Codec *document.Codec
}

// EvaluateAssertions evaluates all assertions and returns a message for
// each one that failed.
func EvaluateAssertions(actx *AssertionContext, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error
		if assertion.Type == AssertError {
			err = assertError(actx, assertion)
		} else if actx.CloneErr != nil {
			err = &AssertionError{
				Type:     assertion.Type,
				Expected: "a successful clone",
				Actual:   fmt.Sprintf("clone failed: %v", actx.CloneErr),
			}
		} else {
			err = evaluate(actx, assertion)
		}

		if err != nil {
			errors = append(errors, fmt.Sprintf("assertions[%d]: %s", i, err.Error()))
		}
	}
	return errors
}

func evaluate(actx *AssertionContext, assertion Assertion) error {
	switch assertion.Type {
	case AssertEqual:
		return assertEqual(actx)
	case AssertFingerprintMatch:
		return assertFingerprintMatch(actx)
	case AssertIndependent:
		return assertIndependent(actx)
	case AssertDistinct:
		return assertIdentity(actx, assertion, false)
	case AssertShared:
		return assertIdentity(actx, assertion, true)
	case AssertSameNode:
		return assertSameNode(actx, assertion)
	case AssertValue:
		return assertValue(actx, assertion)
	default:
		return fmt.Errorf("unknown assertion type %q", assertion.Type)
	}
}

func assertEqual(actx *AssertionContext) error {
	if actx.EqualBefore {
		return nil
	}
	return &AssertionError{
		Type:     AssertEqual,
		Expected: "clone structurally equal to original",
		Actual:   "graphs differ",
	}
}

func assertFingerprintMatch(actx *AssertionContext) error {
	if actx.OriginalFingerprint == actx.CloneFingerprint {
		return nil
	}
	return &AssertionError{
		Type:     AssertFingerprintMatch,
		Expected: fmt.Sprintf("fingerprint %s", actx.OriginalFingerprint),
		Actual:   fmt.Sprintf("fingerprint %s", actx.CloneFingerprint),
	}
}

func assertIndependent(actx *AssertionContext) error {
	overlap := clone.Overlap(actx.Original, actx.Clone)
	if len(overlap) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertIndependent,
		Expected: "no reference value shared between original and clone",
		Actual:   fmt.Sprintf("%d shared, first is a %s", len(overlap), value.KindOf(overlap[0])),
	}
}

// assertIdentity checks whether the reference at the assertion's path is the
// same object in both graphs (want true) or a different one (want false).
func assertIdentity(actx *AssertionContext, assertion Assertion, want bool) error {
	path, err := value.ParsePath(assertion.Path)
	if err != nil {
		return err
	}
	orig, err := resolveReference(actx.Original, path, TargetOriginal)
	if err != nil {
		return err
	}
	cl, err := resolveReference(actx.Clone, path, TargetClone)
	if err != nil {
		return err
	}

	if (orig == cl) == want {
		return nil
	}
	expected, actual := "distinct objects", "same object"
	if want {
		expected, actual = actual, expected
	}
	return &AssertionError{
		Type:     assertion.Type,
		Expected: fmt.Sprintf("%s at %s", expected, path),
		Actual:   actual,
	}
}

func assertSameNode(actx *AssertionContext, assertion Assertion) error {
	var first value.Value
	var firstPath value.Path
	for _, raw := range assertion.Paths {
		path, err := value.ParsePath(raw)
		if err != nil {
			return err
		}
		v, err := resolveReference(actx.Clone, path, TargetClone)
		if err != nil {
			return err
		}
		if first == nil {
			first, firstPath = v, path
			continue
		}
		if v != first {
			return &AssertionError{
				Type:     AssertSameNode,
				Expected: fmt.Sprintf("%s and %s to be one object in the clone", firstPath, path),
				Actual:   "different objects",
			}
		}
	}
	return nil
}

func assertValue(actx *AssertionContext, assertion Assertion) error {
	path, err := value.ParsePath(assertion.Path)
	if err != nil {
		return err
	}
	root := actx.Clone
	if assertion.Target == TargetOriginal {
		root = actx.Original
	}

	got, err := value.Resolve(root, path)
	if err != nil {
		return &AssertionError{
			Type:     AssertValue,
			Expected: fmt.Sprintf("%s %s to exist", assertion.Target, path),
			Actual:   err.Error(),
		}
	}

	want, err := actx.Codec.DecodeNode(&assertion.Expect)
	if err != nil {
		return fmt.Errorf("failed to decode expect: %w", err)
	}

	if value.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     AssertValue,
		Expected: fmt.Sprintf("%s %s = %s", assertion.Target, path, value.Canonical(want)),
		Actual:   string(value.Canonical(got)),
	}
}

func assertError(actx *AssertionContext, assertion Assertion) error {
	if actx.CloneErr == nil {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("clone to fail with %s", assertion.Code),
			Actual:   "clone succeeded",
		}
	}
	if code := clone.CodeOf(actx.CloneErr); string(code) != assertion.Code {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("error code %s", assertion.Code),
			Actual:   actx.CloneErr.Error(),
		}
	}
	return nil
}

func resolveReference(root value.Value, path value.Path, target string) (value.Value, error) {
	v, err := value.Resolve(root, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", target, err)
	}
	if !value.IsReference(v) {
		return nil, fmt.Errorf("%s %s: %s has no identity", target, path, value.KindOf(v))
	}
	return v, nil
}
