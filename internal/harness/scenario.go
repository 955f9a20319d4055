package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/graphclone/internal/clone"
)

// Scenario defines a clone conformance scenario: an input graph, options for
// the cloner, mutations applied after cloning, and assertions on the result.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the graph to clone, written in the document codec's YAML
	// dialect. Anchors and aliases express sharing and cycles.
	Input yaml.Node `yaml:"input"`

	// Options configure the cloner. Zero values mean the defaults.
	Options Options `yaml:"options,omitempty"`

	// Mutations run after cloning, in order.
	Mutations []Mutation `yaml:"mutations,omitempty"`

	// Assertions validate the clone.
	Assertions []Assertion `yaml:"assertions"`
}

// Options mirror the cloner options a scenario may set.
type Options struct {
	// Unsupported is "share" (default) or "reject".
	Unsupported string `yaml:"unsupported,omitempty"`

	// MaxDepth limits graph depth; 0 is unlimited.
	MaxDepth int `yaml:"max_depth,omitempty"`
}

// Mutation stores a value at a path in the clone or the original.
type Mutation struct {
	Target string    `yaml:"target"`
	Path   string    `yaml:"path"`
	Set    yaml.Node `yaml:"set"`
}

// Assertion validates one property of a scenario run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "equal": clone equals original before mutations
	// - "fingerprint_match": fingerprints agree before mutations
	// - "independent": no reference value is reachable from both graphs
	// - "distinct": the reference at Path differs by identity between graphs
	// - "shared": the reference at Path is the same object in both graphs
	// - "same_node": all Paths resolve to one object inside the clone
	// - "value": the value at Path in Target equals Expect
	// - "error": cloning fails with Code
	Type string `yaml:"type"`

	Path   string    `yaml:"path,omitempty"`
	Paths  []string  `yaml:"paths,omitempty"`
	Target string    `yaml:"target,omitempty"`
	Expect yaml.Node `yaml:"expect,omitempty"`
	Code   string    `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertEqual            = "equal"
	AssertFingerprintMatch = "fingerprint_match"
	AssertIndependent      = "independent"
	AssertDistinct         = "distinct"
	AssertShared           = "shared"
	AssertSameNode         = "same_node"
	AssertValue            = "value"
	AssertError            = "error"
)

// Mutation and assertion targets.
const (
	TargetClone    = "clone"
	TargetOriginal = "original"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Input.Kind == 0 {
		return fmt.Errorf("input is required")
	}

	if s.Options.Unsupported != "" {
		if _, err := clone.ParsePolicy(s.Options.Unsupported); err != nil {
			return fmt.Errorf("options.unsupported: %w", err)
		}
	}
	if s.Options.MaxDepth < 0 {
		return fmt.Errorf("options.max_depth must be non-negative")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, m := range s.Mutations {
		if m.Target != TargetClone && m.Target != TargetOriginal {
			return fmt.Errorf("mutations[%d]: target must be %q or %q", i, TargetClone, TargetOriginal)
		}
		if m.Path == "" {
			return fmt.Errorf("mutations[%d]: path is required", i)
		}
		if m.Set.Kind == 0 {
			return fmt.Errorf("mutations[%d]: set is required", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEqual, AssertFingerprintMatch, AssertIndependent:
	case AssertDistinct, AssertShared:
		// An empty path addresses the root.
	case AssertSameNode:
		if len(a.Paths) < 2 {
			return fmt.Errorf("assertions[%d]: same_node needs at least two paths", index)
		}
	case AssertValue:
		if a.Target != TargetClone && a.Target != TargetOriginal {
			return fmt.Errorf("assertions[%d]: target must be %q or %q for value", index, TargetClone, TargetOriginal)
		}
		if a.Expect.Kind == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for value", index)
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
