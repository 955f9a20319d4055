package harness

import (
	"bytes"
	"fmt"

	"github.com/roach88/graphclone/internal/clone"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// Errors contains assertion and mutation failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Stats reports what the clone invocation did.
	Stats clone.Stats `json:"stats"`

	// Snapshot captures both graphs after mutations for golden comparison.
	Snapshot Snapshot `json:"snapshot"`
}

// Snapshot holds canonical renderings taken after mutations ran.
type Snapshot struct {
	Scenario string `json:"scenario"`
	Original string `json:"original"`
	Clone    string `json:"clone,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Bytes renders the snapshot as line-oriented text. The output only depends
// on graph content and topology, so it is stable across runs.
func (s Snapshot) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", s.Scenario)
	fmt.Fprintf(&buf, "original: %s\n", s.Original)
	if s.Error != "" {
		fmt.Fprintf(&buf, "error: %s\n", s.Error)
	} else {
		fmt.Fprintf(&buf, "clone: %s\n", s.Clone)
	}
	return buf.Bytes()
}
