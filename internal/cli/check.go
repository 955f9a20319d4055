package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/graphclone/internal/clone"
	"github.com/roach88/graphclone/internal/value"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Strict bool // reject opaque values instead of sharing them
}

// FileCheck is the outcome of checking one file.
type FileCheck struct {
	File        string       `json:"file"`
	Pass        bool         `json:"pass"`
	Fingerprint string       `json:"fingerprint,omitempty"`
	Stats       *clone.Stats `json:"stats,omitempty"`
	Errors      []string     `json:"errors,omitempty"`
}

// CheckResult holds the overall check result.
type CheckResult struct {
	Files  []FileCheck `json:"files"`
	Passed int         `json:"passed"`
	Failed int         `json:"failed"`
	Total  int         `json:"total"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Verify that graphs clone faithfully",
		Long: `Clone each file and verify the clone against its original.

A file passes when the clone is structurally equal to the original, has
the same fingerprint (content and sharing topology), and shares no
reference value with the original apart from passed-through opaque values.
Files are checked concurrently, up to the configured number of workers.

Exit codes:
  0 - All files passed
  1 - One or more files failed
  2 - Command error (bad config, etc.)

Examples:
  graphclone check graphs/*.yaml
  graphclone check --strict --format json a.yaml b.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on opaque values instead of sharing them")

	return cmd
}

func runCheck(opts *CheckOptions, files []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.settings()
	if err != nil {
		return commandError(formatter, ErrCodeConfig, err.Error(), nil)
	}
	cloner, err := opts.cloner(cfg, formatter.GetErrWriter(), opts.Strict, nil)
	if err != nil {
		return commandError(formatter, ErrCodeConfig, err.Error(), nil)
	}

	formatter.VerboseLog("Checking %d file(s) with %d worker(s)", len(files), cfg.Workers)

	checks := make([]FileCheck, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Workers)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			checks[i] = checkFile(cloner, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error(), nil)
	}

	result := CheckResult{Files: checks, Total: len(checks)}
	for _, c := range checks {
		if c.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return outputCheckJSON(cmd, result)
	}
	return outputCheckText(cmd, result)
}

// checkFile clones one file and verifies the clone. It never fails; every
// problem becomes an error on the FileCheck.
func checkFile(cloner *clone.Cloner, file string) FileCheck {
	check := FileCheck{File: file}

	original, err := readGraph(file)
	if err != nil {
		check.Errors = append(check.Errors, err.Error())
		return check
	}

	copied, stats, err := cloner.CloneWithStats(original)
	if err != nil {
		check.Errors = append(check.Errors, err.Error())
		return check
	}
	check.Stats = &stats

	if !value.Equal(original, copied) {
		check.Errors = append(check.Errors, "clone is not structurally equal to the original")
	}
	want, got := value.Fingerprint(original), value.Fingerprint(copied)
	if want != got {
		check.Errors = append(check.Errors, fmt.Sprintf("fingerprint mismatch: original %s, clone %s", want, got))
	}
	if overlap := clone.Overlap(original, copied); len(overlap) > 0 {
		check.Errors = append(check.Errors, fmt.Sprintf("%d reference value(s) shared with the original", len(overlap)))
	}

	check.Fingerprint = got
	check.Pass = len(check.Errors) == 0
	return check
}

// outputCheckJSON outputs the check result as JSON.
func outputCheckJSON(cmd *cobra.Command, result CheckResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeCheckFailed,
			Message: fmt.Sprintf("%d file(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) failed", result.Failed))
	}
	return nil
}

// outputCheckText outputs the check result as text.
func outputCheckText(cmd *cobra.Command, result CheckResult) error {
	w := cmd.OutOrStdout()

	for _, c := range result.Files {
		if c.Pass {
			fmt.Fprintf(w, "✓ %s (%d node(s), %d memo hit(s), %d passthrough) %s\n",
				c.File, c.Stats.Nodes, c.Stats.MemoHits, c.Stats.Passthrough, shortFingerprint(c.Fingerprint))
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", c.File)
		for _, e := range c.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Check Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) failed", result.Failed))
	}
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
