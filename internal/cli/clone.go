package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/graphclone/internal/clone"
	"github.com/roach88/graphclone/internal/document"
	"github.com/roach88/graphclone/internal/value"
)

// CloneOptions holds flags for the clone command.
type CloneOptions struct {
	*RootOptions
	Output   string // output file path
	Strict   bool   // reject opaque values instead of sharing them
	MaxDepth int    // depth limit; only applied when the flag is set
}

// CloneResult is the JSON payload of the clone command.
type CloneResult struct {
	File        string      `json:"file"`
	Output      string      `json:"output,omitempty"`
	Document    string      `json:"document,omitempty"`
	Fingerprint string      `json:"fingerprint"`
	Stats       clone.Stats `json:"stats"`
}

// NewCloneCommand creates the clone command.
func NewCloneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CloneOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clone <file>",
		Short: "Deep-clone a YAML graph",
		Long: `Decode a YAML graph, deep-clone it and write the clone back as YAML.

Shared nodes and cycles in the input come out as anchors and aliases in
the output. Opaque values are shared unless --strict is given.

Exit codes:
  0 - Clone written
  2 - Command error (unreadable input, rejected clone, write failure)

Examples:
  graphclone clone graph.yaml
  graphclone clone graph.yaml -o copy.yaml
  graphclone clone graph.yaml --strict --max-depth 64`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var maxDepth *int
			if cmd.Flags().Changed("max-depth") {
				maxDepth = &opts.MaxDepth
			}
			return runClone(opts, args[0], maxDepth, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on opaque values instead of sharing them")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum graph depth (0 = unlimited)")

	return cmd
}

func runClone(opts *CloneOptions, file string, maxDepth *int, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.settings()
	if err != nil {
		return commandError(formatter, ErrCodeConfig, err.Error(), nil)
	}
	cloner, err := opts.cloner(cfg, formatter.GetErrWriter(), opts.Strict, maxDepth)
	if err != nil {
		return commandError(formatter, ErrCodeConfig, err.Error(), nil)
	}

	original, err := readGraph(file)
	if err != nil {
		return inputError(formatter, err)
	}

	copied, stats, err := cloner.CloneWithStats(original)
	if err != nil {
		return commandError(formatter, ErrCodeClone, err.Error(), cloneErrorDetails(err))
	}
	formatter.VerboseLog("Cloned %d node(s), %d memo hit(s), %d passthrough", stats.Nodes, stats.MemoHits, stats.Passthrough)

	data, err := document.Encode(copied)
	if err != nil {
		return commandError(formatter, ErrCodeEncode, err.Error(), nil)
	}

	result := CloneResult{
		File:        file,
		Output:      opts.Output,
		Fingerprint: value.Fingerprint(copied),
		Stats:       stats,
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			return commandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	} else {
		result.Document = string(data)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "✓ Cloned %d node(s) to %s\n", stats.Nodes, opts.Output)
		return nil
	}
	_, err = formatter.Writer.Write(data)
	return err
}

// commandError reports an error and maps it to exit code 2.
func commandError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// inputError reports a readGraph failure with its code.
func inputError(formatter *OutputFormatter, err error) error {
	var inErr *InputError
	if errors.As(err, &inErr) {
		return commandError(formatter, inErr.Code, inErr.Message, nil)
	}
	return commandError(formatter, ErrCodeGeneric, err.Error(), nil)
}
