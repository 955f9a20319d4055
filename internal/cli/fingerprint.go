package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/graphclone/internal/value"
)

// FingerprintResult is the JSON payload of the fingerprint command.
type FingerprintResult struct {
	File        string `json:"file"`
	Fingerprint string `json:"fingerprint"`
	Canonical   string `json:"canonical"`
}

// NewFingerprintCommand creates the fingerprint command.
func NewFingerprintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint <file>",
		Short: "Print the content-and-topology fingerprint of a graph",
		Long: `Print the sha256 fingerprint of a graph's canonical form.

Two graphs share a fingerprint when they have the same content, order and
sharing topology. With --verbose the canonical form is printed as well.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprint(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runFingerprint(opts *RootOptions, file string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	v, err := readGraph(file)
	if err != nil {
		return inputError(formatter, err)
	}

	result := FingerprintResult{
		File:        file,
		Fingerprint: value.Fingerprint(v),
		Canonical:   string(value.Canonical(v)),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	formatter.VerboseLog("%s", result.Canonical)
	fmt.Fprintln(formatter.Writer, result.Fingerprint)
	return nil
}
