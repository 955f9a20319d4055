package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/roach88/graphclone/internal/clone"
	"github.com/roach88/graphclone/internal/config"
	"github.com/roach88/graphclone/internal/document"
	"github.com/roach88/graphclone/internal/value"
)

// InputError is a problem reading or decoding an input document.
type InputError struct {
	Code    string
	Message string
}

func (e *InputError) Error() string { return e.Message }

// readGraph decodes the YAML document at path. Each call uses its own codec,
// so shapes are resolved per document.
func readGraph(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &InputError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path)}
		}
		return nil, &InputError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	v, err := document.NewCodec(nil).Decode(data)
	if err != nil {
		return nil, &InputError{Code: ErrCodeDecode, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	return v, nil
}

// cloner builds a cloner from config, then applies --strict and
// --max-depth on top.
// A nil maxDepth keeps the configured limit.
func (o *RootOptions) cloner(cfg config.Config, logOut io.Writer, strict bool, maxDepth *int) (*clone.Cloner, error) {
	cloneOpts, err := cfg.ClonerOptions(o.logger(logOut, cfg))
	if err != nil {
		return nil, err
	}
	if strict {
		cloneOpts = append(cloneOpts, clone.WithUnsupported(clone.Reject))
	}
	if maxDepth != nil {
		cloneOpts = append(cloneOpts, clone.WithMaxDepth(*maxDepth))
	}
	return clone.New(cloneOpts...), nil
}

// cloneErrorDetails describes a clone failure for JSON output.
func cloneErrorDetails(err error) map[string]string {
	details := map[string]string{"error": err.Error()}
	if code := clone.CodeOf(err); code != "" {
		details["clone_code"] = string(code)
	}
	return details
}
