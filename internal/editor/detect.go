// Package editor finds a VS Code compatible CLI and drives it to install a
// downloaded package.
package editor

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"vsixinstall/internal/utils"
)

var (
	ErrNoEditor       = errors.New("no VS Code CLI tool found")
	ErrEditorNotFound = errors.New("specified CLI not found in PATH")
)

// LookupFunc returns the first of candidates that is available on the system.
type LookupFunc func(candidates []string) (string, error)

// LookPath is the LookupFunc backed by the PATH of the current process.
func LookPath(candidates []string) (string, error) {
	for _, candidate := range candidates {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", ErrNoEditor
}

type Detector struct {
	lookup     LookupFunc
	candidates []string
	logger     *utils.Logger
}

func NewDetector(lookup LookupFunc, candidates []string, logger *utils.Logger) *Detector {
	return &Detector{
		lookup:     lookup,
		candidates: candidates,
		logger:     logger,
	}
}

// Detect honours an explicit preference and only falls back to the
// candidate list when none was given.
func (d *Detector) Detect(preferred string) (string, error) {
	if preferred != "" {
		cmd, err := d.lookup([]string{preferred})
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrEditorNotFound, preferred)
		}
		d.logger.LogInfo("Using specified code CLI: %s", cmd)
		return cmd, nil
	}

	cmd, err := d.lookup(d.candidates)
	if err != nil {
		return "", fmt.Errorf("%w (tried %s)", ErrNoEditor, quoteAll(d.candidates))
	}
	d.logger.LogInfo("Using auto-detected code CLI: %s", cmd)
	return cmd, nil
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return strings.Join(quoted, ", ")
}
