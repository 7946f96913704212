package compiler

import (
	"fmt"
	"strings"
	"time"
)

// Result describes one compilation.
type Result struct {
	ID           string
	ArtifactPath string
	ReturnCode   int
	Output       []string
	Duration     time.Duration
}

// Succeeded reports whether the toolchain exited with status zero.
func (r *Result) Succeeded() bool {
	return r.ReturnCode == 0
}

// Err returns a *CompileError for a failed result and nil otherwise.
func (r *Result) Err() error {
	if r.Succeeded() {
		return nil
	}
	return &CompileError{ID: r.ID, ReturnCode: r.ReturnCode, Output: r.Output}
}

// CompileError is a failed compilation.
type CompileError struct {
	ID         string
	ReturnCode int
	Output     []string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: exit status %d: %s", e.ID, e.ReturnCode, strings.Join(e.Output, "\n"))
}

// splitLines breaks toolchain output into diagnostic lines, dropping blank
// ones.
func splitLines(out []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
