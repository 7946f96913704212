package compiler

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// Toolchain runs a build inside dir. A non-zero exit status is returned as
// code with a nil error; err is reserved for failures to run at all.
type Toolchain interface {
	Build(ctx context.Context, dir string, args []string) (output []byte, code int, err error)
}

// ExecToolchain runs a Go binary as a subprocess.
type ExecToolchain struct {
	// Binary is the resolved path of the go command.
	Binary string
	// Env is appended to the current environment.
	Env []string
}

// NewExecToolchain resolves binary on PATH.
func NewExecToolchain(binary string) (*ExecToolchain, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, err
	}
	return &ExecToolchain{Binary: path}, nil
}

// Build implements Toolchain.
func (t *ExecToolchain) Build(ctx context.Context, dir string, args []string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, t.Binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), t.Env...)
	if !hasEnv(cmd.Env, "CGO_ENABLED") {
		// Plugins need cgo.
		cmd.Env = append(cmd.Env, "CGO_ENABLED=1")
	}

	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return out, exitErr.ExitCode(), nil
	}
	if err != nil {
		return out, -1, err
	}
	return out, 0, nil
}

func hasEnv(env []string, name string) bool {
	for _, kv := range env {
		if strings.HasPrefix(kv, name+"=") {
			return true
		}
	}
	return false
}
