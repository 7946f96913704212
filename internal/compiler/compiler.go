package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/specialistvlad/echoplug/internal/ctxlog"
	"github.com/specialistvlad/echoplug/internal/fsutil"
	"github.com/specialistvlad/echoplug/internal/ident"
)

// ArtifactExtension is the file extension of compiled plugins.
const ArtifactExtension = ".so"

// DefaultGoVersion is the language version written into generated modules.
const DefaultGoVersion = "1.24"

// Options configures a Compiler.
type Options struct {
	// ExtensionDir receives {id}.so artifacts.
	ExtensionDir string
	// BuildDir holds the throwaway per-id modules.
	BuildDir string
	// HostModuleDir is the source tree of the host module.
	HostModuleDir string
	// HostModulePath overrides the module path read from HostModuleDir/go.mod.
	HostModulePath string
	// GoBinary is looked up on PATH when Toolchain is nil. Defaults to "go".
	GoBinary string
	// GoVersion is the go directive of generated modules.
	GoVersion string
	// KeepSources leaves the generated module in BuildDir after every build.
	KeepSources bool
	// Toolchain replaces the go command, mainly for tests.
	Toolchain Toolchain
}

// Compiler turns source text into plugin artifacts. A single instance is
// meant to be reused for the lifetime of the process.
type Compiler struct {
	opts      Options
	hostPath  string
	hostDir   string
	toolchain Toolchain
}

// New prepares the extension and build directories and resolves the
// toolchain once.
func New(ctx context.Context, opts Options) (*Compiler, error) {
	logger := ctxlog.FromContext(ctx)

	if opts.ExtensionDir == "" || opts.BuildDir == "" {
		return nil, errors.New("compiler: extension and build directories are required")
	}
	if opts.GoVersion == "" {
		opts.GoVersion = DefaultGoVersion
	}
	if opts.GoBinary == "" {
		opts.GoBinary = "go"
	}
	for _, dir := range []string{opts.ExtensionDir, opts.BuildDir} {
		if err := fsutil.EnsureDir(dir); err != nil {
			return nil, err
		}
	}

	hostDir, err := filepath.Abs(opts.HostModuleDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve host module dir: %w", err)
	}
	hostPath := opts.HostModulePath
	if hostPath == "" {
		if hostPath, err = hostModulePath(hostDir); err != nil {
			return nil, err
		}
	}

	tc := opts.Toolchain
	if tc == nil {
		etc, err := NewExecToolchain(opts.GoBinary)
		if err != nil {
			return nil, fmt.Errorf("failed to find go toolchain %q: %w", opts.GoBinary, err)
		}
		logger.Debug("Go toolchain resolved.", "path", etc.Binary)
		tc = etc
	}

	logger.Debug("Compiler initialized.",
		"extension_dir", opts.ExtensionDir,
		"build_dir", opts.BuildDir,
		"host_module", hostPath,
		"go_version", opts.GoVersion,
	)
	return &Compiler{opts: opts, hostPath: hostPath, hostDir: hostDir, toolchain: tc}, nil
}

// ArtifactPath returns where the artifact for id is written.
func (c *Compiler) ArtifactPath(id string) string {
	return filepath.Join(c.opts.ExtensionDir, id+ArtifactExtension)
}

// Compile builds source into the artifact for id. A failed build is a Result
// with a non-zero ReturnCode; err is only set when the build could not run.
func (c *Compiler) Compile(ctx context.Context, id, source string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	if !ident.Valid(id) {
		return nil, fmt.Errorf("compiler: invalid identifier %q", id)
	}

	start := time.Now()
	moduleDir := filepath.Join(c.opts.BuildDir, id)
	if err := c.writeModule(moduleDir, id, source); err != nil {
		return nil, err
	}

	artifact := c.ArtifactPath(id)
	outPath, err := filepath.Abs(artifact)
	if err != nil {
		return nil, err
	}
	// The plugin path stays the default, derived from the unique module path
	// of the generated module. Symbols are looked up under it at load time.
	args := []string{
		"build",
		"-buildmode=plugin",
		"-mod=mod",
		"-o", outPath,
		".",
	}
	logger.Debug("Invoking toolchain.", "dir", moduleDir, "args", args)

	out, code, err := c.toolchain.Build(ctx, moduleDir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run toolchain for %s: %w", id, err)
	}

	res := &Result{
		ID:           id,
		ArtifactPath: artifact,
		ReturnCode:   code,
		Output:       splitLines(out),
		Duration:     time.Since(start),
	}
	if !res.Succeeded() {
		// Nothing at the target path can be trusted after a failed build.
		if err := os.Remove(artifact); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to remove partial artifact.", "path", artifact, "error", err)
		}
		logger.Debug("Compilation failed.", "return_code", code, "diagnostics", len(res.Output))
		c.cleanModule(ctx, moduleDir)
		return res, nil
	}

	if info, err := os.Stat(artifact); err == nil {
		logger.Debug("Compilation succeeded.", "artifact", artifact, "size", humanize.Bytes(uint64(info.Size())), "duration", res.Duration)
	}
	c.cleanModule(ctx, moduleDir)
	return res, nil
}

// cleanModule removes the generated module unless sources are kept.
func (c *Compiler) cleanModule(ctx context.Context, dir string) {
	if c.opts.KeepSources {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to clean build directory.", "dir", dir, "error", err)
	}
}

// writeModule lays out the throwaway module for id.
func (c *Compiler) writeModule(dir, id, source string) error {
	if err := fsutil.EnsureDir(dir); err != nil {
		return err
	}
	gomod, err := generatedGoMod(id, c.opts.GoVersion, c.hostPath, c.hostDir)
	if err != nil {
		return fmt.Errorf("failed to generate go.mod for %s: %w", id, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), gomod, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte(source), 0o644); err != nil {
		return err
	}

	// The host go.sum covers the checksums the generated module graph needs.
	err = fsutil.CopyFile(filepath.Join(c.hostDir, "go.sum"), filepath.Join(dir, "go.sum"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to copy host go.sum: %w", err)
	}
	return nil
}
