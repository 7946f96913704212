package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/echoplug/capability"
	"github.com/specialistvlad/echoplug/internal/compiler"
	"github.com/specialistvlad/echoplug/internal/ctxlog"
	"github.com/specialistvlad/echoplug/internal/ident"
	"github.com/specialistvlad/echoplug/internal/registry"
	"github.com/specialistvlad/echoplug/internal/render"
)

// Renderer produces source text for a message.
type Renderer interface {
	Render(msg render.Message) (string, error)
}

// Compiler builds source text into an artifact named by id.
type Compiler interface {
	Compile(ctx context.Context, id, source string) (*compiler.Result, error)
}

// Registry resolves capabilities by identifier.
type Registry interface {
	Refresh(ctx context.Context) error
	Resolve(id string) (capability.Messenger, error)
	IDs() []string
}

// Streams are the console the loop talks to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer // diagnostics and logs
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	config   *Config
	streams  Streams
	logger   *slog.Logger
	renderer Renderer
	compiler Compiler
	registry Registry
	newID    func() string
}

type options struct {
	toolchain compiler.Toolchain
	opener    registry.Opener
	modules   []registry.Module
	newID     func() string
}

// Option customizes how NewApp assembles the App.
type Option func(*options)

// WithToolchain replaces the go command used for compilation.
func WithToolchain(tc compiler.Toolchain) Option {
	return func(o *options) { o.toolchain = tc }
}

// WithOpener replaces the plugin loader used by the registry.
func WithOpener(op registry.Opener) Option {
	return func(o *options) { o.opener = op }
}

// WithModules replaces the compiled-in modules.
func WithModules(mods ...registry.Module) Option {
	return func(o *options) { o.modules = mods }
}

// WithIDGenerator replaces the identifier generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// NewApp is the constructor for the main application. It loads the
// template, prepares the compiler and performs the registry's initial scan.
func NewApp(ctx context.Context, streams Streams, cfg *Config, opts ...Option) (*App, error) {
	o := options{
		opener:  registry.PluginOpener{},
		modules: coreModules,
		newID:   ident.New,
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, streams.Err)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	renderer, err := render.New(cfg.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	logger.Debug("Template loaded.", "path", cfg.TemplatePath)

	comp, err := compiler.New(ctx, compiler.Options{
		ExtensionDir:  cfg.ExtensionDir,
		BuildDir:      cfg.BuildDir,
		HostModuleDir: cfg.ModuleDir,
		GoBinary:      cfg.GoBinary,
		GoVersion:     cfg.GoVersion,
		KeepSources:   cfg.KeepSources,
		Toolchain:     o.toolchain,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize compiler: %w", err)
	}

	reg, err := registry.New(ctx, cfg.ExtensionDir, o.opener, o.modules...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize registry: %w", err)
	}
	logger.Debug("Registry initialized.", "exports", len(reg.IDs()))

	return &App{
		config:   cfg,
		streams:  streams,
		logger:   logger,
		renderer: renderer,
		compiler: comp,
		registry: reg,
		newID:    o.newID,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() Registry {
	return a.registry
}
