package testutil

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/specialistvlad/echoplug/capability"
)

// FakePlugins stands in for both the Go toolchain and the plugin loader.
//
// As a toolchain it parses main.go in the build directory instead of
// compiling it: syntax errors become diagnostics with exit status 1, and a
// parseable file produces an artifact whose catalog answers with the string
// literal returned by GetMessage. As an opener it serves those catalogs by
// artifact path.
//
// Like the real runtime, an artifact linked with an overridden plugin path
// (-ldflags=-pluginpath=...) builds fine but cannot be opened, because its
// symbols are no longer found under the package path of its main module.
type FakePlugins struct {
	mu       sync.Mutex
	catalogs map[string]capability.Catalog
	mangled  map[string]bool
	lastArgs []string
	builds   int
	opens    int
}

// NewFakePlugins returns an empty FakePlugins.
func NewFakePlugins() *FakePlugins {
	return &FakePlugins{
		catalogs: make(map[string]capability.Catalog),
		mangled:  make(map[string]bool),
	}
}

// LastArgs returns the arguments of the most recent build.
func (f *FakePlugins) LastArgs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lastArgs...)
}

// Builds returns how many builds were attempted.
func (f *FakePlugins) Builds() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.builds
}

// Opens returns how many artifacts were opened.
func (f *FakePlugins) Opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

// Add registers a catalog for an artifact written by the test itself.
func (f *FakePlugins) Add(path string, catalog capability.Catalog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogs[path] = catalog
}

// Build implements compiler.Toolchain.
func (f *FakePlugins) Build(ctx context.Context, dir string, args []string) ([]byte, int, error) {
	f.mu.Lock()
	f.builds++
	f.lastArgs = append([]string(nil), args...)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, -1, err
	}
	out := outputPath(args)
	if out == "" {
		return nil, -1, errors.New("fake toolchain: no -o argument")
	}

	src, err := os.ReadFile(filepath.Join(dir, "main.go"))
	if err != nil {
		return nil, -1, err
	}
	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err != nil {
		return []byte("go: cannot find main module\n"), 1, nil
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filepath.Join(dir, "main.go"), src, parser.AllErrors)
	if err != nil {
		return diagnostics(err), 1, nil
	}
	msg, ok := returnedLiteral(file)
	if !ok {
		return []byte("./main.go: GetMessage must return a string literal\n"), 1, nil
	}

	if err := os.WriteFile(out, src, 0o644); err != nil {
		return nil, -1, err
	}
	id := strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
	f.Add(out, capability.Catalog{
		id: func() capability.Messenger { return capability.Message(msg) },
	})
	f.mu.Lock()
	f.mangled[out] = overridesPluginPath(args)
	f.mu.Unlock()
	return nil, 0, nil
}

// Open implements registry.Opener.
func (f *FakePlugins) Open(path string) (capability.Catalog, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	for _, p := range []string{path, abs} {
		if f.mangled[p] {
			return nil, fmt.Errorf("plugin.Open(%q): could not find symbol %s: undefined symbol", path, capability.ExportsSymbol)
		}
		if c, ok := f.catalogs[p]; ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("fake opener: %s is not a known plugin", path)
}

func outputPath(args []string) string {
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func overridesPluginPath(args []string) bool {
	for _, a := range args {
		if strings.HasPrefix(a, "-ldflags") && strings.Contains(a, "-pluginpath") {
			return true
		}
	}
	return false
}

func diagnostics(err error) []byte {
	var list scanner.ErrorList
	if errors.As(err, &list) {
		var b strings.Builder
		for _, e := range list {
			b.WriteString(e.Error())
			b.WriteByte('\n')
		}
		return []byte(b.String())
	}
	return []byte(err.Error() + "\n")
}

// returnedLiteral finds the string literal returned by a GetMessage method.
func returnedLiteral(file *ast.File) (string, bool) {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != "GetMessage" || fn.Body == nil {
			continue
		}
		for _, stmt := range fn.Body.List {
			ret, ok := stmt.(*ast.ReturnStmt)
			if !ok || len(ret.Results) != 1 {
				continue
			}
			lit, ok := ret.Results[0].(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				continue
			}
			s, err := strconv.Unquote(lit.Value)
			return s, err == nil
		}
	}
	return "", false
}
