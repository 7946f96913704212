package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/echoplug/capability"
	"github.com/specialistvlad/echoplug/internal/ctxlog"
	"github.com/specialistvlad/echoplug/internal/fsutil"
)

// Module is the interface that all compiled-in modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// artifact is one plugin file that was merged into the directory catalog.
type artifact struct {
	fingerprint uint64
	exports     []string
}

// Registry aggregates the static and directory catalogs. It is not safe for
// concurrent use; the interactive loop is its only caller.
type Registry struct {
	dir    string
	opener Opener

	static  capability.Catalog
	dynamic capability.Catalog
	loaded  map[string]artifact

	// rejected holds the fingerprint of artifacts that failed to load. They
	// are retried only once their contents change.
	rejected map[string]uint64
}

// New registers the given modules, ensures dir exists and scans it once.
// Errors from individual artifacts during the initial scan are logged.
func New(ctx context.Context, dir string, opener Opener, modules ...Module) (*Registry, error) {
	logger := ctxlog.FromContext(ctx)

	r := &Registry{
		dir:     dir,
		opener:  opener,
		static:  make(capability.Catalog),
		dynamic: make(capability.Catalog),
		loaded:  make(map[string]artifact),

		rejected: make(map[string]uint64),
	}
	for _, mod := range modules {
		mod.Register(r)
	}
	logger.Debug("Compiled-in modules registered.", "modules", len(modules), "exports", len(r.static))

	if err := fsutil.EnsureDir(dir); err != nil {
		return nil, err
	}
	if err := r.Refresh(ctx); err != nil {
		logger.Warn("Some artifacts could not be loaded during the initial scan.", "dir", dir, "error", err)
	}
	return r, nil
}

// RegisterStatic adds a compiled-in export. Registering the same id twice is
// a programming error.
func (r *Registry) RegisterStatic(id string, factory capability.Factory) {
	if _, exists := r.static[id]; exists {
		panic(fmt.Sprintf("static export with id '%s' already registered", id))
	}
	if factory == nil {
		panic(fmt.Sprintf("static export '%s' has a nil factory", id))
	}
	r.static[id] = factory
}

// Resolve creates the capability instance exported under id.
func (r *Registry) Resolve(id string) (capability.Messenger, error) {
	if f, ok := r.static[id]; ok {
		return f(), nil
	}
	if f, ok := r.dynamic[id]; ok {
		return f(), nil
	}
	return nil, &ResolutionError{ID: id}
}

// IDs returns every resolvable identifier, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.static)+len(r.dynamic))
	for id := range r.static {
		ids = append(ids, id)
	}
	for id := range r.dynamic {
		if _, shadowed := r.static[id]; !shadowed {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
