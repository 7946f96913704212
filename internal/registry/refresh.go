package registry

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/specialistvlad/echoplug/internal/ctxlog"
	"github.com/specialistvlad/echoplug/internal/fsutil"
	"github.com/zeebo/xxh3"
	"go.uber.org/multierr"
)

// ArtifactExtension is the suffix of files the registry loads.
const ArtifactExtension = ".so"

// Refresh rescans the extension directory and merges the exports of every
// artifact not seen before. Every artifact is attempted; the failures are
// returned together and the exports that did load stay resolvable. An
// artifact that failed is reported once and skipped until its contents
// change.
func (r *Registry) Refresh(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	paths, err := fsutil.ListFilesByExtension(r.dir, ArtifactExtension)
	if err != nil {
		return fmt.Errorf("failed to scan extension directory %s: %w", r.dir, err)
	}

	var errs error
	added := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to read artifact %s: %w", path, err))
			continue
		}
		fp := xxh3.Hash(data)

		if prev, ok := r.loaded[path]; ok {
			if prev.fingerprint != fp {
				logger.Warn("Artifact changed on disk after it was loaded; keeping the loaded version.", "path", path)
			}
			continue
		}

		if prev, ok := r.rejected[path]; ok && prev == fp {
			logger.Debug("Skipping artifact that failed to load before.", "path", path)
			continue
		}

		n, err := r.load(ctx, path, fp)
		if err != nil {
			r.rejected[path] = fp
			errs = multierr.Append(errs, err)
			continue
		}
		delete(r.rejected, path)
		added += n
	}

	logger.Debug("Extension directory refreshed.", "dir", r.dir, "artifacts", len(r.loaded), "new_exports", added)
	return errs
}

// load opens one artifact and merges its catalog.
func (r *Registry) load(ctx context.Context, path string, fp uint64) (int, error) {
	logger := ctxlog.FromContext(ctx)

	catalog, err := r.opener.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open artifact %s: %w", path, err)
	}
	if err := validateCatalog(path, catalog); err != nil {
		return 0, err
	}

	exports := make([]string, 0, len(catalog))
	for id, factory := range catalog {
		if _, shadowed := r.static[id]; shadowed {
			logger.Warn("Plugin export shadows a compiled-in export and is ignored.", "id", id, "path", path)
			continue
		}
		if _, dup := r.dynamic[id]; dup {
			logger.Warn("Export already provided by another artifact; keeping the first.", "id", id, "path", path)
			continue
		}
		r.dynamic[id] = factory
		exports = append(exports, id)
	}
	sort.Strings(exports)

	r.loaded[path] = artifact{fingerprint: fp, exports: exports}
	logger.Debug("Artifact loaded.", "path", path, "exports", exports)
	return len(exports), nil
}
