package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/echoplug/capability"
	"github.com/specialistvlad/echoplug/internal/ident"
)

// validateCatalog checks that every export of a loaded plugin has a usable
// key and a factory.
func validateCatalog(path string, c capability.Catalog) error {
	var errs []string
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !ident.Valid(k) {
			errs = append(errs, fmt.Sprintf("export key %q is not a valid identifier", k))
		}
		if c[k] == nil {
			errs = append(errs, fmt.Sprintf("export %q has a nil factory", k))
		}
	}
	if len(c) == 0 {
		errs = append(errs, "catalog is empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid plugin %s:\n- %s", path, strings.Join(errs, "\n- "))
	}
	return nil
}
