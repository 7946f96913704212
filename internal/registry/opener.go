package registry

import (
	"fmt"
	"plugin"

	"github.com/specialistvlad/echoplug/capability"
)

// Opener loads the export catalog of one artifact.
type Opener interface {
	Open(path string) (capability.Catalog, error)
}

// PluginOpener opens artifacts with the standard library plugin loader.
type PluginOpener struct{}

// Open implements Opener.
func (PluginOpener) Open(path string) (capability.Catalog, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	sym, err := p.Lookup(capability.ExportsSymbol)
	if err != nil {
		return nil, err
	}

	switch exports := sym.(type) {
	case *capability.Catalog:
		return *exports, nil
	default:
		return nil, fmt.Errorf("symbol %s in %s has type %T, want *capability.Catalog", capability.ExportsSymbol, path, sym)
	}
}
