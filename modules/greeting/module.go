// Package greeting is a compiled-in module. Its export resolves exactly like
// a plugin's does, but is available before anything has been compiled.
package greeting

import (
	"github.com/specialistvlad/echoplug/capability"
	"github.com/specialistvlad/echoplug/internal/registry"
)

// ID is the export key of the greeting.
const ID = "Greeting"

// Text is what the greeting says.
const Text = "Hello from a compiled-in module."

// Messenger answers with Text.
type Messenger struct{}

// GetMessage implements capability.Messenger.
func (Messenger) GetMessage() string {
	return Text
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the greeting with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStatic(ID, func() capability.Messenger { return Messenger{} })
}
