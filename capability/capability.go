// Package capability defines the contract shared between the echoplug host
// and the plugins it compiles at runtime.
//
// Every plugin exports a package-level variable named by ExportsSymbol of
// type Catalog. Each key is the identifier the plugin was built for, and the
// value constructs the Messenger that answers for it. Compiled-in modules use
// the same Catalog shape when registering with the host registry.
//
// This package is imported by generated code, so it must stay free of
// internal imports and third-party dependencies.
package capability

// ExportsSymbol is the name of the Catalog variable every plugin exports.
const ExportsSymbol = "Exports"

// Messenger is the single-method capability every export implements.
type Messenger interface {
	GetMessage() string
}

// Factory constructs a Messenger on demand.
type Factory func() Messenger

// Catalog maps export keys to their factories.
type Catalog map[string]Factory

// Message is a Messenger that returns itself.
type Message string

// GetMessage implements Messenger.
func (m Message) GetMessage() string {
	return string(m)
}
