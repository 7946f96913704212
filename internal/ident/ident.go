// Package ident generates the identifiers that name compiled plugins, their
// exported types and their artifact files.
package ident

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

// Prefix keeps generated identifiers exported: plugin symbols and the
// generated type name must start with an upper-case letter.
const Prefix = "M"

var validID = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)

// New returns a fresh identifier made of Prefix and the hex form of a random
// UUID.
func New() string {
	u := uuid.New()
	return Prefix + hex.EncodeToString(u[:])
}

// Valid reports whether id can be used as an exported Go identifier and as a
// file name.
func Valid(id string) bool {
	return validID.MatchString(id)
}
