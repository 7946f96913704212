// Package app wires the renderer, compiler and registry together and runs
// the interactive loop, decoupled from any specific entrypoint like a CLI.
package app
