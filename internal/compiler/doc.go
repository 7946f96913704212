// Package compiler builds rendered Go source into plugins that the registry
// can load.
//
// Each compilation gets a throwaway module under the build directory. Its
// go.mod requires the host module and replaces it with the host source tree,
// so the generated package links against the exact capability package the
// running binary was built from. The Go toolchain is invoked with
// -buildmode=plugin and the artifact lands in the extension directory as
// {id}.so.
//
// A non-zero toolchain exit is reported as a failed Result carrying the
// diagnostics, never as an error: callers are expected to print it and move
// on. Errors are reserved for problems that prevent the toolchain from
// running at all.
package compiler
