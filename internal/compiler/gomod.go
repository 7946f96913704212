package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// replacedVersion is the placeholder version used when a requirement is
// satisfied by a replace directive pointing at a directory.
const replacedVersion = "v0.0.0-00010101000000-000000000000"

// GeneratedModulePrefix prefixes the module path of every generated plugin.
const GeneratedModulePrefix = "echoplug.gen/"

// hostModulePath reads the module path declared by dir/go.mod.
func hostModulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read host go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("no module directive in %s", filepath.Join(dir, "go.mod"))
	}
	return path, nil
}

// generatedGoMod returns the go.mod for the plugin module of id.
func generatedGoMod(id, goVersion, hostPath, hostDir string) ([]byte, error) {
	f := new(modfile.File)
	if err := f.AddModuleStmt(GeneratedModulePrefix + id); err != nil {
		return nil, err
	}
	if err := f.AddGoStmt(goVersion); err != nil {
		return nil, err
	}
	if err := f.AddRequire(hostPath, replacedVersion); err != nil {
		return nil, err
	}
	if err := f.AddReplace(hostPath, "", hostDir, ""); err != nil {
		return nil, err
	}
	return f.Format()
}
