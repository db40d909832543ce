// Package importer sequences a full project import: detect the build tool
// version, gate it, dump the project structure, parse it, and build the
// normalized project graph.
package importer

import goversion "github.com/hashicorp/go-version"

// MinImportVersion is the oldest build tool version import works with at all.
const MinImportVersion = "0.12.4"

// MinShellVersion is the oldest version supporting the interactive-shell
// dump path. Stricter than MinImportVersion.
const MinShellVersion = "0.13.5"

// SupportsImport reports whether the detected version can be imported.
// Unparseable versions are rejected.
func SupportsImport(detected string) bool {
	return atLeast(detected, MinImportVersion)
}

// SupportsShellImport reports whether the interactive-shell dump path is
// available: the version must allow it and a live shell session must exist
// for the target project.
func SupportsShellImport(detected string, shellAvailable bool) bool {
	return shellAvailable && atLeast(detected, MinShellVersion)
}

func atLeast(detected, minimum string) bool {
	v, err := goversion.NewVersion(detected)
	if err != nil {
		return false
	}
	floor := goversion.Must(goversion.NewVersion(minimum))
	return v.GreaterThanOrEqual(floor)
}
