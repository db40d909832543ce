package importer

import (
	"fmt"
)

// UnsupportedVersionError reports a build tool version below the import
// minimum, or no detectable version at all. Fixed by bumping the version.
type UnsupportedVersionError struct {
	Detected string
}

func (e *UnsupportedVersionError) Error() string {
	if e.Detected == "" {
		return fmt.Sprintf("could not detect a build tool version; import requires %s or newer", MinImportVersion)
	}
	return fmt.Sprintf("build tool version %s is not supported; import requires %s or newer", e.Detected, MinImportVersion)
}

// ImportError is the uniform wrapper every stage failure is converted into
// at the orchestrator boundary. Cause preserves the original error.
type ImportError struct {
	Stage State
	Cause error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed during %s: %v", e.Stage, e.Cause)
}

func (e *ImportError) Unwrap() error { return e.Cause }
