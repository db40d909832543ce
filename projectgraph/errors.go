package projectgraph

import (
	"errors"
	"fmt"

	"github.com/BuildModelHQ/keel/sbtstructure"
)

// ErrNoRootProject reports a dump with an empty project list. No partial
// graph is ever produced.
var ErrNoRootProject = errors.New("structure dump contains no projects")

// LibraryNotFoundError reports a module dependency whose identifier has no
// matching library. The library set is built from the same dependency lists,
// so this indicates an internal inconsistency, always fatal.
type LibraryNotFoundError struct {
	ProjectID string
	ID        sbtstructure.ModuleIdentifier
}

func (e *LibraryNotFoundError) Error() string {
	return fmt.Sprintf("project %q depends on module %q with no matching library", e.ProjectID, e.ID.String())
}

// ProjectDependencyNotFoundError reports a project-to-project dependency
// that names a project absent from the dump. Always fatal.
type ProjectDependencyNotFoundError struct {
	ProjectID  string
	Dependency string
}

func (e *ProjectDependencyNotFoundError) Error() string {
	return fmt.Sprintf("project %q depends on unknown project %q", e.ProjectID, e.Dependency)
}
