package projectgraph

import (
	"sort"

	"github.com/BuildModelHQ/keel/sbtstructure"
)

// sharedDocLibraryName names the single synthesized library that absorbs
// documentation-only modules. Merging them keeps javadoc/source jars from
// producing one library entry per module.
const sharedDocLibraryName = "module-docs-and-sources"

// libraryName computes the deterministic, dedup-keyed name of a library from
// its module identifier: org:name:revision[:classifier]:type.
func libraryName(id sbtstructure.ModuleIdentifier) string {
	return id.String()
}

// libraryIndex maps module identifiers to the library each one resolves to.
type libraryIndex map[sbtstructure.ModuleIdentifier]string

// buildLibraries constructs the deduplicated library list from the dump's
// repository plus every module identifier referenced by any project.
// Referenced identifiers absent from the repository become unresolved
// libraries with empty artifact paths.
func buildLibraries(data *sbtstructure.StructureData) ([]LibraryNode, libraryIndex) {
	index := make(libraryIndex)
	var libraries []LibraryNode
	var shared *LibraryNode

	if data.Repository != nil {
		for _, m := range data.Repository.Modules {
			if m.IsDocumentationOnly() {
				if len(m.Docs) == 0 && len(m.Sources) == 0 {
					continue
				}
				if shared == nil {
					shared = &LibraryNode{Name: sharedDocLibraryName, Resolved: true}
				}
				shared.Docs = append(shared.Docs, m.Docs...)
				shared.Sources = append(shared.Sources, m.Sources...)
				index[m.ID] = sharedDocLibraryName
				continue
			}

			name := libraryName(m.ID)
			if _, seen := index[m.ID]; seen {
				continue
			}
			index[m.ID] = name
			libraries = append(libraries, LibraryNode{
				Name:     name,
				Binaries: m.Binaries,
				Docs:     m.Docs,
				Sources:  m.Sources,
				Resolved: true,
			})
		}
	}

	// Dependency references missing from the repository still get a library
	// node so the IDE can show them as unresolved.
	for _, p := range data.Projects {
		for _, dep := range p.Dependencies.Modules {
			if _, ok := index[dep.ID]; ok {
				continue
			}
			name := libraryName(dep.ID)
			index[dep.ID] = name
			libraries = append(libraries, LibraryNode{Name: name, Resolved: false})
		}
	}

	if shared != nil {
		libraries = append(libraries, *shared)
	}

	sort.Slice(libraries, func(i, j int) bool { return libraries[i].Name < libraries[j].Name })
	return libraries, index
}

// unmanagedLibraryName names the synthesized library that aggregates raw jar
// dependencies of one scope. The default scope keeps the unqualified name.
func unmanagedLibraryName(scope Scope) string {
	if scope == ScopeCompile {
		return "unmanaged-jars"
	}
	return "unmanaged-jars-" + string(scope)
}

// buildUnmanagedLibraries merges a project's raw file-path dependencies into
// one synthesized library per scope. Returns the libraries and the scope
// each one serves, in deterministic scope order.
func buildUnmanagedLibraries(projectID string, jars []sbtstructure.JarDependencyData) ([]LibraryNode, []Scope) {
	byScope := make(map[Scope][]string)
	for _, jar := range jars {
		scope := scopeFor(jar.Configurations)
		byScope[scope] = append(byScope[scope], jar.File)
	}

	scopes := make([]Scope, 0, len(byScope))
	for scope := range byScope {
		scopes = append(scopes, scope)
	}
	sort.Slice(scopes, func(i, j int) bool { return scopes[i] < scopes[j] })

	libraries := make([]LibraryNode, 0, len(scopes))
	for _, scope := range scopes {
		libraries = append(libraries, LibraryNode{
			Name:     projectID + "-" + unmanagedLibraryName(scope),
			Binaries: byScope[scope],
			Resolved: true,
		})
	}
	return libraries, scopes
}

// scopeFor maps a dependency's declared configurations to a classpath scope.
// The first recognized configuration wins; anything unrecognized (or an
// empty list) defaults to the compile scope.
func scopeFor(configurations []string) Scope {
	for _, c := range configurations {
		switch c {
		case "compile":
			return ScopeCompile
		case "test", "it":
			return ScopeTest
		case "runtime":
			return ScopeRuntime
		case "provided":
			return ScopeProvided
		}
	}
	return ScopeCompile
}
