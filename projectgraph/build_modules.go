package projectgraph

import (
	"path/filepath"

	"github.com/BuildModelHQ/keel/sbtstructure"
)

const buildModuleSuffix = "-build"

// localCacheResolverName labels the synthesized resolver pointing at the
// local artifact cache. It is appended after all declared resolvers.
const localCacheResolverName = "Local cache"

// buildModuleLibraryName names the library wrapping the build tool's own
// classes attached to a project's build module.
func buildModuleLibraryName(projectID string) string {
	return projectID + "-build-libraries"
}

// synthesizeBuildModule creates the companion build-definition module for a
// project: a content root over the project/ subdirectory, the build
// classpath wrapped in a library, declared imports, and the resolver list
// with the local cache resolver appended.
func synthesizeBuildModule(p *sbtstructure.ProjectData, localCachePath string, defaultJdkName string) (ModuleNode, LibraryNode) {
	buildDir := filepath.Join(p.Base, "project")

	resolvers := make([]Resolver, 0, len(p.Resolvers)+1)
	for _, r := range p.Resolvers {
		resolvers = append(resolvers, Resolver{Name: r.Name, Root: r.Root})
	}
	resolvers = append(resolvers, Resolver{Name: localCacheResolverName, Root: localCachePath})

	module := ModuleNode{
		ID:      BuildModuleNodeID(p.ID),
		Name:    p.Name + buildModuleSuffix,
		Kind:    KindBuild,
		BaseDir: buildDir,
		ContentRoot: &ContentRoot{
			Base:    buildDir,
			Sources: []string{buildDir},
			Excluded: []string{
				filepath.Join(buildDir, "target"),
				filepath.Join(buildDir, "project", "target"),
			},
		},
		Sdk:       selectSdk(p, defaultJdkName),
		Imports:   p.Build.Imports,
		Resolvers: resolvers,
	}

	library := LibraryNode{
		Name:     buildModuleLibraryName(p.ID),
		Binaries: p.Build.Classpath,
		Docs:     p.Build.Docs,
		Sources:  p.Build.Sources,
		Resolved: true,
	}
	return module, library
}
