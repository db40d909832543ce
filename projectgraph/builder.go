package projectgraph

import (
	"errors"
	"fmt"
	"path/filepath"

	graphlib "github.com/dominikbraun/graph"

	"github.com/BuildModelHQ/keel/sbtstructure"
)

// BuildOptions carries the caller-side inputs of graph construction.
type BuildOptions struct {
	// ImportRoot is the directory the import was started from. The project
	// whose base equals it becomes the root module.
	ImportRoot string

	// DefaultJdkName is the last-resort SDK name when a project declares
	// neither an Android target nor a JDK home.
	DefaultJdkName string
}

// Build converts parsed structure data into a normalized project graph.
// It is a pure transformation over the dump plus options; any invariant
// violation aborts construction with no partial result.
func Build(data *sbtstructure.StructureData, opts BuildOptions) (*ProjectGraph, error) {
	root, err := selectRootProject(data.Projects, opts.ImportRoot)
	if err != nil {
		return nil, err
	}

	libraries, index := buildLibraries(data)

	g := &ProjectGraph{
		RootModuleID: ModuleNodeID(root.ID),
		Libraries:    libraries,
	}

	projectByID := make(map[string]*sbtstructure.ProjectData, len(data.Projects))
	for i := range data.Projects {
		projectByID[data.Projects[i].ID] = &data.Projects[i]
	}

	var edges []DependencyEdge

	for i := range data.Projects {
		p := &data.Projects[i]

		module := ModuleNode{
			ID:          ModuleNodeID(p.ID),
			Name:        p.Name,
			Kind:        KindProject,
			BaseDir:     p.Base,
			ContentRoot: buildContentRoot(p),
			Sdk:         selectSdk(p, opts.DefaultJdkName),
		}
		if p.Scala != nil {
			module.Scala = &ScalaFacet{
				Version:      p.Scala.Version,
				LibraryJars:  p.Scala.LibraryJars,
				CompilerJars: p.Scala.CompilerJars,
				Options:      p.Scala.Options,
			}
		}
		if p.Android != nil {
			module.Android = &AndroidFacet{TargetVersion: p.Android.TargetVersion, ManifestPath: p.Android.ManifestPath}
		}
		if p.Play2 != nil {
			module.Play2 = &Play2Facet{PlayVersion: p.Play2.PlayVersion}
		}
		g.Modules = append(g.Modules, module)

		// Library dependencies resolve by identifier through the index. A
		// miss here means the dependency list and library set disagree.
		for _, dep := range p.Dependencies.Modules {
			name, ok := index[dep.ID]
			if !ok {
				return nil, &LibraryNotFoundError{ProjectID: p.ID, ID: dep.ID}
			}
			edges = append(edges, DependencyEdge{
				From:  ModuleNodeID(p.ID),
				To:    LibraryNodeID(name),
				Scope: scopeFor(dep.Configurations),
			})
		}

		// Raw jar dependencies merge into one synthesized library per scope.
		unmanaged, scopes := buildUnmanagedLibraries(p.ID, p.Dependencies.Jars)
		for j, lib := range unmanaged {
			g.Libraries = append(g.Libraries, lib)
			edges = append(edges, DependencyEdge{
				From:  ModuleNodeID(p.ID),
				To:    LibraryNodeID(lib.Name),
				Scope: scopes[j],
			})
		}

		for _, ref := range p.Dependencies.Projects {
			if _, ok := projectByID[ref.Project]; !ok {
				return nil, &ProjectDependencyNotFoundError{ProjectID: p.ID, Dependency: ref.Project}
			}
			edges = append(edges, DependencyEdge{
				From:     ModuleNodeID(p.ID),
				To:       ModuleNodeID(ref.Project),
				Scope:    scopeFor(ref.Configurations),
				Exported: true,
			})
		}
	}

	// Every project gets a companion build module. Subprojects sharing the
	// root's build URI inherit its build classpath through an edge to the
	// root's build module.
	for i := range data.Projects {
		p := &data.Projects[i]
		module, library := synthesizeBuildModule(p, data.LocalCachePath, opts.DefaultJdkName)
		g.Modules = append(g.Modules, module)
		g.Libraries = append(g.Libraries, library)
		edges = append(edges, DependencyEdge{
			From:  module.ID,
			To:    LibraryNodeID(library.Name),
			Scope: ScopeCompile,
		})
		if p.ID != root.ID && p.BuildURI != "" && p.BuildURI == root.BuildURI {
			edges = append(edges, DependencyEdge{
				From:     module.ID,
				To:       BuildModuleNodeID(root.ID),
				Scope:    ScopeCompile,
				Exported: true,
			})
		}
	}

	if err := attachEdges(g, edges); err != nil {
		return nil, err
	}
	return g, nil
}

// selectRootProject applies the fixed root selection rule: base path match
// against the import root, then first project, then failure on empty input.
func selectRootProject(projects []sbtstructure.ProjectData, importRoot string) (*sbtstructure.ProjectData, error) {
	if len(projects) == 0 {
		return nil, ErrNoRootProject
	}
	canonical := filepath.Clean(importRoot)
	for i := range projects {
		if filepath.Clean(projects[i].Base) == canonical {
			return &projects[i], nil
		}
	}
	return &projects[0], nil
}

// attachEdges materializes the edge list into the graph, enforcing that
// every edge endpoint names a node present in the arena. Duplicate edges
// between the same pair of nodes collapse to the first occurrence.
func attachEdges(g *ProjectGraph, edges []DependencyEdge) error {
	topology := graphlib.New(graphlib.StringHash, graphlib.Directed())

	for _, m := range g.Modules {
		if err := topology.AddVertex(m.ID); err != nil {
			return fmt.Errorf("failed to add module node %s: %w", m.ID, err)
		}
	}
	for _, l := range g.Libraries {
		if err := topology.AddVertex(LibraryNodeID(l.Name)); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
			return fmt.Errorf("failed to add library node %s: %w", l.Name, err)
		}
	}

	for _, e := range edges {
		err := topology.AddEdge(e.From, e.To, graphlib.EdgeData(e))
		if errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to add dependency edge %s -> %s: %w", e.From, e.To, err)
		}
		g.Edges = append(g.Edges, e)
	}

	g.topology = topology
	return nil
}
