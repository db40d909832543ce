// Package projectgraph turns parsed sbt structure data into a normalized,
// IDE-agnostic project graph: modules, libraries, dependency edges, content
// roots, build modules and SDK selection.
package projectgraph

import (
	graphlib "github.com/dominikbraun/graph"
)

// Scope classifies dependency visibility on the classpath.
type Scope string

const (
	ScopeCompile  Scope = "COMPILE"
	ScopeTest     Scope = "TEST"
	ScopeRuntime  Scope = "RUNTIME"
	ScopeProvided Scope = "PROVIDED"
)

// ModuleKind distinguishes regular project modules from synthesized build
// definition modules.
type ModuleKind string

const (
	KindProject ModuleKind = "project"
	KindBuild   ModuleKind = "build"
)

// SdkRef identifies the SDK a module compiles against.
type SdkRef struct {
	Kind  SdkKind `json:"kind"`
	Value string  `json:"value"`
}

// SdkKind is the tier the SDK was selected from.
type SdkKind string

const (
	SdkAndroid SdkKind = "android"
	SdkJdkHome SdkKind = "jdkHome"
	SdkNamed   SdkKind = "named"
)

// ModuleNode is one module of the normalized graph. Nodes are addressed by
// stable string IDs; edges live in a separate list (no embedded pointers).
type ModuleNode struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Kind        ModuleKind   `json:"kind"`
	BaseDir     string       `json:"baseDir"`
	ContentRoot *ContentRoot `json:"contentRoot,omitempty"`
	Sdk         SdkRef       `json:"sdk"`

	Scala   *ScalaFacet   `json:"scala,omitempty"`
	Android *AndroidFacet `json:"android,omitempty"`
	Play2   *Play2Facet   `json:"play2,omitempty"`

	// Build modules carry the declared build-script imports and the
	// resolver list (declared resolvers plus the local cache resolver).
	Imports   []string   `json:"imports,omitempty"`
	Resolvers []Resolver `json:"resolvers,omitempty"`
}

// ScalaFacet describes a module's Scala compiler setup.
type ScalaFacet struct {
	Version      string   `json:"version"`
	LibraryJars  []string `json:"libraryJars,omitempty"`
	CompilerJars []string `json:"compilerJars,omitempty"`
	Options      []string `json:"options,omitempty"`
}

// AndroidFacet describes a module's Android target.
type AndroidFacet struct {
	TargetVersion string `json:"targetVersion"`
	ManifestPath  string `json:"manifestPath,omitempty"`
}

// Play2Facet marks a module as a Play framework application.
type Play2Facet struct {
	PlayVersion string `json:"playVersion,omitempty"`
}

// Resolver is an artifact resolver attached to a build module.
type Resolver struct {
	Name string `json:"name"`
	Root string `json:"root"`
}

// LibraryNode is one deduplicated library. Name doubles as the dedup key.
// An unresolved library has empty artifact paths.
type LibraryNode struct {
	Name     string   `json:"name"`
	Binaries []string `json:"binaries,omitempty"`
	Docs     []string `json:"docs,omitempty"`
	Sources  []string `json:"sources,omitempty"`
	Resolved bool     `json:"resolved"`
}

// DependencyEdge is one dependency between two nodes of the graph.
type DependencyEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Scope    Scope  `json:"scope"`
	Exported bool   `json:"exported"`
}

// ContentRoot is a module's source layout. Paths outside the module base
// directory are filtered out during construction, never included.
type ContentRoot struct {
	Base string `json:"base"`

	Sources          []string `json:"sources,omitempty"`
	ManagedSources   []string `json:"managedSources,omitempty"`
	Resources        []string `json:"resources,omitempty"`
	ManagedResources []string `json:"managedResources,omitempty"`

	TestSources          []string `json:"testSources,omitempty"`
	ManagedTestSources   []string `json:"managedTestSources,omitempty"`
	TestResources        []string `json:"testResources,omitempty"`
	ManagedTestResources []string `json:"managedTestResources,omitempty"`

	Excluded []string `json:"excluded,omitempty"`
}

// ProjectGraph is the single output artifact of one import attempt.
type ProjectGraph struct {
	RootModuleID string           `json:"rootModuleId"`
	Modules      []ModuleNode     `json:"modules"`
	Libraries    []LibraryNode    `json:"libraries"`
	Edges        []DependencyEdge `json:"edges"`

	topology graphlib.Graph[string, string]
}

// Topology exposes the directed node/edge structure for traversal queries.
func (g *ProjectGraph) Topology() graphlib.Graph[string, string] {
	return g.topology
}

// Module returns the module with the given ID, if present.
func (g *ProjectGraph) Module(id string) (ModuleNode, bool) {
	for _, m := range g.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return ModuleNode{}, false
}

// Library returns the library with the given name, if present.
func (g *ProjectGraph) Library(name string) (LibraryNode, bool) {
	for _, l := range g.Libraries {
		if l.Name == name {
			return l, true
		}
	}
	return LibraryNode{}, false
}

// EdgesFrom returns all dependency edges leaving the given node.
func (g *ProjectGraph) EdgesFrom(id string) []DependencyEdge {
	var out []DependencyEdge
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// ModuleNodeID returns the graph node ID for a project module.
func ModuleNodeID(projectID string) string { return "module:" + projectID }

// BuildModuleNodeID returns the graph node ID for a project's build module.
// Derived deterministically from the owning project's ID.
func BuildModuleNodeID(projectID string) string { return "module:" + projectID + buildModuleSuffix }

// LibraryNodeID returns the graph node ID for a library.
func LibraryNodeID(name string) string { return "library:" + name }
