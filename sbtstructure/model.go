// Package sbtstructure defines the typed model of an sbt structure dump and
// the parser that deserializes the raw dump document into it.
package sbtstructure

import "fmt"

// StructureData is the root of a parsed structure dump. It is created once
// per import attempt and read-only thereafter.
type StructureData struct {
	SbtVersion     string            `yaml:"sbtVersion"`
	Projects       []ProjectData     `yaml:"projects"`
	Repository     *ModuleRepository `yaml:"repository,omitempty"`
	LocalCachePath string            `yaml:"localCachePath,omitempty"`
}

// ProjectData describes one sbt project (sub)module as dumped by the tool.
type ProjectData struct {
	ID             string              `yaml:"id"`
	Name           string              `yaml:"name"`
	Base           string              `yaml:"base"`
	BuildURI       string              `yaml:"buildURI"`
	Target         string              `yaml:"target"`
	Configurations []ConfigurationData `yaml:"configurations,omitempty"`
	Dependencies   DependencyData      `yaml:"dependencies,omitempty"`
	Scala          *ScalaData          `yaml:"scala,omitempty"`
	Java           *JavaData           `yaml:"java,omitempty"`
	Android        *AndroidData        `yaml:"android,omitempty"`
	Play2          *Play2Data          `yaml:"play2,omitempty"`
	Resolvers      []ResolverData      `yaml:"resolvers,omitempty"`
	Build          BuildData           `yaml:"build,omitempty"`
	Tasks          []KeyData           `yaml:"tasks,omitempty"`
	Settings       []KeyData           `yaml:"settings,omitempty"`
	Commands       []KeyData           `yaml:"commands,omitempty"`
}

// ConfigurationData holds the source layout of one ivy configuration
// ("compile", "test", "it", ...) within a project.
type ConfigurationData struct {
	ID        string           `yaml:"id"`
	Sources   []DirectoryEntry `yaml:"sources,omitempty"`
	Resources []DirectoryEntry `yaml:"resources,omitempty"`
	Classes   string           `yaml:"classes,omitempty"`
	Excludes  []string         `yaml:"excludes,omitempty"`
}

// DirectoryEntry is a source or resource directory. Managed directories are
// generated by tooling; unmanaged ones are hand-authored.
type DirectoryEntry struct {
	Path    string `yaml:"path"`
	Managed bool   `yaml:"managed,omitempty"`
}

// DependencyData groups a project's dependencies by kind.
type DependencyData struct {
	Projects []ProjectRef           `yaml:"projects,omitempty"`
	Modules  []ModuleDependencyData `yaml:"modules,omitempty"`
	Jars     []JarDependencyData    `yaml:"jars,omitempty"`
}

// ProjectRef names another project in the same build as a dependency.
type ProjectRef struct {
	Project        string   `yaml:"project"`
	Configurations []string `yaml:"configurations,omitempty"`
}

// ModuleDependencyData references an external binary module by identifier.
type ModuleDependencyData struct {
	ID             ModuleIdentifier `yaml:"id"`
	Configurations []string         `yaml:"configurations,omitempty"`
}

// JarDependencyData is an unmanaged dependency on a raw file path.
type JarDependencyData struct {
	File           string   `yaml:"file"`
	Configurations []string `yaml:"configurations,omitempty"`
}

// ModuleIdentifier is the structural equality key of an external module.
// Classifier may be empty.
type ModuleIdentifier struct {
	Organization string `yaml:"organization"`
	Name         string `yaml:"name"`
	Revision     string `yaml:"revision"`
	Classifier   string `yaml:"classifier,omitempty"`
	ArtifactType string `yaml:"artifactType,omitempty"`
}

// String renders the identifier in the canonical
// org:name:revision[:classifier]:type form used for library naming.
func (id ModuleIdentifier) String() string {
	if id.Classifier != "" {
		return fmt.Sprintf("%s:%s:%s:%s:%s", id.Organization, id.Name, id.Revision, id.Classifier, id.ArtifactType)
	}
	return fmt.Sprintf("%s:%s:%s:%s", id.Organization, id.Name, id.Revision, id.ArtifactType)
}

// ModuleRepository is the dump's view of the dependency resolution cache.
type ModuleRepository struct {
	Modules []ModuleData `yaml:"modules"`
}

// ModuleData is one resolved module and its artifact paths. A module with no
// binaries is documentation-only.
type ModuleData struct {
	ID       ModuleIdentifier `yaml:"id"`
	Binaries []string         `yaml:"binaries,omitempty"`
	Docs     []string         `yaml:"docs,omitempty"`
	Sources  []string         `yaml:"sources,omitempty"`
}

// IsDocumentationOnly reports whether the module carries no binary artifacts.
func (m ModuleData) IsDocumentationOnly() bool {
	return len(m.Binaries) == 0
}

// BuildData is the classpath of the project's own build definition.
type BuildData struct {
	Classpath []string `yaml:"classpath,omitempty"`
	Docs      []string `yaml:"docs,omitempty"`
	Sources   []string `yaml:"sources,omitempty"`
	Imports   []string `yaml:"imports,omitempty"`
}

// ResolverData is a declared artifact resolver.
type ResolverData struct {
	Name string `yaml:"name"`
	Root string `yaml:"root"`
}

// ScalaData is the project's Scala facet.
type ScalaData struct {
	Version      string   `yaml:"version"`
	LibraryJars  []string `yaml:"libraryJars,omitempty"`
	CompilerJars []string `yaml:"compilerJars,omitempty"`
	Options      []string `yaml:"options,omitempty"`
}

// JavaData is the project's Java facet.
type JavaData struct {
	Home    string   `yaml:"home,omitempty"`
	Options []string `yaml:"options,omitempty"`
}

// AndroidData is the project's Android facet.
type AndroidData struct {
	TargetVersion string `yaml:"targetVersion"`
	ManifestPath  string `yaml:"manifestPath,omitempty"`
}

// Play2Data is the project's Play framework facet.
type Play2Data struct {
	PlayVersion string `yaml:"playVersion,omitempty"`
}

// KeyData is one declared task, setting, or command. Order-preserving
// metadata only.
type KeyData struct {
	Label       string `yaml:"label"`
	Description string `yaml:"description,omitempty"`
	Rank        int    `yaml:"rank,omitempty"`
}
