package projectgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuildModelHQ/keel/sbtstructure"
)

func catsCore() sbtstructure.ModuleIdentifier {
	return sbtstructure.ModuleIdentifier{
		Organization: "org.typelevel",
		Name:         "cats-core",
		Revision:     "2.10.0",
		ArtifactType: "jar",
	}
}

func project(id, base string) sbtstructure.ProjectData {
	return sbtstructure.ProjectData{ID: id, Name: id, Base: base, BuildURI: "file:/p"}
}

func TestBuild_RootSelection(t *testing.T) {
	projects := []sbtstructure.ProjectData{project("a", "/p/a"), project("b", "/p/b")}

	t.Run("matches project base against import root", func(t *testing.T) {
		g, err := Build(&sbtstructure.StructureData{SbtVersion: "1.9.8", Projects: projects}, BuildOptions{ImportRoot: "/p/b"})
		require.NoError(t, err)
		assert.Equal(t, ModuleNodeID("b"), g.RootModuleID)
	})

	t.Run("falls back to the first project", func(t *testing.T) {
		g, err := Build(&sbtstructure.StructureData{SbtVersion: "1.9.8", Projects: projects}, BuildOptions{ImportRoot: "/p/x"})
		require.NoError(t, err)
		assert.Equal(t, ModuleNodeID("a"), g.RootModuleID)
	})

	t.Run("fails on an empty project list", func(t *testing.T) {
		_, err := Build(&sbtstructure.StructureData{SbtVersion: "1.9.8"}, BuildOptions{ImportRoot: "/p"})
		require.ErrorIs(t, err, ErrNoRootProject)
	})
}

func TestBuild_LibraryDedup(t *testing.T) {
	dep := sbtstructure.ModuleDependencyData{ID: catsCore(), Configurations: []string{"compile"}}

	a := project("a", "/p/a")
	a.Dependencies.Modules = []sbtstructure.ModuleDependencyData{dep}
	b := project("b", "/p/b")
	b.Dependencies.Modules = []sbtstructure.ModuleDependencyData{dep}

	data := &sbtstructure.StructureData{
		SbtVersion: "1.9.8",
		Projects:   []sbtstructure.ProjectData{a, b},
		Repository: &sbtstructure.ModuleRepository{
			Modules: []sbtstructure.ModuleData{{ID: catsCore(), Binaries: []string{"/cache/cats.jar"}}},
		},
	}

	g, err := Build(data, BuildOptions{ImportRoot: "/p/a"})
	require.NoError(t, err)

	count := 0
	for _, l := range g.Libraries {
		if l.Name == "org.typelevel:cats-core:2.10.0:jar" {
			count++
			assert.True(t, l.Resolved)
		}
	}
	assert.Equal(t, 1, count, "one library node per distinct identifier")
}

func TestBuild_UnresolvedLibraryFallback(t *testing.T) {
	a := project("a", "/p/a")
	a.Dependencies.Modules = []sbtstructure.ModuleDependencyData{{ID: catsCore()}}

	// Repository knows nothing about the dependency.
	g, err := Build(&sbtstructure.StructureData{SbtVersion: "1.9.8", Projects: []sbtstructure.ProjectData{a}}, BuildOptions{ImportRoot: "/p/a"})
	require.NoError(t, err)

	lib, ok := g.Library("org.typelevel:cats-core:2.10.0:jar")
	require.True(t, ok)
	assert.False(t, lib.Resolved)
	assert.Empty(t, lib.Binaries)
	assert.Empty(t, lib.Docs)
	assert.Empty(t, lib.Sources)
}

func TestBuild_DocumentationOnlyModulesMergeIntoOneSharedLibrary(t *testing.T) {
	docsA := sbtstructure.ModuleIdentifier{Organization: "org", Name: "a", Revision: "1", ArtifactType: "jar"}
	docsB := sbtstructure.ModuleIdentifier{Organization: "org", Name: "b", Revision: "2", ArtifactType: "jar"}

	data := &sbtstructure.StructureData{
		SbtVersion: "1.9.8",
		Projects:   []sbtstructure.ProjectData{project("a", "/p/a")},
		Repository: &sbtstructure.ModuleRepository{Modules: []sbtstructure.ModuleData{
			{ID: docsA, Docs: []string{"/cache/a-javadoc.jar"}},
			{ID: docsB, Sources: []string{"/cache/b-sources.jar"}},
		}},
	}

	g, err := Build(data, BuildOptions{ImportRoot: "/p/a"})
	require.NoError(t, err)

	shared, ok := g.Library(sharedDocLibraryName)
	require.True(t, ok)
	assert.Equal(t, []string{"/cache/a-javadoc.jar"}, shared.Docs)
	assert.Equal(t, []string{"/cache/b-sources.jar"}, shared.Sources)

	for _, l := range g.Libraries {
		assert.NotEqual(t, "org:a:1:jar", l.Name, "doc-only modules must not get their own library")
	}
}

func TestBuild_ScopeResolutionIsDeterministic(t *testing.T) {
	tests := []struct {
		configurations []string
		want           Scope
	}{
		{[]string{"test"}, ScopeTest},
		{[]string{"it"}, ScopeTest},
		{[]string{"compile"}, ScopeCompile},
		{[]string{"runtime"}, ScopeRuntime},
		{[]string{"provided"}, ScopeProvided},
		{[]string{"custom-config"}, ScopeCompile},
		{nil, ScopeCompile},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, scopeFor(tt.configurations), "configurations %v", tt.configurations)
	}
}

func TestBuild_ProjectDependencyEdges(t *testing.T) {
	a := project("a", "/p/a")
	b := project("b", "/p/b")
	b.Dependencies.Projects = []sbtstructure.ProjectRef{{Project: "a", Configurations: []string{"compile"}}}

	g, err := Build(&sbtstructure.StructureData{SbtVersion: "1.9.8", Projects: []sbtstructure.ProjectData{a, b}}, BuildOptions{ImportRoot: "/p/a"})
	require.NoError(t, err)

	edges := g.EdgesFrom(ModuleNodeID("b"))
	var found bool
	for _, e := range edges {
		if e.To == ModuleNodeID("a") {
			found = true
			assert.Equal(t, ScopeCompile, e.Scope)
			assert.True(t, e.Exported)
		}
	}
	assert.True(t, found, "expected module dependency edge b -> a")
}

func TestBuild_UnknownProjectDependencyIsFatal(t *testing.T) {
	a := project("a", "/p/a")
	a.Dependencies.Projects = []sbtstructure.ProjectRef{{Project: "ghost"}}

	_, err := Build(&sbtstructure.StructureData{SbtVersion: "1.9.8", Projects: []sbtstructure.ProjectData{a}}, BuildOptions{ImportRoot: "/p/a"})

	var notFound *ProjectDependencyNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.Dependency)
}

func TestBuild_UnmanagedJarsMergePerScope(t *testing.T) {
	a := project("a", "/p/a")
	a.Dependencies.Jars = []sbtstructure.JarDependencyData{
		{File: "/p/a/lib/one.jar"},
		{File: "/p/a/lib/two.jar", Configurations: []string{"compile"}},
		{File: "/p/a/lib/test-only.jar", Configurations: []string{"test"}},
	}

	g, err := Build(&sbtstructure.StructureData{SbtVersion: "1.9.8", Projects: []sbtstructure.ProjectData{a}}, BuildOptions{ImportRoot: "/p/a"})
	require.NoError(t, err)

	compileLib, ok := g.Library("a-unmanaged-jars")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"/p/a/lib/one.jar", "/p/a/lib/two.jar"}, compileLib.Binaries)

	testLib, ok := g.Library("a-unmanaged-jars-TEST")
	require.True(t, ok)
	assert.Equal(t, []string{"/p/a/lib/test-only.jar"}, testLib.Binaries)
}

func TestBuild_BuildModuleCrossDependency(t *testing.T) {
	root := project("root", "/p")
	sub := project("sub", "/p/sub")

	g, err := Build(&sbtstructure.StructureData{SbtVersion: "1.9.8", Projects: []sbtstructure.ProjectData{root, sub}}, BuildOptions{ImportRoot: "/p"})
	require.NoError(t, err)

	subBuildEdges := g.EdgesFrom(BuildModuleNodeID("sub"))
	count := 0
	for _, e := range subBuildEdges {
		if e.To == BuildModuleNodeID("root") {
			count++
		}
	}
	assert.Equal(t, 1, count, "subproject build module inherits the root build classpath exactly once")

	for _, e := range g.EdgesFrom(BuildModuleNodeID("root")) {
		assert.NotEqual(t, BuildModuleNodeID("root"), e.To)
		assert.NotEqual(t, BuildModuleNodeID("sub"), e.To, "root build module must not depend on subproject build modules")
	}
}

func TestBuild_FacetsCarryOverFromProjectData(t *testing.T) {
	a := project("a", "/p/a")
	a.Scala = &sbtstructure.ScalaData{Version: "2.13.12", Options: []string{"-deprecation"}}
	a.Play2 = &sbtstructure.Play2Data{PlayVersion: "2.9.0"}

	g, err := Build(&sbtstructure.StructureData{SbtVersion: "1.9.8", Projects: []sbtstructure.ProjectData{a}}, BuildOptions{ImportRoot: "/p/a"})
	require.NoError(t, err)

	module, ok := g.Module(ModuleNodeID("a"))
	require.True(t, ok)
	require.NotNil(t, module.Scala)
	assert.Equal(t, "2.13.12", module.Scala.Version)
	require.NotNil(t, module.Play2)
	assert.Equal(t, "2.9.0", module.Play2.PlayVersion)
	assert.Nil(t, module.Android)
}

func TestBuild_BuildModuleResolversIncludeLocalCache(t *testing.T) {
	a := project("a", "/p/a")
	a.Resolvers = []sbtstructure.ResolverData{{Name: "central", Root: "https://repo1.maven.org/maven2/"}}

	data := &sbtstructure.StructureData{
		SbtVersion:     "1.9.8",
		Projects:       []sbtstructure.ProjectData{a},
		LocalCachePath: "/home/dev/.ivy2/cache",
	}
	g, err := Build(data, BuildOptions{ImportRoot: "/p/a"})
	require.NoError(t, err)

	module, ok := g.Module(BuildModuleNodeID("a"))
	require.True(t, ok)
	require.Len(t, module.Resolvers, 2)
	assert.Equal(t, "central", module.Resolvers[0].Name)
	assert.Equal(t, localCacheResolverName, module.Resolvers[1].Name)
	assert.Equal(t, "/home/dev/.ivy2/cache", module.Resolvers[1].Root)
}

// Round trip of the minimal dump: one project, one resolved module
// dependency, one project-to-project dependency.
func TestBuild_MinimalRoundTrip(t *testing.T) {
	a := project("a", "/p/a")
	a.Dependencies.Modules = []sbtstructure.ModuleDependencyData{{ID: catsCore(), Configurations: []string{"compile"}}}
	b := project("b", "/p/b")
	b.Dependencies.Projects = []sbtstructure.ProjectRef{{Project: "a"}}

	data := &sbtstructure.StructureData{
		SbtVersion: "1.9.8",
		Projects:   []sbtstructure.ProjectData{a, b},
		Repository: &sbtstructure.ModuleRepository{
			Modules: []sbtstructure.ModuleData{{ID: catsCore(), Binaries: []string{"/cache/cats.jar"}}},
		},
	}

	g, err := Build(data, BuildOptions{ImportRoot: "/p/a"})
	require.NoError(t, err)

	assert.Equal(t, ModuleNodeID("a"), g.RootModuleID)

	resolved := 0
	for _, l := range g.Libraries {
		if l.Resolved && l.Name == "org.typelevel:cats-core:2.10.0:jar" {
			resolved++
		}
	}
	assert.Equal(t, 1, resolved)

	libEdges := g.EdgesFrom(ModuleNodeID("a"))
	require.Len(t, libEdges, 1)
	assert.Equal(t, LibraryNodeID("org.typelevel:cats-core:2.10.0:jar"), libEdges[0].To)
	assert.Equal(t, ScopeCompile, libEdges[0].Scope)
}

func TestBuild_EveryEdgeEndpointExistsInTopology(t *testing.T) {
	a := project("a", "/p/a")
	b := project("b", "/p/b")
	b.Dependencies.Projects = []sbtstructure.ProjectRef{{Project: "a"}}

	g, err := Build(&sbtstructure.StructureData{SbtVersion: "1.9.8", Projects: []sbtstructure.ProjectData{a, b}}, BuildOptions{ImportRoot: "/p/a"})
	require.NoError(t, err)

	topology := g.Topology()
	for _, e := range g.Edges {
		_, err := topology.Edge(e.From, e.To)
		assert.NoError(t, err, "edge %s -> %s missing from topology", e.From, e.To)
	}
}
