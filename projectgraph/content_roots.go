package projectgraph

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BuildModelHQ/keel/sbtstructure"
)

const (
	configCompile         = "compile"
	configTest            = "test"
	configIntegrationTest = "it"
)

// defaultManagedDirNames are the generic names sbt uses for generated
// directories. A managed directory carrying one of these names and absent
// from disk is irrelevant for indexing.
var defaultManagedDirNames = map[string]bool{
	"src_managed":      true,
	"resource_managed": true,
}

// buildContentRoot classifies a project's source and resource directories
// into the production/test and managed/unmanaged buckets, filters out paths
// outside the project base, and computes the excluded directory set.
func buildContentRoot(p *sbtstructure.ProjectData) *ContentRoot {
	root := &ContentRoot{Base: p.Base}

	var explicitExcludes []string
	for _, cfg := range p.Configurations {
		explicitExcludes = append(explicitExcludes, cfg.Excludes...)

		test := false
		switch cfg.ID {
		case configCompile:
		case configTest, configIntegrationTest:
			// Test and integration-test directories share the test buckets.
			test = true
		default:
			continue
		}

		sources, managedSources := partitionDirs(p.Base, cfg.Sources)
		resources, managedResources := partitionDirs(p.Base, cfg.Resources)
		if test {
			root.TestSources = append(root.TestSources, sources...)
			root.ManagedTestSources = append(root.ManagedTestSources, managedSources...)
			root.TestResources = append(root.TestResources, resources...)
			root.ManagedTestResources = append(root.ManagedTestResources, managedResources...)
		} else {
			root.Sources = append(root.Sources, sources...)
			root.ManagedSources = append(root.ManagedSources, managedSources...)
			root.Resources = append(root.Resources, resources...)
			root.ManagedResources = append(root.ManagedResources, managedResources...)
		}
	}

	root.Excluded = excludedDirs(p, explicitExcludes, root)
	return root
}

// partitionDirs splits directory entries into unmanaged and managed lists,
// dropping anything outside the project base.
func partitionDirs(base string, entries []sbtstructure.DirectoryEntry) (unmanaged, managed []string) {
	for _, e := range entries {
		if !isUnder(base, e.Path) {
			continue
		}
		if e.Managed {
			managed = append(managed, e.Path)
		} else {
			unmanaged = append(unmanaged, e.Path)
		}
	}
	return unmanaged, managed
}

// excludedDirs applies the target-directory exclusion heuristic. Explicit
// excludes from the dump win verbatim. Otherwise: if no relevant managed
// directory lives under the target directory, the whole target is excluded;
// if one does, only the target's immediate children not containing a
// relevant directory are excluded, so generated sources stay indexable.
func excludedDirs(p *sbtstructure.ProjectData, explicit []string, root *ContentRoot) []string {
	if len(explicit) > 0 {
		return explicit
	}
	if p.Target == "" {
		return nil
	}

	var relevant []string
	for _, dir := range managedDirs(root) {
		if isRelevantDir(dir) {
			relevant = append(relevant, dir)
		}
	}

	targetIsRelevant := false
	for _, dir := range relevant {
		if isUnder(p.Target, dir) {
			targetIsRelevant = true
			break
		}
	}
	if !targetIsRelevant {
		return []string{p.Target}
	}

	entries, err := os.ReadDir(p.Target)
	if err != nil {
		return nil
	}
	var excluded []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		child := filepath.Join(p.Target, entry.Name())
		if containsAny(child, relevant) {
			continue
		}
		excluded = append(excluded, child)
	}
	sort.Strings(excluded)
	return excluded
}

func managedDirs(root *ContentRoot) []string {
	var dirs []string
	dirs = append(dirs, root.ManagedSources...)
	dirs = append(dirs, root.ManagedResources...)
	dirs = append(dirs, root.ManagedTestSources...)
	dirs = append(dirs, root.ManagedTestResources...)
	return dirs
}

// isRelevantDir reports whether a managed directory matters for indexing:
// it exists on disk, or its name is not one of the generic defaults.
func isRelevantDir(dir string) bool {
	if _, err := os.Stat(dir); err == nil {
		return true
	}
	return !defaultManagedDirNames[filepath.Base(dir)]
}

// isUnder reports whether path lies at or below base.
func isUnder(base, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// containsAny reports whether any of dirs lies at or below path.
func containsAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		if isUnder(path, dir) {
			return true
		}
	}
	return false
}
