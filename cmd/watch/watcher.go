package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BuildModelHQ/keel/dumper"
	"github.com/BuildModelHQ/keel/importer"
	"github.com/BuildModelHQ/keel/projectgraph"
)

const debounceInterval = 900 * time.Millisecond

// watchAndReimport watches the build definition files under root and re-runs
// the import pipeline, debounced, after each relevant change. It blocks
// until ctx is cancelled.
func watchAndReimport(ctx context.Context, root string, settings dumper.Settings, jdkName string, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	projectDir := filepath.Join(root, "project")
	if _, err := os.Stat(projectDir); err == nil {
		if err := watcher.Add(projectDir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", projectDir, err)
		}
	}

	reimport := func() {
		o := importer.New(importer.Options{
			TaskID:         root,
			Settings:       settings,
			DefaultJdkName: jdkName,
		})
		graph, err := o.Run(ctx, root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "import error: %v\n", err)
			return
		}
		if graph == nil {
			return
		}
		rendered, err := projectgraph.FormatJSON(graph)
		if err != nil {
			fmt.Fprintf(os.Stderr, "format error: %v\n", err)
			return
		}
		fmt.Fprintln(out, rendered)
	}

	// Import once up front so the watcher starts from a known graph.
	reimport()

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isBuildDefinitionChange(root, event) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, reimport)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// isBuildDefinitionChange reports whether an event touches a file that can
// change the imported model: *.sbt anywhere watched, and *.scala or
// build.properties under project/.
func isBuildDefinitionChange(root string, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}

	name := filepath.Base(event.Name)
	switch filepath.Ext(name) {
	case ".sbt":
		return true
	case ".scala":
		return filepath.Dir(event.Name) == filepath.Join(root, "project")
	}
	return name == "build.properties"
}
