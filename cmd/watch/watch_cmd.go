// Package watch implements the "keel watch" command: it watches a build's
// definition files and re-runs the import whenever they change.
package watch

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BuildModelHQ/keel/dumper"
)

type watchOptions struct {
	launcherPath string
	jdkName      string
}

// Cmd represents the watch command.
var Cmd = NewCommand()

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [project-root]",
		Short: "Re-import the build whenever its definition files change",
		Long: `Watch the build definition files of an sbt project (build.sbt and the
project/ directory) and re-run the import after each change, printing the
refreshed project graph as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runWatch(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.launcherPath, "launcher", "", "Path to the structure-dump launcher executable")
	cmd.Flags().StringVar(&opts.jdkName, "jdk", "", "Default JDK name used when the build declares none")

	return cmd
}

func runWatch(cmd *cobra.Command, root string, opts *watchOptions) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve project root %s: %w", root, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings := dumper.Settings{LauncherPath: opts.launcherPath, Download: true}
	return watchAndReimport(ctx, absRoot, settings, opts.jdkName, cmd.OutOrStdout())
}
