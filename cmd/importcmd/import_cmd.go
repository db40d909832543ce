// Package importcmd implements the "keel import" command: a console host for
// the import pipeline.
package importcmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BuildModelHQ/keel/dumper"
	"github.com/BuildModelHQ/keel/importer"
	"github.com/BuildModelHQ/keel/projectgraph"
)

// Cmd represents the import command.
var Cmd = NewCommand()

// NewCommand returns a new import command instance.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [project-root]",
		Short: "Import an sbt build and print the normalized project graph",
		Long: `Import an sbt build: run the structure dump against the project,
parse it, and print the resulting project graph as JSON.

Settings are read from flags, KEEL_* environment variables, and an optional
.keel.yaml in the project root, in that order of precedence.

Examples:
  keel import                       # import the build in the current directory
  keel import ./service             # import a specific project
  keel import --launcher ~/bin/sbt-structure --javadocs`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runImport(cmd, root)
		},
	}

	cmd.Flags().String("launcher", "", "Path to the structure-dump launcher executable")
	cmd.Flags().Bool("download", true, "Let the build tool download missing artifacts")
	cmd.Flags().Bool("classifiers", false, "Resolve library classifiers (sources)")
	cmd.Flags().Bool("javadocs", false, "Resolve library javadocs")
	cmd.Flags().Bool("sbt-classifiers", false, "Resolve classifiers of the build tool itself")
	cmd.Flags().String("jdk", "", "Default JDK name used when the build declares none")

	return cmd
}

func runImport(cmd *cobra.Command, root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve project root %s: %w", root, err)
	}

	settings, jdk, err := loadSettings(cmd, absRoot)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o := importer.New(importer.Options{
		TaskID:         absRoot,
		Settings:       settings,
		DefaultJdkName: jdk,
		Sink:           consoleSink{},
	})

	graph, err := o.Run(ctx, absRoot)
	if err != nil {
		return err
	}
	if graph == nil {
		// Cancelled: a no-op by contract, not a failure.
		return nil
	}

	out, err := projectgraph.FormatJSON(graph)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// loadSettings merges flags, KEEL_* env vars, and the project's .keel.yaml.
func loadSettings(cmd *cobra.Command, projectRoot string) (dumper.Settings, string, error) {
	v := viper.New()
	v.SetConfigName(".keel")
	v.SetConfigType("yaml")
	v.AddConfigPath(projectRoot)
	v.SetEnvPrefix("KEEL")
	v.AutomaticEnv()

	for _, flag := range []string{"launcher", "download", "classifiers", "javadocs", "sbt-classifiers", "jdk"} {
		if err := v.BindPFlag(flag, cmd.Flags().Lookup(flag)); err != nil {
			return dumper.Settings{}, "", err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return dumper.Settings{}, "", fmt.Errorf("failed to read .keel.yaml: %w", err)
		}
	}

	settings := dumper.Settings{
		LauncherPath:          v.GetString("launcher"),
		Download:              v.GetBool("download"),
		ResolveClassifiers:    v.GetBool("classifiers"),
		ResolveJavadocs:       v.GetBool("javadocs"),
		ResolveSbtClassifiers: v.GetBool("sbt-classifiers"),
	}
	return settings, v.GetString("jdk"), nil
}

// consoleSink relays progress events to the terminal.
type consoleSink struct{}

func (consoleSink) OnStart(taskID string) {
	fmt.Fprintf(os.Stderr, "importing %s\n", taskID)
}

func (consoleSink) OnOutputLine(_ string, text string, isError bool) {
	if isError {
		fmt.Fprintln(os.Stderr, text)
		return
	}
	fmt.Fprintln(os.Stdout, text)
}

func (consoleSink) OnFinish(_ string, success bool) {
	if success {
		fmt.Fprintln(os.Stderr, "import finished")
		return
	}
	fmt.Fprintln(os.Stderr, "import did not complete")
}
