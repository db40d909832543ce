package importer

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BuildModelHQ/keel/dumper"
	"github.com/BuildModelHQ/keel/internal/devlog"
	"github.com/BuildModelHQ/keel/projectgraph"
	"github.com/BuildModelHQ/keel/sbtstructure"
)

// State is one stage of the import state machine. Transitions are strictly
// sequential; any failure moves straight to StateFailed.
type State string

const (
	StateIdle             State = "Idle"
	StateDetectingVersion State = "DetectingVersion"
	StateGating           State = "Gating"
	StateDumping          State = "Dumping"
	StateParsing          State = "Parsing"
	StateBuildingGraph    State = "BuildingGraph"
	StateDone             State = "Done"
	StateFailed           State = "Failed"
	StateCancelled        State = "Cancelled"
)

// Options configures one orchestrator instance.
type Options struct {
	TaskID         string
	Settings       dumper.Settings
	DefaultJdkName string

	// Shell, when non-nil, is a live interactive session for the target
	// project. The shell dump path is taken only if the version allows it.
	Shell dumper.ShellSession

	// Sink receives progress events. Defaults to NopSink.
	Sink ProgressSink
}

// Orchestrator runs one import attempt at a time. Callers serialize import
// requests; Cancel may be called from any goroutine.
type Orchestrator struct {
	opts   Options
	dumper dumper.Dumper

	mu    sync.Mutex
	state State
}

// New creates an orchestrator in the Idle state.
func New(opts Options) *Orchestrator {
	if opts.Sink == nil {
		opts.Sink = NopSink{}
	}
	return &Orchestrator{opts: opts, state: StateIdle}
}

// State returns the current stage of the import attempt.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Cancel requests cooperative termination of the in-flight dump. Returns
// false when no dump is in flight.
func (o *Orchestrator) Cancel() bool {
	return o.dumper.Cancel()
}

// Run executes the full pipeline for the project at root. On success it
// returns the project graph. Cancellation is not an error: Run returns
// (nil, nil) so downstream callers treat it as a no-op. Every other failure
// comes back as an *ImportError wrapping the stage's cause.
func (o *Orchestrator) Run(ctx context.Context, projectRoot string) (*projectgraph.ProjectGraph, error) {
	started := time.Now()
	graph, err := o.run(ctx, projectRoot)

	switch {
	case err != nil:
		o.setState(StateFailed)
		devlog.Error("import failed", map[string]any{"project": projectRoot, "error": err.Error()})
	case graph == nil:
		o.setState(StateCancelled)
		devlog.Warn("import cancelled", map[string]any{"project": projectRoot})
	default:
		o.setState(StateDone)
		devlog.Info("import finished", map[string]any{"project": projectRoot, "elapsed": time.Since(started).String()})
	}
	o.opts.Sink.OnFinish(o.opts.TaskID, err == nil && graph != nil)
	return graph, err
}

func (o *Orchestrator) run(ctx context.Context, projectRoot string) (*projectgraph.ProjectGraph, error) {
	o.setState(StateDetectingVersion)
	detected, err := DetectVersion(projectRoot)
	if err != nil {
		return nil, &ImportError{Stage: StateDetectingVersion, Cause: err}
	}

	o.setState(StateGating)
	if !SupportsImport(detected) {
		return nil, &ImportError{Stage: StateGating, Cause: &UnsupportedVersionError{Detected: detected}}
	}
	useShell := SupportsShellImport(detected, o.opts.Shell != nil)

	o.setState(StateDumping)
	o.opts.Sink.OnStart(o.opts.TaskID)
	sink := func(text string, isError bool) {
		o.opts.Sink.OnOutputLine(o.opts.TaskID, text, isError)
	}

	var raw []byte
	if useShell {
		raw, _, err = o.dumper.DumpShell(ctx, o.opts.Shell, o.opts.Settings, sink)
	} else {
		raw, _, err = o.dumper.DumpProcess(ctx, projectRoot, o.opts.Settings, sink)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, nil
		}
		return nil, &ImportError{Stage: StateDumping, Cause: err}
	}

	o.setState(StateParsing)
	data, err := sbtstructure.Parse(bytes.NewReader(raw))
	if err != nil {
		if errors.Is(err, sbtstructure.ErrEmptyDump) {
			// An empty body means the tool errored before writing anything.
			cause := &dumper.ProcessFailedError{ExitCode: 0}
			return nil, &ImportError{Stage: StateDumping, Cause: cause}
		}
		return nil, &ImportError{Stage: StateParsing, Cause: err}
	}

	devlog.Debug("structure dump parsed", map[string]any{"projects": len(data.Projects)})

	o.setState(StateBuildingGraph)
	graph, err := projectgraph.Build(data, projectgraph.BuildOptions{
		ImportRoot:     projectRoot,
		DefaultJdkName: o.opts.DefaultJdkName,
	})
	if err != nil {
		return nil, &ImportError{Stage: StateBuildingGraph, Cause: err}
	}
	return graph, nil
}
