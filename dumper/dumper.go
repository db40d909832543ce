// Package dumper produces the raw structure dump by supervising the external
// build tool, either as a fresh subprocess or through an already-running
// interactive shell session.
package dumper

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
)

// ErrLauncherNotFound reports an absent build-tool launcher binary. The user
// has to install one or point settings at it; there is no retry.
var ErrLauncherNotFound = errors.New("build tool launcher not found")

// LineSink receives diagnostic output lines as they arrive.
type LineSink func(text string, isError bool)

// Settings configures how the dump process is launched.
type Settings struct {
	// LauncherPath is the explicit executable override. Required for the
	// process strategy.
	LauncherPath string

	// Env entries are appended to the inherited environment.
	Env []string

	Download              bool
	ResolveClassifiers    bool
	ResolveJavadocs       bool
	ResolveSbtClassifiers bool
}

// ShellSession is an already-connected interactive build-tool session. The
// dumper only needs to hand it a command and wait.
type ShellSession interface {
	RunCommand(ctx context.Context, command string, sink LineSink) error
}

// Dumper runs at most one dump at a time. The in-flight handle is published
// atomically so Cancel from another goroutine always observes it.
type Dumper struct {
	active atomic.Pointer[dumpHandle]
}

type dumpHandle struct {
	cancel context.CancelFunc
	once   sync.Once
}

// Cancel terminates the in-flight dump, if any. Idempotent: repeated calls
// observe the same single cancellation. Returns false when nothing is in
// flight.
func (d *Dumper) Cancel() bool {
	h := d.active.Load()
	if h == nil {
		return false
	}
	h.once.Do(h.cancel)
	return true
}

// DumpProcess launches the build tool as a subprocess and returns the raw
// dump contents plus the accumulated diagnostic text. The temp file the tool
// writes to is removed on every exit path.
func (d *Dumper) DumpProcess(ctx context.Context, projectRoot string, settings Settings, sink LineSink) ([]byte, string, error) {
	if settings.LauncherPath == "" {
		return nil, "", ErrLauncherNotFound
	}
	if _, err := os.Stat(settings.LauncherPath); err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrLauncherNotFound, settings.LauncherPath)
	}

	return d.withDump(ctx, func(ctx context.Context, dumpPath string, diag *diagnosticLog) error {
		cmd := exec.CommandContext(ctx, settings.LauncherPath, dumpArgs(projectRoot, dumpPath, settings)...)
		cmd.Dir = projectRoot
		cmd.Env = append(os.Environ(), settings.Env...)

		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return fmt.Errorf("failed to open stdout pipe: %w", err)
		}
		stderr, err := cmd.StderrPipe()
		if err != nil {
			return fmt.Errorf("failed to open stderr pipe: %w", err)
		}

		if err := cmd.Start(); err != nil {
			return fmt.Errorf("failed to start build tool: %w", err)
		}

		// The reader goroutines are the only asynchronous point: they relay
		// output to the sink while the caller blocks on completion.
		var readers sync.WaitGroup
		relay := func(r io.Reader, isError bool) {
			defer readers.Done()
			scanner := bufio.NewScanner(r)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				line := scanner.Text()
				diag.append(line, isError)
				if sink != nil {
					sink(line, isError)
				}
			}
		}
		readers.Add(2)
		go relay(stdout, false)
		go relay(stderr, true)

		readers.Wait()
		if err := cmd.Wait(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &ProcessFailedError{ExitCode: cmd.ProcessState.ExitCode(), Diagnostics: diag.trailer()}
		}
		return nil
	})
}

// DumpShell instructs an already-running shell session to perform the dump.
// Skips process startup cost; the contract is otherwise identical to
// DumpProcess.
func (d *Dumper) DumpShell(ctx context.Context, session ShellSession, settings Settings, sink LineSink) ([]byte, string, error) {
	return d.withDump(ctx, func(ctx context.Context, dumpPath string, diag *diagnosticLog) error {
		command := shellDumpCommand(dumpPath, settings)
		err := session.RunCommand(ctx, command, func(text string, isError bool) {
			diag.append(text, isError)
			if sink != nil {
				sink(text, isError)
			}
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &ProcessFailedError{ExitCode: -1, Diagnostics: diag.trailer()}
		}
		return nil
	})
}

// withDump owns the shared scope of both strategies: the temp file, the
// cancellable handle, and the empty-output check.
func (d *Dumper) withDump(ctx context.Context, run func(ctx context.Context, dumpPath string, diag *diagnosticLog) error) ([]byte, string, error) {
	tmp, err := os.CreateTemp("", "keel-structure-*.yml")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create dump file: %w", err)
	}
	dumpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(dumpPath)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	handle := &dumpHandle{cancel: cancel}
	d.active.Store(handle)
	defer d.active.Store(nil)

	diag := &diagnosticLog{}
	if err := run(runCtx, dumpPath, diag); err != nil {
		return nil, diag.text(), err
	}

	raw, err := os.ReadFile(dumpPath)
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		// The tool exited cleanly but produced no dump.
		return nil, diag.text(), &ProcessFailedError{ExitCode: 0, Diagnostics: diag.trailer()}
	}
	return raw, diag.text(), nil
}

// dumpArgs encodes the fixed argument convention of the dump launcher:
// project root, output file, then the boolean resolution flags.
func dumpArgs(projectRoot, dumpPath string, settings Settings) []string {
	return []string{
		projectRoot,
		dumpPath,
		"download=" + strconv.FormatBool(settings.Download),
		"resolveClassifiers=" + strconv.FormatBool(settings.ResolveClassifiers),
		"resolveJavadocs=" + strconv.FormatBool(settings.ResolveJavadocs),
		"resolveSbtClassifiers=" + strconv.FormatBool(settings.ResolveSbtClassifiers),
	}
}

// shellDumpCommand is the interactive-session spelling of the same request.
func shellDumpCommand(dumpPath string, settings Settings) string {
	return fmt.Sprintf("dumpStructure %s download=%t resolveClassifiers=%t resolveJavadocs=%t resolveSbtClassifiers=%t",
		dumpPath, settings.Download, settings.ResolveClassifiers, settings.ResolveJavadocs, settings.ResolveSbtClassifiers)
}
