package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Spec describes one external program invocation.
type Spec struct {
	Name string
	Args []string
	// Env entries are appended to the parent environment.
	Env []string
	// Input, when set, replaces the inherited stdin with scripted keystrokes.
	Input *Input
}

// Input is written to the child's stdin after Delay, then stdin is closed.
type Input struct {
	Delay time.Duration
	Data  []byte
}

// String renders the command line for traces and dry output.
func (s Spec) String() string {
	return strings.Join(append([]string{s.Name}, s.Args...), " ")
}

// Result is the observed outcome of a run.
type Result struct {
	Code int
	Err  error
}

// OK reports whether the program ran and exited with status zero.
func (r Result) OK() bool {
	return r.Code == 0 && r.Err == nil
}

// Runner spawns external programs.
type Runner interface {
	// Run launches the program with inherited stdio and waits for it.
	Run(ctx context.Context, spec Spec) Result
	// Output runs the program and captures its stdout.
	Output(ctx context.Context, spec Spec) (string, Result)
	// LookPath reports where an executable lives on the host.
	LookPath(name string) (string, error)
}

// Exec is the os/exec backed Runner.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    logrus.FieldLogger
}

// NewExec returns an Exec bound to the process standard streams.
func NewExec(log logrus.FieldLogger) *Exec {
	return &Exec{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    log,
	}
}

func (e *Exec) command(ctx context.Context, spec Spec) *exec.Cmd {
	if e.Log != nil {
		e.Log.Debugf("+ %s", spec)
	}
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	return cmd
}

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, spec Spec) Result {
	cmd := e.command(ctx, spec)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if spec.Input == nil {
		cmd.Stdin = e.Stdin
		return classify(spec.Name, cmd.Run())
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return classify(spec.Name, err)
	}
	if err := cmd.Start(); err != nil {
		return classify(spec.Name, err)
	}

	written := make(chan struct{})
	go func() {
		defer close(written)
		defer stdin.Close()
		select {
		case <-time.After(spec.Input.Delay):
		case <-ctx.Done():
			return
		}
		if _, err := stdin.Write(spec.Input.Data); err != nil && e.Log != nil {
			e.Log.WithError(err).Debugf("writing scripted input to %s", spec.Name)
		}
	}()

	err = cmd.Wait()
	<-written
	return classify(spec.Name, err)
}

// Output implements Runner. Stderr of the probe is discarded.
func (e *Exec) Output(ctx context.Context, spec Spec) (string, Result) {
	cmd := e.command(ctx, spec)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	err := cmd.Run()
	return buf.String(), classify(spec.Name, err)
}

// LookPath implements Runner.
func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func classify(name string, err error) Result {
	if err == nil {
		return Result{}
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return Result{Code: ee.ExitCode(), Err: &ExitError{Name: name, Code: ee.ExitCode()}}
	}
	return Result{Code: -1, Err: &LaunchError{Name: name, Err: err}}
}

// ExitError reports a child that ran and exited non-zero.
type ExitError struct {
	Name string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
}

// LaunchError reports a child that could not be started at all.
type LaunchError struct {
	Name string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Name, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// NotFound reports whether the executable was missing from PATH.
func (e *LaunchError) NotFound() bool {
	return errors.Is(e.Err, exec.ErrNotFound) || errors.Is(e.Err, os.ErrNotExist)
}
