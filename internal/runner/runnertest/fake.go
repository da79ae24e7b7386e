// Package runnertest provides a recording Runner for handler tests.
package runnertest

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/seraprogrammer/speeed/internal/runner"
)

// Fake records every spawn and answers with canned results.
type Fake struct {
	mu sync.Mutex

	// Calls holds every Run and Output invocation in order.
	Calls []runner.Spec

	// Results maps a command line prefix ("git commit") to its result.
	// The longest matching prefix wins; unmatched commands succeed.
	Results map[string]runner.Result

	// Outputs maps a command line prefix to captured stdout for Output.
	Outputs map[string]string

	// Paths lists executables LookPath should find.
	Paths map[string]string

	// OnRun, if set, runs before the result is returned.
	OnRun func(spec runner.Spec)
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		Results: map[string]runner.Result{},
		Outputs: map[string]string{},
		Paths:   map[string]string{},
	}
}

// Fail makes commands starting with prefix exit with code.
func (f *Fake) Fail(prefix string, code int) {
	name := strings.Fields(prefix)[0]
	f.Results[prefix] = runner.Result{Code: code, Err: &runner.ExitError{Name: name, Code: code}}
}

// Missing makes commands starting with prefix fail to launch.
func (f *Fake) Missing(prefix string) {
	name := strings.Fields(prefix)[0]
	f.Results[prefix] = runner.Result{Code: -1, Err: &runner.LaunchError{Name: name, Err: exec.ErrNotFound}}
}

// Run implements runner.Runner.
func (f *Fake) Run(_ context.Context, spec runner.Spec) runner.Result {
	f.record(spec)
	if f.OnRun != nil {
		f.OnRun(spec)
	}
	return f.lookup(spec)
}

// Output implements runner.Runner.
func (f *Fake) Output(_ context.Context, spec runner.Spec) (string, runner.Result) {
	f.record(spec)
	line := spec.String()
	out, best := "", -1
	for prefix, o := range f.Outputs {
		if strings.HasPrefix(line, prefix) && len(prefix) > best {
			out, best = o, len(prefix)
		}
	}
	return out, f.lookup(spec)
}

// LookPath implements runner.Runner.
func (f *Fake) LookPath(name string) (string, error) {
	if p, ok := f.Paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("exec: %q: %w", name, exec.ErrNotFound)
}

// Lines returns the recorded command lines.
func (f *Fake) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		lines = append(lines, c.String())
	}
	return lines
}

func (f *Fake) record(spec runner.Spec) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, spec)
}

func (f *Fake) lookup(spec runner.Spec) runner.Result {
	line := spec.String()
	res, best := runner.Result{}, -1
	for prefix, r := range f.Results {
		if strings.HasPrefix(line, prefix) && len(prefix) > best {
			res, best = r, len(prefix)
		}
	}
	return res
}
