package runner

import (
	"context"
	"fmt"
)

// Step is one link of a sequential chain.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepError identifies the step that broke a pipeline.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Pipeline runs steps strictly in order and stops at the first failure.
// A cancelled context stops the chain before the next step starts.
func Pipeline(ctx context.Context, steps ...Step) error {
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: s.Name, Err: err}
		}
		if err := s.Run(ctx); err != nil {
			return &StepError{Step: s.Name, Err: err}
		}
	}
	return nil
}

// Command adapts a spawn into a pipeline step that fails on a non-zero exit.
func Command(r Runner, name string, spec Spec) Step {
	return Step{
		Name: name,
		Run: func(ctx context.Context) error {
			return r.Run(ctx, spec).Err
		},
	}
}
