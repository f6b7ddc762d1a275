package core

import (
	"context"
	"errors"
)

type Engine struct {
	steps []*Step
}

func NewEngine(steps ...*Step) *Engine {
	return &Engine{steps: steps}
}

// Run executes the steps in order and stops at the first error. The attempt
// ends in Rejected or Failed accordingly; the error returned is the step's
// own error with any Rejection wrapper removed.
func (e *Engine) Run(ctx context.Context, a *Attempt) error {
	a.Reset()
	for _, step := range e.steps {
		if err := step.Execute(ctx, a); err != nil {
			a.FailedStep = step.Name

			var rejection *Rejection
			if errors.As(err, &rejection) {
				a.Enter(Rejected)
				return rejection.Err
			}
			a.Enter(Failed)
			return err
		}
		if step.Enters != "" {
			a.Enter(step.Enters)
		}
	}
	return nil
}
