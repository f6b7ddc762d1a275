package core

import "context"

type Step struct {
	Name string
	// Enters is the state reached when Execute succeeds. Empty keeps the
	// current state.
	Enters  State
	Execute func(ctx context.Context, a *Attempt) error
}

func NewStep(name string, enters State, execute func(ctx context.Context, a *Attempt) error) *Step {
	return &Step{
		Name:    name,
		Enters:  enters,
		Execute: execute,
	}
}

// Rejection marks a step error as a refusal of the request rather than a
// system failure.
type Rejection struct {
	Err error
}

func Reject(err error) error {
	return &Rejection{Err: err}
}

func (r *Rejection) Error() string {
	return r.Err.Error()
}

func (r *Rejection) Unwrap() error {
	return r.Err
}
