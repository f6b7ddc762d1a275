package core

import "railbook/pkg/model"

// Attempt carries one booking request through the flow. Steps read the
// request and fill in what later steps need.
type Attempt struct {
	Request     *model.BookingRequest
	Train       *model.TrainSchedule
	Account     *model.Account
	Reservation *model.Reservation

	State      State
	History    []State
	FailedStep string
}

func NewAttempt(req *model.BookingRequest) *Attempt {
	a := &Attempt{Request: req}
	a.Reset()
	return a
}

// Reset returns the attempt to Requested. The engine calls it before every
// run because a storage transaction may re-run the flow.
func (a *Attempt) Reset() {
	a.Train = nil
	a.Account = nil
	a.Reservation = nil
	a.FailedStep = ""
	a.State = Requested
	a.History = []State{Requested}
}

func (a *Attempt) Enter(s State) {
	a.State = s
	a.History = append(a.History, s)
}
