package core

// State is the position of one booking attempt in its lifecycle.
type State string

const (
	Requested           State = "requested"
	SeatsChecked        State = "seats_checked"
	SeatsReserved       State = "seats_reserved"
	ReservationRecorded State = "reservation_recorded"
	Confirmed           State = "confirmed"

	// Rejected means the request could not be honoured: unknown train,
	// mismatched route or not enough seats.
	Rejected State = "rejected"
	// Failed means the system could not complete an acceptable request.
	Failed State = "failed"
)

func (s State) Terminal() bool {
	return s == Confirmed || s == Rejected || s == Failed
}
