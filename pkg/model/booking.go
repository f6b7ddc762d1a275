package model

// BookingRequest is the BookTicket payload. AvailableSeats is accepted for
// compatibility with older clients and never read.
type BookingRequest struct {
	Source         string `json:"source,omitempty" validate:"omitempty,station"`
	Destination    string `json:"destination,omitempty" validate:"omitempty,station"`
	ScheduleDate   string `json:"schedule_date,omitempty" validate:"omitempty,date"`
	TrainNumber    int64  `json:"train_number" validate:"required,gt=0"`
	SeatCount      int    `json:"seat_count" validate:"required,min=1"`
	AvailableSeats *int   `json:"available_seats,omitempty"`
	UserID         int64  `json:"-"`
}
