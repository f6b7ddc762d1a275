package model

import "time"

const ReservationConfirmed = "confirmed"

// Reservation is append-only. Route and user fields are copied at booking time.
type Reservation struct {
	ReservationID string    `json:"reservation_id" bson:"_id"`
	UserID        int64     `json:"user_id" bson:"user_id"`
	TrainNumber   int64     `json:"train_number" bson:"train_number"`
	SeatCount     int       `json:"seat_count" bson:"seat_count"`
	Status        string    `json:"status" bson:"status"`
	UserName      string    `json:"user_name" bson:"user_name"`
	ScheduleDate  string    `json:"schedule_date" bson:"schedule_date"`
	Source        string    `json:"source" bson:"source"`
	Destination   string    `json:"destination" bson:"destination"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
