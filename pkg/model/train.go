package model

// DateLayout is the wire and storage format of a schedule date.
const DateLayout = "2006-01-02"

type TrainSchedule struct {
	TrainNumber    int64  `json:"train_number" bson:"_id" validate:"required,gt=0"`
	Source         string `json:"source" bson:"source" validate:"required,station"`
	Destination    string `json:"destination" bson:"destination" validate:"required,station,nefield=Source"`
	ScheduleDate   string `json:"schedule_date" bson:"schedule_date" validate:"required,date"`
	SeatsAvailable int    `json:"seats_available" bson:"seats_available" validate:"min=0,max=10000"`
}

// Mismatch returns the name of the first non-empty field that disagrees with
// the stored schedule, or an empty string.
func (t *TrainSchedule) Mismatch(source, destination, scheduleDate string) string {
	switch {
	case source != "" && source != t.Source:
		return "source"
	case destination != "" && destination != t.Destination:
		return "destination"
	case scheduleDate != "" && scheduleDate != t.ScheduleDate:
		return "schedule_date"
	}
	return ""
}

func (t *TrainSchedule) HasSeats(count int) bool {
	return t.SeatsAvailable >= count
}
