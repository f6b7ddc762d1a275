package validator

import (
	"testing"

	"railbook/pkg/logger"
	"railbook/pkg/model"
	"railbook/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := NewTrainValidator(logger.NewNop())

	valid := func() *model.TrainSchedule {
		return &model.TrainSchedule{
			TrainNumber:    101,
			Source:         "NYC",
			Destination:    "BOS",
			ScheduleDate:   "2024-05-01",
			SeatsAvailable: 5,
		}
	}

	tests := []struct {
		name   string
		mutate func(*model.TrainSchedule)
		field  string
	}{
		{"valid", func(*model.TrainSchedule) {}, ""},
		{"zero seats allowed", func(t *model.TrainSchedule) { t.SeatsAvailable = 0 }, ""},
		{"missing number", func(t *model.TrainSchedule) { t.TrainNumber = 0 }, "train_number"},
		{"negative seats", func(t *model.TrainSchedule) { t.SeatsAvailable = -1 }, "seats_available"},
		{"same endpoints", func(t *model.TrainSchedule) { t.Destination = "NYC" }, "destination"},
		{"bad date", func(t *model.TrainSchedule) { t.ScheduleDate = "tomorrow" }, "schedule_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			train := valid()
			tt.mutate(train)

			err := v.Validate(train)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve validation.ValidationErrors
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve[0].Field)
		})
	}
}
