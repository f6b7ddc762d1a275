package validation

import (
	"testing"

	"railbook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	UserName string `json:"user_name" validate:"required,username"`
	Source   string `json:"source" validate:"required,station"`
	Date     string `json:"schedule_date" validate:"required,date"`
	Seats    int    `json:"seat_count" validate:"min=1"`
}

func valid() sample {
	return sample{UserName: "alice", Source: "New York", Date: "2024-05-01", Seats: 1}
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(New(logger.NewNop()), valid()))
}

func TestStruct_Rules(t *testing.T) {
	v := New(logger.NewNop())

	tests := []struct {
		name   string
		mutate func(*sample)
		field  string
	}{
		{"short username", func(s *sample) { s.UserName = "al" }, "user_name"},
		{"username with space", func(s *sample) { s.UserName = "ali ce" }, "user_name"},
		{"username leading dot", func(s *sample) { s.UserName = ".alice" }, "user_name"},
		{"station padded", func(s *sample) { s.Source = " NYC" }, "source"},
		{"station too short", func(s *sample) { s.Source = "N" }, "source"},
		{"bad date", func(s *sample) { s.Date = "01/05/2024" }, "schedule_date"},
		{"impossible date", func(s *sample) { s.Date = "2024-02-30" }, "schedule_date"},
		{"zero seats", func(s *sample) { s.Seats = 0 }, "seat_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)

			err := Struct(v, s)
			require.Error(t, err)

			var ve ValidationErrors
			require.ErrorAs(t, err, &ve)
			require.Len(t, ve, 1)
			assert.Equal(t, tt.field, ve[0].Field)
			assert.NotEmpty(t, ve[0].Message)
		})
	}
}

func TestDetails(t *testing.T) {
	err := Struct(New(logger.NewNop()), sample{})

	details := Details(err)
	list, ok := details["errors"].([]ValidationError)
	require.True(t, ok)
	assert.Len(t, list, 4)
}
