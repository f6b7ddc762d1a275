package repository

import (
	"errors"
	"fmt"
	"testing"

	trainserrors "railbook/internal/trains/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDecrementError(t *testing.T) {
	tests := []struct {
		name             string
		err              error
		wantInsufficient bool
	}{
		{"check violation", &pgconn.PgError{Code: "23514", ConstraintName: "trains_seats_available_check"}, true},
		{"wrapped check violation", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23514"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"connection error", errors.New("conn closed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decrementError(tt.err, 101, 3)

			assert.Equal(t, tt.wantInsufficient, errors.Is(err, trainserrors.ErrInsufficientSeats))
			if !tt.wantInsufficient {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}
