package repository

import (
	"context"
	"railbook/pkg/model"
)

const ReservationsCollection = "reservations"

// ReservationRepository is append-only: there is no update or delete.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	// FindLatestByTrain orders by created_at then reservation_id, both
	// descending.
	FindLatestByTrain(ctx context.Context, trainNumber int64) (*model.Reservation, error)
	FindByUser(ctx context.Context, userID int64, limit int, offset int64) ([]*model.Reservation, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
}
