package repository

import (
	"context"
	"railbook/pkg/model"
)

const TrainsCollection = "trains"

type TrainRepository interface {
	Create(ctx context.Context, train *model.TrainSchedule) error
	FindByNumber(ctx context.Context, trainNumber int64) (*model.TrainSchedule, error)
	// Search returns every schedule on the exact route ordered by
	// schedule_date then train_number.
	Search(ctx context.Context, source, destination string) ([]*model.TrainSchedule, error)
	// DecrementSeats subtracts count only if that many seats remain. It is a
	// single conditional write, so concurrent callers cannot oversell.
	DecrementSeats(ctx context.Context, trainNumber int64, count int) error
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.TrainSchedule, error)
	Count(ctx context.Context) (int64, error)
}
