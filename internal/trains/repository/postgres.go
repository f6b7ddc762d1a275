package repository

import (
	"context"
	"errors"
	"fmt"
	trainserrors "railbook/internal/trains/errors"
	"railbook/pkg/config"
	"railbook/pkg/db/postgres"
	"railbook/pkg/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectTrain = `SELECT train_number, source, destination, to_char(schedule_date, 'YYYY-MM-DD'), seats_available FROM trains `

type postgresTrainRepository struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

func NewPostgresTrainRepository(cfg *config.Config) TrainRepository {
	return &postgresTrainRepository{
		cfg:  cfg,
		pool: cfg.Client.Postgres,
	}
}

func (r *postgresTrainRepository) Create(ctx context.Context, train *model.TrainSchedule) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := postgres.Conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO trains (train_number, source, destination, schedule_date, seats_available)
		 VALUES ($1, $2, $3, $4::date, $5)`,
		train.TrainNumber, train.Source, train.Destination, train.ScheduleDate, train.SeatsAvailable,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %d", trainserrors.ErrDuplicateTrain, train.TrainNumber)
		}
		return fmt.Errorf("failed to create train: %w", err)
	}
	return nil
}

func (r *postgresTrainRepository) FindByNumber(ctx context.Context, trainNumber int64) (*model.TrainSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	row := postgres.Conn(ctx, r.pool).QueryRow(ctx, selectTrain+`WHERE train_number = $1`, trainNumber)
	train, err := scanTrain(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", trainserrors.ErrNotFound, trainNumber)
		}
		return nil, fmt.Errorf("failed to find train: %w", err)
	}
	return train, nil
}

func (r *postgresTrainRepository) Search(ctx context.Context, source, destination string) ([]*model.TrainSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	rows, err := postgres.Conn(ctx, r.pool).Query(ctx,
		selectTrain+`WHERE source = $1 AND destination = $2 ORDER BY schedule_date, train_number`,
		source, destination,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search trains: %w", err)
	}
	return collectTrains(rows)
}

func (r *postgresTrainRepository) DecrementSeats(ctx context.Context, trainNumber int64, count int) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	conn := postgres.Conn(ctx, r.pool)
	tag, err := conn.Exec(ctx,
		`UPDATE trains SET seats_available = seats_available - $2
		 WHERE train_number = $1 AND seats_available >= $2`,
		trainNumber, count,
	)
	if err != nil {
		return decrementError(err, trainNumber, count)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM trains WHERE train_number = $1)`, trainNumber).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check train existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %d", trainserrors.ErrNotFound, trainNumber)
	}
	return fmt.Errorf("%w: train %d, requested %d", trainserrors.ErrInsufficientSeats, trainNumber, count)
}

// decrementError maps a failed decrement. The seats_available >= 0 CHECK only
// fires if the WHERE guard was bypassed, and it still means the seats are gone.
func decrementError(err error, trainNumber int64, count int) error {
	if postgres.IsCheckViolation(err) {
		return fmt.Errorf("%w: train %d, requested %d", trainserrors.ErrInsufficientSeats, trainNumber, count)
	}
	return fmt.Errorf("failed to decrement seats: %w", err)
}

func (r *postgresTrainRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.TrainSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	rows, err := postgres.Conn(ctx, r.pool).Query(ctx,
		selectTrain+`ORDER BY schedule_date, train_number LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query trains: %w", err)
	}
	return collectTrains(rows)
}

func (r *postgresTrainRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var n int64
	if err := postgres.Conn(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM trains`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count trains: %w", err)
	}
	return n, nil
}

func scanTrain(row pgx.Row) (*model.TrainSchedule, error) {
	var t model.TrainSchedule
	if err := row.Scan(&t.TrainNumber, &t.Source, &t.Destination, &t.ScheduleDate, &t.SeatsAvailable); err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTrains(rows pgx.Rows) ([]*model.TrainSchedule, error) {
	defer rows.Close()

	trains := []*model.TrainSchedule{}
	for rows.Next() {
		t, err := scanTrain(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan train: %w", err)
		}
		trains = append(trains, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trains: %w", err)
	}
	return trains, nil
}
