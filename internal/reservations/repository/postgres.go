package repository

import (
	"context"
	"errors"
	"fmt"
	reservationserrors "railbook/internal/reservations/errors"
	"railbook/pkg/config"
	"railbook/pkg/db/postgres"
	"railbook/pkg/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectReservation = `SELECT reservation_id::text, user_id, train_number, seat_count, status, user_name,
	to_char(schedule_date, 'YYYY-MM-DD'), source, destination, created_at FROM reservations `

type postgresReservationRepository struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

func NewPostgresReservationRepository(cfg *config.Config) ReservationRepository {
	return &postgresReservationRepository{
		cfg:  cfg,
		pool: cfg.Client.Postgres,
	}
}

func (r *postgresReservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := postgres.Conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO reservations
		 (reservation_id, user_id, train_number, seat_count, status, user_name, schedule_date, source, destination, created_at)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7::date, $8, $9, $10)`,
		res.ReservationID, res.UserID, res.TrainNumber, res.SeatCount, res.Status,
		res.UserName, res.ScheduleDate, res.Source, res.Destination, res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *postgresReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	row := postgres.Conn(ctx, r.pool).QueryRow(ctx, selectReservation+`WHERE reservation_id = $1::uuid`, id)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", reservationserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return res, nil
}

func (r *postgresReservationRepository) FindLatestByTrain(ctx context.Context, trainNumber int64) (*model.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	row := postgres.Conn(ctx, r.pool).QueryRow(ctx,
		selectReservation+`WHERE train_number = $1 ORDER BY created_at DESC, reservation_id DESC LIMIT 1`,
		trainNumber,
	)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: train %d", reservationserrors.ErrNotFound, trainNumber)
		}
		return nil, fmt.Errorf("failed to find latest reservation: %w", err)
	}
	return res, nil
}

func (r *postgresReservationRepository) FindByUser(ctx context.Context, userID int64, limit int, offset int64) ([]*model.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	rows, err := postgres.Conn(ctx, r.pool).Query(ctx,
		selectReservation+`WHERE user_id = $1 ORDER BY created_at DESC, reservation_id DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	reservations := []*model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reservations: %w", err)
	}
	return reservations, nil
}

func (r *postgresReservationRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var n int64
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM reservations WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return n, nil
}

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(
		&res.ReservationID, &res.UserID, &res.TrainNumber, &res.SeatCount, &res.Status,
		&res.UserName, &res.ScheduleDate, &res.Source, &res.Destination, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.CreatedAt = res.CreatedAt.UTC()
	return &res, nil
}
