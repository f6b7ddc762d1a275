package memstore

import (
	"context"
	"fmt"
	"sort"

	reservationserrors "railbook/internal/reservations/errors"
	"railbook/internal/reservations/repository"
	"railbook/pkg/model"
)

type ReservationStore struct {
	s *Store
}

var _ repository.ReservationRepository = (*ReservationStore)(nil)

func (r *ReservationStore) Create(ctx context.Context, reservation *model.Reservation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reservationErr != nil {
		return fmt.Errorf("failed to create reservation: %w", s.reservationErr)
	}

	stored := *reservation
	s.reservations = append(s.reservations, &stored)

	onRollback(ctx, func() {
		for i, existing := range s.reservations {
			if existing.ReservationID == stored.ReservationID {
				s.reservations = append(s.reservations[:i], s.reservations[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r *ReservationStore) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, reservation := range s.reservations {
		if reservation.ReservationID == id {
			found := *reservation
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", reservationserrors.ErrNotFound, id)
}

func (r *ReservationStore) FindLatestByTrain(ctx context.Context, trainNumber int64) (*model.Reservation, error) {
	matches, err := r.filter(ctx, func(res *model.Reservation) bool { return res.TrainNumber == trainNumber })
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: train %d", reservationserrors.ErrNotFound, trainNumber)
	}
	return matches[0], nil
}

func (r *ReservationStore) FindByUser(ctx context.Context, userID int64, limit int, offset int64) ([]*model.Reservation, error) {
	matches, err := r.filter(ctx, func(res *model.Reservation) bool { return res.UserID == userID })
	if err != nil {
		return nil, err
	}
	return page(matches, limit, offset), nil
}

func (r *ReservationStore) CountByUser(ctx context.Context, userID int64) (int64, error) {
	matches, err := r.filter(ctx, func(res *model.Reservation) bool { return res.UserID == userID })
	if err != nil {
		return 0, err
	}
	return int64(len(matches)), nil
}

// All returns every reservation, newest first.
func (r *ReservationStore) All() []*model.Reservation {
	all, _ := r.filter(context.Background(), func(*model.Reservation) bool { return true })
	return all
}

// filter returns copies of the matching reservations ordered by created_at
// then reservation_id, both descending.
func (r *ReservationStore) filter(ctx context.Context, keep func(*model.Reservation) bool) ([]*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}

	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := []*model.Reservation{}
	for _, reservation := range s.reservations {
		if keep(reservation) {
			found := *reservation
			matches = append(matches, &found)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ReservationID > matches[j].ReservationID
	})
	return matches, nil
}
