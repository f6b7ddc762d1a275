package memstore

import (
	"context"
	"fmt"
	"sort"

	trainserrors "railbook/internal/trains/errors"
	"railbook/internal/trains/repository"
	"railbook/pkg/model"
)

type TrainStore struct {
	s *Store
}

var _ repository.TrainRepository = (*TrainStore)(nil)

func (t *TrainStore) Create(ctx context.Context, train *model.TrainSchedule) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to create train: %w", err)
	}

	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trains[train.TrainNumber]; exists {
		return fmt.Errorf("%w: %d", trainserrors.ErrDuplicateTrain, train.TrainNumber)
	}

	stored := *train
	s.trains[stored.TrainNumber] = &stored

	onRollback(ctx, func() {
		delete(s.trains, stored.TrainNumber)
	})
	return nil
}

func (t *TrainStore) FindByNumber(ctx context.Context, trainNumber int64) (*model.TrainSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to find train: %w", err)
	}

	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	train, ok := s.trains[trainNumber]
	if !ok {
		return nil, fmt.Errorf("%w: %d", trainserrors.ErrNotFound, trainNumber)
	}
	found := *train
	return &found, nil
}

func (t *TrainStore) Search(ctx context.Context, source, destination string) ([]*model.TrainSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to search trains: %w", err)
	}

	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	trains := []*model.TrainSchedule{}
	for _, train := range s.trains {
		if train.Source == source && train.Destination == destination {
			found := *train
			trains = append(trains, &found)
		}
	}
	sortSchedules(trains)
	return trains, nil
}

func (t *TrainStore) DecrementSeats(ctx context.Context, trainNumber int64, count int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to decrement seats: %w", err)
	}

	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	train, ok := s.trains[trainNumber]
	if !ok {
		return fmt.Errorf("%w: %d", trainserrors.ErrNotFound, trainNumber)
	}
	if train.SeatsAvailable < count {
		return fmt.Errorf("%w: train %d", trainserrors.ErrInsufficientSeats, trainNumber)
	}
	train.SeatsAvailable -= count

	onRollback(ctx, func() {
		if train, ok := s.trains[trainNumber]; ok {
			train.SeatsAvailable += count
		}
	})
	return nil
}

func (t *TrainStore) FindAll(ctx context.Context, limit int, offset int64) ([]*model.TrainSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to query trains: %w", err)
	}

	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*model.TrainSchedule, 0, len(s.trains))
	for _, train := range s.trains {
		found := *train
		all = append(all, &found)
	}
	sortSchedules(all)
	return page(all, limit, offset), nil
}

func (t *TrainStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("failed to count trains: %w", err)
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return int64(len(t.s.trains)), nil
}

func sortSchedules(trains []*model.TrainSchedule) {
	sort.Slice(trains, func(i, j int) bool {
		if trains[i].ScheduleDate != trains[j].ScheduleDate {
			return trains[i].ScheduleDate < trains[j].ScheduleDate
		}
		return trains[i].TrainNumber < trains[j].TrainNumber
	})
}

func page[T any](items []T, limit int, offset int64) []T {
	if offset >= int64(len(items)) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
