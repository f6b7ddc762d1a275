package service

import (
	"context"
	"errors"
	reservationserrors "railbook/internal/reservations/errors"
	"railbook/internal/reservations/repository"
	"railbook/pkg/config"
	apperrors "railbook/pkg/errors"
	"railbook/pkg/model"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ReservationService interface {
	// RecordReservation appends a confirmed reservation. The caller fills the
	// user, train and route fields; id, status and created_at are assigned here.
	RecordReservation(ctx context.Context, reservation *model.Reservation) (*model.Reservation, error)
	FindLatestByTrain(ctx context.Context, trainNumber int64) (*model.Reservation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	ListByUser(ctx context.Context, userID int64, limit int, offset int64) ([]*model.Reservation, int64, error)
}

type reservationService struct {
	repo repository.ReservationRepository
	cfg  *config.Config
	now  func() time.Time
}

func NewReservationService(repo repository.ReservationRepository, cfg *config.Config) ReservationService {
	return &reservationService{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

func (s *reservationService) RecordReservation(ctx context.Context, reservation *model.Reservation) (*model.Reservation, error) {
	if reservation.SeatCount <= 0 {
		return nil, apperrors.InvalidInput("seat count must be positive")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Internal("Failed to generate reservation id", err)
	}

	record := *reservation
	record.ReservationID = id.String()
	record.Status = model.ReservationConfirmed
	record.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	if err := s.repo.Create(ctx, &record); err != nil {
		s.cfg.Log.Error("Failed to record reservation",
			"user_id", record.UserID,
			"train_number", record.TrainNumber,
			"seat_count", record.SeatCount,
			"error", err,
		)
		return nil, apperrors.Storage("Failed to record reservation", err)
	}

	s.cfg.Log.Info("Reservation recorded",
		"reservation_id", record.ReservationID,
		"user_id", record.UserID,
		"train_number", record.TrainNumber,
		"seat_count", record.SeatCount,
	)
	return &record, nil
}

func (s *reservationService) FindLatestByTrain(ctx context.Context, trainNumber int64) (*model.Reservation, error) {
	reservation, err := s.repo.FindLatestByTrain(ctx, trainNumber)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Reservation").
				WithDetails(map[string]any{"train_number": trainNumber})
		}
		s.cfg.Log.Error("Failed to find latest reservation", "train_number", trainNumber, "error", err)
		return nil, apperrors.Storage("Failed to retrieve reservation", err)
	}
	return reservation, nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.InvalidInput(reservationserrors.ErrInvalidID.Error())
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to get reservation by ID", "reservation_id", id, "error", err)
		return nil, apperrors.Storage("Failed to retrieve reservation", err)
	}
	return reservation, nil
}

func (s *reservationService) ListByUser(ctx context.Context, userID int64, limit int, offset int64) ([]*model.Reservation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByUser(ctx, userID)
		if err != nil {
			s.cfg.Log.Error("Failed to count reservations", "user_id", userID, "error", err)
			errCount = apperrors.Storage("Failed to count reservations", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		reservations, err = s.repo.FindByUser(ctx, userID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list reservations",
				"user_id", userID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Storage("Failed to retrieve reservations", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}
