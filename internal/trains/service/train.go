package service

import (
	"context"
	"errors"
	trainserrors "railbook/internal/trains/errors"
	"railbook/internal/trains/repository"
	"railbook/internal/trains/validator"
	"railbook/pkg/config"
	apperrors "railbook/pkg/errors"
	"railbook/pkg/model"
	"railbook/pkg/sanitizer"
	"railbook/pkg/validation"
	"sync"
)

type TrainService interface {
	SearchRoutes(ctx context.Context, source, destination string) ([]*model.TrainSchedule, error)
	GetSchedule(ctx context.Context, trainNumber int64) (*model.TrainSchedule, error)
	DecrementSeats(ctx context.Context, trainNumber int64, count int) error
	CreateSchedule(ctx context.Context, train *model.TrainSchedule) error
	ListSchedules(ctx context.Context, limit int, offset int64) ([]*model.TrainSchedule, int64, error)
}

type trainService struct {
	repo      repository.TrainRepository
	validator *validator.TrainValidator
	cfg       *config.Config
}

func NewTrainService(
	repo repository.TrainRepository,
	validator *validator.TrainValidator,
	cfg *config.Config,
) TrainService {
	return &trainService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *trainService) SearchRoutes(ctx context.Context, source, destination string) ([]*model.TrainSchedule, error) {
	source = sanitizer.SanitizeStation(source)
	destination = sanitizer.SanitizeStation(destination)

	if source == "" || destination == "" {
		return nil, apperrors.InvalidInput("source and destination are required")
	}

	trains, err := s.repo.Search(ctx, source, destination)
	if err != nil {
		s.cfg.Log.Error("Failed to search trains",
			"source", source,
			"destination", destination,
			"error", err,
		)
		return nil, apperrors.Storage("Failed to search trains", err)
	}

	return trains, nil
}

func (s *trainService) GetSchedule(ctx context.Context, trainNumber int64) (*model.TrainSchedule, error) {
	train, err := s.repo.FindByNumber(ctx, trainNumber)
	if err != nil {
		return nil, s.mapError(err, trainNumber, 0, "Failed to retrieve train")
	}
	return train, nil
}

// DecrementSeats is the authoritative availability gate. It joins any
// transaction carried by ctx.
func (s *trainService) DecrementSeats(ctx context.Context, trainNumber int64, count int) error {
	if count <= 0 {
		return apperrors.InvalidInput("seat count must be positive")
	}

	if err := s.repo.DecrementSeats(ctx, trainNumber, count); err != nil {
		return s.mapError(err, trainNumber, count, "Failed to reserve seats")
	}
	return nil
}

func (s *trainService) CreateSchedule(ctx context.Context, train *model.TrainSchedule) error {
	train.Source = sanitizer.SanitizeStation(train.Source)
	train.Destination = sanitizer.SanitizeStation(train.Destination)
	train.ScheduleDate = sanitizer.SanitizeDate(train.ScheduleDate)

	if err := s.validator.Validate(train); err != nil {
		s.cfg.Log.Warn("Train validation failed",
			"train_number", train.TrainNumber,
			"error", err,
		)
		return apperrors.Validation("Train validation failed", validation.Details(err))
	}

	if err := s.repo.Create(ctx, train); err != nil {
		if errors.Is(err, trainserrors.ErrDuplicateTrain) {
			return apperrors.Conflict("Train number already exists").
				WithDetails(map[string]any{"train_number": train.TrainNumber})
		}
		s.cfg.Log.Error("Failed to create train", "train_number", train.TrainNumber, "error", err)
		return apperrors.Storage("Failed to create train", err)
	}

	s.cfg.Log.Info("Train created successfully",
		"train_number", train.TrainNumber,
		"source", train.Source,
		"destination", train.Destination,
		"schedule_date", train.ScheduleDate,
		"seats_available", train.SeatsAvailable,
	)
	return nil
}

func (s *trainService) ListSchedules(ctx context.Context, limit int, offset int64) ([]*model.TrainSchedule, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var trains []*model.TrainSchedule
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count trains", "error", err)
			errCount = apperrors.Storage("Failed to count trains", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		trains, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list trains",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Storage("Failed to retrieve trains", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return trains, count, nil
}

func (s *trainService) mapError(err error, trainNumber int64, count int, message string) error {
	switch {
	case errors.Is(err, trainserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Train", trainNumber)
	case errors.Is(err, trainserrors.ErrInsufficientSeats):
		return apperrors.InsufficientSeats(trainNumber, count)
	default:
		s.cfg.Log.Error(message, "train_number", trainNumber, "error", err)
		return apperrors.Storage(message, err)
	}
}
