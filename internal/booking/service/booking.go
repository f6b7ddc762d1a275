package service

import (
	"context"

	"railbook/internal/booking/core"
	"railbook/internal/booking/validator"
	"railbook/internal/events"
	"railbook/pkg/config"
	"railbook/pkg/db"
	apperrors "railbook/pkg/errors"
	"railbook/pkg/model"
	"railbook/pkg/sanitizer"
	"railbook/pkg/validation"
)

// TrainCatalog is the part of the train service the booking flow needs.
type TrainCatalog interface {
	GetSchedule(ctx context.Context, trainNumber int64) (*model.TrainSchedule, error)
	DecrementSeats(ctx context.Context, trainNumber int64, count int) error
}

type AccountLookup interface {
	GetByID(ctx context.Context, userID int64) (*model.Account, error)
}

type Ledger interface {
	RecordReservation(ctx context.Context, reservation *model.Reservation) (*model.Reservation, error)
}

type BookingService interface {
	Book(ctx context.Context, req *model.BookingRequest) (*model.Reservation, error)
}

type bookingService struct {
	trains    TrainCatalog
	accounts  AccountLookup
	ledger    Ledger
	tx        db.Transactor
	publisher events.Publisher
	validator *validator.BookingValidator
	cfg       *config.Config
	engine    *core.Engine

	observe func(*core.Attempt)
}

func NewBookingService(
	trains TrainCatalog,
	accounts AccountLookup,
	ledger Ledger,
	tx db.Transactor,
	publisher events.Publisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	s := &bookingService{
		trains:    trains,
		accounts:  accounts,
		ledger:    ledger,
		tx:        tx,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
		observe:   func(*core.Attempt) {},
	}
	s.engine = core.NewEngine(
		core.NewStep("load_train", "", s.loadTrain),
		core.NewStep("check_seats", core.SeatsChecked, s.checkSeats),
		core.NewStep("reserve_seats", core.SeatsReserved, s.reserveSeats),
		core.NewStep("resolve_user", "", s.resolveUser),
		core.NewStep("record_reservation", core.ReservationRecorded, s.recordReservation),
	)
	return s
}

// Book runs the booking flow in one storage transaction. Any error after the
// seats were taken rolls the decrement back with everything else.
func (s *bookingService) Book(ctx context.Context, in *model.BookingRequest) (*model.Reservation, error) {
	request := *in
	req := &request
	req.Source = sanitizer.SanitizeStation(req.Source)
	req.Destination = sanitizer.SanitizeStation(req.Destination)
	req.ScheduleDate = sanitizer.SanitizeDate(req.ScheduleDate)

	attempt := core.NewAttempt(req)
	defer func() { s.observe(attempt) }()

	if err := s.validator.Validate(req); err != nil {
		attempt.FailedStep = "validate"
		attempt.Enter(core.Rejected)
		s.cfg.Log.Warn("Booking validation failed",
			"user_id", req.UserID,
			"train_number", req.TrainNumber,
			"error", err,
		)
		return nil, apperrors.Validation("Booking validation failed", validation.Details(err))
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		return s.engine.Run(txCtx, attempt)
	})
	if err != nil {
		if !attempt.State.Terminal() {
			attempt.Enter(core.Failed)
		}
		return nil, s.finishWithError(attempt, err)
	}

	attempt.Enter(core.Confirmed)
	reservation := attempt.Reservation

	s.cfg.Log.Info("Booking confirmed",
		"reservation_id", reservation.ReservationID,
		"user_id", reservation.UserID,
		"train_number", reservation.TrainNumber,
		"seat_count", reservation.SeatCount,
	)

	pubCtx := context.WithoutCancel(ctx)
	if err := s.publisher.PublishReservationConfirmed(pubCtx, reservation); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event",
			"reservation_id", reservation.ReservationID,
			"error", err,
		)
	}

	return reservation, nil
}

func (s *bookingService) finishWithError(attempt *core.Attempt, err error) error {
	req := attempt.Request
	if attempt.State == core.Rejected {
		s.cfg.Log.Warn("Booking rejected",
			"user_id", req.UserID,
			"train_number", req.TrainNumber,
			"seat_count", req.SeatCount,
			"step", attempt.FailedStep,
			"error", err,
		)
	} else {
		s.cfg.Log.Error("Booking failed",
			"user_id", req.UserID,
			"train_number", req.TrainNumber,
			"seat_count", req.SeatCount,
			"step", attempt.FailedStep,
			"error", err,
		)
	}

	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Storage("Failed to complete booking", err)
}

func (s *bookingService) loadTrain(ctx context.Context, a *core.Attempt) error {
	train, err := s.trains.GetSchedule(ctx, a.Request.TrainNumber)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return core.Reject(err)
		}
		return err
	}
	a.Train = train
	return nil
}

// checkSeats is advisory. reserveSeats makes the binding decision.
func (s *bookingService) checkSeats(_ context.Context, a *core.Attempt) error {
	req := a.Request
	if field := a.Train.Mismatch(req.Source, req.Destination, req.ScheduleDate); field != "" {
		return core.Reject(apperrors.Validation("Booking does not match the train schedule", map[string]any{
			"train_number": req.TrainNumber,
			"field":        field,
		}))
	}
	if !a.Train.HasSeats(req.SeatCount) {
		return core.Reject(apperrors.InsufficientSeats(req.TrainNumber, req.SeatCount))
	}
	return nil
}

func (s *bookingService) reserveSeats(ctx context.Context, a *core.Attempt) error {
	err := s.trains.DecrementSeats(ctx, a.Request.TrainNumber, a.Request.SeatCount)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeInsufficientSeats) || apperrors.HasCode(err, apperrors.CodeNotFound) {
			return core.Reject(err)
		}
		return err
	}
	return nil
}

func (s *bookingService) resolveUser(ctx context.Context, a *core.Attempt) error {
	account, err := s.accounts.GetByID(ctx, a.Request.UserID)
	if err != nil {
		return err
	}
	a.Account = account
	return nil
}

func (s *bookingService) recordReservation(ctx context.Context, a *core.Attempt) error {
	reservation, err := s.ledger.RecordReservation(ctx, &model.Reservation{
		UserID:       a.Account.UserID,
		UserName:     a.Account.UserName,
		TrainNumber:  a.Train.TrainNumber,
		SeatCount:    a.Request.SeatCount,
		ScheduleDate: a.Train.ScheduleDate,
		Source:       a.Train.Source,
		Destination:  a.Train.Destination,
	})
	if err != nil {
		return err
	}
	a.Reservation = reservation
	return nil
}
