package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"railbook/internal/memstore"
	"railbook/pkg/config"
	apperrors "railbook/pkg/errors"
	"railbook/pkg/logger"
	"railbook/pkg/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*reservationService, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	svc := NewReservationService(store.Reservations(), &config.Config{Log: logger.NewNop()}).(*reservationService)
	return svc, store
}

func draft(userID, trainNumber int64, seats int) *model.Reservation {
	return &model.Reservation{
		UserID:       userID,
		TrainNumber:  trainNumber,
		SeatCount:    seats,
		UserName:     "alice",
		ScheduleDate: "2026-11-01",
		Source:       "NYC",
		Destination:  "BOS",
	}
}

func TestRecordReservation(t *testing.T) {
	svc, store := newTestService(t)
	in := draft(1, 101, 3)

	res, err := svc.RecordReservation(context.Background(), in)
	require.NoError(t, err)

	id, err := uuid.Parse(res.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, model.ReservationConfirmed, res.Status)
	assert.False(t, res.CreatedAt.IsZero())
	assert.Empty(t, in.ReservationID, "input is not mutated")

	all := store.Reservations().All()
	require.Len(t, all, 1)
	assert.Equal(t, res.ReservationID, all[0].ReservationID)
}

func TestRecordReservation_NoIdempotency(t *testing.T) {
	svc, store := newTestService(t)

	first, err := svc.RecordReservation(context.Background(), draft(1, 101, 1))
	require.NoError(t, err)
	second, err := svc.RecordReservation(context.Background(), draft(1, 101, 1))
	require.NoError(t, err)

	assert.NotEqual(t, first.ReservationID, second.ReservationID)
	assert.Len(t, store.Reservations().All(), 2)
}

func TestRecordReservation_StorageFailure(t *testing.T) {
	svc, store := newTestService(t)
	store.FailReservations(errors.New("disk full"))

	_, err := svc.RecordReservation(context.Background(), draft(1, 101, 1))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorage))

	_, err = svc.RecordReservation(context.Background(), draft(1, 101, 0))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestFindLatestByTrain(t *testing.T) {
	svc, _ := newTestService(t)
	clock := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	_, err := svc.RecordReservation(context.Background(), draft(1, 101, 1))
	require.NoError(t, err)
	// Same timestamp: the later UUIDv7 wins the tie.
	second, err := svc.RecordReservation(context.Background(), draft(2, 101, 2))
	require.NoError(t, err)

	latest, err := svc.FindLatestByTrain(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, second.ReservationID, latest.ReservationID)

	clock = clock.Add(time.Minute)
	third, err := svc.RecordReservation(context.Background(), draft(1, 101, 1))
	require.NoError(t, err)
	latest, err = svc.FindLatestByTrain(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, third.ReservationID, latest.ReservationID)

	_, err = svc.FindLatestByTrain(context.Background(), 999)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestGetByID(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.RecordReservation(context.Background(), draft(1, 101, 1))
	require.NoError(t, err)

	found, err := svc.GetByID(context.Background(), res.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, res.SeatCount, found.SeatCount)

	_, err = svc.GetByID(context.Background(), uuid.NewString())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = svc.GetByID(context.Background(), "not-a-uuid")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestListByUser(t *testing.T) {
	svc, _ := newTestService(t)
	for i := 0; i < 3; i++ {
		_, err := svc.RecordReservation(context.Background(), draft(1, 101, 1))
		require.NoError(t, err)
	}
	_, err := svc.RecordReservation(context.Background(), draft(2, 101, 1))
	require.NoError(t, err)

	page, total, err := svc.ListByUser(context.Background(), 1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	page, total, err = svc.ListByUser(context.Background(), 3, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, page)
}
