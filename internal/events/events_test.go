package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"railbook/pkg/kafka"
	"railbook/pkg/logger"
	"railbook/pkg/middleware"
	"railbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	messages []kafka.Message
	err      error
}

func (p *recordingProducer) Publish(_ context.Context, msg kafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func reservation() *model.Reservation {
	return &model.Reservation{
		ReservationID: "0192f0a4-7a1e-7c3d-9b2a-5f1e2d3c4b5a",
		UserID:        1,
		TrainNumber:   101,
		SeatCount:     3,
		Status:        model.ReservationConfirmed,
		UserName:      "alice",
		ScheduleDate:  "2026-11-01",
		Source:        "NYC",
		Destination:   "BOS",
		CreatedAt:     time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher(t *testing.T) {
	producer := &recordingProducer{}
	pub := NewKafkaPublisher(producer, "railbook")
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")

	require.NoError(t, pub.PublishReservationConfirmed(ctx, reservation()))

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "101", msg.Key)
	assert.Equal(t, TypeReservationConfirmed, msg.EventType())
	assert.Equal(t, "req-42", msg.CorrelationID())
	assert.Equal(t, "railbook", msg.Headers[kafka.HeaderSource])

	var decoded model.Reservation
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, *reservation(), decoded)
}

func TestKafkaPublisher_PropagatesErrors(t *testing.T) {
	boom := errors.New("broker down")
	pub := NewKafkaPublisher(&recordingProducer{err: boom}, "railbook")

	assert.ErrorIs(t, pub.PublishReservationConfirmed(context.Background(), reservation()), boom)
}

func TestNotifier_Handle(t *testing.T) {
	n := NewNotifier(logger.NewNop())

	valid, err := kafka.NewMessage().
		WithKey("101").
		WithValue(reservation()).
		WithEventType(TypeReservationConfirmed).
		Build()
	require.NoError(t, err)
	assert.NoError(t, n.Handle(context.Background(), valid))

	other, err := kafka.NewMessage().WithKey("101").WithValue("x").WithEventType("train.created").Build()
	require.NoError(t, err)
	assert.NoError(t, n.Handle(context.Background(), other))

	garbled := valid
	garbled.Value = []byte("{not json")
	err = n.Handle(context.Background(), garbled)
	require.Error(t, err)
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))

	empty, err := kafka.NewMessage().WithKey("101").WithValue(model.Reservation{}).WithEventType(TypeReservationConfirmed).Build()
	require.NoError(t, err)
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(n.Handle(context.Background(), empty)))
}

func TestNopPublisher(t *testing.T) {
	pub := NewNopPublisher()
	assert.NoError(t, pub.PublishReservationConfirmed(context.Background(), reservation()))
	assert.NoError(t, pub.Close())
}
