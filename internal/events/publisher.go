package events

import (
	"context"
	"strconv"

	"railbook/pkg/kafka"
	"railbook/pkg/middleware"
	"railbook/pkg/model"
)

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer messagePublisher
	source   string
}

// NewKafkaPublisher keys every event by train number so the events for one
// train land on one partition in commit order.
func NewKafkaPublisher(producer messagePublisher, source string) Publisher {
	return &kafkaPublisher{producer: producer, source: source}
}

func (p *kafkaPublisher) PublishReservationConfirmed(ctx context.Context, reservation *model.Reservation) error {
	msg, err := kafka.NewMessage().
		WithKey(strconv.FormatInt(reservation.TrainNumber, 10)).
		WithValue(reservation).
		WithEventType(TypeReservationConfirmed).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}
