// Package events publishes and consumes reservation lifecycle events.
package events

import (
	"context"

	"railbook/pkg/model"
)

const (
	TypeReservationConfirmed = "reservation.confirmed"
	SchemaVersion            = "1"
)

type Publisher interface {
	PublishReservationConfirmed(ctx context.Context, reservation *model.Reservation) error
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher is used when events are disabled.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishReservationConfirmed(context.Context, *model.Reservation) error {
	return nil
}

func (nopPublisher) Close() error {
	return nil
}
