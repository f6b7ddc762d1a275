package events

import (
	"context"
	"fmt"

	"railbook/pkg/kafka"
	"railbook/pkg/logger"
	"railbook/pkg/model"
)

// Notifier turns confirmed reservations into passenger notices. Delivery is a
// structured log record; there is no outbound channel yet.
type Notifier struct {
	log *logger.Logger
}

func NewNotifier(log *logger.Logger) *Notifier {
	return &Notifier{log: log}
}

// Handle skips unknown event types so that new producers cannot wedge the
// consumer. Undecodable payloads are permanent failures.
func (n *Notifier) Handle(_ context.Context, msg kafka.Message) error {
	if msg.EventType() != TypeReservationConfirmed {
		n.log.Debug("Skipping event", "event_type", msg.EventType(), "event_id", msg.EventID())
		return nil
	}

	var reservation model.Reservation
	if err := msg.DecodeValue(&reservation); err != nil {
		return kafka.NewPermanentError("failed to decode reservation event", err)
	}
	if reservation.ReservationID == "" || reservation.SeatCount <= 0 {
		return kafka.NewPermanentError(fmt.Sprintf("invalid reservation event %s", msg.EventID()), nil)
	}

	n.log.Info("Reservation confirmed",
		"reservation_id", reservation.ReservationID,
		"user_id", reservation.UserID,
		"user_name", reservation.UserName,
		"train_number", reservation.TrainNumber,
		"seat_count", reservation.SeatCount,
		"route", reservation.Source+" -> "+reservation.Destination,
		"schedule_date", reservation.ScheduleDate,
		"correlation_id", msg.CorrelationID(),
	)
	return nil
}
