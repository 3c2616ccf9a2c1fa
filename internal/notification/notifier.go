package notification

import (
	"context"
	"errors"
	"log/slog"

	"rentanything/internal/domain"
)

// Publisher ships notifications to an external broker.
type Publisher interface {
	Publish(ctx context.Context, n domain.Notification) error
}

// Notifier fans a booking notification out to the websocket hub and the broker.
// Delivery problems are logged and returned; callers do not fail requests on them.
type Notifier struct {
	hub       *Hub
	publisher Publisher
	logger    *slog.Logger
}

func NewNotifier(hub *Hub, publisher Publisher, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{hub: hub, publisher: publisher, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, event domain.Notification) error {
	var errs []error

	if n.hub != nil {
		delivered := n.hub.SendToUser(event.RecipientID, event)
		n.logger.Debug("notification pushed",
			"type", event.Type,
			"recipient_id", event.RecipientID,
			"booking_id", event.BookingID,
			"connections", delivered,
		)
	}

	if n.publisher != nil {
		if err := n.publisher.Publish(ctx, event); err != nil {
			n.logger.Error("notification publish failed",
				"type", event.Type,
				"booking_id", event.BookingID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
