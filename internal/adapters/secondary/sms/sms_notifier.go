package sms

import (
	"context"
	"log/slog"

	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// MockSMSNotifier is a secondary adapter that mocks sending SMS messages.
// It implements the ports.Notifier interface; a real gateway integration
// would replace it behind the same port.
type MockSMSNotifier struct {
	logger *slog.Logger
}

// NewMockSMSNotifier creates a new mock notifier.
func NewMockSMSNotifier() ports.Notifier {
	return &MockSMSNotifier{
		logger: slog.Default().With("component", "sms_notifier"),
	}
}

// NewMockSMSNotifierWithLogger creates a new mock notifier with a custom logger.
func NewMockSMSNotifierWithLogger(logger *slog.Logger) ports.Notifier {
	return &MockSMSNotifier{
		logger: logger.With("component", "sms_notifier"),
	}
}

// Notify logs the notification instead of talking to an SMS gateway.
func (n *MockSMSNotifier) Notify(ctx context.Context, params ports.NotificationParams) {
	n.logger.Info("mock sms sent",
		"to", params.ContactInfo,
		"ticket_number", params.TicketNumber,
		"message", params.Message,
	)
}
