package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityAction names a recorded ticket action.
type ActivityAction string

const (
	ActionIssued    ActivityAction = "issued"
	ActionCalled    ActivityAction = "called"
	ActionStarted   ActivityAction = "started"
	ActionCompleted ActivityAction = "completed"
	ActionCancelled ActivityAction = "cancelled"
)

// ActivityLog is one append-only audit entry for a ticket. Entries are
// written in the same transaction as the mutation they describe.
type ActivityLog struct {
	ID          int64
	TicketID    int64
	StaffID     *uuid.UUID
	Action      ActivityAction
	Description string
	CreatedAt   time.Time
}
