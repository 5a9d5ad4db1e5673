package domain

// EventType identifies a real-time queue event pushed to display boards.
type EventType string

const (
	EventTicketIssued    EventType = "ticket.issued"
	EventTicketCalled    EventType = "ticket.called"
	EventTicketStarted   EventType = "ticket.started"
	EventTicketCompleted EventType = "ticket.completed"
	EventTicketCancelled EventType = "ticket.cancelled"
)

// Event is broadcast to connected display boards when a ticket changes state.
type Event struct {
	Type       EventType `json:"type"`
	TicketID   int64     `json:"ticket_id"`
	CategoryID int64     `json:"category_id"`
	Payload    any       `json:"payload,omitempty"`
}
