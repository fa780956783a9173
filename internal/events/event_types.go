package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventTicketReceived fires when the intake endpoint stores a new ticket,
	// whether it came from the web form or an automation webhook.
	EventTicketReceived EventType = "ticket_received"
	// EventSolutionUpdated fires when an admin documents or changes a solution.
	EventSolutionUpdated EventType = "solution_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketReceivedPayload payload.
type TicketReceivedPayload struct {
	TicketID string                `json:"ticket_id"`
	Email    string                `json:"email"`
	Subject  string                `json:"subject"`
	Source   domain.TicketSource   `json:"source,omitempty"`
	Priority domain.TicketPriority `json:"priority,omitempty"`
}

// SolutionUpdatedPayload payload.
type SolutionUpdatedPayload struct {
	Subject  string `json:"subject"`
	Solution string `json:"solution"`
}
