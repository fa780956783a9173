package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// IntakeService stores tickets arriving from the web form or external
// automation. Intake is the only writer of ticket records.
type IntakeService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewIntakeService constructs the service.
func NewIntakeService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *IntakeService {
	return &IntakeService{tickets: tickets, dispatcher: dispatcher}
}

// TicketIntakeInput is the raw intake payload. Classification fields are
// optional strings that still need normalization and validation.
type TicketIntakeInput struct {
	Email    string
	UserName string
	Subject  string
	Message  string
	Category string
	Priority string
	Status   string
	Source   string
}

// ReceiveTicket validates, normalizes and persists an incoming ticket, then
// publishes a ticket_received event.
func (s *IntakeService) ReceiveTicket(ctx context.Context, input TicketIntakeInput) (*domain.Ticket, error) {
	email := strings.TrimSpace(input.Email)
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)
	if email == "" || subject == "" || message == "" {
		return nil, apperrors.NewValidationError("email, subject, message required", nil)
	}

	category, ok := domain.ParseCategory(input.Category)
	if !ok {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	priority, ok := domain.ParsePriority(input.Priority)
	if !ok {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	status, ok := domain.ParseStatus(input.Status)
	if !ok {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": input.Status})
	}
	source, ok := domain.ParseSource(input.Source)
	if !ok {
		return nil, apperrors.NewValidationError("unknown source", map[string]any{"source": input.Source})
	}

	ticket := &domain.Ticket{
		Email:    email,
		UserName: strings.TrimSpace(input.UserName),
		Subject:  subject,
		Message:  message,
		Category: category,
		Priority: priority,
		Status:   status,
		Source:   source,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketReceived,
		Timestamp: time.Now(),
		Payload: events.TicketReceivedPayload{
			TicketID: ticket.ID,
			Email:    ticket.Email,
			Subject:  ticket.Subject,
			Source:   ticket.Source,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

func (s *IntakeService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
