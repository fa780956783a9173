package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketsHandler exposes the role-scoped ticket views and the knowledge-base
// editing endpoint.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tickets, err := h.service.ListTickets(c.Context(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"tickets": items,
	})
}

// Analytics GET /api/tickets/analytics.
func (h *TicketsHandler) Analytics(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	analytics, err := h.service.Analytics(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"analytics": analyticsResponse(analytics),
	})
}

// FrequentProblems GET /api/tickets/frequent-problems.
func (h *TicketsHandler) FrequentProblems(c *fiber.Ctx) error {
	problems, err := h.service.FrequentProblems(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.FrequentProblemResponse, 0, len(problems))
	for _, problem := range problems {
		items = append(items, dto.FrequentProblemResponse{
			Subject:  problem.Subject,
			Count:    problem.Count,
			Solution: problem.Solution,
		})
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"problems": items,
	})
}

// UpsertSolution PUT /api/tickets/problems/solution.
func (h *TicketsHandler) UpsertSolution(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpsertSolutionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	solution := ""
	if req.Solution != nil {
		solution = *req.Solution
	}
	entry, err := h.service.UpsertSolution(c.Context(), principal, req.Subject, solution)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"problem": dto.ProblemResponse{
			Subject:  entry.Subject,
			Solution: entry.Solution,
		},
	})
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:        ticket.ID,
		Email:     ticket.Email,
		UserName:  ticket.UserName,
		Subject:   ticket.Subject,
		Message:   ticket.Message,
		Category:  string(ticket.Category),
		Priority:  string(ticket.Priority),
		Status:    string(ticket.Status),
		Source:    string(ticket.Source),
		CreatedAt: ticket.CreatedAt,
	}
}

func analyticsResponse(analytics *domain.TicketAnalytics) dto.AnalyticsResponse {
	resp := dto.AnalyticsResponse{
		TotalTickets: analytics.TotalTickets,
		BySource:     make([]dto.SourceCount, 0, len(analytics.BySource)),
		ByStatus:     make([]dto.StatusCount, 0, len(analytics.ByStatus)),
		ByPriority:   make([]dto.PriorityCount, 0, len(analytics.ByPriority)),
	}
	for _, bucket := range analytics.BySource {
		resp.BySource = append(resp.BySource, dto.SourceCount{Source: bucket.Key, Count: bucket.Count})
	}
	for _, bucket := range analytics.ByStatus {
		resp.ByStatus = append(resp.ByStatus, dto.StatusCount{Status: bucket.Key, Count: bucket.Count})
	}
	for _, bucket := range analytics.ByPriority {
		resp.ByPriority = append(resp.ByPriority, dto.PriorityCount{Priority: bucket.Key, Count: bucket.Count})
	}
	return resp
}
