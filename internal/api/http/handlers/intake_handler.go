package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/ratelimit"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// IntakeHandler accepts new tickets from the public form and automation
// webhooks. The route is unauthenticated, so it carries its own rate limit.
type IntakeHandler struct {
	intake  *service.IntakeService
	limiter *ratelimit.Limiter
}

// NewIntakeHandler constructs handler.
func NewIntakeHandler(intake *service.IntakeService, limiter *ratelimit.Limiter) *IntakeHandler {
	return &IntakeHandler{intake: intake, limiter: limiter}
}

// AddTicket POST /addTicket.
func (h *IntakeHandler) AddTicket(c *fiber.Ctx) error {
	if !h.limiter.Allow(c.Context(), c.IP()) {
		return apperrors.NewTooManyRequests("intake rate limit exceeded")
	}

	var req dto.IntakeTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.intake.ReceiveTicket(c.Context(), service.TicketIntakeInput{
		Email:    req.Email,
		UserName: req.UserName,
		Subject:  req.Subject,
		Message:  req.Message,
		Category: req.Category,
		Priority: req.Priority,
		Status:   req.Status,
		Source:   req.Source,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Ticket stored successfully",
		"ticket":  ticketResponse(ticket),
	})
}
