package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// frequentProblemLimit caps the frequent-problems report. The solution lookup
// only runs against this already-limited set, never the full subject universe.
const frequentProblemLimit = 20

// TicketService is the aggregation engine: role-scoped listings, analytics
// breakdowns, and the frequent-problems report. It never mutates tickets.
type TicketService struct {
	tickets    repository.TicketRepository
	solutions  repository.ProblemSolutionRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	SolutionRepo repository.ProblemSolutionRepository
	Dispatcher   events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		solutions:  deps.SolutionRepo,
		dispatcher: deps.Dispatcher,
	}
}

// scopeFor restricts queries to the caller's own tickets unless the caller is
// an admin.
func scopeFor(principal *auth.Principal) repository.TicketScope {
	if principal.IsAdmin() {
		return repository.TicketScope{}
	}
	email := principal.Email
	return repository.TicketScope{Email: &email}
}

// ListTickets returns the caller's visible tickets, newest first. Admins see
// every ticket; everyone else only those matching their own email.
func (s *TicketService) ListTickets(ctx context.Context, principal *auth.Principal) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, scopeFor(principal))
}

// Analytics computes the per-source, per-status and per-priority breakdowns
// plus the scoped total. The four aggregates are independent reads and run
// concurrently; if any one fails the whole report fails.
func (s *TicketService) Analytics(ctx context.Context, principal *auth.Principal) (*domain.TicketAnalytics, error) {
	scope := scopeFor(principal)
	analytics := &domain.TicketAnalytics{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		buckets, err := s.tickets.CountGrouped(gctx, scope, repository.GroupBySource)
		if err != nil {
			return err
		}
		analytics.BySource = buckets
		return nil
	})
	g.Go(func() error {
		buckets, err := s.tickets.CountGrouped(gctx, scope, repository.GroupByStatus)
		if err != nil {
			return err
		}
		analytics.ByStatus = buckets
		return nil
	})
	g.Go(func() error {
		buckets, err := s.tickets.CountGrouped(gctx, scope, repository.GroupByPriority)
		if err != nil {
			return err
		}
		analytics.ByPriority = buckets
		return nil
	})
	g.Go(func() error {
		total, err := s.tickets.CountAll(gctx, scope)
		if err != nil {
			return err
		}
		analytics.TotalTickets = total
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return analytics, nil
}

// FrequentProblems reports the most common ticket subjects system-wide with
// any documented solution attached. Unlike listings and analytics this is
// deliberately unscoped: the report answers "what keeps going wrong", which
// is the same question for every caller.
func (s *TicketService) FrequentProblems(ctx context.Context) ([]domain.FrequentProblem, error) {
	groups, err := s.tickets.TopSubjects(ctx, frequentProblemLimit)
	if err != nil {
		return nil, err
	}

	// Empty-subject buckets are dropped after the limit, so they consume a
	// slot but never surface.
	subjects := make([]string, 0, len(groups))
	for _, group := range groups {
		if group.Subject != nil && *group.Subject != "" {
			subjects = append(subjects, *group.Subject)
		}
	}

	solutions, err := s.solutions.FindBySubjects(ctx, subjects)
	if err != nil {
		return nil, err
	}
	solutionBySubject := make(map[string]string, len(solutions))
	for _, entry := range solutions {
		solutionBySubject[entry.Subject] = entry.Solution
	}

	problems := make([]domain.FrequentProblem, 0, len(subjects))
	for _, group := range groups {
		if group.Subject == nil || *group.Subject == "" {
			continue
		}
		problems = append(problems, domain.FrequentProblem{
			Subject:  *group.Subject,
			Count:    group.Count,
			Solution: solutionBySubject[*group.Subject],
		})
	}
	return problems, nil
}

// UpsertSolution documents or overwrites the solution for a subject. Admin
// only; the role check runs before validation and before any store access.
func (s *TicketService) UpsertSolution(ctx context.Context, principal *auth.Principal, subject, solution string) (*domain.ProblemSolution, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.NewForbidden("only admins can update solutions")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject is required", nil)
	}

	entry, err := s.solutions.Upsert(ctx, subject, solution)
	if err != nil {
		return nil, err
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSolutionUpdated,
			Timestamp: time.Now(),
			Payload: events.SolutionUpdatedPayload{
				Subject:  entry.Subject,
				Solution: entry.Solution,
			},
		})
	}
	return entry, nil
}
