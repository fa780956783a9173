package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/ratelimit"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// In-memory stand-ins for the record store, matching its query semantics.

type memTicketRepo struct {
	tickets []domain.Ticket
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = time.Now().Format("20060102150405.000000000")
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}
	r.tickets = append(r.tickets, *ticket)
	return nil
}

func (r *memTicketRepo) List(_ context.Context, scope repository.TicketScope) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if scope.Email != nil && ticket.Email != *scope.Email {
			continue
		}
		result = append(result, ticket)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memTicketRepo) CountGrouped(_ context.Context, scope repository.TicketScope, dimension repository.GroupDimension) ([]domain.DimensionCount, error) {
	counts := map[string]int64{}
	for _, ticket := range r.tickets {
		if scope.Email != nil && ticket.Email != *scope.Email {
			continue
		}
		var key string
		switch dimension {
		case repository.GroupBySource:
			key = string(ticket.Source)
		case repository.GroupByStatus:
			key = string(ticket.Status)
		case repository.GroupByPriority:
			key = string(ticket.Priority)
		}
		if key = domain.NormalizeOptional(key); key != "" {
			counts[key]++
		}
	}
	var result []domain.DimensionCount
	for key, count := range counts {
		result = append(result, domain.DimensionCount{Key: key, Count: count})
	}
	return result, nil
}

func (r *memTicketRepo) CountAll(_ context.Context, scope repository.TicketScope) (int64, error) {
	var total int64
	for _, ticket := range r.tickets {
		if scope.Email == nil || ticket.Email == *scope.Email {
			total++
		}
	}
	return total, nil
}

func (r *memTicketRepo) TopSubjects(_ context.Context, limit int) ([]repository.SubjectGroup, error) {
	counts := map[string]int64{}
	order := []string{}
	for _, ticket := range r.tickets {
		if _, seen := counts[ticket.Subject]; !seen {
			order = append(order, ticket.Subject)
		}
		counts[ticket.Subject]++
	}
	groups := make([]repository.SubjectGroup, 0, len(order))
	for _, subject := range order {
		s := subject
		group := repository.SubjectGroup{Count: counts[subject]}
		if s != "" {
			group.Subject = &s
		}
		groups = append(groups, group)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups, nil
}

type memSolutionRepo struct {
	entries map[string]domain.ProblemSolution
}

func (r *memSolutionRepo) FindBySubjects(_ context.Context, subjects []string) ([]domain.ProblemSolution, error) {
	var result []domain.ProblemSolution
	for _, subject := range subjects {
		if entry, ok := r.entries[subject]; ok {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *memSolutionRepo) Upsert(_ context.Context, subject, solution string) (*domain.ProblemSolution, error) {
	entry := domain.ProblemSolution{Subject: subject, Solution: solution, UpdatedAt: time.Now()}
	r.entries[subject] = entry
	return &entry, nil
}

type memUserRepo struct {
	users map[string]domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = "user-" + user.Email
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type testEnv struct {
	app       *fiber.App
	tickets   *memTicketRepo
	solutions *memSolutionRepo
	auth      *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
		},
	}

	ticketRepo := &memTicketRepo{}
	solutionRepo := &memSolutionRepo{entries: map[string]domain.ProblemSolution{}}
	userRepo := &memUserRepo{users: map[string]domain.User{}}

	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(cfg, userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		SolutionRepo: solutionRepo,
		Dispatcher:   dispatcher,
	})
	intakeService := service.NewIntakeService(ticketRepo, dispatcher)

	logger := zap.NewNop()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0, "*")
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Intake:         handlers.NewIntakeHandler(intakeService, ratelimit.NewLimiter(nil, logger, "intake", 0)),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})

	return &testEnv{app: app, tickets: ticketRepo, solutions: solutionRepo, auth: authService}
}

func (e *testEnv) signup(t *testing.T, name, email string, role domain.Role) string {
	t.Helper()
	_, token, _, err := e.auth.Signup(context.Background(), name, email, "password123", role)
	require.NoError(t, err)
	return token
}

func (e *testEnv) seedTicket(t *testing.T, email, subject string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, e.tickets.Create(context.Background(), &domain.Ticket{
		Email:     email,
		Subject:   subject,
		Message:   "broken",
		CreatedAt: createdAt,
	}))
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestListTicketsRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/tickets", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "UNAUTHORIZED", errObj["code"])
}

func TestListTicketsScopedByRole(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env.seedTicket(t, "a@x.com", "VPN down", base)
	env.seedTicket(t, "a@x.com", "Printer jam", base.Add(time.Hour))
	env.seedTicket(t, "b@x.com", "Monitor flicker", base)

	userToken := env.signup(t, "Alice", "a@x.com", domain.RoleUser)
	adminToken := env.signup(t, "Root", "root@x.com", domain.RoleAdmin)

	resp, body := env.do(t, http.MethodGet, "/api/tickets", userToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	tickets := body["tickets"].([]any)
	require.Len(t, tickets, 2)
	first := tickets[0].(map[string]any)
	assert.Equal(t, "Printer jam", first["subject"], "newest first")

	resp, body = env.do(t, http.MethodGet, "/api/tickets", adminToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["tickets"].([]any), 3)
}

func TestAnalyticsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env.seedTicket(t, "a@x.com", "VPN down", base)
	env.seedTicket(t, "b@x.com", "Printer jam", base)

	adminToken := env.signup(t, "Root", "root@x.com", domain.RoleAdmin)

	resp, body := env.do(t, http.MethodGet, "/api/tickets/analytics", adminToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	analytics := body["analytics"].(map[string]any)
	assert.Equal(t, float64(2), analytics["totalTickets"])
	assert.Contains(t, analytics, "bySource")
	assert.Contains(t, analytics, "byStatus")
	assert.Contains(t, analytics, "byPriority")
}

func TestFrequentProblemsFlow(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		env.seedTicket(t, "a@x.com", "VPN down", base)
	}
	for i := 0; i < 3; i++ {
		env.seedTicket(t, "b@x.com", "Printer jam", base)
	}

	userToken := env.signup(t, "Alice", "a@x.com", domain.RoleUser)
	adminToken := env.signup(t, "Root", "root@x.com", domain.RoleAdmin)

	// the report is global even for a standard user
	resp, body := env.do(t, http.MethodGet, "/api/tickets/frequent-problems", userToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	problems := body["problems"].([]any)
	require.Len(t, problems, 2)
	top := problems[0].(map[string]any)
	assert.Equal(t, "VPN down", top["subject"])
	assert.Equal(t, float64(5), top["count"])
	assert.Equal(t, "", top["solution"])

	resp, body = env.do(t, http.MethodPut, "/api/tickets/problems/solution", adminToken,
		`{"subject":"VPN down","solution":"Restart the VPN client"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	problem := body["problem"].(map[string]any)
	assert.Equal(t, "VPN down", problem["subject"])
	assert.Equal(t, "Restart the VPN client", problem["solution"])

	_, body = env.do(t, http.MethodGet, "/api/tickets/frequent-problems", userToken, "")
	top = body["problems"].([]any)[0].(map[string]any)
	assert.Equal(t, "Restart the VPN client", top["solution"])
}

func TestUpsertSolutionForbiddenForUsers(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.signup(t, "Alice", "a@x.com", domain.RoleUser)

	resp, body := env.do(t, http.MethodPut, "/api/tickets/problems/solution", userToken,
		`{"subject":"VPN down","solution":"nope"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "FORBIDDEN", errObj["code"])
	assert.Empty(t, env.solutions.entries)
}

func TestUpsertSolutionRequiresSubject(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.signup(t, "Root", "root@x.com", domain.RoleAdmin)

	resp, body := env.do(t, http.MethodPut, "/api/tickets/problems/solution", adminToken,
		`{"solution":"fix"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
}

func TestIntakeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/addTicket", "",
		`{"email":"a@x.com","user_name":"Alice","subject":"VPN down","message":"cannot connect","source":"Email"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	ticket := body["ticket"].(map[string]any)
	assert.NotEmpty(t, ticket["id"])
	assert.Equal(t, "VPN down", ticket["subject"])
	assert.NotEmpty(t, ticket["createdAt"])

	resp, body = env.do(t, http.MethodPost, "/addTicket", "", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
}
