package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketScope restricts queries to one submitter. A nil Email means unscoped
// (admin view).
type TicketScope struct {
	Email *string
}

// GroupDimension names a classification column tickets can be grouped by.
type GroupDimension string

const (
	GroupBySource   GroupDimension = "source"
	GroupByStatus   GroupDimension = "status"
	GroupByPriority GroupDimension = "priority"
)

// SubjectGroup is one raw grouping bucket over ticket subjects. Subject is
// nil when the stored subject was absent.
type SubjectGroup struct {
	Subject *string
	Count   int64
}

// TicketRepository encapsulates ticket persistence. Tickets are append-only
// from this service's perspective.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	List(ctx context.Context, scope TicketScope) ([]domain.Ticket, error)
	CountGrouped(ctx context.Context, scope TicketScope, dimension GroupDimension) ([]domain.DimensionCount, error)
	CountAll(ctx context.Context, scope TicketScope) (int64, error)
	TopSubjects(ctx context.Context, limit int) ([]SubjectGroup, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (email, user_name, subject, message, category, priority, status, source)
        VALUES ($1,$2,NULLIF($3,''),NULLIF($4,''),NULLIF($5,''),NULLIF($6,''),NULLIF($7,''),NULLIF($8,''))
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Email,
		ticket.UserName,
		ticket.Subject,
		ticket.Message,
		string(ticket.Category),
		string(ticket.Priority),
		string(ticket.Status),
		string(ticket.Source),
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) List(ctx context.Context, scope TicketScope) ([]domain.Ticket, error) {
	base := `SELECT id, email, user_name, subject, message, category, priority, status, source, created_at
             FROM tickets`
	args := []any{}
	where := ""
	if scope.Email != nil {
		args = append(args, *scope.Email)
		where = " WHERE email=$1"
	}
	query := base + where + " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// CountGrouped counts tickets per value of the given dimension. Unset values
// are excluded; the legacy 'null' sentinel is folded into unset at read time
// so migrated rows cannot surface a spurious bucket.
func (r *ticketRepository) CountGrouped(ctx context.Context, scope TicketScope, dimension GroupDimension) ([]domain.DimensionCount, error) {
	switch dimension {
	case GroupBySource, GroupByStatus, GroupByPriority:
	default:
		return nil, fmt.Errorf("unsupported group dimension %q", dimension)
	}

	args := []any{}
	where := ""
	if scope.Email != nil {
		args = append(args, *scope.Email)
		where = "WHERE email=$1"
	}
	query := fmt.Sprintf(`
        SELECT NULLIF(%[1]s, 'null') AS key, COUNT(*) AS count
        FROM tickets %[2]s
        GROUP BY NULLIF(%[1]s, 'null')
        HAVING NULLIF(%[1]s, 'null') IS NOT NULL`, string(dimension), where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DimensionCount
	for rows.Next() {
		var bucket domain.DimensionCount
		if err := rows.Scan(&bucket.Key, &bucket.Count); err != nil {
			return nil, err
		}
		result = append(result, bucket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountAll(ctx context.Context, scope TicketScope) (int64, error) {
	args := []any{}
	query := `SELECT COUNT(*) FROM tickets`
	if scope.Email != nil {
		args = append(args, *scope.Email)
		query += ` WHERE email=$1`
	}
	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// TopSubjects returns the most frequent subject groups across all tickets,
// count descending. Absent subjects form their own bucket and are left to the
// caller to discard, matching where the limit is applied.
func (r *ticketRepository) TopSubjects(ctx context.Context, limit int) ([]SubjectGroup, error) {
	const query = `
        SELECT subject, COUNT(*) AS count
        FROM tickets
        GROUP BY subject
        ORDER BY count DESC
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SubjectGroup
	for rows.Next() {
		var group SubjectGroup
		if err := rows.Scan(&group.Subject, &group.Count); err != nil {
			return nil, err
		}
		result = append(result, group)
	}
	return result, rows.Err()
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var (
			ticket   domain.Ticket
			userName *string
			subject  *string
			message  *string
			category *string
			priority *string
			status   *string
			source   *string
		)
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Email,
			&userName,
			&subject,
			&message,
			&category,
			&priority,
			&status,
			&source,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		ticket.UserName = deref(userName)
		ticket.Subject = deref(subject)
		ticket.Message = deref(message)
		ticket.Category = domain.TicketCategory(domain.NormalizeOptional(deref(category)))
		ticket.Priority = domain.TicketPriority(domain.NormalizeOptional(deref(priority)))
		ticket.Status = domain.TicketStatus(domain.NormalizeOptional(deref(status)))
		ticket.Source = domain.TicketSource(domain.NormalizeOptional(deref(source)))
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
