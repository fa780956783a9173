package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ProblemSolutionRepository persists knowledge-base entries keyed by subject.
type ProblemSolutionRepository interface {
	FindBySubjects(ctx context.Context, subjects []string) ([]domain.ProblemSolution, error)
	Upsert(ctx context.Context, subject, solution string) (*domain.ProblemSolution, error)
}

type problemSolutionRepository struct {
	pool *pgxpool.Pool
}

// NewProblemSolutionRepository instantiates repository.
func NewProblemSolutionRepository(pool *pgxpool.Pool) ProblemSolutionRepository {
	return &problemSolutionRepository{pool: pool}
}

func (r *problemSolutionRepository) FindBySubjects(ctx context.Context, subjects []string) ([]domain.ProblemSolution, error) {
	if len(subjects) == 0 {
		return nil, nil
	}
	const query = `
        SELECT subject, solution, updated_at
        FROM problem_solutions WHERE subject = ANY($1)`

	rows, err := r.pool.Query(ctx, query, subjects)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProblemSolution
	for rows.Next() {
		var entry domain.ProblemSolution
		if err := rows.Scan(&entry.Subject, &entry.Solution, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// Upsert creates or overwrites the entry for the subject in a single atomic
// statement; concurrent edits of the same subject cannot produce duplicates.
func (r *problemSolutionRepository) Upsert(ctx context.Context, subject, solution string) (*domain.ProblemSolution, error) {
	const query = `
        INSERT INTO problem_solutions (subject, solution, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (subject) DO UPDATE SET solution=EXCLUDED.solution, updated_at=NOW()
        RETURNING subject, solution, updated_at`

	var entry domain.ProblemSolution
	if err := r.pool.QueryRow(ctx, query, subject, solution).Scan(
		&entry.Subject,
		&entry.Solution,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}
