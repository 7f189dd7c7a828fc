package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tutofast/tutofast-api/internal/models"
)

// SemesterRepository manages persistence for the semester catalog.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs a SemesterRepository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// Count returns the number of semesters currently stored.
func (r *SemesterRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM semesters"); err != nil {
		return 0, fmt.Errorf("count semesters: %w", err)
	}
	return count, nil
}

// List returns all semesters ordered by id.
func (r *SemesterRepository) List(ctx context.Context) ([]models.Semester, error) {
	const query = `SELECT id, name FROM semesters ORDER BY id`
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}

// Create inserts a semester and fills in its generated id.
func (r *SemesterRepository) Create(ctx context.Context, semester *models.Semester) error {
	const query = `INSERT INTO semesters (name) VALUES ($1) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, semester.Name).Scan(&semester.ID); err != nil {
		return fmt.Errorf("create semester: %w", err)
	}
	return nil
}

// now is split out so audit columns stay consistent across repositories.
func now() time.Time {
	return time.Now().UTC()
}
