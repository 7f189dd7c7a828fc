package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/tutofast/tutofast-api/internal/models"
	appErrors "github.com/tutofast/tutofast-api/pkg/errors"
)

type courseReadRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	ListByCycle(ctx context.Context, cycle int) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

// CourseQueryService serves the read side of the course catalog.
type CourseQueryService struct {
	courses courseReadRepository
	logger  *zap.Logger
}

// NewCourseQueryService constructs the service.
func NewCourseQueryService(courses courseReadRepository, logger *zap.Logger) *CourseQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseQueryService{courses: courses, logger: logger}
}

// ListAll returns the full course catalog.
func (s *CourseQueryService) ListAll(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// ListByCycle returns the courses for one academic cycle.
func (s *CourseQueryService) ListByCycle(ctx context.Context, cycle int) ([]models.Course, error) {
	courses, err := s.courses.ListByCycle(ctx, cycle)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses by cycle")
	}
	return courses, nil
}

// GetByID returns one course by id.
func (s *CourseQueryService) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}
