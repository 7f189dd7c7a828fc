package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/tutofast/tutofast-api/internal/models"
	appErrors "github.com/tutofast/tutofast-api/pkg/errors"
)

// tutoringCachePrefix namespaces every cached tutoring listing so writes
// can drop them all with one pattern.
const tutoringCachePrefix = "tutorings:"

type tutoringReadRepository interface {
	ListWithDetails(ctx context.Context) ([]models.TutoringSession, error)
	ListByCycle(ctx context.Context, cycle int) ([]models.TutoringSession, error)
	ListByTutor(ctx context.Context, tutorID int64) ([]models.TutoringSession, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.TutoringSession, error)
	FindByID(ctx context.Context, id int64) (*models.TutoringSession, error)
}

// TutoringQueryService serves the read side of the tutoring catalog. Each
// query shape loads the full aggregate (course, schedules, hours) and
// list shapes read through the cache when it is enabled.
type TutoringQueryService struct {
	sessions tutoringReadRepository
	cache    *CacheService
	logger   *zap.Logger
}

// NewTutoringQueryService constructs the service.
func NewTutoringQueryService(sessions tutoringReadRepository, cache *CacheService, logger *zap.Logger) *TutoringQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TutoringQueryService{sessions: sessions, cache: cache, logger: logger}
}

// ListAll returns every tutoring session.
func (s *TutoringQueryService) ListAll(ctx context.Context) ([]models.TutoringSession, error) {
	return s.cachedList(ctx, tutoringCachePrefix+"all", func() ([]models.TutoringSession, error) {
		return s.sessions.ListWithDetails(ctx)
	})
}

// ListByCycle returns the sessions offered for one academic cycle.
func (s *TutoringQueryService) ListByCycle(ctx context.Context, cycle int) ([]models.TutoringSession, error) {
	key := tutoringCachePrefix + "cycle:" + strconv.Itoa(cycle)
	return s.cachedList(ctx, key, func() ([]models.TutoringSession, error) {
		return s.sessions.ListByCycle(ctx, cycle)
	})
}

// ListByTutor returns the sessions a tutor offers.
func (s *TutoringQueryService) ListByTutor(ctx context.Context, tutorID int64) ([]models.TutoringSession, error) {
	key := tutoringCachePrefix + "tutor:" + strconv.FormatInt(tutorID, 10)
	return s.cachedList(ctx, key, func() ([]models.TutoringSession, error) {
		return s.sessions.ListByTutor(ctx, tutorID)
	})
}

// GetByID returns one session by id.
func (s *TutoringQueryService) GetByID(ctx context.Context, id int64) (*models.TutoringSession, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Invalid tutoringSessionId: Tutoring session does not exist.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutoring session")
	}
	return session, nil
}

// GetByCourse returns the first session offered for the course. Additional
// sessions by other tutors for the same course are discarded.
func (s *TutoringQueryService) GetByCourse(ctx context.Context, courseID int64) (*models.TutoringSession, error) {
	sessions, err := s.sessions.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutoring sessions by course")
	}
	if len(sessions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no tutoring session exists for this course")
	}
	return &sessions[0], nil
}

func (s *TutoringQueryService) cachedList(ctx context.Context, key string, load func() ([]models.TutoringSession, error)) ([]models.TutoringSession, error) {
	var cached []models.TutoringSession
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	sessions, err := load()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutoring sessions")
	}

	if err := s.cache.Set(ctx, key, sessions, 0); err != nil {
		s.logger.Warn("tutoring cache write failed", zap.String("key", key), zap.Error(err))
	}
	return sessions, nil
}
