package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutofast/tutofast-api/internal/models"
	appErrors "github.com/tutofast/tutofast-api/pkg/errors"
)

type tutoringWriteRepository interface {
	FindByID(ctx context.Context, id int64) (*models.TutoringSession, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByTutorAndCourse(ctx context.Context, tutorID, courseID int64) (bool, error)
	Create(ctx context.Context, session *models.TutoringSession) error
	Update(ctx context.Context, session *models.TutoringSession) error
	Delete(ctx context.Context, id int64) error
}

type tutorLookupRepository interface {
	FindByTutorID(ctx context.Context, tutorID int64) (*models.User, error)
}

type courseLookupRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

// TutoringCommandService handles tutoring session mutations. Validation
// runs in a fixed order so every precondition failure keeps its own
// message.
type TutoringCommandService struct {
	sessions  tutoringWriteRepository
	tutors    tutorLookupRepository
	courses   courseLookupRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTutoringCommandService constructs the service.
func NewTutoringCommandService(sessions tutoringWriteRepository, tutors tutorLookupRepository, courses courseLookupRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TutoringCommandService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TutoringCommandService{sessions: sessions, tutors: tutors, courses: courses, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// ScheduleInput is one day's availability on the wire.
type ScheduleInput struct {
	DayOfWeek      int      `json:"dayOfWeek" validate:"gte=0,lte=6"`
	AvailableHours []string `json:"availableHours" validate:"dive,required"`
}

// CreateTutoringRequest describes the create payload.
type CreateTutoringRequest struct {
	// Title, tutor and course presence are checked by hand in Create so
	// each failure keeps its own message.
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Price             float64         `json:"price" validate:"gte=0"`
	Image             string          `json:"image"`
	WhatTheyWillLearn string          `json:"whatTheyWillLearn"`
	TutorID           int64           `json:"tutorId"`
	CourseID          int64           `json:"courseId"`
	Times             []ScheduleInput `json:"times" validate:"dive"`
}

// UpdateTutoringRequest describes the update payload. Identity, tutor and
// course are fixed at creation and absent here.
type UpdateTutoringRequest struct {
	Description       string          `json:"description"`
	Price             float64         `json:"price" validate:"gte=0"`
	Image             string          `json:"image"`
	WhatTheyWillLearn string          `json:"whatTheyWillLearn"`
	Times             []ScheduleInput `json:"times" validate:"dive"`
}

// Create validates the request against tutor, course and uniqueness rules,
// then persists the new session with its normalized weekly schedule.
func (s *TutoringCommandService) Create(ctx context.Context, req CreateTutoringRequest) (*models.TutoringSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tutoring payload")
	}

	if req.TutorID == 0 {
		return nil, appErrors.Clone(appErrors.ErrBusinessRule, "TutorId cannot be null.")
	}

	tutor, err := s.tutors.FindByTutorID(ctx, req.TutorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrBusinessRule, "Invalid tutorId: Tutor does not exist.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up tutor")
	}
	if tutor.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrBusinessRule, "The tutor must have a teacher role.")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrBusinessRule, "Invalid courseId: Course does not exist.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up course")
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Course name must not be empty.")
	}
	if strings.TrimSpace(req.Title) != strings.TrimSpace(course.Name) {
		return nil, appErrors.Clone(appErrors.ErrValidation, models.ErrTitleMismatch.Error())
	}

	exists, err := s.sessions.ExistsByTutorAndCourse(ctx, req.TutorID, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing sessions")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrBusinessRule, "The tutor has already created a tutoring session for this course.")
	}

	session, err := models.NewTutoringSession(req.Title, req.Description, req.Price, req.Image, req.WhatTheyWillLearn, req.TutorID, course, schedulesFromInput(req.Times))
	if err != nil {
		if errors.Is(err, models.ErrTitleMismatch) {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tutoring session")
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create tutoring session")
	}

	s.metrics.RecordSessionWrite("create")
	s.invalidateCatalog(ctx)
	s.logger.Info("tutoring session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("tutor_id", session.TutorID),
		zap.Int64("course_id", session.CourseID))
	return session, nil
}

// Update replaces the mutable fields of an existing session, swapping the
// schedule collection verbatim.
func (s *TutoringCommandService) Update(ctx context.Context, id int64, req UpdateTutoringRequest) (*models.TutoringSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tutoring payload")
	}

	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Invalid tutoringSessionId: Tutoring session does not exist.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutoring session")
	}

	session.UpdateAttributes(req.Description, req.Price, req.Image, req.WhatTheyWillLearn, schedulesFromInput(req.Times))

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update tutoring session")
	}

	s.metrics.RecordSessionWrite("update")
	s.invalidateCatalog(ctx)
	s.logger.Info("tutoring session updated", zap.Int64("session_id", session.ID))
	return session, nil
}

// Delete removes a session after checking it exists.
func (s *TutoringCommandService) Delete(ctx context.Context, id int64) error {
	exists, err := s.sessions.ExistsByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check tutoring session")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "tutoring session not found")
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "tutoring session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete tutoring session")
	}

	s.metrics.RecordSessionWrite("delete")
	s.invalidateCatalog(ctx)
	s.logger.Info("tutoring session deleted", zap.Int64("session_id", id))
	return nil
}

// invalidateCatalog drops every cached tutoring listing after a mutation.
func (s *TutoringCommandService) invalidateCatalog(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, tutoringCachePrefix+"*"); err != nil {
		s.logger.Warn("tutoring cache invalidation failed", zap.Error(err))
	}
}

func schedulesFromInput(times []ScheduleInput) []models.DailySchedule {
	schedules := make([]models.DailySchedule, 0, len(times))
	for _, t := range times {
		schedule := models.DailySchedule{DayOfWeek: t.DayOfWeek}
		schedule.SetHourStrings(t.AvailableHours)
		schedules = append(schedules, schedule)
	}
	return schedules
}
