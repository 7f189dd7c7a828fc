package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutofast/tutofast-api/internal/models"
	appErrors "github.com/tutofast/tutofast-api/pkg/errors"
)

type tutoringRepoStub struct {
	sessions map[int64]*models.TutoringSession
	nextID   int64
	err      error
}

func newTutoringRepoStub() *tutoringRepoStub {
	return &tutoringRepoStub{sessions: map[int64]*models.TutoringSession{}, nextID: 1}
}

func (s *tutoringRepoStub) FindByID(ctx context.Context, id int64) (*models.TutoringSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	session, ok := s.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *session
	return &copied, nil
}

func (s *tutoringRepoStub) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.sessions[id]
	return ok, nil
}

func (s *tutoringRepoStub) ExistsByTutorAndCourse(ctx context.Context, tutorID, courseID int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for _, session := range s.sessions {
		if session.TutorID == tutorID && session.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (s *tutoringRepoStub) Create(ctx context.Context, session *models.TutoringSession) error {
	if s.err != nil {
		return s.err
	}
	session.ID = s.nextID
	s.nextID++
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *tutoringRepoStub) Update(ctx context.Context, session *models.TutoringSession) error {
	if s.err != nil {
		return s.err
	}
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *tutoringRepoStub) Delete(ctx context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.sessions[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.sessions, id)
	return nil
}

type tutorLookupStub struct {
	tutors map[int64]*models.User
}

func (s *tutorLookupStub) FindByTutorID(ctx context.Context, tutorID int64) (*models.User, error) {
	tutor, ok := s.tutors[tutorID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return tutor, nil
}

type courseLookupStub struct {
	courses map[int64]*models.Course
}

func (s *courseLookupStub) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return course, nil
}

func newTutoringCommandFixture() (*TutoringCommandService, *tutoringRepoStub) {
	sessions := newTutoringRepoStub()
	tutorID := int64(1)
	tutors := &tutorLookupStub{tutors: map[int64]*models.User{
		1: {ID: 10, Role: models.RoleTeacher, TutorID: &tutorID},
		2: {ID: 11, Role: models.RoleStudent},
	}}
	courses := &courseLookupStub{courses: map[int64]*models.Course{
		3: {ID: 3, Name: "Algoritmos", Description: "Estudio de algoritmos avanzados y su análisis.", Cycle: 2, SemesterID: 2},
	}}
	svc := NewTutoringCommandService(sessions, tutors, courses, nil, nil, nil, nil)
	return svc, sessions
}

func TestTutoringCreateNormalizesWeek(t *testing.T) {
	svc, _ := newTutoringCommandFixture()

	session, err := svc.Create(context.Background(), CreateTutoringRequest{
		Title:    "Algoritmos",
		Price:    20,
		TutorID:  1,
		CourseID: 3,
		Times:    []ScheduleInput{{DayOfWeek: 1, AvailableHours: []string{"10-11"}}},
	})
	require.NoError(t, err)

	require.Len(t, session.Times, 7)
	for i, day := range session.Times {
		assert.Equal(t, i, day.DayOfWeek)
		if i == 1 {
			assert.Equal(t, []string{"10-11"}, day.HourStrings())
		} else {
			assert.Empty(t, day.AvailableHours)
		}
	}
	assert.Equal(t, "Algoritmos", session.Title)
	assert.Equal(t, 2, session.Cycle)
}

func TestTutoringCreateUnknownTutor(t *testing.T) {
	svc, _ := newTutoringCommandFixture()

	_, err := svc.Create(context.Background(), CreateTutoringRequest{Title: "Algoritmos", TutorID: 99, CourseID: 3})
	require.Error(t, err)
	assert.Equal(t, "Invalid tutorId: Tutor does not exist.", appErrors.FromError(err).Message)
}

func TestTutoringCreateStudentTutor(t *testing.T) {
	svc, _ := newTutoringCommandFixture()

	_, err := svc.Create(context.Background(), CreateTutoringRequest{Title: "Algoritmos", TutorID: 2, CourseID: 3})
	require.Error(t, err)
	assert.Equal(t, "The tutor must have a teacher role.", appErrors.FromError(err).Message)
}

func TestTutoringCreateUnknownCourse(t *testing.T) {
	svc, _ := newTutoringCommandFixture()

	_, err := svc.Create(context.Background(), CreateTutoringRequest{Title: "Algoritmos", TutorID: 1, CourseID: 42})
	require.Error(t, err)
	assert.Equal(t, "Invalid courseId: Course does not exist.", appErrors.FromError(err).Message)
}

func TestTutoringCreateTitleMismatch(t *testing.T) {
	svc, _ := newTutoringCommandFixture()

	_, err := svc.Create(context.Background(), CreateTutoringRequest{Title: "Aplicaciones Web", TutorID: 1, CourseID: 3})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "Course name does not match the courseId provided.", appErr.Message)
}

func TestTutoringCreateMissingTutorID(t *testing.T) {
	svc, _ := newTutoringCommandFixture()

	_, err := svc.Create(context.Background(), CreateTutoringRequest{Title: "Algoritmos", CourseID: 3})
	require.Error(t, err)
	assert.Equal(t, "TutorId cannot be null.", appErrors.FromError(err).Message)
}

func TestTutoringCreateBlankTitle(t *testing.T) {
	svc, _ := newTutoringCommandFixture()

	_, err := svc.Create(context.Background(), CreateTutoringRequest{Title: "   ", TutorID: 1, CourseID: 3})
	require.Error(t, err)
	assert.Equal(t, "Course name must not be empty.", appErrors.FromError(err).Message)
}

func TestTutoringCreateTitleMismatchBeatsDuplicatePair(t *testing.T) {
	svc, _ := newTutoringCommandFixture()

	_, err := svc.Create(context.Background(), CreateTutoringRequest{Title: "Algoritmos", TutorID: 1, CourseID: 3})
	require.NoError(t, err)

	// Title checks run before the uniqueness check, so a wrong title on an
	// already-taken (tutor, course) pair reports the mismatch.
	_, err = svc.Create(context.Background(), CreateTutoringRequest{Title: "Aplicaciones Web", TutorID: 1, CourseID: 3})
	require.Error(t, err)
	assert.Equal(t, "Course name does not match the courseId provided.", appErrors.FromError(err).Message)
}

func TestTutoringCreateDuplicatePair(t *testing.T) {
	svc, _ := newTutoringCommandFixture()

	req := CreateTutoringRequest{Title: "Algoritmos", TutorID: 1, CourseID: 3}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "The tutor has already created a tutoring session for this course.", appErrors.FromError(err).Message)
}

func TestTutoringUpdateReplacesSchedule(t *testing.T) {
	svc, repo := newTutoringCommandFixture()

	created, err := svc.Create(context.Background(), CreateTutoringRequest{
		Title:    "Algoritmos",
		TutorID:  1,
		CourseID: 3,
		Times:    []ScheduleInput{{DayOfWeek: 0, AvailableHours: []string{"8-9"}}},
	})
	require.NoError(t, err)
	require.Len(t, created.Times, 7)

	updated, err := svc.Update(context.Background(), created.ID, UpdateTutoringRequest{
		Description: "new description",
		Price:       30,
		Times: []ScheduleInput{
			{DayOfWeek: 1, AvailableHours: []string{"10-11"}},
			{DayOfWeek: 3, AvailableHours: []string{"14-15"}},
			{DayOfWeek: 5, AvailableHours: []string{"16-17"}},
		},
	})
	require.NoError(t, err)

	// No merge with the prior 7-day week: exactly the supplied entries.
	require.Len(t, updated.Times, 3)
	assert.Equal(t, 1, updated.Times[0].DayOfWeek)
	assert.Equal(t, "new description", updated.Description)
	assert.Len(t, repo.sessions[created.ID].Times, 3)
}

func TestTutoringUpdateNotFound(t *testing.T) {
	svc, _ := newTutoringCommandFixture()

	_, err := svc.Update(context.Background(), 99, UpdateTutoringRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTutoringDelete(t *testing.T) {
	svc, repo := newTutoringCommandFixture()

	created, err := svc.Create(context.Background(), CreateTutoringRequest{Title: "Algoritmos", TutorID: 1, CourseID: 3})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.sessions)

	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
