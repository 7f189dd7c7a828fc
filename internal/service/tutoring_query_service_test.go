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

type tutoringReadStub struct {
	sessions []models.TutoringSession
	err      error
}

func (s *tutoringReadStub) ListWithDetails(ctx context.Context) ([]models.TutoringSession, error) {
	return s.sessions, s.err
}

func (s *tutoringReadStub) ListByCycle(ctx context.Context, cycle int) ([]models.TutoringSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.TutoringSession
	for _, session := range s.sessions {
		if session.Cycle == cycle {
			out = append(out, session)
		}
	}
	return out, nil
}

func (s *tutoringReadStub) ListByTutor(ctx context.Context, tutorID int64) ([]models.TutoringSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.TutoringSession
	for _, session := range s.sessions {
		if session.TutorID == tutorID {
			out = append(out, session)
		}
	}
	return out, nil
}

func (s *tutoringReadStub) ListByCourse(ctx context.Context, courseID int64) ([]models.TutoringSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.TutoringSession
	for _, session := range s.sessions {
		if session.CourseID == courseID {
			out = append(out, session)
		}
	}
	return out, nil
}

func (s *tutoringReadStub) FindByID(ctx context.Context, id int64) (*models.TutoringSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return &s.sessions[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func TestTutoringQueryByCourseReturnsFirstOnly(t *testing.T) {
	repo := &tutoringReadStub{sessions: []models.TutoringSession{
		{ID: 1, CourseID: 3, TutorID: 1},
		{ID: 2, CourseID: 3, TutorID: 2},
	}}
	svc := NewTutoringQueryService(repo, nil, nil)

	session, err := svc.GetByCourse(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.ID)
}

func TestTutoringQueryByCourseNotFound(t *testing.T) {
	svc := NewTutoringQueryService(&tutoringReadStub{}, nil, nil)

	_, err := svc.GetByCourse(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTutoringQueryGetByIDNotFound(t *testing.T) {
	svc := NewTutoringQueryService(&tutoringReadStub{}, nil, nil)

	_, err := svc.GetByID(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTutoringQueryListByCycle(t *testing.T) {
	repo := &tutoringReadStub{sessions: []models.TutoringSession{
		{ID: 1, Cycle: 2},
		{ID: 2, Cycle: 5},
	}}
	svc := NewTutoringQueryService(repo, nil, nil)

	sessions, err := svc.ListByCycle(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(1), sessions[0].ID)
}
