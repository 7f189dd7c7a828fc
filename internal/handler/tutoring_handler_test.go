package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutofast/tutofast-api/internal/models"
	"github.com/tutofast/tutofast-api/internal/service"
)

type sessionStoreStub struct {
	sessions map[int64]*models.TutoringSession
	nextID   int64
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{sessions: map[int64]*models.TutoringSession{}, nextID: 1}
}

func (s *sessionStoreStub) FindByID(ctx context.Context, id int64) (*models.TutoringSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *session
	return &copied, nil
}

func (s *sessionStoreStub) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := s.sessions[id]
	return ok, nil
}

func (s *sessionStoreStub) ExistsByTutorAndCourse(ctx context.Context, tutorID, courseID int64) (bool, error) {
	for _, session := range s.sessions {
		if session.TutorID == tutorID && session.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (s *sessionStoreStub) Create(ctx context.Context, session *models.TutoringSession) error {
	session.ID = s.nextID
	s.nextID++
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *sessionStoreStub) Update(ctx context.Context, session *models.TutoringSession) error {
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *sessionStoreStub) Delete(ctx context.Context, id int64) error {
	if _, ok := s.sessions[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.sessions, id)
	return nil
}

func (s *sessionStoreStub) ListWithDetails(ctx context.Context) ([]models.TutoringSession, error) {
	var out []models.TutoringSession
	for _, session := range s.sessions {
		out = append(out, *session)
	}
	return out, nil
}

func (s *sessionStoreStub) ListByCycle(ctx context.Context, cycle int) ([]models.TutoringSession, error) {
	var out []models.TutoringSession
	for _, session := range s.sessions {
		if session.Cycle == cycle {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (s *sessionStoreStub) ListByTutor(ctx context.Context, tutorID int64) ([]models.TutoringSession, error) {
	var out []models.TutoringSession
	for _, session := range s.sessions {
		if session.TutorID == tutorID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (s *sessionStoreStub) ListByCourse(ctx context.Context, courseID int64) ([]models.TutoringSession, error) {
	var out []models.TutoringSession
	for _, session := range s.sessions {
		if session.CourseID == courseID {
			out = append(out, *session)
		}
	}
	return out, nil
}

type tutorStoreStub struct {
	tutors map[int64]*models.User
}

func (s *tutorStoreStub) FindByTutorID(ctx context.Context, tutorID int64) (*models.User, error) {
	tutor, ok := s.tutors[tutorID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return tutor, nil
}

type courseStoreStub struct {
	courses map[int64]*models.Course
}

func (s *courseStoreStub) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return course, nil
}

func newTutoringHandlerFixture() (*TutoringHandler, *sessionStoreStub) {
	store := newSessionStoreStub()
	tutorID := int64(1)
	tutors := &tutorStoreStub{tutors: map[int64]*models.User{
		1: {ID: 10, Role: models.RoleTeacher, TutorID: &tutorID},
	}}
	courses := &courseStoreStub{courses: map[int64]*models.Course{
		3: {ID: 3, Name: "Algoritmos", Cycle: 2, SemesterID: 2},
	}}
	commands := service.NewTutoringCommandService(store, tutors, courses, nil, nil, nil, nil)
	queries := service.NewTutoringQueryService(store, nil, nil)
	return NewTutoringHandler(commands, queries, nil), store
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestTutoringHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTutoringHandlerFixture()

	body := `{"title":"Algoritmos","description":"","price":20,"times":[{"dayOfWeek":1,"availableHours":["10-11"]}],"image":"","whatTheyWillLearn":"","tutorId":1,"courseId":3}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/tutorings", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var resource TutoringResource
	require.NoError(t, json.Unmarshal(env.Data, &resource))

	require.Len(t, resource.Times, 7)
	assert.Equal(t, []string{"10-11"}, resource.Times[1].AvailableHours)
	for i, day := range resource.Times {
		assert.Equal(t, i, day.DayOfWeek)
		if i != 1 {
			assert.Empty(t, day.AvailableHours)
		}
	}
	assert.Equal(t, "Algoritmos", resource.Title)
	assert.Equal(t, int64(3), resource.CourseID)
}

func TestTutoringHandlerCreateTitleMismatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTutoringHandlerFixture()

	body := `{"title":"Aplicaciones Web","tutorId":1,"courseId":3}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/tutorings", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "Course name does not match the courseId provided.", env.Error.Message)
}

func TestTutoringHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTutoringHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/tutorings/99", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	h.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTutoringHandlerListByCourseEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTutoringHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/tutorings?courseId=3", nil)

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var resources []TutoringResource
	require.NoError(t, json.Unmarshal(env.Data, &resources))
	assert.Empty(t, resources)
}

func TestTutoringHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, store := newTutoringHandlerFixture()
	store.sessions[5] = &models.TutoringSession{ID: 5, TutorID: 1, CourseID: 3}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/tutorings/5", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	h.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.sessions)
}
