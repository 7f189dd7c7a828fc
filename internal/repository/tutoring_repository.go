package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tutofast/tutofast-api/internal/models"
)

// TutoringRepository manages persistence for tutoring sessions together
// with their weekly schedules and the referenced course. Reads hydrate the
// full aggregate with one query per level rather than a single wide join.
type TutoringRepository struct {
	db *sqlx.DB
}

// NewTutoringRepository constructs a TutoringRepository.
func NewTutoringRepository(db *sqlx.DB) *TutoringRepository {
	return &TutoringRepository{db: db}
}

const sessionColumns = `id, title, description, price, image, what_they_will_learn, tutor_id, course_id, cycle, created_at, updated_at`

// ListWithDetails returns every session with course and schedules attached.
func (r *TutoringRepository) ListWithDetails(ctx context.Context) ([]models.TutoringSession, error) {
	query := "SELECT " + sessionColumns + " FROM tutoring_sessions ORDER BY id"
	return r.selectSessions(ctx, query)
}

// ListByCycle returns the sessions offered for one academic cycle.
func (r *TutoringRepository) ListByCycle(ctx context.Context, cycle int) ([]models.TutoringSession, error) {
	query := "SELECT " + sessionColumns + " FROM tutoring_sessions WHERE cycle = $1 ORDER BY id"
	return r.selectSessions(ctx, query, cycle)
}

// ListByTutor returns the sessions a tutor offers.
func (r *TutoringRepository) ListByTutor(ctx context.Context, tutorID int64) ([]models.TutoringSession, error) {
	query := "SELECT " + sessionColumns + " FROM tutoring_sessions WHERE tutor_id = $1 ORDER BY id"
	return r.selectSessions(ctx, query, tutorID)
}

// ListByCourse returns the sessions offered for one course.
func (r *TutoringRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.TutoringSession, error) {
	query := "SELECT " + sessionColumns + " FROM tutoring_sessions WHERE course_id = $1 ORDER BY id"
	return r.selectSessions(ctx, query, courseID)
}

// FindByID fetches one session with its full aggregate, sql.ErrNoRows when
// no session carries the id.
func (r *TutoringRepository) FindByID(ctx context.Context, id int64) (*models.TutoringSession, error) {
	var session models.TutoringSession
	query := "SELECT " + sessionColumns + " FROM tutoring_sessions WHERE id = $1"
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}

	sessions := []models.TutoringSession{session}
	if err := r.hydrate(ctx, sessions); err != nil {
		return nil, err
	}
	return &sessions[0], nil
}

// ExistsByID reports whether a session with the id is stored.
func (r *TutoringRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM tutoring_sessions WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("session exists: %w", err)
	}
	return exists, nil
}

// ExistsByTutorAndCourse reports whether the tutor already offers a session
// for the course.
func (r *TutoringRepository) ExistsByTutorAndCourse(ctx context.Context, tutorID, courseID int64) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM tutoring_sessions WHERE tutor_id = $1 AND course_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, tutorID, courseID); err != nil {
		return false, fmt.Errorf("session exists for tutor and course: %w", err)
	}
	return exists, nil
}

// Create persists the session and its schedule tree in one transaction and
// fills in all generated ids.
func (r *TutoringRepository) Create(ctx context.Context, session *models.TutoringSession) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create session: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO tutoring_sessions (title, description, price, image, what_they_will_learn, tutor_id, course_id, cycle, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id`

	session.CreatedAt = now()
	session.UpdatedAt = session.CreatedAt
	err = tx.QueryRowxContext(ctx, query,
		session.Title, session.Description, session.Price, session.Image,
		session.WhatTheyWillLearn, session.TutorID, session.CourseID, session.Cycle,
		session.CreatedAt,
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	if err := insertSchedules(ctx, tx, session); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create session: %w", err)
	}
	return nil
}

// Update rewrites the session row and replaces the whole schedule tree in
// one transaction.
func (r *TutoringRepository) Update(ctx context.Context, session *models.TutoringSession) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update session: %w", err)
	}
	defer tx.Rollback()

	const query = `
		UPDATE tutoring_sessions
		SET description = $1, price = $2, image = $3, what_they_will_learn = $4, updated_at = $5
		WHERE id = $6`

	session.UpdatedAt = now()
	if _, err := tx.ExecContext(ctx, query,
		session.Description, session.Price, session.Image,
		session.WhatTheyWillLearn, session.UpdatedAt, session.ID,
	); err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	if err := deleteSchedules(ctx, tx, session.ID); err != nil {
		return err
	}
	if err := insertSchedules(ctx, tx, session); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update session: %w", err)
	}
	return nil
}

// Delete removes the session and its schedule tree, sql.ErrNoRows when no
// session carries the id.
func (r *TutoringRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer tx.Rollback()

	if err := deleteSchedules(ctx, tx, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM tutoring_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete session: %w", err)
	}
	return nil
}

func (r *TutoringRepository) selectSessions(ctx context.Context, query string, args ...interface{}) ([]models.TutoringSession, error) {
	var sessions []models.TutoringSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if err := r.hydrate(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// hydrate attaches courses, daily schedules and available hours to the
// given sessions in place.
func (r *TutoringRepository) hydrate(ctx context.Context, sessions []models.TutoringSession) error {
	if len(sessions) == 0 {
		return nil
	}

	sessionIDs := make([]int64, 0, len(sessions))
	courseIDs := make([]int64, 0, len(sessions))
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
		courseIDs = append(courseIDs, s.CourseID)
	}

	courseQuery, courseArgs, err := sqlx.In(`SELECT id, name, description, cycle, semester_id FROM courses WHERE id IN (?)`, courseIDs)
	if err != nil {
		return fmt.Errorf("build course query: %w", err)
	}
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, r.db.Rebind(courseQuery), courseArgs...); err != nil {
		return fmt.Errorf("load session courses: %w", err)
	}
	coursesByID := make(map[int64]*models.Course, len(courses))
	for i := range courses {
		coursesByID[courses[i].ID] = &courses[i]
	}

	scheduleQuery, scheduleArgs, err := sqlx.In(`SELECT id, tutoring_session_id, day_of_week FROM daily_schedules WHERE tutoring_session_id IN (?) ORDER BY tutoring_session_id, day_of_week`, sessionIDs)
	if err != nil {
		return fmt.Errorf("build schedule query: %w", err)
	}
	var schedules []models.DailySchedule
	if err := r.db.SelectContext(ctx, &schedules, r.db.Rebind(scheduleQuery), scheduleArgs...); err != nil {
		return fmt.Errorf("load session schedules: %w", err)
	}

	if len(schedules) > 0 {
		scheduleIDs := make([]int64, 0, len(schedules))
		for _, d := range schedules {
			scheduleIDs = append(scheduleIDs, d.ID)
		}
		hourQuery, hourArgs, err := sqlx.In(`SELECT id, daily_schedule_id, time_slot FROM available_hours WHERE daily_schedule_id IN (?) ORDER BY id`, scheduleIDs)
		if err != nil {
			return fmt.Errorf("build hour query: %w", err)
		}
		var hours []models.AvailableHour
		if err := r.db.SelectContext(ctx, &hours, r.db.Rebind(hourQuery), hourArgs...); err != nil {
			return fmt.Errorf("load schedule hours: %w", err)
		}

		hoursBySchedule := make(map[int64][]models.AvailableHour, len(schedules))
		for _, h := range hours {
			hoursBySchedule[h.DailyScheduleID] = append(hoursBySchedule[h.DailyScheduleID], h)
		}
		for i := range schedules {
			schedules[i].AvailableHours = hoursBySchedule[schedules[i].ID]
		}
	}

	schedulesBySession := make(map[int64][]models.DailySchedule, len(sessions))
	for _, d := range schedules {
		schedulesBySession[d.TutoringSessionID] = append(schedulesBySession[d.TutoringSessionID], d)
	}

	for i := range sessions {
		sessions[i].Course = coursesByID[sessions[i].CourseID]
		sessions[i].Times = schedulesBySession[sessions[i].ID]
	}
	return nil
}

func insertSchedules(ctx context.Context, tx *sqlx.Tx, session *models.TutoringSession) error {
	const scheduleQuery = `INSERT INTO daily_schedules (tutoring_session_id, day_of_week) VALUES ($1, $2) RETURNING id`
	const hourQuery = `INSERT INTO available_hours (daily_schedule_id, time_slot) VALUES ($1, $2) RETURNING id`

	for i := range session.Times {
		schedule := &session.Times[i]
		schedule.TutoringSessionID = session.ID
		if err := tx.QueryRowxContext(ctx, scheduleQuery, schedule.TutoringSessionID, schedule.DayOfWeek).Scan(&schedule.ID); err != nil {
			return fmt.Errorf("create daily schedule: %w", err)
		}
		for j := range schedule.AvailableHours {
			hour := &schedule.AvailableHours[j]
			hour.DailyScheduleID = schedule.ID
			if err := tx.QueryRowxContext(ctx, hourQuery, hour.DailyScheduleID, hour.TimeSlot).Scan(&hour.ID); err != nil {
				return fmt.Errorf("create available hour: %w", err)
			}
		}
	}
	return nil
}

func deleteSchedules(ctx context.Context, tx *sqlx.Tx, sessionID int64) error {
	const hourQuery = `
		DELETE FROM available_hours
		WHERE daily_schedule_id IN (SELECT id FROM daily_schedules WHERE tutoring_session_id = $1)`

	if _, err := tx.ExecContext(ctx, hourQuery, sessionID); err != nil {
		return fmt.Errorf("delete available hours: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_schedules WHERE tutoring_session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete daily schedules: %w", err)
	}
	return nil
}
