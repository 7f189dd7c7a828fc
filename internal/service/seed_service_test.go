package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutofast/tutofast-api/internal/models"
)

type semesterSeedStub struct {
	count    int
	countErr error
	created  []models.Semester
	nextID   int64
}

func (s *semesterSeedStub) Count(ctx context.Context) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.count, nil
}

func (s *semesterSeedStub) Create(ctx context.Context, semester *models.Semester) error {
	s.nextID++
	semester.ID = s.nextID
	s.created = append(s.created, *semester)
	return nil
}

type courseSeedStub struct {
	created []models.Course
}

func (s *courseSeedStub) Create(ctx context.Context, course *models.Course) error {
	s.created = append(s.created, *course)
	return nil
}

func TestSeedSkipsPopulatedCatalog(t *testing.T) {
	semesters := &semesterSeedStub{count: 8}
	courses := &courseSeedStub{}
	NewSeedService(semesters, courses, nil, nil).Run(context.Background())

	assert.Empty(t, semesters.created)
	assert.Empty(t, courses.created)
}

func TestSeedLoadsEmptyCatalog(t *testing.T) {
	semesters := &semesterSeedStub{}
	courses := &courseSeedStub{}
	NewSeedService(semesters, courses, nil, nil).Run(context.Background())

	require.Len(t, semesters.created, 8)
	require.Len(t, courses.created, 14)
	assert.Equal(t, "First", semesters.created[0].Name)
	assert.Equal(t, "Eighth", semesters.created[7].Name)

	// Every course points at the semester inserted just before it.
	byID := map[int64]string{}
	for _, s := range semesters.created {
		byID[s.ID] = s.Name
	}
	assert.Equal(t, "Second", byID[courses.created[1].SemesterID])
	assert.Equal(t, "Algoritmos", courses.created[1].Name)
	assert.Equal(t, 2, courses.created[1].Cycle)
}

func TestSeedRetriesAfterCountError(t *testing.T) {
	semesters := &semesterSeedStub{countErr: errors.New("relation does not exist")}
	courses := &courseSeedStub{}
	NewSeedService(semesters, courses, nil, nil).Run(context.Background())

	// The count failure triggers one unconditional load attempt.
	assert.Len(t, semesters.created, 8)
	assert.Len(t, courses.created, 14)
}
