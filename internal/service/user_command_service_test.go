package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutofast/tutofast-api/internal/models"
	appErrors "github.com/tutofast/tutofast-api/pkg/errors"
)

type userRepoStub struct {
	users  map[int64]*models.User
	nextID int64
	err    error
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: map[int64]*models.User{}, nextID: 1}
}

func (s *userRepoStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) MaxTutorID(ctx context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	var max int64
	for _, user := range s.users {
		if user.TutorID != nil && *user.TutorID > max {
			max = *user.TutorID
		}
	}
	return max, nil
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.err != nil {
		return s.err
	}
	user.ID = s.nextID
	s.nextID++
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	if s.err != nil {
		return s.err
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func validCreateUser(email, role string) CreateUserRequest {
	return CreateUserRequest{
		FirstName: "Ana",
		LastName:  "Lopez",
		Email:     email,
		Password:  "secretpass",
		Gender:    "FEMALE",
		Semester:  3,
		Role:      role,
	}
}

func TestUserCreateDuplicateEmailSilent(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserCommandService(repo, nil, nil)

	first, err := svc.Create(context.Background(), validCreateUser("ana@uni.edu", "STUDENT"))
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.Create(context.Background(), validCreateUser("ana@uni.edu", "STUDENT"))
	require.NoError(t, err)
	assert.Nil(t, second)
	assert.Len(t, repo.users, 1)
}

func TestUserCreateSequentialTutorIDs(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserCommandService(repo, nil, nil)

	first, err := svc.Create(context.Background(), validCreateUser("t1@uni.edu", "TEACHER"))
	require.NoError(t, err)
	require.NotNil(t, first.TutorID)
	assert.Equal(t, int64(1), *first.TutorID)

	second, err := svc.Create(context.Background(), validCreateUser("t2@uni.edu", "TEACHER"))
	require.NoError(t, err)
	require.NotNil(t, second.TutorID)
	assert.Equal(t, int64(2), *second.TutorID)
}

func TestUserCreateStudentHasNoTutorID(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserCommandService(repo, nil, nil)

	user, err := svc.Create(context.Background(), validCreateUser("ana@uni.edu", "STUDENT"))
	require.NoError(t, err)
	assert.Nil(t, user.TutorID)
}

func TestUserCreatePasswordLength(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserCommandService(repo, nil, nil)

	// Exactly eight characters is rejected.
	req := validCreateUser("ana@uni.edu", "STUDENT")
	req.Password = "12345678"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 8 characters long", appErrors.FromError(err).Message)

	req.Password = "123456789"
	user, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("123456789")))
}

func TestUserCreateInvalidEmail(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserCommandService(repo, nil, nil)

	req := validCreateUser("not-an-email", "STUDENT")
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "Invalid email format", appErrors.FromError(err).Message)
}

func TestUserUpdateMutatesProfileOnly(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserCommandService(repo, nil, nil)

	created, err := svc.Create(context.Background(), validCreateUser("ana@uni.edu", "STUDENT"))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateUserRequest{
		AvatarURL: "https://cdn.example.com/ana.png",
		Gender:    "FEMALE",
		Semester:  4,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/ana.png", updated.AvatarURL)
	assert.Equal(t, 4, updated.Semester)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.FirstName, updated.FirstName)
}

func TestUserUpdateNotFound(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserCommandService(repo, nil, nil)

	_, err := svc.Update(context.Background(), 99, UpdateUserRequest{Semester: 1})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "User with id 99 not found", appErr.Message)
}
