package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutofast/tutofast-api/internal/models"
	appErrors "github.com/tutofast/tutofast-api/pkg/errors"
)

type userWriteRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	MaxTutorID(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserCommandService handles account creation and profile updates.
type UserCommandService struct {
	users     userWriteRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserCommandService constructs the service.
func NewUserCommandService(users userWriteRepository, validate *validator.Validate, logger *zap.Logger) *UserCommandService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserCommandService{users: users, validator: validate, logger: logger}
}

// CreateUserRequest describes the registration payload.
type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	AvatarURL string `json:"avatarUrl"`
	Gender    string `json:"gender"`
	Semester  int    `json:"semester" validate:"gte=0"`
	Role      string `json:"roleType" validate:"required"`
}

// UpdateUserRequest describes the profile update payload. Only avatar,
// gender and semester are mutable.
type UpdateUserRequest struct {
	AvatarURL string `json:"avatarUrl"`
	Gender    string `json:"gender"`
	Semester  int    `json:"semester" validate:"gte=0"`
}

// Create registers a new account. A duplicate email is not an error: the
// attempt is logged and a nil user returned, leaving the store untouched.
// Teacher accounts get the next sequential tutor id; students carry none.
func (s *UserCommandService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Email address cannot be null or blank")
	}
	if !emailPattern.MatchString(email) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid email format")
	}

	if strings.TrimSpace(req.Password) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Password cannot be null or blank")
	}
	// The original contract rejects exactly 8 characters too, its message
	// notwithstanding. Kept as-is.
	if len(req.Password) <= 8 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Password must be at least 8 characters long")
	}

	role := models.UserRole(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "roleType must be STUDENT or TEACHER")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing email")
	}
	if existing != nil {
		s.logger.Error("user with email already exists", zap.String("email", email))
		return nil, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: string(hash),
		AvatarURL:    req.AvatarURL,
		Gender:       req.Gender,
		Semester:     req.Semester,
		Role:         role,
	}

	if role == models.RoleTeacher {
		max, err := s.users.MaxTutorID(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate tutor id")
		}
		next := max + 1
		user.TutorID = &next
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Update mutates the profile fields of an existing account.
func (s *UserCommandService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("User with id %d not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	user.AvatarURL = req.AvatarURL
	user.Gender = req.Gender
	user.Semester = req.Semester

	if err := s.users.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	s.logger.Info("user updated", zap.Int64("user_id", user.ID))
	return user, nil
}
