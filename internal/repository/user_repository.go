package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tutofast/tutofast-api/internal/models"
)

// UserRepository manages persistence for marketplace accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash, avatar_url, gender, semester, role, tutor_id, created_at, updated_at`

// List returns users matching the filter plus the unpaginated total.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Role != nil {
		where = " WHERE role = $1"
		args = append(args, *filter.Role)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := "SELECT " + userColumns + " FROM users" + where + " ORDER BY id"
	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.PageSize, offset)
	}

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// FindByID fetches one account by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail fetches one account by its unique email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE email = $1", email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByTutorID fetches the account carrying the given tutor id.
func (r *UserRepository) FindByTutorID(ctx context.Context, tutorID int64) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE tutor_id = $1", tutorID); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByTutorIDAndRole fetches the account carrying the given tutor id and role.
func (r *UserRepository) FindByTutorIDAndRole(ctx context.Context, tutorID int64, role models.UserRole) (*models.User, error) {
	var user models.User
	query := "SELECT " + userColumns + " FROM users WHERE tutor_id = $1 AND role = $2"
	if err := r.db.GetContext(ctx, &user, query, tutorID, role); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByRole returns every account holding the given role.
func (r *UserRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	var users []models.User
	query := "SELECT " + userColumns + " FROM users WHERE role = $1 ORDER BY id"
	if err := r.db.SelectContext(ctx, &users, query, role); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

// MaxTutorID returns the highest tutor id assigned so far, zero when no
// teacher accounts exist yet.
func (r *UserRepository) MaxTutorID(ctx context.Context) (int64, error) {
	var max int64
	if err := r.db.GetContext(ctx, &max, "SELECT COALESCE(MAX(tutor_id), 0) FROM users"); err != nil {
		return 0, fmt.Errorf("max tutor id: %w", err)
	}
	return max, nil
}

// Create inserts an account and fills in its generated id and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `
		INSERT INTO users (first_name, last_name, email, password_hash, avatar_url, gender, semester, role, tutor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING id`

	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	err := r.db.QueryRowxContext(ctx, query,
		user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.AvatarURL, user.Gender, user.Semester, user.Role, user.TutorID,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update persists the mutable profile fields of an existing account.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	const query = `
		UPDATE users
		SET avatar_url = $1, gender = $2, semester = $3, updated_at = $4
		WHERE id = $5`

	user.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx, query, user.AvatarURL, user.Gender, user.Semester, user.UpdatedAt, user.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update user %d: no rows affected", user.ID)
	}
	return nil
}
