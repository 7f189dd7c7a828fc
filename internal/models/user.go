package models

import "time"

// UserRole distinguishes marketplace students from tutors.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleTeacher UserRole = "TEACHER"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User represents an account stored in the users table. Only teachers
// carry a tutor id, assigned sequentially when the account is created.
type User struct {
	ID           int64    `db:"id" json:"id"`
	FirstName    string   `db:"first_name" json:"first_name"`
	LastName     string   `db:"last_name" json:"last_name"`
	Email        string   `db:"email" json:"email"`
	PasswordHash string   `db:"password_hash" json:"-"`
	AvatarURL    string   `db:"avatar_url" json:"avatar_url"`
	Gender       string   `db:"gender" json:"gender"`
	Semester     int      `db:"semester" json:"semester"`
	Role         UserRole `db:"role" json:"role"`
	TutorID      *int64   `db:"tutor_id" json:"tutor_id"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name the way the API exposes them.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Page     int
	PageSize int
}
