package models

// Course represents a catalog course offered within a semester.
type Course struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Cycle       int    `db:"cycle" json:"cycle"`
	SemesterID  int64  `db:"semester_id" json:"semester_id"`
}
