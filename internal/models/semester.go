package models

// Semester represents an academic term grouping courses.
type Semester struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`

	// Courses offered in this semester. Populated only by the seed loader
	// and by queries that ask for them explicitly.
	Courses []Course `db:"-" json:"courses,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
