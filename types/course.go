package types

import "time"

// CourseCategory groups courses in the catalog.
type CourseCategory string

const (
	CategoryBeginner      CourseCategory = "beginner"
	CategoryCertification CourseCategory = "certification"
	CategorySpecialty     CourseCategory = "specialty"
)

// Valid reports whether c is one of the known catalog categories.
func (c CourseCategory) Valid() bool {
	switch c {
	case CategoryBeginner, CategoryCertification, CategorySpecialty:
		return true
	}
	return false
}

// Course is an entry of the dive school catalog.
type Course struct {
	// ID is a stable slug such as "open-water".
	ID string `json:"id" db:"id"`

	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`

	// Duration is a display label, e.g. "3-4 days".
	Duration string `json:"duration" db:"duration"`

	// Dives is the number of dives included in the course.
	Dives int `json:"dives" db:"dives"`

	// Price is a free-text label; it may be "Contact for pricing".
	Price string `json:"price" db:"price"`

	Level         string         `json:"level" db:"level"`
	Certification string         `json:"certification" db:"certification"`
	Category      CourseCategory `json:"category" db:"category"`

	// Available hides a course from the public catalog when false.
	Available bool `json:"available" db:"available"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
