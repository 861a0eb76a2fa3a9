package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/reefdive/apiserver/types"
)

const courseColumns = `id, title, description, duration, dives, price, level, certification, category, available, created_at, updated_at`

// CourseRepository handles persistence for the course catalog.
type CourseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a CourseRepository.
func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListAvailable returns the public catalog ordered by category then title.
func (r *CourseRepository) ListAvailable(ctx context.Context) ([]types.Course, error) {
	const query = `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE available = $1
		ORDER BY category, title`
	rows, err := r.db.QueryContext(ctx, query, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]types.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

// Get returns a course whether or not it is currently offered.
func (r *CourseRepository) Get(ctx context.Context, id string) (types.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	course, err := scanCourse(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Course{}, ErrNotFound
		}
		return types.Course{}, err
	}
	return course, nil
}

// Upsert inserts a course or replaces every catalog field of an existing one.
func (r *CourseRepository) Upsert(ctx context.Context, course types.Course) (types.Course, error) {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `
		INSERT INTO courses (id, title, description, duration, dives, price, level, certification, category, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			duration = excluded.duration,
			dives = excluded.dives,
			price = excluded.price,
			level = excluded.level,
			certification = excluded.certification,
			category = excluded.category,
			available = excluded.available,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(
		ctx,
		query,
		course.ID,
		course.Title,
		course.Description,
		course.Duration,
		course.Dives,
		course.Price,
		course.Level,
		course.Certification,
		string(course.Category),
		course.Available,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		return types.Course{}, err
	}
	return r.Get(ctx, course.ID)
}

func (r *CourseRepository) CountAvailable(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM courses WHERE available = $1`, true).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanCourse(row rowScanner) (types.Course, error) {
	var course types.Course
	var category string
	if err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Duration,
		&course.Dives,
		&course.Price,
		&course.Level,
		&course.Certification,
		&category,
		&course.Available,
		&course.CreatedAt,
		&course.UpdatedAt,
	); err != nil {
		return types.Course{}, err
	}
	course.Category = types.CourseCategory(category)
	return course, nil
}
