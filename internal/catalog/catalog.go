// Package catalog loads course definitions from YAML and writes them to
// the course table.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reefdive/apiserver/types"
	"gopkg.in/yaml.v3"
)

// File is the top level of a catalog document.
type File struct {
	Courses []Entry `yaml:"courses"`
}

// Entry is one course in a catalog document. Available defaults to true.
type Entry struct {
	ID            string               `yaml:"id"`
	Title         string               `yaml:"title"`
	Description   string               `yaml:"description"`
	Duration      string               `yaml:"duration"`
	Dives         int                  `yaml:"dives"`
	Price         string               `yaml:"price"`
	Level         string               `yaml:"level"`
	Certification string               `yaml:"certification"`
	Category      types.CourseCategory `yaml:"category"`
	Available     *bool                `yaml:"available"`
}

func (e Entry) Course() types.Course {
	available := true
	if e.Available != nil {
		available = *e.Available
	}
	return types.Course{
		ID:            strings.TrimSpace(e.ID),
		Title:         strings.TrimSpace(e.Title),
		Description:   e.Description,
		Duration:      e.Duration,
		Dives:         e.Dives,
		Price:         e.Price,
		Level:         e.Level,
		Certification: e.Certification,
		Category:      e.Category,
		Available:     available,
	}
}

// Parse decodes and validates a catalog document. Unknown keys are rejected.
func Parse(r io.Reader) ([]types.Course, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Courses))
	courses := make([]types.Course, 0, len(f.Courses))
	for i, entry := range f.Courses {
		course := entry.Course()
		if course.ID == "" {
			return nil, fmt.Errorf("course %d: id is required", i+1)
		}
		if course.Title == "" {
			return nil, fmt.Errorf("course %s: title is required", course.ID)
		}
		if !course.Category.Valid() {
			return nil, fmt.Errorf("course %s: invalid category %q", course.ID, course.Category)
		}
		if course.Dives < 0 {
			return nil, fmt.Errorf("course %s: dives must not be negative", course.ID)
		}
		if seen[course.ID] {
			return nil, fmt.Errorf("course %s: duplicate id", course.ID)
		}
		seen[course.ID] = true
		courses = append(courses, course)
	}
	return courses, nil
}

// LoadFile parses the catalog document at path.
func LoadFile(path string) ([]types.Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// CourseWriter is the part of the course repository the seeder needs.
type CourseWriter interface {
	Upsert(ctx context.Context, course types.Course) (types.Course, error)
}

// Seed upserts every course and returns how many were written. It stops at
// the first failure; earlier courses stay written.
func Seed(ctx context.Context, repo CourseWriter, courses []types.Course) (int, error) {
	for i, course := range courses {
		if _, err := repo.Upsert(ctx, course); err != nil {
			return i, fmt.Errorf("upsert course %s: %w", course.ID, err)
		}
	}
	return len(courses), nil
}
