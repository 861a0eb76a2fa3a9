package services

import (
	"context"

	"github.com/reefdive/apiserver/internal/store"
	"github.com/reefdive/apiserver/types"
)

// CourseRepository defines read operations on the course catalog.
type CourseRepository interface {
	ListAvailable(ctx context.Context) ([]types.Course, error)
	Get(ctx context.Context, id string) (types.Course, error)
	CountAvailable(ctx context.Context) (int, error)
}

// CourseService exposes the public course catalog.
type CourseService struct {
	repo CourseRepository
}

// NewCourseService creates a CourseService.
func NewCourseService(repo CourseRepository) *CourseService {
	return &CourseService{repo: repo}
}

func (s *CourseService) List(ctx context.Context) ([]types.Course, error) {
	return s.repo.ListAvailable(ctx)
}

// Get hides courses that are no longer offered.
func (s *CourseService) Get(ctx context.Context, id string) (types.Course, error) {
	course, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Course{}, err
	}
	if !course.Available {
		return types.Course{}, store.ErrNotFound
	}
	return course, nil
}
