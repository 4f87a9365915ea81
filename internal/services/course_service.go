package services

import (
	"context"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/models"
	"fitness-backend/internal/pagination"
	"fitness-backend/internal/repositories"
)

type CourseService struct {
	courseRepo *repositories.CourseRepository
}

func NewCourseService(courseRepo *repositories.CourseRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo}
}

func (s *CourseService) List(ctx context.Context, keyword string, p pagination.Params) (pagination.Page, error) {
	courses, total, err := s.courseRepo.List(ctx, keyword, p.Size, p.Offset())
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.NewPage(total, p, courses), nil
}

func (s *CourseService) Get(ctx context.Context, id int) (*models.Course, error) {
	return s.courseRepo.Get(ctx, id)
}

func (s *CourseService) Create(ctx context.Context, req *models.CourseCreateRequest) (*models.Course, error) {
	course, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, req *models.CourseUpdateRequest) (*models.Course, error) {
	course, err := s.courseRepo.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(course); err != nil {
		return nil, err
	}
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes a course that has never been sold. Courses with orders are
// retained so their snapshots keep a live reference.
func (s *CourseService) Delete(ctx context.Context, id int) error {
	sold, err := s.courseRepo.HasOrders(ctx, id)
	if err != nil {
		return err
	}
	if sold {
		return apperrors.Conflict("course %d has sold passes and cannot be deleted", id)
	}
	return s.courseRepo.Delete(ctx, id)
}
