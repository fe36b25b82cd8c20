package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/model"
	"github.com/edunexus-app/backend/internal/repository"
	"github.com/edunexus-app/backend/pkg/apperror"
	"github.com/edunexus-app/backend/pkg/storage"
)

type CourseService interface {
	List(ctx context.Context, actor *model.Actor, filter dto.CourseFilter) ([]*model.Course, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Course, error)
	Create(ctx context.Context, actor *model.Actor, input dto.CreateCourseRequest) (*model.Course, error)
	Update(ctx context.Context, actor *model.Actor, id uuid.UUID, input dto.UpdateCourseRequest) (*model.Course, error)
	Delete(ctx context.Context, actor *model.Actor, id uuid.UUID) error
	Enroll(ctx context.Context, actor *model.Actor, id uuid.UUID) error
	TogglePublish(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.Course, error)
}

type courseService struct {
	repo           repository.CourseRepository
	lectureRepo    repository.LectureRepository
	assignmentRepo repository.AssignmentRepository
	submissionRepo repository.SubmissionRepository
	media          storage.MediaStorage
	search         CourseSearchService // nil disables the search index
	sanitizer      *bluemonday.Policy
}

func NewCourseService(
	repo repository.CourseRepository,
	lectureRepo repository.LectureRepository,
	assignmentRepo repository.AssignmentRepository,
	submissionRepo repository.SubmissionRepository,
	media storage.MediaStorage,
	search CourseSearchService,
) CourseService {
	return &courseService{
		repo:           repo,
		lectureRepo:    lectureRepo,
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		media:          media,
		search:         search,
		sanitizer:      bluemonday.UGCPolicy(),
	}
}

func (s *courseService) List(ctx context.Context, actor *model.Actor, filter dto.CourseFilter) ([]*model.Course, int64, error) {
	filter.Normalize()

	// Unpublished courses are visible in listings only to admins and to
	// an instructor filtering their own catalog. Everyone else gets the
	// published set regardless of what the query asks for.
	if !actor.IsAdmin() {
		ownCatalog := actor != nil && filter.Instructor == actor.ID.String()
		if !ownCatalog {
			published := true
			filter.IsPublished = &published
		}
	}

	if filter.Q != "" && s.search != nil {
		ids, total, err := s.search.Search(filter)
		if err != nil {
			// Degraded search is better than a failed listing.
			log.Printf("course search failed, falling back to store: %v", err)
			return s.repo.FindAll(ctx, filter)
		}
		courses, err := s.repo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		return courses, total, nil
	}

	return s.repo.FindAll(ctx, filter)
}

func (s *courseService) Get(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	return course, nil
}

func (s *courseService) Create(ctx context.Context, actor *model.Actor, input dto.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:        input.Title,
		Description:  s.sanitizer.Sanitize(input.Description),
		Category:     input.Category,
		Level:        input.Level,
		Language:     input.Language,
		Price:        input.Price,
		ThumbnailURL: input.ThumbnailURL,
		Tags:         input.Tags,
		InstructorID: actor.ID,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.index(course)
	return course, nil
}

func (s *courseService) Update(ctx context.Context, actor *model.Actor, id uuid.UUID, input dto.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.ownedCourse(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = s.sanitizer.Sanitize(*input.Description)
	}
	if input.Category != nil {
		course.Category = *input.Category
	}
	if input.Level != nil {
		course.Level = *input.Level
	}
	if input.Language != nil {
		course.Language = *input.Language
	}
	if input.Price != nil {
		course.Price = *input.Price
	}
	if input.ThumbnailURL != nil {
		course.ThumbnailURL = *input.ThumbnailURL
	}
	if input.Tags != nil {
		course.Tags = *input.Tags
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.index(course)
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, actor *model.Actor, id uuid.UUID) error {
	if _, err := s.ownedCourse(ctx, actor, id); err != nil {
		return err
	}

	// Collect media references before the rows disappear.
	lectures, err := s.lectureRepo.ListByCourse(ctx, id)
	if err != nil {
		return err
	}
	assignments, err := s.assignmentRepo.ListByCourse(ctx, id)
	if err != nil {
		return err
	}
	var files []model.FileRef
	for _, assignment := range assignments {
		files = append(files, assignment.Attachments...)
		submissions, err := s.submissionRepo.ListByAssignment(ctx, assignment.ID)
		if err != nil {
			return err
		}
		for _, submission := range submissions {
			files = append(files, submission.Files...)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Provider cleanup is best-effort; the delete already succeeded.
	for _, lecture := range lectures {
		if lecture.VideoProviderID == "" {
			continue
		}
		if err := s.media.Delete(ctx, lecture.VideoProviderID, storage.KindVideo); err != nil {
			log.Printf("failed to delete lecture video %s: %v", lecture.VideoProviderID, err)
		}
	}
	for _, file := range files {
		if file.ProviderID == "" {
			continue
		}
		if err := s.media.Delete(ctx, file.ProviderID, storage.Kind(file.Kind)); err != nil {
			log.Printf("failed to delete course media %s: %v", file.ProviderID, err)
		}
	}

	if s.search != nil {
		if err := s.search.DeleteCourse(id); err != nil {
			log.Printf("failed to remove course %s from search index: %v", id, err)
		}
	}

	return nil
}

func (s *courseService) Enroll(ctx context.Context, actor *model.Actor, id uuid.UUID) error {
	if _, err := s.findCourse(ctx, id); err != nil {
		return err
	}

	return s.repo.Enroll(ctx, id, actor.ID)
}

func (s *courseService) TogglePublish(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.Course, error) {
	course, err := s.ownedCourse(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	course.IsPublished = !course.IsPublished
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.index(course)
	return course, nil
}

func (s *courseService) findCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) ownedCourse(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.Course, error) {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanEdit(course.InstructorID) {
		return nil, fmt.Errorf("%w: not the course instructor", apperror.ErrForbidden)
	}
	return course, nil
}

func (s *courseService) index(course *model.Course) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexCourse(course); err != nil {
		log.Printf("failed to index course %s: %v", course.ID, err)
	}
}
