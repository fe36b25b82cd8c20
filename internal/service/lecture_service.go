package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/model"
	"github.com/edunexus-app/backend/internal/repository"
	"github.com/edunexus-app/backend/pkg/apperror"
	"github.com/edunexus-app/backend/pkg/storage"
	"github.com/edunexus-app/backend/pkg/upload"
)

type LectureService interface {
	Add(ctx context.Context, actor *model.Actor, courseID uuid.UUID, input dto.CreateLectureRequest, video *multipart.FileHeader) (*model.Lecture, error)
	Update(ctx context.Context, actor *model.Actor, courseID, lectureID uuid.UUID, input dto.UpdateLectureRequest) (*model.Lecture, error)
	Delete(ctx context.Context, actor *model.Actor, courseID, lectureID uuid.UUID) error
}

type lectureService struct {
	repo       repository.LectureRepository
	courseRepo repository.CourseRepository
	media      storage.MediaStorage
	folder     string
	sanitizer  *bluemonday.Policy
}

func NewLectureService(
	repo repository.LectureRepository,
	courseRepo repository.CourseRepository,
	media storage.MediaStorage,
	folder string,
) LectureService {
	return &lectureService{
		repo:       repo,
		courseRepo: courseRepo,
		media:      media,
		folder:     folder,
		sanitizer:  bluemonday.UGCPolicy(),
	}
}

func (s *lectureService) Add(ctx context.Context, actor *model.Actor, courseID uuid.UUID, input dto.CreateLectureRequest, video *multipart.FileHeader) (*model.Lecture, error) {
	if _, err := s.ownedCourse(ctx, actor, courseID); err != nil {
		return nil, err
	}

	order := input.Order
	if order < 1 {
		order = 1
	}

	lecture := &model.Lecture{
		CourseID:    courseID,
		Title:       input.Title,
		Description: s.sanitizer.Sanitize(input.Description),
		Order:       order,
		IsPreview:   input.IsPreview,
		DurationSec: input.DurationSec,
	}

	if video != nil {
		if err := upload.ValidateFiles([]*multipart.FileHeader{video}); err != nil {
			return nil, err
		}
		f, err := video.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()

		uploaded, err := s.media.Upload(ctx, f, s.folder, video.Filename, storage.KindVideo)
		if err != nil {
			return nil, err
		}
		lecture.VideoURL = uploaded.URL
		lecture.VideoProviderID = uploaded.ProviderID
	}

	if err := s.repo.Create(ctx, lecture); err != nil {
		return nil, err
	}

	return lecture, nil
}

func (s *lectureService) Update(ctx context.Context, actor *model.Actor, courseID, lectureID uuid.UUID, input dto.UpdateLectureRequest) (*model.Lecture, error) {
	if _, err := s.ownedCourse(ctx, actor, courseID); err != nil {
		return nil, err
	}

	lecture, err := s.findLecture(ctx, courseID, lectureID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		lecture.Title = *input.Title
	}
	if input.Description != nil {
		lecture.Description = s.sanitizer.Sanitize(*input.Description)
	}
	if input.Order != nil {
		lecture.Order = *input.Order
	}
	if input.IsPreview != nil {
		lecture.IsPreview = *input.IsPreview
	}
	if input.DurationSec != nil {
		lecture.DurationSec = *input.DurationSec
	}

	if err := s.repo.Update(ctx, lecture); err != nil {
		return nil, err
	}

	return lecture, nil
}

func (s *lectureService) Delete(ctx context.Context, actor *model.Actor, courseID, lectureID uuid.UUID) error {
	if _, err := s.ownedCourse(ctx, actor, courseID); err != nil {
		return err
	}

	lecture, err := s.findLecture(ctx, courseID, lectureID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, courseID, lectureID); err != nil {
		return err
	}

	// Best-effort provider cleanup; never fails the delete.
	if lecture.VideoProviderID != "" {
		if err := s.media.Delete(ctx, lecture.VideoProviderID, storage.KindVideo); err != nil {
			log.Printf("failed to delete lecture video %s: %v", lecture.VideoProviderID, err)
		}
	}

	return nil
}

func (s *lectureService) ownedCourse(ctx context.Context, actor *model.Actor, courseID uuid.UUID) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	if !actor.CanEdit(course.InstructorID) {
		return nil, fmt.Errorf("%w: not the course instructor", apperror.ErrForbidden)
	}
	return course, nil
}

func (s *lectureService) findLecture(ctx context.Context, courseID, lectureID uuid.UUID) (*model.Lecture, error) {
	lecture, err := s.repo.FindInCourse(ctx, courseID, lectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lecture not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return lecture, nil
}
