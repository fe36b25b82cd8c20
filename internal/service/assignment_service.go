package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

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

type AssignmentService interface {
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*model.Assignment, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Assignment, error)
	Create(ctx context.Context, actor *model.Actor, courseID uuid.UUID, input dto.CreateAssignmentRequest, files []*multipart.FileHeader) (*model.Assignment, error)
	Update(ctx context.Context, actor *model.Actor, id uuid.UUID, input dto.UpdateAssignmentRequest) (*model.Assignment, error)
	Delete(ctx context.Context, actor *model.Actor, id uuid.UUID) error
}

type assignmentService struct {
	repo           repository.AssignmentRepository
	courseRepo     repository.CourseRepository
	submissionRepo repository.SubmissionRepository
	media          storage.MediaStorage
	folder         string
	sanitizer      *bluemonday.Policy
}

func NewAssignmentService(
	repo repository.AssignmentRepository,
	courseRepo repository.CourseRepository,
	submissionRepo repository.SubmissionRepository,
	media storage.MediaStorage,
	folder string,
) AssignmentService {
	return &assignmentService{
		repo:           repo,
		courseRepo:     courseRepo,
		submissionRepo: submissionRepo,
		media:          media,
		folder:         folder,
		sanitizer:      bluemonday.UGCPolicy(),
	}
}

func (s *assignmentService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*model.Assignment, error) {
	return s.repo.ListByCourse(ctx, courseID)
}

func (s *assignmentService) Get(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	return s.findAssignment(ctx, id)
}

func (s *assignmentService) Create(ctx context.Context, actor *model.Actor, courseID uuid.UUID, input dto.CreateAssignmentRequest, files []*multipart.FileHeader) (*model.Assignment, error) {
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

	var dueDate *time.Time
	if input.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, input.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: due_date must be RFC 3339", apperror.ErrBadRequest)
		}
		dueDate = &parsed
	}

	maxScore := input.MaxScore
	if maxScore < 1 {
		maxScore = 100
	}

	attachments, err := UploadAll(ctx, s.media, files, s.folder)
	if err != nil {
		return nil, err
	}

	assignment := &model.Assignment{
		CourseID:    courseID,
		Title:       input.Title,
		Description: s.sanitizer.Sanitize(input.Description),
		DueDate:     dueDate,
		MaxScore:    maxScore,
		Attachments: attachments,
		CreatedByID: actor.ID,
	}

	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *assignmentService) Update(ctx context.Context, actor *model.Actor, id uuid.UUID, input dto.UpdateAssignmentRequest) (*model.Assignment, error) {
	assignment, err := s.ownedAssignment(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		assignment.Title = *input.Title
	}
	if input.Description != nil {
		assignment.Description = s.sanitizer.Sanitize(*input.Description)
	}
	if input.DueDate != nil {
		if *input.DueDate == "" {
			assignment.DueDate = nil
		} else {
			parsed, err := time.Parse(time.RFC3339, *input.DueDate)
			if err != nil {
				return nil, fmt.Errorf("%w: due_date must be RFC 3339", apperror.ErrBadRequest)
			}
			assignment.DueDate = &parsed
		}
	}
	if input.MaxScore != nil {
		assignment.MaxScore = *input.MaxScore
	}

	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *assignmentService) Delete(ctx context.Context, actor *model.Actor, id uuid.UUID) error {
	assignment, err := s.ownedAssignment(ctx, actor, id)
	if err != nil {
		return err
	}

	// Collect submission files before their rows go with the assignment.
	files := append([]model.FileRef(nil), assignment.Attachments...)
	submissions, err := s.submissionRepo.ListByAssignment(ctx, id)
	if err != nil {
		return err
	}
	for _, submission := range submissions {
		files = append(files, submission.Files...)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	for _, file := range files {
		if file.ProviderID == "" {
			continue
		}
		if err := s.media.Delete(ctx, file.ProviderID, storage.Kind(file.Kind)); err != nil {
			log.Printf("failed to delete assignment media %s: %v", file.ProviderID, err)
		}
	}

	return nil
}

func (s *assignmentService) findAssignment(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assignment not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return assignment, nil
}

func (s *assignmentService) ownedAssignment(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.Assignment, error) {
	assignment, err := s.findAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanEdit(assignment.Course.InstructorID) {
		return nil, fmt.Errorf("%w: not the course instructor", apperror.ErrForbidden)
	}
	return assignment, nil
}

// UploadAll validates a multipart file set and relays it to the media
// provider one file at a time. A failure mid-set fails the whole action
// and leaves the already-uploaded files at the provider (not rolled back).
func UploadAll(ctx context.Context, media storage.MediaStorage, files []*multipart.FileHeader, folder string) ([]model.FileRef, error) {
	if len(files) == 0 {
		return nil, nil
	}

	if err := upload.ValidateFiles(files); err != nil {
		return nil, err
	}

	refs := make([]model.FileRef, 0, len(files))
	for _, file := range files {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}

		kind := upload.KindFor(file.Header.Get("Content-Type"))
		uploaded, err := media.Upload(ctx, f, folder, file.Filename, kind)
		f.Close()
		if err != nil {
			return nil, err
		}

		refs = append(refs, model.FileRef{
			URL:        uploaded.URL,
			ProviderID: uploaded.ProviderID,
			Filename:   file.Filename,
			Kind:       string(kind),
		})
	}

	return refs, nil
}
