package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/model"
	"github.com/edunexus-app/backend/internal/repository"
	"github.com/edunexus-app/backend/pkg/apperror"
	"github.com/edunexus-app/backend/pkg/storage"
)

type SubmissionService interface {
	// Submit is an idempotent upsert keyed on (assignment, student):
	// the first call creates, later calls resubmit. The returned bool
	// reports whether a new record was created.
	Submit(ctx context.Context, actor *model.Actor, assignmentID uuid.UUID, input dto.SubmitRequest, files []*multipart.FileHeader) (*model.Submission, bool, error)
	ListByAssignment(ctx context.Context, actor *model.Actor, assignmentID uuid.UUID) ([]*model.Submission, error)
	Grade(ctx context.Context, actor *model.Actor, submissionID uuid.UUID, input dto.GradeRequest) (*model.Submission, error)
}

type submissionService struct {
	repo           repository.SubmissionRepository
	assignmentRepo repository.AssignmentRepository
	media          storage.MediaStorage
	folder         string
	now            func() time.Time
}

func NewSubmissionService(
	repo repository.SubmissionRepository,
	assignmentRepo repository.AssignmentRepository,
	media storage.MediaStorage,
	folder string,
) SubmissionService {
	return &submissionService{
		repo:           repo,
		assignmentRepo: assignmentRepo,
		media:          media,
		folder:         folder,
		now:            time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, actor *model.Actor, assignmentID uuid.UUID, input dto.SubmitRequest, files []*multipart.FileHeader) (*model.Submission, bool, error) {
	assignment, err := s.findAssignment(ctx, assignmentID)
	if err != nil {
		return nil, false, err
	}

	uploaded, err := UploadAll(ctx, s.media, files, s.folder)
	if err != nil {
		return nil, false, err
	}

	submittedAt := s.now()

	existing, err := s.repo.FindByPair(ctx, assignmentID, actor.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if existing == nil {
		submission := &model.Submission{
			AssignmentID: assignmentID,
			StudentID:    actor.ID,
			Files:        uploaded,
			TextAnswer:   input.TextAnswer,
			SubmittedAt:  submittedAt,
			Status:       lateOverlay(model.StatusSubmitted, submittedAt, assignment.DueDate),
		}

		if err := s.repo.Create(ctx, submission); err != nil {
			// Two concurrent first submits race on the unique pair; the
			// loser surfaces as a conflict rather than a second record.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, false, fmt.Errorf("%w: submission already exists", apperror.ErrConflict)
			}
			return nil, false, err
		}

		return submission, true, nil
	}

	// Resubmission: new files replace the old set only when provided;
	// the text answer is overwritten unconditionally.
	if len(uploaded) > 0 {
		existing.Files = uploaded
	}
	existing.TextAnswer = input.TextAnswer
	existing.SubmittedAt = submittedAt
	existing.Status = lateOverlay(model.StatusResubmitted, submittedAt, assignment.DueDate)

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

func (s *submissionService) ListByAssignment(ctx context.Context, actor *model.Actor, assignmentID uuid.UUID) ([]*model.Submission, error) {
	assignment, err := s.findAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanEdit(assignment.Course.InstructorID) {
		return nil, fmt.Errorf("%w: not the course instructor", apperror.ErrForbidden)
	}

	return s.repo.ListByAssignment(ctx, assignmentID)
}

func (s *submissionService) Grade(ctx context.Context, actor *model.Actor, submissionID uuid.UUID, input dto.GradeRequest) (*model.Submission, error) {
	submission, err := s.repo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: submission not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	assignment, err := s.findAssignment(ctx, submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanEdit(assignment.Course.InstructorID) {
		return nil, fmt.Errorf("%w: not the course instructor", apperror.ErrForbidden)
	}

	if input.Grade != nil && *input.Grade > float64(assignment.MaxScore) {
		return nil, fmt.Errorf("%w: grade exceeds max score of %d", apperror.ErrBadRequest, assignment.MaxScore)
	}

	gradedBy := actor.ID
	submission.Grade = input.Grade
	submission.Feedback = input.Feedback
	submission.GradedByID = &gradedBy
	// Graded is terminal: the lateness overlay is not re-derived.
	submission.Status = model.StatusGraded

	if err := s.repo.Update(ctx, submission); err != nil {
		return nil, err
	}

	return submission, nil
}

func (s *submissionService) findAssignment(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assignment not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return assignment, nil
}

// lateOverlay derives the stored status at write time: a submission past
// the due date is late regardless of whether the write was an initial
// submit or a resubmit.
func lateOverlay(status string, submittedAt time.Time, dueDate *time.Time) string {
	if dueDate != nil && submittedAt.After(*dueDate) {
		return model.StatusLate
	}
	return status
}
