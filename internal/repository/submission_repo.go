package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/edunexus-app/backend/internal/model"
)

type SubmissionRepository interface {
	// Create returns gorm.ErrDuplicatedKey when the (assignment, student)
	// pair already exists; races between concurrent submits resolve there.
	Create(ctx context.Context, submission *model.Submission) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Submission, error)
	FindByPair(ctx context.Context, assignmentID, studentID uuid.UUID) (*model.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*model.Submission, error)
	Update(ctx context.Context, submission *model.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.WithContext(ctx).
		Preload("Assignment").
		Where("id = ?", id).
		First(&submission).Error; err != nil {
		return nil, err
	}

	return &submission, nil
}

func (r *submissionRepository) FindByPair(ctx context.Context, assignmentID, studentID uuid.UUID) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		First(&submission).Error; err != nil {
		return nil, err
	}

	return &submission, nil
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*model.Submission, error) {
	var submissions []*model.Submission
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(submission).Error
}
