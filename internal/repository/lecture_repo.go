package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edunexus-app/backend/internal/model"
)

type LectureRepository interface {
	Create(ctx context.Context, lecture *model.Lecture) error
	FindInCourse(ctx context.Context, courseID, lectureID uuid.UUID) (*model.Lecture, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*model.Lecture, error)
	Update(ctx context.Context, lecture *model.Lecture) error
	Delete(ctx context.Context, courseID, lectureID uuid.UUID) error
}

type lectureRepository struct {
	db *gorm.DB
}

func NewLectureRepository(db *gorm.DB) LectureRepository {
	return &lectureRepository{db: db}
}

func (r *lectureRepository) Create(ctx context.Context, lecture *model.Lecture) error {
	return r.db.WithContext(ctx).Create(lecture).Error
}

func (r *lectureRepository) FindInCourse(ctx context.Context, courseID, lectureID uuid.UUID) (*model.Lecture, error) {
	var lecture model.Lecture
	if err := r.db.WithContext(ctx).
		Where("id = ? AND course_id = ?", lectureID, courseID).
		First(&lecture).Error; err != nil {
		return nil, err
	}

	return &lecture, nil
}

func (r *lectureRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*model.Lecture, error) {
	var lectures []*model.Lecture
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position ASC, created_at ASC").
		Find(&lectures).Error; err != nil {
		return nil, err
	}

	return lectures, nil
}

func (r *lectureRepository) Update(ctx context.Context, lecture *model.Lecture) error {
	return r.db.WithContext(ctx).Save(lecture).Error
}

func (r *lectureRepository) Delete(ctx context.Context, courseID, lectureID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND course_id = ?", lectureID, courseID).
		Delete(&model.Lecture{}).Error
}
