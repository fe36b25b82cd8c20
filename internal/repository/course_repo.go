package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/model"
)

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*model.Course, error)
	FindAll(ctx context.Context, filter dto.CourseFilter) ([]*model.Course, int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	Enroll(ctx context.Context, courseID, userID uuid.UUID) error
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("id = ?", id).
		First(&course).Error; err != nil {
		return nil, err
	}

	return &course, nil
}

func (r *courseRepository) FindDetail(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).
		Preload("Instructor").
		Preload("Lectures", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&course).Error; err != nil {
		return nil, err
	}

	return &course, nil
}

func (r *courseRepository) FindAll(ctx context.Context, filter dto.CourseFilter) ([]*model.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Course{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Instructor != "" {
		query = query.Where("instructor_id = ?", filter.Instructor)
	}
	if filter.IsPublished != nil {
		query = query.Where("is_published = ?", *filter.IsPublished)
	}
	if filter.Q != "" {
		pattern := "%" + filter.Q + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []*model.Course
	if err := query.
		Preload("Instructor").
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var courses []*model.Course
	if err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("id IN ?", ids).
		Find(&courses).Error; err != nil {
		return nil, err
	}

	// Preserve the order of ids (search relevance order).
	byID := make(map[uuid.UUID]*model.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	ordered := make([]*model.Course, 0, len(courses))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(course).Error
}

// Delete removes the course plus its lectures, assignments and those
// assignments' submissions in one transaction.
func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&model.Lecture{}).Error; err != nil {
			return err
		}

		var assignmentIDs []uuid.UUID
		if err := tx.Model(&model.Assignment{}).
			Where("course_id = ?", id).
			Pluck("id", &assignmentIDs).Error; err != nil {
			return err
		}
		if len(assignmentIDs) > 0 {
			if err := tx.Where("assignment_id IN ?", assignmentIDs).Delete(&model.Submission{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", id).Delete(&model.Assignment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("course_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}

		course := model.Course{ID: id}
		if err := tx.Model(&course).Association("Students").Clear(); err != nil {
			return err
		}

		return tx.Delete(&model.Course{}, "id = ?", id).Error
	})
}

// Enroll writes a single join-table row; the association append is an
// upsert, so enrolling twice is a no-op.
func (r *courseRepository) Enroll(ctx context.Context, courseID, userID uuid.UUID) error {
	course := model.Course{ID: courseID}
	return r.db.WithContext(ctx).
		Model(&course).
		Association("Students").
		Append(&model.User{ID: userID})
}

func (r *courseRepository) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("course_students").
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}
