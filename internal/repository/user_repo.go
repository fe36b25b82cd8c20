package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context, filter dto.UserFilter) ([]*model.User, int64, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListEnrolled(ctx context.Context, userID uuid.UUID) ([]model.Course, error)
	ListTeaching(ctx context.Context, userID uuid.UUID) ([]model.Course, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context, filter dto.UserFilter) ([]*model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.IsVerified != nil {
		query = query.Where("is_verified = ?", *filter.IsVerified)
	}
	if filter.Q != "" {
		pattern := "%" + filter.Q + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*model.User
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := model.User{ID: id}
		if err := tx.Model(&user).Association("EnrolledCourses").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.User{}, "id = ?", id).Error
	})
}

func (r *userRepository) ListEnrolled(ctx context.Context, userID uuid.UUID) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN course_students cs ON cs.course_id = courses.id").
		Where("cs.user_id = ?", userID).
		Find(&courses).Error
	return courses, err
}

// ListTeaching derives the teaching set from course ownership.
func (r *userRepository) ListTeaching(ctx context.Context, userID uuid.UUID) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("instructor_id = ?", userID).
		Find(&courses).Error
	return courses, err
}
