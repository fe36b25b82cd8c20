package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edunexus-app/backend/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]*model.Message, int64, error)
	MarkSeen(ctx context.Context, messageID, userID uuid.UUID) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	var message model.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("id = ?", id).
		First(&message).Error; err != nil {
		return nil, err
	}

	return &message, nil
}

func (r *messageRepository) ListByCourse(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]*model.Message, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Message{}).Where("course_id = ?", courseID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*model.Message
	if err := query.
		Preload("Sender").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *messageRepository) MarkSeen(ctx context.Context, messageID, userID uuid.UUID) error {
	message := model.Message{ID: messageID}
	return r.db.WithContext(ctx).
		Model(&message).
		Association("SeenBy").
		Append(&model.User{ID: userID})
}
