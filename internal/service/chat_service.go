package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/model"
	"github.com/edunexus-app/backend/internal/repository"
	"github.com/edunexus-app/backend/pkg/apperror"
)

// ChatService handles per-course discussion threads. Messages are
// persisted first, then fanned out to live websocket subscribers over
// a Redis channel so every server instance sees them.
type ChatService interface {
	Post(ctx context.Context, actor *model.Actor, courseID uuid.UUID, input dto.PostMessageRequest) (*model.Message, error)
	History(ctx context.Context, actor *model.Actor, courseID uuid.UUID, p dto.Pagination) ([]*model.Message, int64, error)
	MarkSeen(ctx context.Context, actor *model.Actor, courseID, messageID uuid.UUID) error
	Subscribe(ctx context.Context, courseID uuid.UUID) (<-chan []byte, func(), error)
}

type chatService struct {
	repo       repository.MessageRepository
	courseRepo repository.CourseRepository
	rdb        *redis.Client
	sanitizer  *bluemonday.Policy
}

func NewChatService(repo repository.MessageRepository, courseRepo repository.CourseRepository, rdb *redis.Client) ChatService {
	return &chatService{
		repo:       repo,
		courseRepo: courseRepo,
		rdb:        rdb,
		sanitizer:  bluemonday.UGCPolicy(),
	}
}

func chatChannel(courseID uuid.UUID) string {
	return "course_chat:" + courseID.String()
}

func (s *chatService) Post(ctx context.Context, actor *model.Actor, courseID uuid.UUID, input dto.PostMessageRequest) (*model.Message, error) {
	if err := s.requireMember(ctx, actor, courseID); err != nil {
		return nil, err
	}

	message := &model.Message{
		CourseID: courseID,
		SenderID: actor.ID,
		Content:  s.sanitizer.Sanitize(input.Content),
	}
	if input.ReplyToID != nil {
		replyTo, err := s.repo.FindByID(ctx, *input.ReplyToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: replied-to message not found", apperror.ErrNotFound)
			}
			return nil, err
		}
		if replyTo.CourseID != courseID {
			return nil, fmt.Errorf("%w: replied-to message belongs to another course", apperror.ErrBadRequest)
		}
		message.ReplyToID = input.ReplyToID
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.publish(ctx, message)

	return message, nil
}

func (s *chatService) History(ctx context.Context, actor *model.Actor, courseID uuid.UUID, p dto.Pagination) ([]*model.Message, int64, error) {
	if err := s.requireMember(ctx, actor, courseID); err != nil {
		return nil, 0, err
	}
	p.Normalize()
	return s.repo.ListByCourse(ctx, courseID, p.Limit, p.Offset())
}

func (s *chatService) MarkSeen(ctx context.Context, actor *model.Actor, courseID, messageID uuid.UUID) error {
	if err := s.requireMember(ctx, actor, courseID); err != nil {
		return err
	}

	message, err := s.repo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: message not found", apperror.ErrNotFound)
		}
		return err
	}
	if message.CourseID != courseID {
		return fmt.Errorf("%w: message belongs to another course", apperror.ErrBadRequest)
	}

	return s.repo.MarkSeen(ctx, messageID, actor.ID)
}

// Subscribe returns a channel of raw message payloads for one course and
// a cancel func the caller must invoke when the websocket closes. The
// cancel func is safe to call more than once; the stream handler fires
// it both from its read loop and on the deferred teardown path. When
// Redis is not configured the channel never delivers; history is still
// available over the REST endpoint.
func (s *chatService) Subscribe(ctx context.Context, courseID uuid.UUID) (<-chan []byte, func(), error) {
	out := make(chan []byte, 16)
	var once sync.Once
	if s.rdb == nil {
		return out, func() { once.Do(func() { close(out) }) }, nil
	}

	pubsub := s.rdb.Subscribe(ctx, chatChannel(courseID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("%w: chat subscription failed", apperror.ErrInternal)
	}

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { once.Do(func() { _ = pubsub.Close() }) }
	return out, cancel, nil
}

func (s *chatService) publish(ctx context.Context, message *model.Message) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, chatChannel(message.CourseID), payload).Err(); err != nil {
		log.Printf("chat publish failed for course %s: %v", message.CourseID, err)
	}
}

// requireMember allows enrolled students, the course instructor, and
// admins into a course room.
func (s *chatService) requireMember(ctx context.Context, actor *model.Actor, courseID uuid.UUID) error {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: course not found", apperror.ErrNotFound)
		}
		return err
	}

	if actor.CanEdit(course.InstructorID) {
		return nil
	}

	enrolled, err := s.courseRepo.IsEnrolled(ctx, courseID, actor.ID)
	if err != nil {
		return err
	}
	if !enrolled {
		return fmt.Errorf("%w: not enrolled in this course", apperror.ErrForbidden)
	}
	return nil
}
