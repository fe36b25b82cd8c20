package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/model"
	"github.com/edunexus-app/backend/internal/repository"
	"github.com/edunexus-app/backend/pkg/apperror"
)

func newAssignmentFixture(t *testing.T) (*gorm.DB, AssignmentService, *fakeMedia, *model.User, *model.Course) {
	t.Helper()

	db := newTestDB(t)
	media := &fakeMedia{}
	svc := NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewSubmissionRepository(db),
		media,
		"test/assignments",
	)
	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	course := createCourse(t, db, instructor, "Go Basics", true)

	return db, svc, media, instructor, course
}

func TestCreateAssignmentParsesDueDate(t *testing.T) {
	_, svc, _, instructor, course := newAssignmentFixture(t)

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	assignment, err := svc.Create(context.Background(), actorFor(instructor), course.ID, dto.CreateAssignmentRequest{
		Title:       "Homework 1",
		Description: "solve the exercises",
		DueDate:     due.Format(time.RFC3339),
	}, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if assignment.DueDate == nil || !assignment.DueDate.Equal(due) {
		t.Errorf("expected due date %v, got %v", due, assignment.DueDate)
	}
	if assignment.MaxScore != 100 {
		t.Errorf("expected default max score 100, got %d", assignment.MaxScore)
	}
	if assignment.CreatedByID != instructor.ID {
		t.Error("creator was not recorded")
	}
}

func TestCreateAssignmentRejectsBadDueDate(t *testing.T) {
	_, svc, _, instructor, course := newAssignmentFixture(t)

	_, err := svc.Create(context.Background(), actorFor(instructor), course.ID, dto.CreateAssignmentRequest{
		Title:       "Homework 1",
		Description: "d",
		DueDate:     "tomorrow",
	}, nil)
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestUpdateAssignmentClearsDueDate(t *testing.T) {
	_, svc, _, instructor, course := newAssignmentFixture(t)
	ctx := context.Background()
	actor := actorFor(instructor)

	assignment, err := svc.Create(ctx, actor, course.ID, dto.CreateAssignmentRequest{
		Title:       "Homework 1",
		Description: "d",
		DueDate:     time.Now().Add(time.Hour).Format(time.RFC3339),
	}, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	empty := ""
	updated, err := svc.Update(ctx, actor, assignment.ID, dto.UpdateAssignmentRequest{DueDate: &empty})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.DueDate != nil {
		t.Errorf("expected due date to be cleared, got %v", updated.DueDate)
	}
}

func TestDeleteAssignmentRemovesSubmissions(t *testing.T) {
	db, svc, media, instructor, course := newAssignmentFixture(t)
	ctx := context.Background()

	assignment, err := svc.Create(ctx, actorFor(instructor), course.ID, dto.CreateAssignmentRequest{
		Title:       "Homework 1",
		Description: "d",
	}, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Attach a provider-backed file directly so delete has something to
	// clean up.
	attachments := []model.FileRef{{URL: "u", ProviderID: "att-1", Kind: "raw"}}
	if err := db.Model(&model.Assignment{}).Where("id = ?", assignment.ID).
		Updates(model.Assignment{Attachments: attachments}).Error; err != nil {
		t.Fatalf("update attachments: %v", err)
	}

	student := createUser(t, db, "Stu", "stu@example.com", model.RoleStudent)
	submission := &model.Submission{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		Files:        []model.FileRef{{URL: "u", ProviderID: "sub-1", Kind: "raw"}},
	}
	if err := db.Create(submission).Error; err != nil {
		t.Fatalf("create submission: %v", err)
	}

	if err := svc.Delete(ctx, actorFor(instructor), assignment.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var count int64
	if err := db.Model(&model.Submission{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected submissions to be removed, got %d", count)
	}

	// Both the attachment and the submission's file leave the provider.
	if len(media.deleted) != 2 || media.deleted[0] != "att-1" || media.deleted[1] != "sub-1" {
		t.Errorf("expected attachment and submission file cleanup, got %v", media.deleted)
	}
}

func TestAssignmentMutationsForbiddenForNonOwner(t *testing.T) {
	db, svc, _, instructor, course := newAssignmentFixture(t)
	ctx := context.Background()

	assignment, err := svc.Create(ctx, actorFor(instructor), course.ID, dto.CreateAssignmentRequest{
		Title:       "Homework 1",
		Description: "d",
	}, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	rival := createUser(t, db, "Rival", "rival@example.com", model.RoleInstructor)

	if _, err := svc.Create(ctx, actorFor(rival), course.ID, dto.CreateAssignmentRequest{
		Title: "Intruder", Description: "d",
	}, nil); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("create: expected forbidden, got %v", err)
	}

	title := "Hijacked"
	if _, err := svc.Update(ctx, actorFor(rival), assignment.ID, dto.UpdateAssignmentRequest{Title: &title}); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("update: expected forbidden, got %v", err)
	}

	if err := svc.Delete(ctx, actorFor(rival), assignment.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("delete: expected forbidden, got %v", err)
	}
}
