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

type submissionFixture struct {
	db         *gorm.DB
	svc        *submissionService
	media      *fakeMedia
	instructor *model.User
	student    *model.User
	assignment *model.Assignment
}

func newSubmissionFixture(t *testing.T, dueDate *time.Time) *submissionFixture {
	t.Helper()

	db := newTestDB(t)
	media := &fakeMedia{}
	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	student := createUser(t, db, "Stu", "stu@example.com", model.RoleStudent)
	course := createCourse(t, db, instructor, "Go Basics", true)

	assignment := &model.Assignment{
		CourseID:    course.ID,
		Title:       "Homework 1",
		Description: "solve the exercises",
		DueDate:     dueDate,
		MaxScore:    100,
		CreatedByID: instructor.ID,
	}
	if err := db.Create(assignment).Error; err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}

	svc := NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewAssignmentRepository(db),
		media,
		"test/submissions",
	).(*submissionService)

	return &submissionFixture{
		db:         db,
		svc:        svc,
		media:      media,
		instructor: instructor,
		student:    student,
		assignment: assignment,
	}
}

func TestSubmitCreatesThenResubmits(t *testing.T) {
	f := newSubmissionFixture(t, nil)
	ctx := context.Background()
	actor := actorFor(f.student)

	first, created, err := f.svc.Submit(ctx, actor, f.assignment.ID, dto.SubmitRequest{TextAnswer: "v1"}, nil)
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if !created {
		t.Error("expected first submit to create")
	}
	if first.Status != model.StatusSubmitted {
		t.Errorf("expected status %q, got %q", model.StatusSubmitted, first.Status)
	}

	second, created, err := f.svc.Submit(ctx, actor, f.assignment.ID, dto.SubmitRequest{TextAnswer: "v2"}, nil)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if created {
		t.Error("expected resubmit to update, not create")
	}
	if second.ID != first.ID {
		t.Error("resubmit produced a different record")
	}
	if second.Status != model.StatusResubmitted {
		t.Errorf("expected status %q, got %q", model.StatusResubmitted, second.Status)
	}
	if second.TextAnswer != "v2" {
		t.Errorf("expected text answer to be overwritten, got %q", second.TextAnswer)
	}

	var count int64
	if err := f.db.Model(&model.Submission{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected a single submission row, got %d", count)
	}
}

func TestSubmitOpenToAnyAuthenticatedRole(t *testing.T) {
	f := newSubmissionFixture(t, nil)
	ctx := context.Background()

	other := createUser(t, f.db, "Tina", "tina@example.com", model.RoleInstructor)
	submission, created, err := f.svc.Submit(ctx, actorFor(other), f.assignment.ID, dto.SubmitRequest{TextAnswer: "peer review"}, nil)
	if err != nil {
		t.Fatalf("submit by instructor failed: %v", err)
	}
	if !created {
		t.Error("expected a new submission record")
	}
	if submission.StudentID != other.ID {
		t.Error("submission was not keyed to the submitting actor")
	}
}

func TestResubmitKeepsFilesWhenNoneProvided(t *testing.T) {
	f := newSubmissionFixture(t, nil)
	ctx := context.Background()
	actor := actorFor(f.student)

	first, _, err := f.svc.Submit(ctx, actor, f.assignment.ID, dto.SubmitRequest{TextAnswer: "v1"}, nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// Simulate files uploaded on the first submission.
	files := []model.FileRef{{URL: "https://media.test/a.pdf", ProviderID: "a", Filename: "a.pdf"}}
	if err := f.db.Model(&model.Submission{}).Where("id = ?", first.ID).
		Updates(model.Submission{Files: files}).Error; err != nil {
		t.Fatalf("update files failed: %v", err)
	}

	second, _, err := f.svc.Submit(ctx, actor, f.assignment.ID, dto.SubmitRequest{TextAnswer: "v2"}, nil)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if len(second.Files) != 1 || second.Files[0].Filename != "a.pdf" {
		t.Errorf("expected previous files to be kept, got %v", second.Files)
	}
}

func TestSubmitAfterDueDateIsLate(t *testing.T) {
	due := time.Now().Add(-time.Hour)
	f := newSubmissionFixture(t, &due)
	ctx := context.Background()
	actor := actorFor(f.student)

	sub, _, err := f.svc.Submit(ctx, actor, f.assignment.ID, dto.SubmitRequest{TextAnswer: "late one"}, nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if sub.Status != model.StatusLate {
		t.Errorf("expected status %q, got %q", model.StatusLate, sub.Status)
	}

	// Resubmitting past the due date stays late.
	sub, _, err = f.svc.Submit(ctx, actor, f.assignment.ID, dto.SubmitRequest{TextAnswer: "still late"}, nil)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if sub.Status != model.StatusLate {
		t.Errorf("expected status %q after resubmit, got %q", model.StatusLate, sub.Status)
	}
}

func TestSubmitBeforeDueDateOnTime(t *testing.T) {
	due := time.Now().Add(time.Hour)
	f := newSubmissionFixture(t, &due)

	sub, _, err := f.svc.Submit(context.Background(), actorFor(f.student), f.assignment.ID, dto.SubmitRequest{}, nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if sub.Status != model.StatusSubmitted {
		t.Errorf("expected status %q, got %q", model.StatusSubmitted, sub.Status)
	}
}

func TestSubmitUnknownAssignment(t *testing.T) {
	f := newSubmissionFixture(t, nil)

	_, _, err := f.svc.Submit(context.Background(), actorFor(f.student), mustNewUUID(t), dto.SubmitRequest{}, nil)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDuplicatePairInsertIsConflict(t *testing.T) {
	f := newSubmissionFixture(t, nil)
	ctx := context.Background()

	repo := repository.NewSubmissionRepository(f.db)
	first := &model.Submission{AssignmentID: f.assignment.ID, StudentID: f.student.ID}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	// A concurrent first submit that lost the race inserts the same
	// pair and must surface as a duplicate key.
	second := &model.Submission{AssignmentID: f.assignment.ID, StudentID: f.student.ID}
	if err := repo.Create(ctx, second); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestGradeByInstructor(t *testing.T) {
	f := newSubmissionFixture(t, nil)
	ctx := context.Background()

	sub, _, err := f.svc.Submit(ctx, actorFor(f.student), f.assignment.ID, dto.SubmitRequest{TextAnswer: "answer"}, nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	grade := 85.0
	graded, err := f.svc.Grade(ctx, actorFor(f.instructor), sub.ID, dto.GradeRequest{Grade: &grade, Feedback: "good"})
	if err != nil {
		t.Fatalf("grade failed: %v", err)
	}
	if graded.Status != model.StatusGraded {
		t.Errorf("expected status %q, got %q", model.StatusGraded, graded.Status)
	}
	if graded.Grade == nil || *graded.Grade != 85 {
		t.Errorf("expected grade 85, got %v", graded.Grade)
	}
	if graded.GradedByID == nil || *graded.GradedByID != f.instructor.ID {
		t.Error("expected grader to be recorded")
	}

	// Grading again overwrites and stays graded.
	regrade := 90.0
	graded, err = f.svc.Grade(ctx, actorFor(f.instructor), sub.ID, dto.GradeRequest{Grade: &regrade})
	if err != nil {
		t.Fatalf("regrade failed: %v", err)
	}
	if graded.Status != model.StatusGraded || *graded.Grade != 90 {
		t.Errorf("expected regraded 90, got %q %v", graded.Status, graded.Grade)
	}
}

func TestGradeAboveMaxScoreRejected(t *testing.T) {
	f := newSubmissionFixture(t, nil)
	ctx := context.Background()

	sub, _, err := f.svc.Submit(ctx, actorFor(f.student), f.assignment.ID, dto.SubmitRequest{}, nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	grade := 150.0
	_, err = f.svc.Grade(ctx, actorFor(f.instructor), sub.ID, dto.GradeRequest{Grade: &grade})
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestGradeForbiddenForOthers(t *testing.T) {
	f := newSubmissionFixture(t, nil)
	ctx := context.Background()

	sub, _, err := f.svc.Submit(ctx, actorFor(f.student), f.assignment.ID, dto.SubmitRequest{}, nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	other := createUser(t, f.db, "Rival", "rival@example.com", model.RoleInstructor)
	grade := 50.0
	if _, err := f.svc.Grade(ctx, actorFor(other), sub.ID, dto.GradeRequest{Grade: &grade}); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden for another instructor, got %v", err)
	}

	if _, err := f.svc.Grade(ctx, actorFor(f.student), sub.ID, dto.GradeRequest{Grade: &grade}); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden for the student, got %v", err)
	}
}

func TestListSubmissionsOwnerOnly(t *testing.T) {
	f := newSubmissionFixture(t, nil)
	ctx := context.Background()

	if _, _, err := f.svc.Submit(ctx, actorFor(f.student), f.assignment.ID, dto.SubmitRequest{}, nil); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	subs, err := f.svc.ListByAssignment(ctx, actorFor(f.instructor), f.assignment.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("expected 1 submission, got %d", len(subs))
	}

	if _, err := f.svc.ListByAssignment(ctx, actorFor(f.student), f.assignment.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden for student, got %v", err)
	}
}
