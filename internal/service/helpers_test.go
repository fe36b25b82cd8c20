package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/edunexus-app/backend/internal/model"
	"github.com/edunexus-app/backend/pkg/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Lecture{},
		&model.Assignment{},
		&model.Submission{},
		&model.Message{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// fakeMedia records uploads and deletes in memory.
type fakeMedia struct {
	mu       sync.Mutex
	uploads  int
	deleted  []string
	failNext bool
}

func (f *fakeMedia) Upload(_ context.Context, _ io.Reader, folder, fileName string, _ storage.Kind) (*storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return nil, fmt.Errorf("upload rejected")
	}
	f.uploads++
	id := fmt.Sprintf("%s/%s", folder, fileName)
	return &storage.UploadResult{
		URL:        "https://media.test/" + id,
		ProviderID: id,
	}, nil
}

func (f *fakeMedia) Delete(_ context.Context, providerID string, _ storage.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, providerID)
	return nil
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func mustNewUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("failed to generate uuid: %v", err)
	}
	return id
}

func actorFor(user *model.User) *model.Actor {
	return &model.Actor{ID: user.ID, Role: user.Role}
}

func createCourse(t *testing.T, db *gorm.DB, instructor *model.User, title string, published bool) *model.Course {
	t.Helper()

	course := &model.Course{
		Title:        title,
		Description:  "test course",
		InstructorID: instructor.ID,
		IsPublished:  published,
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("failed to create course %s: %v", title, err)
	}
	return course
}
