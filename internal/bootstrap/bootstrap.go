package bootstrap

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/edunexus-app/backend/internal/model"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Lecture{},
		&model.Assignment{},
		&model.Submission{},
		&model.Message{},
	)
}

// SeedAdminUser creates a default admin account for development
// environments. It is a no-op when the account already exists.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@edunexus.dev").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Name:         "Administrator",
		Email:        "admin@edunexus.dev",
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
		IsVerified:   true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded")
	log.Println("   Email: admin@edunexus.dev")
	log.Println("   Password: admin123")

	return nil
}
