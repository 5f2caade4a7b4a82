package config

import (
	"log"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		FullName: "Platform Admin",
		Email:    "admin@dwellhub.io",
		Password: hashedPassword,
		Role:     models.RoleAdmin,
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("   Created default admin user (admin@dwellhub.io)")
	return nil
}

// DefaultOnboardingSteps is the seeded step list every new tenant gets,
// completed in order.
var DefaultOnboardingSteps = []models.OnboardingStep{
	{Code: models.StepProfile, Name: "Complete your profile", StepOrder: 1},
	{Code: models.StepDocuments, Name: "Upload identity documents", StepOrder: 2},
	{Code: models.StepLeaseReview, Name: "Review and sign your lease", StepOrder: 3},
	{Code: models.StepMoveIn, Name: "Schedule move-in", StepOrder: 4},
}
