package database

import (
	"log"
	"os"
	"time"

	"smart-dpo/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	createDefaultAdmin()
	seedDefaultUsers()
}

// Migrate applies the schema; exposed so tests can run it against their own DB.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Treatment{},
		&models.Risk{},
		&models.CorrectiveMeasure{},
		&models.Alert{},
		&models.JournalAction{},
		&models.ApplicationSettings{},
	)
}

// admin comes from env only, never from the API
func createDefaultAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@smartdpo.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleSuperAdmin).
		Count(&count).Error; err != nil {
		log.Printf("failed to check admin user: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Name:         "Administrateur",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleSuperAdmin,
		Active:       true,
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("failed to create default admin: %v", err)
		return
	}

	log.Printf("created default admin user: %s", email)
}

// demo accounts (DPO and collaborateur)
func seedDefaultUsers() {
	type seedUser struct {
		Name     string
		Email    string
		Password string
		Role     models.UserRole
	}

	users := []seedUser{
		{
			Name:     "Délégué Protection Données",
			Email:    "dpo@smartdpo.local",
			Password: "Dpo123!",
			Role:     models.RoleDPO,
		},
		{
			Name:     "Collaborateur Démo",
			Email:    "collab@smartdpo.local",
			Password: "Collab123!",
			Role:     models.RoleCollaborateur,
		},
	}

	for _, u := range users {
		var count int64
		if err := DB.Model(&models.User{}).
			Where("email = ?", u.Email).
			Count(&count).Error; err != nil {
			log.Printf("failed to check seed user %s: %v", u.Email, err)
			continue
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("failed to hash password for %s: %v", u.Email, err)
			continue
		}

		user := models.User{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: string(hash),
			Role:         u.Role,
			Active:       true,
		}

		if err := DB.Create(&user).Error; err != nil {
			log.Printf("failed to create seed user %s: %v", u.Email, err)
			continue
		}

		log.Printf("created seed user: %s (role=%s)", u.Email, u.Role)
	}
}
