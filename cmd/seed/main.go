package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/blue-farid/DrugBox/internal/config"
	"github.com/blue-farid/DrugBox/internal/db"
	apperrors "github.com/blue-farid/DrugBox/internal/errors"
	"github.com/blue-farid/DrugBox/internal/model"
	"github.com/blue-farid/DrugBox/internal/repository"
)

// SeedUserData describes one bench-test user in a seed file.
type SeedUserData struct {
	Name          string  `json:"name"`
	RFIDCode      string  `json:"rfid_code"`
	FingerprintID int64   `json:"fingerprint_id"`
	Dosage        float64 `json:"dosage"`
}

// defaultSeedUsers covers the badges flashed onto development devices.
var defaultSeedUsers = []SeedUserData{
	{Name: "Test User", RFIDCode: "RFID123456", FingerprintID: 12345, Dosage: 2.5},
	{Name: "John Doe", RFIDCode: "RFID654321", FingerprintID: 54321, Dosage: 1.0},
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}, &model.DosageSchedule{}, &model.EventLog{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	users := defaultSeedUsers
	if path := os.Getenv("SEED_FILE"); path != "" {
		log.Printf("Loading seed users from: %s", path)
		users, err = loadSeedFile(path)
		if err != nil {
			log.Fatalf("Failed to load seed file: %v", err)
		}
	}
	log.Printf("Seeding %d users", len(users))

	userRepo := repository.NewUserRepository(gormDB)
	scheduleRepo := repository.NewScheduleRepository(gormDB)
	ctx := context.Background()

	created, skipped, err := seedUsers(ctx, userRepo, scheduleRepo, users)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users skipped: %d", skipped)
}

// loadSeedFile reads a JSON array of seed users from disk.
func loadSeedFile(path string) ([]SeedUserData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var users []SeedUserData
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

// seedUsers enrolls users and gives each one a schedule for today. Users
// that are already enrolled keep their existing rows.
func seedUsers(ctx context.Context, userRepo repository.UserRepository, scheduleRepo repository.ScheduleRepository, users []SeedUserData) (created int, skipped int, err error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for _, item := range users {
		existing, err := userRepo.FindByRFID(ctx, item.RFIDCode)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, skipped, fmt.Errorf("error checking user %s: %w", item.RFIDCode, err)
		}

		user := existing
		if user == nil {
			user = &model.User{
				Name:          item.Name,
				RFIDCode:      item.RFIDCode,
				FingerprintID: item.FingerprintID,
			}
			if err := userRepo.Create(ctx, user); err != nil {
				return created, skipped, fmt.Errorf("error creating user %s: %w", item.RFIDCode, err)
			}
			created++
		} else {
			skipped++
		}

		if item.Dosage <= 0 {
			continue
		}
		schedule := &model.DosageSchedule{
			UserID: user.ID,
			Date:   today,
			Dosage: decimal.NewFromFloat(item.Dosage),
		}
		if err := scheduleRepo.Create(ctx, schedule); err != nil {
			// Re-running the script must not disturb today's schedules.
			if errors.Is(err, apperrors.ErrScheduleExists) {
				continue
			}
			return created, skipped, fmt.Errorf("error creating schedule for %s: %w", item.RFIDCode, err)
		}
	}

	return created, skipped, nil
}
