package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Narain-karthick/Prep2Hire/models"
	"github.com/Narain-karthick/Prep2Hire/repository"
	"golang.org/x/crypto/bcrypt"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo *repository.GORMRepository
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo}
}

// SeedDatabase seeds the database with test users and the built-in question
// catalogue (idempotent)
func (s *DatabaseSeeder) SeedDatabase() error {
	ctx := context.Background()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Test users only, no admin users
	users := []models.User{
		{
			Email:    "test@example.com",
			Password: string(hashedPassword),
			FullName: "Test User",
			Role:     "user",
		},
		{
			Email:    "demo@example.com",
			Password: string(hashedPassword),
			FullName: "Demo User",
			Role:     "user",
		},
	}

	for _, user := range users {
		if err := s.seedUser(ctx, user); err != nil {
			slog.Error("Failed to seed user", "email", user.Email, "error", err)
		}
	}

	if err := s.seedQuestions(ctx); err != nil {
		slog.Error("Failed to seed question catalogue", "error", err)
		return err
	}

	slog.Info("Database seeding completed successfully")
	return nil
}

// seedUser seeds a single user (idempotent)
func (s *DatabaseSeeder) seedUser(ctx context.Context, user models.User) error {
	existingUser, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("error checking user %s: %w", user.Email, err)
	}

	if existingUser != nil {
		slog.Info("User already exists, skipping", "email", user.Email)
		return nil
	}

	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}

	slog.Info("Created user", "email", user.Email)
	return nil
}

// seedQuestions loads the built-in catalogue into the questions table. A
// non-empty table means the catalogue was already seeded or replaced with a
// custom one, so it is left untouched.
func (s *DatabaseSeeder) seedQuestions(ctx context.Context) error {
	count, err := s.repo.CountQuestions(ctx)
	if err != nil {
		return fmt.Errorf("error counting questions: %w", err)
	}
	if count > 0 {
		slog.Info("Question catalogue already seeded, skipping", "count", count)
		return nil
	}

	for _, question := range DefaultCatalogue() {
		q := question
		if err := s.repo.CreateQuestion(ctx, &q); err != nil {
			return fmt.Errorf("failed to create question %s: %w", q.ID, err)
		}
	}

	slog.Info("Seeded question catalogue", "count", len(DefaultCatalogue()))
	return nil
}
