package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Narain-karthick/Prep2Hire/repository"
	"github.com/Narain-karthick/Prep2Hire/services"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Setup structured logging with JSON format
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	config := services.LoadConfig()
	server := services.NewServer(config)

	if config.Database.URL != "" {
		// Fast connectivity probe before gorm takes over the connection
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pool, err := pgxpool.New(pingCtx, config.Database.URL)
		if err != nil {
			slog.Error("Failed to create connection pool", "error", err)
		} else {
			if err := pool.Ping(pingCtx); err != nil {
				slog.Error("Database unreachable", "error", err)
			} else {
				slog.Info("Database connectivity verified")
			}
			pool.Close()
		}
		cancel()

		gormDB, err := gorm.Open(postgres.Open(config.Database.URL), &gorm.Config{
			Logger: logger.Default.LogMode(gormLogLevel(config.Database.LogLevel)),
		})
		if err != nil {
			slog.Error("Failed to open database", "error", err)
			os.Exit(1)
		}

		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.SetMaxIdleConns(config.Database.MaxIdleConns)
			sqlDB.SetMaxOpenConns(config.Database.MaxOpenConns)
			sqlDB.SetConnMaxLifetime(time.Hour)
		}

		repo := repository.NewGORMRepository(gormDB)
		if err := repo.AutoMigrate(); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed")

		if config.Database.Seed {
			seeder := services.NewDatabaseSeeder(repo)
			if err := seeder.SeedDatabase(); err != nil {
				slog.Error("Failed to seed database", "error", err)
			}
		}

		server.SetDatabase(repo, gormDB)
		server.SetQuestionBank(loadQuestionBank(repo))
	} else {
		slog.Warn("Database URL not configured, running without persistence")
	}

	if err := server.InitializeServices(); err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	server.Start()
}

// loadQuestionBank prefers the questions table so operators can curate the
// catalogue; the built-in catalogue is the fallback.
func loadQuestionBank(repo *repository.GORMRepository) *services.QuestionBank {
	bank := services.NewQuestionBank(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	questions, err := repo.GetQuestions(ctx)
	if err != nil || len(questions) == 0 {
		if err != nil {
			slog.Error("Failed to load questions from database", "error", err)
		}
		bank.Load(services.DefaultCatalogue())
		slog.Info("Question bank loaded from built-in catalogue", "size", bank.Size())
		return bank
	}

	bank.Load(questions)
	slog.Info("Question bank loaded from database", "size", bank.Size())
	return bank
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
