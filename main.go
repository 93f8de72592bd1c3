package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/careerloop/backend/realtime"
	"github.com/careerloop/backend/repository"
	"github.com/careerloop/backend/services"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config := services.LoadConfig()

	server := services.NewServer(config)

	feed := realtime.NewHub()
	go feed.Run()
	server.SetFeed(feed)

	if config.Database.URL != "" {
		gormDB, err := gorm.Open(postgres.Open(config.Database.URL), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormLogLevel(config.Database.LogLevel)),
		})
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			slog.Error("Failed to get database handle", "error", err)
			os.Exit(1)
		}
		sqlDB.SetMaxIdleConns(config.Database.MaxIdleConns)
		sqlDB.SetMaxOpenConns(config.Database.MaxOpenConns)
		slog.Info("Connected to database")

		repo := repository.NewGORMRepository(gormDB, feed)
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

		// Separate pgx pool for atomic counter updates and health checks
		pool, err := pgxpool.New(context.Background(), config.Database.URL)
		if err != nil {
			slog.Error("Failed to create connection pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		server.SetDatabase(repo, gormDB, pool)
	} else {
		slog.Warn("DATABASE_URL not set, running without persistence")
	}

	if err := server.InitializeServices(); err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	server.Start()
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
