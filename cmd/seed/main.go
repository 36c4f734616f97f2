package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/wehaveweneed/exchange/internal/db"
	"github.com/wehaveweneed/exchange/internal/models"
	"github.com/wehaveweneed/exchange/internal/slug"
	"github.com/wehaveweneed/exchange/pkg/config"
	"github.com/wehaveweneed/exchange/pkg/logging"
)

// starter taxonomy loaded on a fresh deployment
var starterCategories = []string{
	"Tools",
	"Shelter",
	"Food and Water",
	"Medical Supplies",
	"Transportation",
	"Volunteers",
	"Clothing",
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting WeHaveWeNeed seeder")

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to migrate schema", zap.Error(err))
	}

	ctx := context.Background()
	repo := db.NewRepository(database.DB)
	categoryRepo := db.NewCategoryRepository(repo)
	postRepo := db.NewPostRepository(repo)

	var firstCategory *models.Category
	freshInstall := true
	for _, name := range starterCategories {
		category := &models.Category{Name: name, Slug: slug.Generate(name)}
		existing, err := categoryRepo.GetBySlug(ctx, category.Slug)
		if err != nil {
			logger.Fatal("Failed to check category", zap.Error(err))
		}
		if existing != nil {
			logger.Info("Category exists", zap.String("name", name))
			freshInstall = false
			if firstCategory == nil {
				firstCategory = existing
			}
			continue
		}
		if err := categoryRepo.Create(ctx, category); err != nil {
			logger.Fatal("Failed to create category", zap.String("name", name), zap.Error(err))
		}
		logger.Info("Created category", zap.String("name", name), zap.String("slug", category.Slug))
		if firstCategory == nil {
			firstCategory = category
		}
	}

	// A pair of demo posts so a fresh install has something to list.
	// Reruns over an existing taxonomy skip them so repeated seeding
	// does not pile up duplicates.
	if !freshInstall {
		logger.Info("Existing taxonomy found, skipping demo posts")
		logger.Info("Seeding complete")
		return
	}

	demo := []*models.Post{
		{
			Title:      "Generator available for pickup",
			Type:       models.TypeHave,
			Priority:   models.PriorityMid,
			Location:   "Port-au-Prince",
			CategoryID: firstCategory.ID,
			Content:    "5kW generator, fueled, ready this week.",
			Number:     1,
			Unit:       "items",
		},
		{
			Title:      "Need drinking water for 200 people",
			Type:       models.TypeNeed,
			Priority:   models.PriorityShort,
			Location:   "Léogâne",
			CategoryID: firstCategory.ID,
			Content:    "Camp of 200 without potable water since Tuesday.",
			Number:     400,
			Unit:       "liters",
			TimeEnd:    sql.NullTime{Time: time.Now().UTC().Add(14 * 24 * time.Hour), Valid: true},
		},
	}
	for _, post := range demo {
		if err := postRepo.Create(ctx, post); err != nil {
			logger.Fatal("Failed to create demo post", zap.Error(err))
		}
		logger.Info("Created demo post", zap.Int64("id", post.ID), zap.String("title", post.Title))
	}

	logger.Info("Seeding complete")
}
