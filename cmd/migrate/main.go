package main

import (
	"log"
	"os"

	"quizgen-be/internal/model"
	"quizgen-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions (things AutoMigrate doesn't do)
	color.White("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	color.White("Step 2: Running AutoMigrate for 7 Tables...")

	models := []interface{}{
		&model.User{},
		&model.Document{},
		&model.DocumentEmbedding{},
		&model.Quiz{},
		&model.Question{},
		&model.MemoryTurn{},
		&model.Checkpoint{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 5. Post-Migration: vector indexes for similarity search
	color.White("Step 3: Creating Vector Indexes...")

	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_document_embeddings_cosine
		 ON document_embeddings USING hnsw (embedding_value vector_cosine_ops);`,
		`CREATE INDEX IF NOT EXISTS idx_memory_turns_cosine
		 ON memory_turns USING hnsw (embedding_value vector_cosine_ops);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	color.Green("✅ Success: Database migration completed successfully via GORM.")
}
