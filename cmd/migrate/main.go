package main

import (
	"log"
	"os"

	"joslyn-advocacy-be/internal/model"
	"joslyn-advocacy-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM migration...")

	// Extensions first; AutoMigrate cannot create them.
	color.Yellow("Step 1: Setting up extensions...")
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	color.Yellow("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.Child{},
		&model.Document{},
		&model.DocumentSpan{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// The lexical search column and the search indexes live outside GORM's
	// model mapping: search_vector is a stored generated tsvector over the
	// span content, indexed with GIN; the embedding column gets an ivfflat
	// index for approximate nearest neighbour.
	color.Yellow("Step 3: Creating search column and indexes...")
	postMigrationSQL := []string{
		`DO $$ BEGIN
		   IF NOT EXISTS (
		     SELECT 1 FROM information_schema.columns
		     WHERE table_name = 'document_spans' AND column_name = 'search_vector'
		   ) THEN
		     ALTER TABLE document_spans
		       ADD COLUMN search_vector tsvector
		       GENERATED ALWAYS AS (to_tsvector('english', coalesce(content, ''))) STORED;
		   END IF;
		 END $$;`,

		`CREATE INDEX IF NOT EXISTS idx_document_spans_search_vector
		   ON document_spans USING GIN (search_vector);`,

		`CREATE INDEX IF NOT EXISTS idx_document_spans_embedding
		   ON document_spans USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);`,

		`CREATE INDEX IF NOT EXISTS idx_document_spans_document_id
		   ON document_spans (document_id);`,

		`CREATE INDEX IF NOT EXISTS idx_documents_child_id
		   ON documents (child_id);`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	color.Green("Success: Database migration completed.")
}
