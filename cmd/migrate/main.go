package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/nodehive/nodehive/internal/config"
	"github.com/nodehive/nodehive/internal/logger"
)

func main() {
	schemaPath := flag.String("schema", "scripts/schema.sql", "Path to the schema file")
	dryRun := flag.Bool("dry-run", false, "Print schema SQL without executing it")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	schema, err := os.ReadFile(*schemaPath)
	if err != nil {
		logger.Fatalw("Failed to read schema file", "path", *schemaPath, "error", err)
	}

	if *dryRun {
		fmt.Println(string(schema))
		return
	}

	dsn := cfg.Postgres.GetDSN()
	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Running database migrations...")
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		logger.Fatalw("Failed to apply schema", "error", err)
	}

	logger.Info("Migration completed successfully")
}
