// Command migrate applies or inspects the database schema. Production servers
// never auto-migrate, so deployments run this first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/middleware"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	_ = godotenv.Load() // load .env if present

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)

	dialector, err := database.Dialector(cfg)
	if err != nil {
		return err
	}
	db, err := database.Open(dialector, middleware.Logger, logger.Warn)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db.WithContext(ctx)); err != nil {
			return err
		}
		log.Println("schema migrated")
	case "status":
		status, err := database.GetSchemaStatus(ctx, db)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("driver=%s pending=%t", status.Driver, status.Pending())
		for _, t := range status.Tables {
			switch {
			case !t.Exists:
				log.Printf("missing table: %s", t.Table)
			case len(t.MissingColumns) > 0:
				log.Printf("table %s missing columns: %s", t.Table, strings.Join(t.MissingColumns, ", "))
			}
		}
		if status.Pending() {
			os.Exit(2)
		}
	default:
		return usage()
	}
	return nil
}
