package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/spf-lend/backend/internal/infrastructure/config"
	"github.com/spf-lend/backend/internal/infrastructure/logger"
	"github.com/spf-lend/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath = flag.String("path", defaultMigrationsPath, "path to migrations directory")
		command        = flag.String("command", "up", "migration command: up, down, version, force, create")
		steps          = flag.Int("steps", 0, "number of steps for down (0 = one step)")
		name           = flag.String("name", "", "name for new migration (create)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	absPath, err := filepath.Abs(*migrationsPath)
	if err != nil {
		log.Fatal("Invalid migrations path", zap.Error(err))
	}

	if *command == "create" {
		if *name == "" {
			log.Fatal("create requires -name")
		}
		file, err := migration.CreateMigration(absPath, *name)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("up", file.UpPath),
			zap.String("down", file.DownPath))
		return
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, absPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close() //nolint:errcheck

	switch *command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}
	case "down":
		n := *steps
		if n <= 0 {
			n = 1
		}
		if err := m.Steps(-n); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to read version", zap.Error(err))
		}
		log.Info("Migration version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty))
	case "force":
		if flag.NArg() < 1 {
			log.Fatal("force requires a version argument")
		}
		v, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			log.Fatal("Invalid version", zap.Error(err))
		}
		if err := m.Force(v); err != nil {
			log.Fatal("Force failed", zap.Error(err))
		}
	default:
		log.Fatal("Unknown command", zap.String("command", *command))
	}
}
