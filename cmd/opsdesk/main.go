// OpsDesk - terminal-driven business management console.
//
// OpsDesk is a single-binary, local-first system: one SQLite file, no
// network surface. It provides authenticated, permission-gated access to
// the five business modules (operations, stock in/out, finance, HR) plus
// the company/user administration screens.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/fourcorners/opsdesk/migrations"

	"github.com/fourcorners/opsdesk/internal/console"
	"github.com/fourcorners/opsdesk/internal/identity"
	"github.com/fourcorners/opsdesk/internal/infrastructure/config"
	"github.com/fourcorners/opsdesk/internal/infrastructure/database"
	"github.com/fourcorners/opsdesk/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting OpsDesk",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := loadConfig(log)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations complete")

	if err := identity.EnsureDefaultPermissions(ctx, db.DB, log.Logger); err != nil {
		return fmt.Errorf("seeding permission catalog: %w", err)
	}

	companies := identity.NewCompanyRepository(db.DB)
	users := identity.NewUserRepository(db.DB)
	perms := identity.NewPermissionRepository(db.DB)

	ui := console.New(os.Stdin, os.Stdout, console.Deps{
		AppName:   cfg.App.Name,
		Logger:    log.Logger,
		Registrar: identity.NewRegistrar(companies, users, log.Logger),
		Auth:      identity.NewAuthenticator(users, companies, log.Logger),
		Access:    identity.NewAccessChecker(perms),
		Grants:    identity.NewGrantService(users, perms, log.Logger),
		Companies: companies,
		Users:     users,
		Perms:     perms,
	})

	log.Info("console ready")
	if err := ui.Run(ctx); err != nil {
		return fmt.Errorf("console: %w", err)
	}

	log.Info("OpsDesk stopped")
	return nil
}

// loadConfig resolves the configuration file. The OPSDESK_CONFIG environment
// variable overrides the default path; a missing file at the default path is
// a first run and falls back to built-in defaults.
func loadConfig(log *logging.Logger) (*config.Config, error) {
	path := os.Getenv("OPSDESK_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			log.Info("no config file found, using defaults", "path", path)
			return config.Default(), nil
		}
		return nil, err
	}

	log.Info("configuration loaded", "path", path)
	return cfg, nil
}
