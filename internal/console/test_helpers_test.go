package console

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fourcorners/opsdesk/internal/identity"
)

// consoleDB creates a temporary SQLite database with the identity schema
// and the default permissions catalog.
func consoleDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "console-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE companies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			tax_id TEXT NOT NULL,
			segment TEXT NOT NULL DEFAULT 'Unspecified',
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;

		CREATE UNIQUE INDEX idx_companies_tax_id ON companies(tax_id);

		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			company_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			is_admin INTEGER NOT NULL DEFAULT 0,
			last_login_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (company_id) REFERENCES companies(id)
		) STRICT;

		CREATE UNIQUE INDEX idx_users_email ON users(email);

		CREATE TABLE permissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_active INTEGER NOT NULL DEFAULT 1
		) STRICT;

		CREATE UNIQUE INDEX idx_permissions_code ON permissions(code);

		CREATE TABLE user_permissions (
			user_id INTEGER NOT NULL,
			permission_id INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (user_id, permission_id),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (permission_id) REFERENCES permissions(id) ON DELETE CASCADE
		) STRICT;
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("applying schema: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := identity.EnsureDefaultPermissions(context.Background(), db, logger); err != nil {
		t.Fatalf("seeding permissions: %v", err)
	}

	return db
}

// testDiscardLogger returns a logger that swallows output.
func testDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestConsole builds a Console over the given database, reading from the
// scripted input and capturing output.
func newTestConsole(t *testing.T, db *sql.DB, script io.Reader) (*Console, *bytes.Buffer) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	companies := identity.NewCompanyRepository(db)
	users := identity.NewUserRepository(db)
	perms := identity.NewPermissionRepository(db)

	var out bytes.Buffer
	c := New(script, &out, Deps{
		AppName:   "OpsDesk",
		Logger:    logger,
		Registrar: identity.NewRegistrar(companies, users, logger),
		Auth:      identity.NewAuthenticator(users, companies, logger),
		Access:    identity.NewAccessChecker(perms),
		Grants:    identity.NewGrantService(users, perms, logger),
		Companies: companies,
		Users:     users,
		Perms:     perms,
	})
	return c, &out
}
