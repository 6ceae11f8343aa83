package identity

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the identity schema applied.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Temp file rather than :memory: so WAL mode behaves like production.
	f, err := os.CreateTemp("", "identity-test-*.db")
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
		t.Fatalf("applying identity schema: %v", err)
	}

	return db
}

// testLogger returns a logger that swallows output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedTestCompany inserts a company and returns it.
func seedTestCompany(t *testing.T, db *sql.DB, name, taxID string) *Company {
	t.Helper()

	repo := NewCompanyRepository(db)
	company := &Company{
		Name:     name,
		TaxID:    taxID,
		Segment:  SegmentIndustry,
		IsActive: true,
	}
	if err := repo.Create(context.Background(), company); err != nil {
		t.Fatalf("creating test company %s: %v", name, err)
	}
	return company
}

// seedTestUser inserts a user with the password "test-password" and returns it.
func seedTestUser(t *testing.T, db *sql.DB, companyID int64, email string, isAdmin bool) *User {
	t.Helper()

	hash, err := HashPassword("test-password")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	repo := NewUserRepository(db)
	user := &User{
		CompanyID:    companyID,
		Name:         "Test User",
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		IsActive:     true,
		IsAdmin:      isAdmin,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user %s: %v", email, err)
	}
	return user
}

// seedCatalog runs the default permission seeding and returns the catalog.
func seedCatalog(t *testing.T, db *sql.DB) []Permission {
	t.Helper()

	if err := EnsureDefaultPermissions(context.Background(), db, testLogger()); err != nil {
		t.Fatalf("seeding permissions: %v", err)
	}
	perms, err := NewPermissionRepository(db).List(context.Background())
	if err != nil {
		t.Fatalf("listing permissions: %v", err)
	}
	return perms
}
