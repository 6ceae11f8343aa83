package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PermissionRepository defines the interface for the permission catalog and
// the user-permission grant relation.
type PermissionRepository interface {
	GetByCode(ctx context.Context, code string) (*Permission, error)
	ListActive(ctx context.Context) ([]Permission, error)
	List(ctx context.Context) ([]Permission, error)
	GrantsForUser(ctx context.Context, userID int64) ([]Permission, error)
	ReplaceGrants(ctx context.Context, userID int64, permissionIDs []int64) error
	UserHasActive(ctx context.Context, userID int64, code string) (bool, error)
}

// SQLitePermissionRepository implements PermissionRepository using SQLite.
type SQLitePermissionRepository struct {
	db *sql.DB
}

// NewPermissionRepository creates a new SQLite-backed permission repository.
func NewPermissionRepository(db *sql.DB) *SQLitePermissionRepository {
	return &SQLitePermissionRepository{db: db}
}

const permissionColumns = "id, code, name, description, is_active"

// GetByCode retrieves a permission by its stable code.
func (r *SQLitePermissionRepository) GetByCode(ctx context.Context, code string) (*Permission, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+permissionColumns+" FROM permissions WHERE code = ?", code)
	return scanPermissionFrom(row)
}

// ListActive returns all active catalog permissions ordered by id.
// This is the set "all" resolves to when replacing a user's grants.
func (r *SQLitePermissionRepository) ListActive(ctx context.Context) ([]Permission, error) {
	return r.query(ctx,
		"SELECT "+permissionColumns+" FROM permissions WHERE is_active = 1 ORDER BY id ASC")
}

// List returns the whole catalog, active or not, ordered by id.
func (r *SQLitePermissionRepository) List(ctx context.Context) ([]Permission, error) {
	return r.query(ctx,
		"SELECT "+permissionColumns+" FROM permissions ORDER BY id ASC")
}

// GrantsForUser returns the permissions currently granted to a user,
// including inactive ones (they show up in listings but never grant access).
func (r *SQLitePermissionRepository) GrantsForUser(ctx context.Context, userID int64) ([]Permission, error) {
	return r.query(ctx, `
		SELECT p.id, p.code, p.name, p.description, p.is_active
		FROM permissions p
		JOIN user_permissions up ON up.permission_id = p.id
		WHERE up.user_id = ?
		ORDER BY p.id ASC`, userID)
}

// ReplaceGrants swaps a user's entire grant set for the given permission ids
// in one transaction. Ids that don't exist in the catalog are skipped
// silently: bulk selector input is forgiving by contract. Any failure rolls
// the whole replacement back, leaving the previous grants untouched.
func (r *SQLitePermissionRepository) ReplaceGrants(ctx context.Context, userID int64, permissionIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting grant transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM user_permissions WHERE user_id = ?", userID,
	); err != nil {
		return fmt.Errorf("clearing grants: %w", err)
	}

	now := formatTime(time.Now().UTC())
	for _, id := range permissionIDs {
		// The SELECT filters unknown ids out; INSERT OR IGNORE tolerates
		// duplicates in the input.
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO user_permissions (user_id, permission_id, created_at)
			SELECT ?, id, ? FROM permissions WHERE id = ?`,
			userID, now, id,
		); err != nil {
			return fmt.Errorf("granting permission %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing grants: %w", err)
	}
	return nil
}

// UserHasActive reports whether the user holds a grant for the given code
// whose permission is still active. No caching: grants can change between
// checks within a session, so every call hits the store.
func (r *SQLitePermissionRepository) UserHasActive(ctx context.Context, userID int64, code string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1
		FROM user_permissions up
		JOIN permissions p ON p.id = up.permission_id
		WHERE up.user_id = ? AND p.code = ? AND p.is_active = 1`,
		userID, code,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking grant: %w", err)
	}
	return true, nil
}

func (r *SQLitePermissionRepository) query(ctx context.Context, q string, args ...any) ([]Permission, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying permissions: %w", err)
	}
	defer rows.Close()

	var perms []Permission
	for rows.Next() {
		p, err := scanPermissionFrom(rows)
		if err != nil {
			return nil, err
		}
		perms = append(perms, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating permissions: %w", err)
	}
	return perms, nil
}

func scanPermissionFrom(s scanner) (*Permission, error) {
	var p Permission
	var isActive int

	err := s.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &isActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("scanning permission: %w", err)
	}

	p.IsActive = isActive != 0
	return &p, nil
}
