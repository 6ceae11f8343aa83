package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CompanyRepository defines the interface for company persistence.
type CompanyRepository interface {
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id int64) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// SQLiteCompanyRepository implements CompanyRepository using SQLite.
type SQLiteCompanyRepository struct {
	db *sql.DB
}

// NewCompanyRepository creates a new SQLite-backed company repository.
func NewCompanyRepository(db *sql.DB) *SQLiteCompanyRepository {
	return &SQLiteCompanyRepository{db: db}
}

const companyColumns = "id, name, tax_id, segment, is_active, created_at, updated_at"

// Create inserts a new company and fills in the generated ID.
// A duplicate tax id surfaces as ErrTaxIDExists via the unique index.
func (r *SQLiteCompanyRepository) Create(ctx context.Context, company *Company) error {
	now := time.Now().UTC().Truncate(time.Second)
	company.CreatedAt = now
	company.UpdatedAt = now

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO companies (name, tax_id, segment, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		company.Name, company.TaxID, string(company.Segment),
		boolToInt(company.IsActive), formatTime(now), formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTaxIDExists
		}
		return fmt.Errorf("creating company: %w", err)
	}

	company.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading new company id: %w", err)
	}
	return nil
}

// GetByID retrieves a company by its unique ID.
func (r *SQLiteCompanyRepository) GetByID(ctx context.Context, id int64) (*Company, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE id = ?", id)
	return scanCompanyFrom(row)
}

// List returns all companies ordered by name.
func (r *SQLiteCompanyRepository) List(ctx context.Context) ([]Company, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+companyColumns+" FROM companies ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c, err := scanCompanyFrom(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating companies: %w", err)
	}
	return companies, nil
}

// SetActive toggles a company's active flag. Login re-checks this flag on
// every attempt, so deactivating a company locks its users out without
// touching their accounts.
func (r *SQLiteCompanyRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE companies SET is_active = ?, updated_at = ? WHERE id = ?",
		boolToInt(active), formatTime(time.Now().UTC()), id,
	)
	if err != nil {
		return fmt.Errorf("updating company: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

func scanCompanyFrom(s scanner) (*Company, error) {
	var c Company
	var segment string
	var isActive int
	var createdAt, updatedAt string

	err := s.Scan(&c.ID, &c.Name, &c.TaxID, &segment, &isActive, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("scanning company: %w", err)
	}

	c.Segment = Segment(segment)
	c.IsActive = isActive != 0
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)

	return &c, nil
}
