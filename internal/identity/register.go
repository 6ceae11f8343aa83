package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// Registrar handles company and user registration.
type Registrar struct {
	companies CompanyRepository
	users     UserRepository
	log       *slog.Logger
}

// NewRegistrar creates a Registrar over the given repositories.
func NewRegistrar(companies CompanyRepository, users UserRepository, logger *slog.Logger) *Registrar {
	return &Registrar{companies: companies, users: users, log: logger}
}

// RegisterCompany validates and creates a new company.
// The company starts active. Unknown segments fall back to Unspecified
// rather than failing: the segment is descriptive, not structural.
func (r *Registrar) RegisterCompany(ctx context.Context, name, taxID string, segment Segment) (*Company, error) {
	if utf8.RuneCountInString(name) < minNameLength {
		return nil, validationErr("name", fmt.Sprintf("must be at least %d characters", minNameLength))
	}
	if !IsValidTaxID(taxID) {
		return nil, validationErr("tax id", fmt.Sprintf("must be exactly %d digits", taxIDLength))
	}
	if !segment.Valid() {
		segment = SegmentUnspecified
	}

	company := &Company{
		Name:     name,
		TaxID:    taxID,
		Segment:  segment,
		IsActive: true,
	}
	if err := r.companies.Create(ctx, company); err != nil {
		return nil, err
	}

	r.log.Info("company registered", "id", company.ID, "name", company.Name)
	return company, nil
}

// NewUserInput carries the registration prompt fields.
type NewUserInput struct {
	CompanyID       int64
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	IsAdmin         bool
}

// RegisterUser validates and creates a new user under an existing active
// company. Only the bcrypt hash of the password is ever stored.
func (r *Registrar) RegisterUser(ctx context.Context, in NewUserInput) (*User, error) {
	if utf8.RuneCountInString(in.Name) < minNameLength {
		return nil, validationErr("name", fmt.Sprintf("must be at least %d characters", minNameLength))
	}

	email := NormalizeEmail(in.Email)
	if !IsValidEmail(email) {
		return nil, validationErr("email", "must contain '@' and '.'")
	}
	if len(in.Password) < minPasswordLength {
		return nil, validationErr("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if in.Password != in.ConfirmPassword {
		return nil, validationErr("password", "confirmation does not match")
	}

	company, err := r.companies.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if !company.IsActive {
		return nil, ErrCompanyNotActive
	}

	// Check-then-insert: the duplicate check gives a clean error up front,
	// and the unique index on email closes the race behind it.
	if _, err := r.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		CompanyID:    company.ID,
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		IsAdmin:      in.IsAdmin,
	}
	if err := r.users.Create(ctx, user); err != nil {
		return nil, err
	}

	r.log.Info("user registered",
		"id", user.ID,
		"company_id", user.CompanyID,
		"admin", user.IsAdmin,
	)
	return user, nil
}
