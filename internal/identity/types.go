package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation limits for registration input.
const (
	minNameLength     = 3
	minPasswordLength = 6
	taxIDLength       = 14
)

// Segment classifies a company's line of business.
type Segment string

const (
	SegmentIndustry    Segment = "Industry"
	SegmentCommerce    Segment = "Commerce"
	SegmentServices    Segment = "Services"
	SegmentLogistics   Segment = "Logistics"
	SegmentOther       Segment = "Other"
	SegmentUnspecified Segment = "Unspecified"
)

// Segments lists the segments offered at company registration,
// in menu order. SegmentUnspecified is the fallback, never offered.
var Segments = []Segment{
	SegmentIndustry,
	SegmentCommerce,
	SegmentServices,
	SegmentLogistics,
	SegmentOther,
}

// Valid reports whether s is an offered segment or the fallback.
func (s Segment) Valid() bool {
	if s == SegmentUnspecified {
		return true
	}
	for _, seg := range Segments {
		if s == seg {
			return true
		}
	}
	return false
}

// Module codes for the five permission-gated console modules.
// These are the stable identifiers in the permissions catalog.
const (
	ModuleOperational = "operational"
	ModuleStockIn     = "stock_in"
	ModuleStockOut    = "stock_out"
	ModuleFinancial   = "financial"
	ModuleHR          = "hr"
)

// Company is a tenant: an organization owning a set of users.
// Deactivating a company does not cascade to its users, but login re-checks
// the company's active flag on every attempt.
type Company struct {
	ID        int64
	Name      string
	TaxID     string // exactly 14 digits, unique
	Segment   Segment
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User is an account that can log into the console. Users are never hard
// deleted; deactivation (IsActive=false) is the deletion substitute.
type User struct {
	ID           int64
	CompanyID    int64
	Name         string
	Email        string // unique system-wide, stored lowercased
	PasswordHash string
	IsActive     bool
	IsAdmin      bool
	LastLoginAt  *time.Time // nil until the first successful login
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Permission is a catalog-defined capability gating one console module.
// Its lifecycle is independent of the users referencing it.
type Permission struct {
	ID          int64
	Code        string // unique stable identifier, e.g. "operational"
	Name        string
	Description string
	IsActive    bool
}

// ValidationError reports malformed registration or selector input.
// Always recoverable: the operation aborts with no side effects.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Sentinel errors for identity operations.
var (
	// Conflicts (uniqueness violations).
	ErrTaxIDExists = errors.New("a company with this tax id is already registered")
	ErrEmailExists = errors.New("a user with this email already exists")

	// Missing references.
	ErrCompanyNotFound    = errors.New("company not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrPermissionNotFound = errors.New("permission not found")

	// Registration against a deactivated tenant.
	ErrCompanyNotActive = errors.New("company is not active")

	// Login rejections. Credential failures share one generic message to
	// avoid user enumeration; activity checks are deliberately distinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrCompanyInactive    = errors.New("company inactive")
)

// NormalizeEmail lowercases and trims an email address. All lookups and
// stored values go through this so case never splits identities.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail applies the minimal structural check used at registration.
func IsValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// IsValidTaxID reports whether the tax id is exactly 14 digits.
func IsValidTaxID(taxID string) bool {
	if len(taxID) != taxIDLength {
		return false
	}
	for _, r := range taxID {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
