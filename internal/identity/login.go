package identity

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Authenticator runs the login flow.
type Authenticator struct {
	users     UserRepository
	companies CompanyRepository
	log       *slog.Logger
	now       func() time.Time
}

// NewAuthenticator creates an Authenticator over the given repositories.
func NewAuthenticator(users UserRepository, companies CompanyRepository, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		users:     users,
		companies: companies,
		log:       logger,
		now:       time.Now,
	}
}

// Login authenticates an email/password pair and returns the user as the
// session identity. Checks run in a fixed short-circuit order:
//
//  1. lookup by normalized email — ErrInvalidCredentials if absent
//  2. user active flag            — ErrAccountInactive
//  3. company active flag         — ErrCompanyInactive
//  4. password verification       — ErrInvalidCredentials
//
// Unknown email and wrong password share the same error so a caller cannot
// probe which emails exist; the activity rejections are distinguishable on
// purpose, since the operator needs to know who to contact.
//
// On success last_login_at is set and persisted before the user is returned.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	company, err := a.companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	if !company.IsActive {
		return nil, ErrCompanyInactive
	}

	if !VerifyPassword(password, user.PasswordHash) {
		a.log.Warn("failed login attempt", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	at := a.now().UTC().Truncate(time.Second)
	if err := a.users.RecordLogin(ctx, user.ID, at); err != nil {
		return nil, err
	}
	user.LastLoginAt = &at

	a.log.Info("login succeeded", "user_id", user.ID, "company_id", user.CompanyID)
	return user, nil
}
