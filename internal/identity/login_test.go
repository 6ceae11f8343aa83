package identity

import (
	"context"
	"errors"
	"testing"
)

func TestLogin(t *testing.T) {
	db := testDB(t)
	companies := NewCompanyRepository(db)
	users := NewUserRepository(db)
	auth := NewAuthenticator(users, companies, testLogger())

	company := seedTestCompany(t, db, "Acme Ltda", "12345678901234")
	user := seedTestUser(t, db, company.ID, "jane@acme.example", false)

	t.Run("success updates last login", func(t *testing.T) {
		got, err := auth.Login(context.Background(), "jane@acme.example", "test-password")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("returned user id = %d, want %d", got.ID, user.ID)
		}
		if got.LastLoginAt == nil {
			t.Fatal("LastLoginAt should be set after login")
		}

		// The stamp must be persisted, not only set on the returned value.
		stored, err := users.GetByID(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if stored.LastLoginAt == nil {
			t.Error("last_login_at not persisted")
		}
	})

	t.Run("email lookup is case insensitive", func(t *testing.T) {
		if _, err := auth.Login(context.Background(), "JANE@Acme.Example", "test-password"); err != nil {
			t.Errorf("Login() with mixed-case email error = %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := auth.Login(context.Background(), "nobody@acme.example", "test-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(context.Background(), "jane@acme.example", "not-the-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("inactive account", func(t *testing.T) {
		if _, err := db.Exec("UPDATE users SET is_active = 0 WHERE id = ?", user.ID); err != nil {
			t.Fatalf("deactivating user: %v", err)
		}
		t.Cleanup(func() {
			db.Exec("UPDATE users SET is_active = 1 WHERE id = ?", user.ID) //nolint:errcheck
		})

		_, err := auth.Login(context.Background(), "jane@acme.example", "test-password")
		if !errors.Is(err, ErrAccountInactive) {
			t.Errorf("error = %v, want ErrAccountInactive", err)
		}
	})

	t.Run("inactive company rejects even a correct password", func(t *testing.T) {
		if err := companies.SetActive(context.Background(), company.ID, false); err != nil {
			t.Fatalf("deactivating company: %v", err)
		}
		t.Cleanup(func() {
			companies.SetActive(context.Background(), company.ID, true) //nolint:errcheck
		})

		_, err := auth.Login(context.Background(), "jane@acme.example", "test-password")
		if !errors.Is(err, ErrCompanyInactive) {
			t.Errorf("error = %v, want ErrCompanyInactive", err)
		}
	})

	t.Run("account check runs before password check", func(t *testing.T) {
		if _, err := db.Exec("UPDATE users SET is_active = 0 WHERE id = ?", user.ID); err != nil {
			t.Fatalf("deactivating user: %v", err)
		}
		t.Cleanup(func() {
			db.Exec("UPDATE users SET is_active = 1 WHERE id = ?", user.ID) //nolint:errcheck
		})

		// Wrong password AND inactive account: the activity rejection wins.
		_, err := auth.Login(context.Background(), "jane@acme.example", "wrong")
		if !errors.Is(err, ErrAccountInactive) {
			t.Errorf("error = %v, want ErrAccountInactive", err)
		}
	})
}
