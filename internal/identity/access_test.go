package identity

import (
	"context"
	"testing"
)

func allModuleCodes() []string {
	return []string{ModuleOperational, ModuleStockIn, ModuleStockOut, ModuleFinancial, ModuleHR}
}

func TestHasAccess_AdminBypassesGrants(t *testing.T) {
	db := testDB(t)
	seedCatalog(t, db)
	company := seedTestCompany(t, db, "Acme Ltda", "12345678901234")
	admin := seedTestUser(t, db, company.ID, "admin@acme.example", true)

	checker := NewAccessChecker(NewPermissionRepository(db))

	for _, code := range allModuleCodes() {
		ok, err := checker.HasAccess(context.Background(), admin, code)
		if err != nil {
			t.Fatalf("HasAccess(%s) error = %v", code, err)
		}
		if !ok {
			t.Errorf("admin denied %s despite empty grant set", code)
		}
	}
}

func TestHasAccess_EmptyGrantSetDeniesEverything(t *testing.T) {
	db := testDB(t)
	seedCatalog(t, db)
	company := seedTestCompany(t, db, "Acme Ltda", "12345678901234")
	user := seedTestUser(t, db, company.ID, "jane@acme.example", false)

	checker := NewAccessChecker(NewPermissionRepository(db))

	for _, code := range allModuleCodes() {
		ok, err := checker.HasAccess(context.Background(), user, code)
		if err != nil {
			t.Fatalf("HasAccess(%s) error = %v", code, err)
		}
		if ok {
			t.Errorf("user with no grants allowed into %s", code)
		}
	}
}

func TestHasAccess_GrantedCode(t *testing.T) {
	db := testDB(t)
	perms := NewPermissionRepository(db)
	seedCatalog(t, db)
	company := seedTestCompany(t, db, "Acme Ltda", "12345678901234")
	user := seedTestUser(t, db, company.ID, "jane@acme.example", false)

	financial, err := perms.GetByCode(context.Background(), ModuleFinancial)
	if err != nil {
		t.Fatalf("GetByCode() error = %v", err)
	}
	if err := perms.ReplaceGrants(context.Background(), user.ID, []int64{financial.ID}); err != nil {
		t.Fatalf("ReplaceGrants() error = %v", err)
	}

	checker := NewAccessChecker(perms)

	ok, err := checker.HasAccess(context.Background(), user, ModuleFinancial)
	if err != nil {
		t.Fatalf("HasAccess() error = %v", err)
	}
	if !ok {
		t.Error("granted module should be accessible")
	}

	ok, err = checker.HasAccess(context.Background(), user, ModuleHR)
	if err != nil {
		t.Fatalf("HasAccess() error = %v", err)
	}
	if ok {
		t.Error("ungranted module should be denied")
	}
}

func TestHasAccess_InactivePermissionDenies(t *testing.T) {
	db := testDB(t)
	perms := NewPermissionRepository(db)
	seedCatalog(t, db)
	company := seedTestCompany(t, db, "Acme Ltda", "12345678901234")
	user := seedTestUser(t, db, company.ID, "jane@acme.example", false)

	hr, err := perms.GetByCode(context.Background(), ModuleHR)
	if err != nil {
		t.Fatalf("GetByCode() error = %v", err)
	}
	if err := perms.ReplaceGrants(context.Background(), user.ID, []int64{hr.ID}); err != nil {
		t.Fatalf("ReplaceGrants() error = %v", err)
	}

	// Retiring the permission revokes access without touching the grant rows.
	if _, err := db.Exec("UPDATE permissions SET is_active = 0 WHERE id = ?", hr.ID); err != nil {
		t.Fatalf("deactivating permission: %v", err)
	}

	ok, err := NewAccessChecker(perms).HasAccess(context.Background(), user, ModuleHR)
	if err != nil {
		t.Fatalf("HasAccess() error = %v", err)
	}
	if ok {
		t.Error("grant on an inactive permission must not allow access")
	}
}

func TestHasAccess_NilUser(t *testing.T) {
	db := testDB(t)
	checker := NewAccessChecker(NewPermissionRepository(db))

	ok, err := checker.HasAccess(context.Background(), nil, ModuleOperational)
	if err != nil {
		t.Fatalf("HasAccess() error = %v", err)
	}
	if ok {
		t.Error("nil user must never have access")
	}
}
