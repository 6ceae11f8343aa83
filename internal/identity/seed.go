package identity

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// defaultPermissions is the fixed module catalog seeded at startup.
// Codes are stable identifiers; name and description are operator-facing
// and may be edited afterwards — seeding never touches existing rows.
var defaultPermissions = []Permission{
	{Code: ModuleOperational, Name: "Operational", Description: "Production capacity planning"},
	{Code: ModuleStockIn, Name: "Stock Intake", Description: "Record products entering inventory"},
	{Code: ModuleStockOut, Name: "Stock Output", Description: "Record sales and inventory exits"},
	{Code: ModuleFinancial, Name: "Financial", Description: "Cost and profit analysis"},
	{Code: ModuleHR, Name: "Human Resources", Description: "Payroll processing"},
}

// EnsureDefaultPermissions seeds the permission catalog, inserting only the
// codes that don't exist yet. Safe to call on every process start: running
// it N times leaves exactly the five rows, with any admin edits to names or
// descriptions preserved. All inserts commit in a single transaction.
func EnsureDefaultPermissions(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting seed transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	seeded := 0
	for _, p := range defaultPermissions {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO permissions (code, name, description, is_active)
			SELECT ?, ?, ?, 1
			WHERE NOT EXISTS (SELECT 1 FROM permissions WHERE code = ?)`,
			p.Code, p.Name, p.Description, p.Code,
		)
		if err != nil {
			return fmt.Errorf("seeding permission %s: %w", p.Code, err)
		}
		if n, _ := result.RowsAffected(); n > 0 { //nolint:errcheck // always succeeds on SQLite
			seeded++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing permission seed: %w", err)
	}

	if seeded > 0 {
		logger.Info("permission catalog seeded", "created", seeded)
	} else {
		logger.Debug("permission catalog already present")
	}
	return nil
}
