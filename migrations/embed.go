// Package migrations embeds the SQL migration files into the binary so the
// console can initialise its database without any files on disk.
package migrations

import (
	"embed"

	"github.com/fourcorners/opsdesk/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "." // files sit at the root of the embedded FS
}
