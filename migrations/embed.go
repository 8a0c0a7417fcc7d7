// Package migrations embeds the SQL migration files into the binary so
// handlerhub can migrate without the files present on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/handlerhub/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
