package auth

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the users-table schema migrations so host
// applications can apply them with their own migration runner. Paths are
// rooted at data/sql/migrations, up and down scripts side by side.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
