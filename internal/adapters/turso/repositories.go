package turso

import (
	"database/sql"

	"github.com/emiliopalmerini/exportview/internal/ports"
)

// Repositories holds all turso repository implementations as port interfaces.
type Repositories struct {
	Preferences ports.PreferenceRepository
	History     ports.ImportHistoryRepository
}

// NewRepositories creates all turso repository implementations from a database connection.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Preferences: NewPreferenceRepository(db),
		History:     NewImportHistoryRepository(db),
	}
}
