package headermeta

import (
	"database/sql"
	"strings"

	_ "github.com/glebarez/go-sqlite"
)

// SQLiteRegistry reads header descriptions from a database, falling back
// to another registry for headers not present there. It lets deployments
// extend or override the builtin table without recompiling.
type SQLiteRegistry struct {
	db       *sql.DB
	fallback Registry
}

// NewSQLiteRegistry opens (and if needed initializes) the database at path.
// Headers not found in the database are resolved via fallback, which may
// be nil.
func NewSQLiteRegistry(path string, fallback Registry) (*SQLiteRegistry, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec("CREATE TABLE IF NOT EXISTS headers (name TEXT PRIMARY KEY, description TEXT)")
	if err != nil {
		return nil, err
	}
	return &SQLiteRegistry{db: db, fallback: fallback}, nil
}

// Add inserts or replaces the description for one header.
func (r *SQLiteRegistry) Add(d Description) error {
	_, err := r.db.Exec("INSERT OR REPLACE INTO headers (name, description) VALUES (?, ?)",
		strings.ToLower(d.Name), d.Description)
	return err
}

// Describe implements Registry.
func (r *SQLiteRegistry) Describe(name string) (Description, bool) {
	var desc string
	err := r.db.QueryRow("SELECT description FROM headers WHERE name = ?",
		strings.ToLower(name)).Scan(&desc)
	if err != nil {
		if r.fallback != nil {
			return r.fallback.Describe(name)
		}
		return Description{}, false
	}
	return Description{Name: name, Description: desc}, true
}

// Close closes the underlying database.
func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}
