package redbot

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// ReportStore is an interface for report persistence.
// It stores and retrieves []byte values, which represent encoded reports,
// keyed by the analyzed URI.
//
// Implementations must be thread-safe!
type ReportStore interface {
	// Get returns the stored report for the given URI, if one exists,
	// along with a boolean indicating whether retrieval was successful.
	Get(uri string) ([]byte, bool, error)
	// Put stores the given report under the given URI, replacing any
	// previous one, and records when the analysis ran.
	Put(uri string, created time.Time, bytes []byte) error
	// Keys calls the given callback for each stored URI.
	Keys(cb func(uri string))
	// Purge removes the stored report for the given URI.
	Purge(uri string)
}

type memStoreEntry struct {
	created time.Time
	bytes   []byte
}

// MemStore keeps reports in memory. Useful for tests and one-shot runs.
type MemStore struct {
	mutex *sync.RWMutex
	db    map[string]memStoreEntry
}

func NewMemStore() MemStore {
	return MemStore{
		mutex: &sync.RWMutex{},
		db:    make(map[string]memStoreEntry),
	}
}

func (m MemStore) Get(uri string) ([]byte, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	entry, ok := m.db[uri]
	if !ok {
		return nil, false, nil
	}
	return entry.bytes, true, nil
}

func (m MemStore) Put(uri string, created time.Time, bytes []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.db[uri] = memStoreEntry{created, bytes}
	return nil
}

func (m MemStore) Keys(cb func(string)) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for uri := range m.db {
		cb(uri)
	}
}

func (m MemStore) Purge(uri string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.db, uri)
}

// SQLiteStore persists reports in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) SQLiteStore {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		panic(err)
	}
	_, err = db.Exec("CREATE TABLE IF NOT EXISTS reports (uri TEXT PRIMARY KEY, created INTEGER, bytes BLOB)")
	if err != nil {
		panic(err)
	}
	return SQLiteStore{
		db: db,
	}
}

func (s SQLiteStore) Get(uri string) ([]byte, bool, error) {
	var bytes []byte
	err := s.db.QueryRow("SELECT bytes FROM reports WHERE uri = ?", uri).Scan(&bytes)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return bytes, true, nil
}

func (s SQLiteStore) Put(uri string, created time.Time, bytes []byte) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO reports (uri, created, bytes) VALUES (?, ?, ?)",
		uri, created.Unix(), bytes)
	return err
}

func (s SQLiteStore) Keys(cb func(string)) {
	rows, err := s.db.Query("SELECT uri FROM reports ORDER BY created DESC")
	if err != nil {
		return
	}
	defer rows.Close()
	for rows.Next() {
		var uri string
		if rows.Scan(&uri) == nil {
			cb(uri)
		}
	}
}

func (s SQLiteStore) Purge(uri string) {
	_, err := s.db.Exec("DELETE FROM reports WHERE uri = ?", uri)
	if err != nil {
		panic(err)
	}
}
