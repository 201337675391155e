package redbot

import (
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T, store ReportStore) {
	uri := "http://example.com/"

	if _, ok, _ := store.Get(uri); ok {
		t.Fatal("Found a report before storing one")
	}

	if err := store.Put(uri, time.Now(), []byte("report one")); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(uri, time.Now(), []byte("report two")); err != nil {
		t.Fatal(err)
	}

	bytes, ok, err := store.Get(uri)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || string(bytes) != "report two" {
		t.Fatalf("Got %q", bytes)
	}

	count := 0
	store.Keys(func(string) { count++ })
	if count != 1 {
		t.Fatalf("Store has %d keys", count)
	}

	store.Purge(uri)
	if _, ok, _ := store.Get(uri); ok {
		t.Fatal("Report still present after purge")
	}
}

func TestMemStore(t *testing.T) {
	testStore(t, NewMemStore())
}

func TestSQLiteStore(t *testing.T) {
	testStore(t, NewSQLiteStore(filepath.Join(t.TempDir(), "reports.db")))
}
