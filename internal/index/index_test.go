package index

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "linkwise-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func upsert(t *testing.T, db *DB, path, stem string, links ...string) {
	t.Helper()
	row := NoteRow{Path: path, Stem: stem, Checksum: "cs-" + path, UpdatedAt: time.Now()}
	if err := db.UpsertNote(row, "body of "+path, links); err != nil {
		t.Fatalf("UpsertNote(%s): %v", path, err)
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM links`).Scan(&count); err != nil {
		t.Fatalf("links table missing: %v", err)
	}
}

func TestUniqueStems(t *testing.T) {
	db := testDB(t)
	// Two documents share stem A, one holds stem B.
	upsert(t, db, "A.md", "A")
	upsert(t, db, "folder/A.md", "A")
	upsert(t, db, "B.md", "B")

	unique, err := db.UniqueStems()
	if err != nil {
		t.Fatalf("UniqueStems: %v", err)
	}
	if len(unique) != 1 {
		t.Fatalf("unique = %v, want exactly {B}", unique)
	}
	if _, ok := unique["B"]; !ok {
		t.Errorf("unique = %v, want B present", unique)
	}
}

func TestUniqueStems_DuplicateRemovedRestoresUniqueness(t *testing.T) {
	db := testDB(t)
	upsert(t, db, "A.md", "A")
	upsert(t, db, "folder/A.md", "A")

	if err := db.DeleteNote("folder/A.md"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	unique, err := db.UniqueStems()
	if err != nil {
		t.Fatalf("UniqueStems: %v", err)
	}
	if _, ok := unique["A"]; !ok {
		t.Errorf("A should be unique after duplicate removal, got %v", unique)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := NoteRow{Path: "hello.md", Stem: "hello", Title: "Hello World", Checksum: "abc123", UpdatedAt: time.Now()}
	if err := db.UpsertNote(row, "This note links to [[other]].", []string{"other"}); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	cs, err := db.GetChecksum("hello.md")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestBacklinks(t *testing.T) {
	db := testDB(t)
	upsert(t, db, "a.md", "a", "b")
	upsert(t, db, "c.md", "c", "b")

	bl, err := db.Backlinks("b")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 2 {
		t.Fatalf("expected 2 backlinks, got %d", len(bl))
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	upsert(t, db, "del.md", "del", "target")

	if err := db.DeleteNote("del.md"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	cs, _ := db.GetChecksum("del.md")
	if cs != "" {
		t.Errorf("deleted note still has checksum %q", cs)
	}
	bl, _ := db.Backlinks("target")
	if len(bl) != 0 {
		t.Errorf("expected 0 backlinks after delete, got %d", len(bl))
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "up.md", Stem: "up", Title: "Old", Checksum: "1", UpdatedAt: now}, "old body", []string{"x"})
	_ = db.UpsertNote(NoteRow{Path: "up.md", Stem: "up", Title: "New", Checksum: "2", UpdatedAt: now}, "new body", []string{"y"})

	cs, _ := db.GetChecksum("up.md")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	bl, _ := db.Backlinks("x")
	if len(bl) != 0 {
		t.Error("old link should be removed on upsert")
	}
	bl, _ = db.Backlinks("y")
	if len(bl) != 1 {
		t.Error("new link should exist")
	}
}

func TestListNotes(t *testing.T) {
	db := testDB(t)
	upsert(t, db, "a.md", "a")
	upsert(t, db, "b.md", "b")

	rows, total, err := db.ListNotes(10, 0)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Errorf("total = %d, len = %d, want 2/2", total, len(rows))
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "s.md", Stem: "s", Title: "Search Me", Checksum: "1", UpdatedAt: time.Now()}, "uniqueword appears here", nil)

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.md" {
		t.Errorf("search results = %+v, want 1 hit for s.md", results)
	}
}
