package rewrite

import (
	"log/slog"
	"os"
	"testing"

	"github.com/nordlund/linkwise/internal/settings"
	"github.com/nordlund/linkwise/internal/storage"
)

// stemSet is a fixed NameSource for tests.
type stemSet map[string]struct{}

func (s stemSet) UniqueStems() (map[string]struct{}, error) { return s, nil }

func stems(names ...string) stemSet {
	s := make(stemSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func optimizeOn() settings.Settings {
	return settings.Defaults()
}

func optimizeOff() settings.Settings {
	cfg := settings.Defaults()
	cfg.OptimizeWhenAliasMatchesNoteName = false
	return cfg
}

func TestApply_BareUniqueLinkUnchanged(t *testing.T) {
	got := Apply("See [[Note]].", stems("Note"), optimizeOn())
	if got != "See [[Note]]." {
		t.Errorf("got %q", got)
	}
}

func TestApply_FolderQualifiedWithMatchingAlias(t *testing.T) {
	got := Apply("See [[Folder/Note|Note]].", stems("Note"), optimizeOn())
	if got != "See [[Note]]." {
		t.Errorf("got %q, want [[Note]]", got)
	}
}

func TestApply_CustomAliasPreserved(t *testing.T) {
	got := Apply("See [[Folder/Note|Custom]].", stems("Note"), optimizeOn())
	if got != "See [[Note|Custom]]." {
		t.Errorf("got %q, want [[Note|Custom]]", got)
	}
}

func TestApply_AmbiguousNameUntouched(t *testing.T) {
	// "Note" is held by two documents, so it never appears in the unique set.
	got := Apply("See [[Folder/Note]].", stems("Other"), optimizeOn())
	if got != "See [[Folder/Note]]." {
		t.Errorf("got %q, want unchanged", got)
	}
}

func TestApply_EmptyAliasCollapsed(t *testing.T) {
	got := Apply("[[Folder/Note|]]", stems("Note"), optimizeOn())
	if got != "[[Note]]" {
		t.Errorf("got %q, want [[Note]]", got)
	}
}

func TestApply_OptimizeDisabledKeepsAliasLiterally(t *testing.T) {
	got := Apply("[[Folder/Note|Note]] and [[Folder/Note|]]", stems("Note"), optimizeOff())
	if got != "[[Note|Note]] and [[Note|]]" {
		t.Errorf("got %q", got)
	}
}

func TestApply_OptimizeDisabledStillDropsFolder(t *testing.T) {
	got := Apply("[[Folder/Note]]", stems("Note"), optimizeOff())
	if got != "[[Note]]" {
		t.Errorf("got %q, want [[Note]]", got)
	}
}

func TestApply_AllOccurrencesReplaced(t *testing.T) {
	got := Apply("[[F/N|N]] middle [[F/N|N]]", stems("N"), optimizeOn())
	if got != "[[N]] middle [[N]]" {
		t.Errorf("got %q", got)
	}
}

func TestApply_Idempotent(t *testing.T) {
	unique := stems("Note", "Other")
	cfg := optimizeOn()
	input := "[[Folder/Note|Note]] plus [[a/b/Other|Custom]] plus [[Dup/Shared]]"
	once := Apply(input, unique, cfg)
	twice := Apply(once, unique, cfg)
	if once != twice {
		t.Errorf("not idempotent:\nonce  = %q\ntwice = %q", once, twice)
	}
}

func testRewriter(t *testing.T, names NameSource) (*Rewriter, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	st, err := settings.Load(dir + "/settings.yaml")
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(store, names, st, logger), store
}

func TestDocument_WritesOnlyOnChange(t *testing.T) {
	rw, store := testRewriter(t, stems("Note"))
	_ = store.Write("a.md", []byte("see [[Folder/Note|Note]]"))

	changed, err := rw.Document("a.md")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if !changed {
		t.Fatal("expected a write")
	}
	got, _ := store.Read("a.md")
	if string(got) != "see [[Note]]" {
		t.Errorf("content = %q", got)
	}

	// Second pass is a no-op.
	changed, err = rw.Document("a.md")
	if err != nil {
		t.Fatalf("Document (second pass): %v", err)
	}
	if changed {
		t.Error("second pass should not write")
	}
}

func TestDocument_NoLinksNoWrite(t *testing.T) {
	rw, store := testRewriter(t, stems("Note"))
	_ = store.Write("plain.md", []byte("no brackets here"))

	changed, err := rw.Document("plain.md")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if changed {
		t.Error("document without links must not be written")
	}
}

func TestDocument_ReadErrorPropagates(t *testing.T) {
	rw, _ := testRewriter(t, stems())
	if _, err := rw.Document("missing.md"); err == nil {
		t.Error("expected error for missing document")
	}
}

func TestAll_SweepsVault(t *testing.T) {
	rw, store := testRewriter(t, stems("Note", "B"))
	_ = store.Write("one.md", []byte("[[x/Note|Note]]"))
	_ = store.Write("two.md", []byte("already [[B]]"))
	_ = store.Write("three.md", []byte("[[y/Note|keep me]]"))

	changed, err := rw.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(changed) != 2 {
		t.Fatalf("changed = %v, want one.md and three.md", changed)
	}
	got, _ := store.Read("three.md")
	if string(got) != "[[Note|keep me]]" {
		t.Errorf("three.md = %q", got)
	}
}
