package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	st, err := Load(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := st.Get()
	if !got.OptimizeWhenAliasMatchesNoteName {
		t.Error("optimize should default to true")
	}
	if got.TargetFileNameForShortDisplay != "README" {
		t.Errorf("short display target = %q, want README", got.TargetFileNameForShortDisplay)
	}
}

func TestUpdate_PersistsImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	st, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	next := Settings{OptimizeWhenAliasMatchesNoteName: false, TargetFileNameForShortDisplay: "index"}
	if err := st.Update(next); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("settings file not written: %v", err)
	}

	// A fresh load sees the persisted values.
	st2, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := st2.Get()
	if got.OptimizeWhenAliasMatchesNoteName || got.TargetFileNameForShortDisplay != "index" {
		t.Errorf("reloaded settings = %+v", got)
	}
}

func TestUpdate_TrimsShortDisplayTarget(t *testing.T) {
	st, err := Load(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := st.Update(Settings{TargetFileNameForShortDisplay: "  README \t"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := st.Get().TargetFileNameForShortDisplay; got != "README" {
		t.Errorf("target = %q, want trimmed README", got)
	}
}
