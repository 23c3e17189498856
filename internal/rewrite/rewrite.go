// Package rewrite shortens wikilinks to the shortest unambiguous form of a
// note's name, optionally collapsing redundant alias text.
package rewrite

import (
	"log/slog"
	"strings"

	"github.com/nordlund/linkwise/internal/settings"
	"github.com/nordlund/linkwise/internal/storage"
	"github.com/nordlund/linkwise/internal/wikilink"
)

// NameSource reports which note stems are held by exactly one document in
// the whole collection.
type NameSource interface {
	UniqueStems() (map[string]struct{}, error)
}

// Rewriter applies the shortening pass to vault documents.
type Rewriter struct {
	store    storage.Provider
	names    NameSource
	settings *settings.Store
	logger   *slog.Logger
}

// New creates a Rewriter. The settings store is shared with the rest of the
// application; each pass reads the current values.
func New(store storage.Provider, names NameSource, st *settings.Store, logger *slog.Logger) *Rewriter {
	return &Rewriter{store: store, names: names, settings: st, logger: logger}
}

// Document runs one pass over a single note and writes the result back only
// when the text actually changed, avoiding spurious modification events.
// Returns whether a write happened. Read/write failures propagate; the pass
// is not retried.
func (r *Rewriter) Document(path string) (bool, error) {
	data, err := r.store.Read(path)
	if err != nil {
		return false, err
	}
	unique, err := r.names.UniqueStems()
	if err != nil {
		return false, err
	}

	original := string(data)
	updated := Apply(original, unique, r.settings.Get())
	if updated == original {
		return false, nil
	}
	if err := r.store.Write(path, []byte(updated)); err != nil {
		return false, err
	}
	r.logger.Debug("rewrite: shortened links", slog.String("path", path))
	return true, nil
}

// All runs the pass over every note in the vault and returns the paths that
// changed. The unique-stem set is computed once for the whole sweep.
func (r *Rewriter) All() ([]string, error) {
	metas, err := r.store.List("")
	if err != nil {
		return nil, err
	}
	unique, err := r.names.UniqueStems()
	if err != nil {
		return nil, err
	}
	cfg := r.settings.Get()

	var changed []string
	for _, m := range metas {
		data, err := r.store.Read(m.Path)
		if err != nil {
			return changed, err
		}
		original := string(data)
		updated := Apply(original, unique, cfg)
		if updated == original {
			continue
		}
		if err := r.store.Write(m.Path, []byte(updated)); err != nil {
			return changed, err
		}
		r.logger.Debug("rewrite: shortened links", slog.String("path", m.Path))
		changed = append(changed, m.Path)
	}
	return changed, nil
}

// Apply rewrites one document's text against the unique-stem set. Links
// whose target name is not globally unique are left alone: shortening a
// folder-qualified link to an ambiguous name could repoint it to the wrong
// document. Substitution is literal on the original bracketed form, so each
// distinct raw link is handled at most once per pass and the whole
// operation is idempotent.
func Apply(text string, unique map[string]struct{}, cfg settings.Settings) string {
	for _, l := range wikilink.Extract(text) {
		if _, ok := unique[l.TargetName]; !ok {
			continue
		}

		optimizeAlias := cfg.OptimizeWhenAliasMatchesNoteName &&
			(!l.HasAlias || l.Alias == "" || l.Alias == l.TargetName)

		inner := l.TargetName
		if !optimizeAlias && l.HasAlias {
			inner += "|" + l.Alias
		}
		if inner == l.RawInner {
			continue
		}
		text = strings.ReplaceAll(text, openLink(l.RawInner), openLink(inner))
	}
	return text
}

func openLink(inner string) string {
	return "[[" + inner + "]]"
}
