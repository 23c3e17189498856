package index

import (
	"log/slog"
	"strings"
	"time"

	"github.com/nordlund/linkwise/internal/checksum"
	"github.com/nordlund/linkwise/internal/models"
	"github.com/nordlund/linkwise/internal/storage"
	"github.com/nordlund/linkwise/internal/wikilink"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexDocument(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteNote(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexDocument extracts wikilinks from data and upserts the note.
func IndexDocument(db *DB, path string, data []byte) error {
	body := string(data)

	var targets []string
	for _, l := range wikilink.Extract(body) {
		if l.TargetName == "" {
			continue
		}
		targets = append(targets, l.TargetName)
	}

	row := NoteRow{
		Path:      path,
		Stem:      models.Stem(path),
		Title:     TitleOf(body),
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now(),
	}
	return db.UpsertNote(row, body, targets)
}

// TitleOf returns the first H1 heading, or empty string.
func TitleOf(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
