// Package models defines the domain types shared across Linkwise.
package models

import (
	"path"
	"strings"
	"time"
)

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stem returns the note's short name: the base file name with the extension
// stripped. Only stems held by exactly one document are eligible for link
// shortening.
func (m NoteMetadata) Stem() string {
	return Stem(m.Path)
}

// Stem strips folders and the extension from a vault-relative path.
func Stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
