// Package storage defines the vault file-system abstraction.
package storage

import "github.com/nordlund/linkwise/internal/models"

// Provider is the interface for vault document operations. Read and Write
// failures propagate to the caller; a rewrite pass that cannot read or
// write its document simply aborts.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to vault root).
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the document at path (relative to vault root).
	Read(path string) ([]byte, error)
	// Write atomically replaces the document at path (relative to vault root).
	Write(path string, content []byte) error
	// Delete removes the document at path (relative to vault root).
	Delete(path string) error
}
