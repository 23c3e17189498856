package api

import (
	"github.com/nordlund/linkwise/internal/noteservice"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Content string `json:"content"`
}

// RewriteRequest triggers a rewrite pass. An empty Path sweeps the whole vault.
type RewriteRequest struct {
	Path string `json:"path,omitempty"`
}

// RewriteResponse reports which documents a rewrite pass changed.
type RewriteResponse struct {
	Changed []string `json:"changed"`
}

// DisplayRequest carries rendered HTML for link-label shortening.
type DisplayRequest struct {
	HTML string `json:"html"`
}

// DisplayResponse carries the transformed HTML.
type DisplayResponse struct {
	HTML string `json:"html"`
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes"`
	Total int            `json:"total"`
}
