// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Linkwise tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nordlund/linkwise/internal/index"
	"github.com/nordlund/linkwise/internal/rewrite"
	"github.com/nordlund/linkwise/internal/settings"
	"github.com/nordlund/linkwise/internal/storage"
)

// Server wraps the MCP server with Linkwise tools.
type Server struct {
	mcp      *server.MCPServer
	store    storage.Provider
	db       *index.DB
	rewriter *rewrite.Rewriter
	settings *settings.Store
}

// New creates a new MCP server with all Linkwise tools registered.
func New(store storage.Provider, db *index.DB, rw *rewrite.Rewriter, st *settings.Store) *Server {
	s := &Server{store: store, db: db, rewriter: rw, settings: st}

	s.mcp = server.NewMCPServer(
		"Linkwise",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search through note content and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a Markdown note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes or notes in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all notes that link to the specified note name."),
		mcp.WithString("target", mcp.Required(), mcp.Description("Note name (filename stem) to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("rewrite_note",
		mcp.WithDescription("Shorten wikilinks in one note to the shortest unambiguous form. "+
			"Links whose target name exists in more than one place are left untouched. "+
			"Read the link convention first via the get_link_contract tool."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path of the note to rewrite")),
	), s.rewriteNote)

	s.mcp.AddTool(mcp.NewTool("rewrite_vault",
		mcp.WithDescription("Run the wikilink shortening pass over every note in the vault. "+
			"Returns the list of changed note paths."),
	), s.rewriteVault)

	s.mcp.AddTool(mcp.NewTool("get_settings",
		mcp.WithDescription("Read the current link rewrite settings."),
	), s.getSettings)

	s.mcp.AddTool(mcp.NewTool("update_settings",
		mcp.WithDescription("Update the link rewrite settings. Both fields must be provided; "+
			"the new values are persisted immediately."),
		mcp.WithBoolean("optimize_when_alias_matches_note_name", mcp.Required(),
			mcp.Description("Drop an alias equal to the note name when shortening")),
		mcp.WithString("target_filename_for_short_display", mcp.Required(),
			mcp.Description("File name that displays as its parent folder in previews")),
	), s.updateSettings)

	s.mcp.AddTool(mcp.NewTool("get_link_contract",
		mcp.WithDescription("Returns the canonical Linkwise wikilink convention. "+
			"Call this before creating or editing links in notes."),
	), s.getLinkContract)

	// Resource: link convention contract.
	s.mcp.AddResource(
		mcp.NewResource("linkwise://link-convention", "Wikilink Convention",
			mcp.WithResourceDescription("Canonical wikilink form that notes converge to."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLinkContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = f
	}

	metas, err := s.store.List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var paths []string
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.db.Backlinks(target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) rewriteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changed, err := s.rewriter.Document(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !changed {
		return mcp.NewToolResultText(fmt.Sprintf("no changes: %s", path)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("rewritten: %s", path)), nil
}

func (s *Server) rewriteVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	changed, err := s.rewriter.All()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(changed) == 0 {
		return mcp.NewToolResultText("no changes"), nil
	}
	return mcp.NewToolResultText(strings.Join(changed, "\n")), nil
}

func (s *Server) getSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.settings.Get(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) updateSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	optimize, err := req.RequireBool("optimize_when_alias_matches_note_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := req.RequireString("target_filename_for_short_display")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	next := settings.Settings{
		OptimizeWhenAliasMatchesNoteName: optimize,
		TargetFileNameForShortDisplay:    target,
	}
	if err := s.settings.Update(next); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(s.settings.Get(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getLinkContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(LinkContract), nil
}

func (s *Server) readLinkContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "linkwise://link-convention",
			MIMEType: "text/markdown",
			Text:     LinkContract,
		},
	}, nil
}
