// Package wikilink extracts [[target|alias]] references from note text.
package wikilink

import "strings"

const (
	openDelim  = "[["
	closeDelim = "]]"
)

// Link is one distinct wikilink occurrence within a document.
//
// RawInner is the exact text between the delimiters and is what rewrite
// passes substitute on. TargetName is the last path segment of the portion
// before the first '|'; folder segments are dropped. HasAlias distinguishes
// [[x]] from [[x|]]; an empty alias written after '|' is kept literally.
type Link struct {
	RawInner   string
	TargetName string
	Alias      string
	HasAlias   bool
}

// Extract scans text for wikilinks and returns the distinct links in order
// of first appearance. Occurrences with identical inner text count as one
// link. An opening delimiter with no closer ends the scan; malformed input
// is never an error, and no character validation is applied.
func Extract(text string) []Link {
	var out []Link
	seen := make(map[string]struct{})
	for {
		start := strings.Index(text, openDelim)
		if start < 0 {
			break
		}
		rest := text[start+len(openDelim):]
		end := strings.Index(rest, closeDelim)
		if end < 0 {
			break
		}
		inner := rest[:end]
		text = rest[end+len(closeDelim):]
		if _, dup := seen[inner]; dup {
			continue
		}
		seen[inner] = struct{}{}
		out = append(out, parse(inner))
	}
	return out
}

// parse splits inner text into target name and alias. The alias is
// everything after the first '|'; the target name is the final '/'-separated
// segment of what precedes it.
func parse(inner string) Link {
	l := Link{RawInner: inner}
	path := inner
	if i := strings.Index(inner, "|"); i >= 0 {
		path = inner[:i]
		l.Alias = inner[i+1:]
		l.HasAlias = true
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	l.TargetName = path
	return l
}
