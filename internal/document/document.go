// Package document provides the text documents the annotator operates on:
// identified, format-tagged, language-tagged bodies of text with a cached
// content snapshot and optional file backing.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is one body of text under annotation. File-backed documents read
// lazily and cache their content; SetContent writes through to disk.
// Memory documents (no path) exist for tests and ephemeral input.
type Document struct {
	// Identifier names the document in headers and logs.
	Identifier string

	// Path is the backing file. Empty for memory documents.
	Path string

	// Format is an informational tag derived from the file extension
	// ("tex", "md", "txt", ...).
	Format string

	// Language is the BCP 47 tag used to pick the matching catalog.
	Language string

	content string
	loaded  bool
}

// New creates a file-backed document. Format and language are derived from
// the path.
func New(path string) *Document {
	return &Document{
		Identifier: path,
		Path:       path,
		Format:     FormatFromPath(path),
		Language:   LanguageFromPath(path),
	}
}

// NewMemory creates a document that lives only in memory.
func NewMemory(identifier, format, lang, content string) *Document {
	return &Document{
		Identifier: identifier,
		Format:     format,
		Language:   lang,
		content:    content,
		loaded:     true,
	}
}

// Content returns the document text, reading the backing file on first
// access.
func (d *Document) Content() (string, error) {
	if !d.loaded {
		if err := d.Reload(); err != nil {
			return "", err
		}
	}
	return d.content, nil
}

// FreshContent bypasses the cache and returns what the backing file holds
// right now. For memory documents it is the same as Content. This is the
// read used by the optimistic staleness check before any write.
func (d *Document) FreshContent() (string, error) {
	if d.Path == "" {
		return d.content, nil
	}
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", d.Path, err)
	}
	d.content = string(data)
	d.loaded = true
	return d.content, nil
}

// SetContent replaces the document text, writing through to the backing
// file when there is one.
func (d *Document) SetContent(text string) error {
	if d.Path != "" {
		if err := os.WriteFile(d.Path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", d.Path, err)
		}
	}
	d.content = text
	d.loaded = true
	return nil
}

// Reload re-reads the backing file, discarding the cached snapshot.
func (d *Document) Reload() error {
	if d.Path == "" {
		return nil
	}
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", d.Path, err)
	}
	d.content = string(data)
	d.loaded = true
	return nil
}

// Clone returns an independent copy. The content snapshot is duplicated by
// value; the backing file, if any, is intentionally shared.
func (d *Document) Clone() *Document {
	copied := *d
	return &copied
}

// FormatFromPath derives the format tag from a file extension.
func FormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "txt"
	}
	return ext
}

// LanguageFromPath derives the document language from the filename
// convention name.<lang>.<ext> for short language codes, defaulting to
// English.
func LanguageFromPath(path string) string {
	segments := strings.Split(filepath.Base(path), ".")
	if len(segments) > 2 && len(segments[len(segments)-2]) < 5 {
		return segments[len(segments)-2]
	}
	return "en"
}

// FromPaths expands files and directories into an ordered document list.
// Directories are walked recursively; entries inside a directory are taken
// in sorted order. Hidden files are skipped.
func FromPaths(paths []string) ([]*Document, error) {
	var docs []*Document
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			docs = append(docs, New(p))
			continue
		}
		var collected []string
		err = filepath.Walk(p, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			name := filepath.Base(path)
			if strings.HasPrefix(name, ".") && path != p {
				if fi.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !fi.IsDir() {
				collected = append(collected, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
		sort.Strings(collected)
		for _, path := range collected {
			docs = append(docs, New(path))
		}
	}
	return docs, nil
}
