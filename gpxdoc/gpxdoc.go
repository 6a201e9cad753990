// Package gpxdoc adapts github.com/beevik/etree into the small tree surface
// the elevation filter needs: load and save whole documents, walk element
// siblings in document order, read attributes and text, and detach elements.
package gpxdoc

import (
	"errors"
	"fmt"
	"github.com/beevik/etree"
	"github.com/rotblauer/ctoa/catz"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNoRoot is returned when a document parses but has no root element.
	ErrNoRoot = errors.New("document has no root element")

	// ErrDetached is returned when detaching an element that has no parent.
	ErrDetached = errors.New("element is already detached")
)

// Document is a parsed, mutable XML document.
type Document struct {
	*etree.Document

	// Path is where the document was loaded from, if anywhere.
	Path string
}

// Load reads and parses the document at path.
// Files ending in .gz are decompressed on the fly.
func Load(path string) (*Document, error) {
	r, err := catz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	doc, err := LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// LoadReader parses a document from r.
func LoadReader(r io.Reader) (*Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if doc.Root() == nil {
		return nil, ErrNoRoot
	}
	return &Document{Document: doc}, nil
}

// LoadString parses a document from s.
func LoadString(s string) (*Document, error) {
	return LoadReader(strings.NewReader(s))
}

// Root returns the document's root element.
func (d *Document) Root() *etree.Element {
	return d.Document.Root()
}

// Save writes the document to path, gzip-compressed if path ends in .gz.
// The document is written to a temporary file in the same directory
// and renamed into place, so a failed save never truncates path.
func (d *Document) Save(path string) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*"+filepath.Ext(path))
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpName) // no-op after a successful rename

	w, err := catz.Create(tmpName)
	if err != nil {
		return err
	}
	if _, err := d.WriteTo(w); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// String renders the document, mainly for tests and debugging.
func (d *Document) String() string {
	s, err := d.WriteToString()
	if err != nil {
		return fmt.Sprintf("<!-- %v -->", err)
	}
	return s
}
