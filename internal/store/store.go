// Package store keeps the per-client document files:
//
//	<root>/<slug>/business.base.json     full document from the last generation
//	<root>/<slug>/business.updates.json  partial later revision (optional)
//	<root>/<slug>/business.json          merged result read by the build
//	<root>/<slug>/assets/images/         fetched photography
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"siteforge/internal/schema"
)

const (
	BaseFile    = "business.base.json"
	UpdatesFile = "business.updates.json"
	MergedFile  = "business.json"
)

var (
	// ErrNotFound is returned when a required client file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSlug is returned for client ids that are not normalized slugs.
	ErrInvalidSlug = errors.New("invalid client slug")
)

type Store struct {
	fs     afero.Fs
	root   string
	logger *zap.Logger
}

func New(fs afero.Fs, root string, logger *zap.Logger) *Store {
	return &Store{fs: fs, root: root, logger: logger.Named("store")}
}

// Fs exposes the filesystem the store writes to.
func (s *Store) Fs() afero.Fs { return s.fs }

// Dir returns the directory of one client. The slug must already be
// normalized, which also keeps it from escaping root.
func (s *Store) Dir(slug string) (string, error) {
	if slug == "" || schema.NormalizeSlug(slug) != slug {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return filepath.Join(s.root, slug), nil
}

// ImagesDir is where fetched images for slug live.
func (s *Store) ImagesDir(slug string) (string, error) {
	dir, err := s.Dir(slug)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "assets", "images"), nil
}

// MergedPath is the path of the merged document for slug.
func (s *Store) MergedPath(slug string) (string, error) {
	return s.path(slug, MergedFile)
}

// LoadBase reads the base document. It is required.
func (s *Store) LoadBase(slug string) (map[string]any, error) {
	return s.read(slug, BaseFile)
}

// LoadUpdates reads the updates document; a missing file is an empty update.
func (s *Store) LoadUpdates(slug string) (map[string]any, error) {
	doc, err := s.read(slug, UpdatesFile)
	if errors.Is(err, ErrNotFound) {
		return map[string]any{}, nil
	}
	return doc, err
}

// LoadMerged reads the merged document.
func (s *Store) LoadMerged(slug string) (map[string]any, error) {
	return s.read(slug, MergedFile)
}

// SaveBase writes doc as the base document of slug.
func (s *Store) SaveBase(slug string, doc any) error {
	return s.write(slug, BaseFile, doc)
}

// SaveUpdates writes doc as the updates document of slug.
func (s *Store) SaveUpdates(slug string, doc any) error {
	return s.write(slug, UpdatesFile, doc)
}

// SaveMerged writes doc as the merged document of slug.
func (s *Store) SaveMerged(slug string, doc any) error {
	return s.write(slug, MergedFile, doc)
}

// Merge layers the updates of slug over its base, re-normalizes the result
// and writes business.json.
func (s *Store) Merge(slug string) (*schema.Document, error) {
	base, err := s.LoadBase(slug)
	if err != nil {
		return nil, err
	}
	updates, err := s.LoadUpdates(slug)
	if err != nil {
		return nil, err
	}
	doc := schema.MergeDocuments(base, updates, slug)
	if err := s.SaveMerged(slug, doc); err != nil {
		return nil, err
	}
	s.logger.Info("Merged client document",
		zap.String("client", slug),
		zap.Int("update_keys", len(updates)),
		zap.String("brand_slug", doc.Brand.Slug))
	return doc, nil
}

func (s *Store) path(slug, name string) (string, error) {
	dir, err := s.Dir(slug)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func (s *Store) read(slug, name string) (map[string]any, error) {
	p, err := s.path(slug, name)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func (s *Store) write(slug, name string, doc any) error {
	p, err := s.path(slug, name)
	if err != nil {
		return err
	}
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", p, err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(p), err)
	}
	if err := afero.WriteFile(s.fs, p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	s.logger.Debug("Wrote client file", zap.String("path", p), zap.Int("bytes", len(data)))
	return nil
}

// Encode renders doc the way client files are stored: two-space indent,
// trailing newline, HTML characters left alone.
func Encode(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
