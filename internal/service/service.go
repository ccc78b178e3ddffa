// Package service opens documents and turns them into playable content.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"photoreader/internal/content"
	"photoreader/internal/extract"
	"photoreader/internal/history"
	"photoreader/internal/pages"
)

const DefaultRecentCapacity = 10

// sniffLength is how much of the input is inspected when the name does not
// decide the format.
const sniffLength = 512

// ErrNoUnits is returned for documents with nothing to show.
var ErrNoUnits = errors.New("document has no displayable content")

// LoadError is the only error a failed open reports. The cause is reachable
// with errors.Is and errors.As.
type LoadError struct {
	Source string
	Format extract.Format
	Err    error
}

func (e *LoadError) Error() string {
	if e.Format == extract.FormatUnknown {
		return fmt.Sprintf("failed to load %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("failed to load %s as %s: %v", e.Source, e.Format, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RecentStore persists the recent documents list.
type RecentStore interface {
	SaveRecent(paths []string) error
	LoadRecent() []string
}

type Options struct {
	PageLength     int
	RecentCapacity int
	Store          RecentStore
	Logger         *zap.Logger
}

// Loaded is a successfully opened document.
type Loaded struct {
	ID       uuid.UUID
	Source   string
	Format   extract.Format
	Document content.Document
	// Pages is set for image-paged documents.
	Pages *pages.Set
}

// Service is the entry point for opening documents.
type Service struct {
	log      *zap.Logger
	registry *extract.Registry
	store    RecentStore

	mu     sync.Mutex
	recent *history.Recent
}

// NewService constructs a new Service and restores the stored recent list.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RecentCapacity <= 0 {
		opts.RecentCapacity = DefaultRecentCapacity
	}
	s := &Service{
		log:      opts.Logger,
		registry: extract.NewRegistry(opts.PageLength),
		recent:   history.NewRecent(opts.RecentCapacity),
		store:    opts.Store,
	}
	if s.store != nil {
		s.recent.Restore(s.store.LoadRecent())
	}
	return s
}

// Registry exposes the extractor registry so callers can add formats.
func (s *Service) Registry() *extract.Registry { return s.registry }

// Open loads a document from a file or a directory of page images.
func (s *Service) Open(ctx context.Context, path string) (*Loaded, error) {
	fi, err := os.Stat(path)
	if err != nil {
		s.log.Warn("Unable to open document", zap.String("source", path), zap.Error(err))
		return nil, &LoadError{Source: path, Err: err}
	}

	var loaded *Loaded
	switch {
	case fi.IsDir():
		loaded, err = s.openDir(path)
	case extract.Detect(path, nil) == extract.FormatImage:
		loaded, err = s.openImageFile(path)
	default:
		var data []byte
		if data, err = os.ReadFile(path); err != nil {
			return nil, &LoadError{Source: path, Err: err}
		}
		loaded, err = s.OpenBytes(ctx, path, data)
	}
	if err != nil {
		return nil, err
	}
	s.remember(path)
	return loaded, nil
}

// OpenBytes loads a document held in memory. The name selects the format
// when its extension is known and titles the document.
func (s *Service) OpenBytes(ctx context.Context, name string, data []byte) (*Loaded, error) {
	format := extract.Detect(name, data[:min(len(data), sniffLength)])
	fail := func(err error) (*Loaded, error) {
		s.log.Warn("Unable to load document", zap.String("source", name), zap.Stringer("format", format), zap.Error(err))
		return nil, &LoadError{Source: name, Format: format, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	title := Title(name)
	switch format {
	case extract.FormatText:
		doc := content.NewWordStream(title, extract.DecodeText(data))
		if doc.UnitCount() == 0 {
			return fail(ErrNoUnits)
		}
		return s.loaded(name, format, doc, nil), nil

	case extract.FormatArchive:
		set, err := pages.FromZip(data)
		if err != nil {
			return fail(err)
		}
		return s.loaded(name, format, content.NewImagePaged(title, set), set), nil

	case extract.FormatImage:
		set, err := pages.FromImage(name, data)
		if err != nil {
			return fail(err)
		}
		return s.loaded(name, format, content.NewImagePaged(title, set), set), nil
	}

	if !s.registry.Supports(format) {
		return fail(extract.ErrUnsupportedFormat)
	}
	res, err := s.registry.Extract(ctx, format, data)
	if err != nil {
		return fail(err)
	}
	return s.loaded(name, format, content.NewTextPaged(title, res.Pages, res.PlainText), nil), nil
}

func (s *Service) openDir(dir string) (*Loaded, error) {
	set, err := pages.FromDir(dir)
	if err != nil {
		s.log.Warn("Unable to open page folder", zap.String("source", dir), zap.Error(err))
		return nil, &LoadError{Source: dir, Format: extract.FormatDirectory, Err: err}
	}
	doc := content.NewImagePaged(filepath.Base(dir), set)
	return s.loaded(dir, extract.FormatDirectory, doc, set), nil
}

func (s *Service) openImageFile(path string) (*Loaded, error) {
	set, err := pages.FromFiles(path)
	if err != nil {
		return nil, &LoadError{Source: path, Format: extract.FormatImage, Err: err}
	}
	return s.loaded(path, extract.FormatImage, content.NewImagePaged(Title(path), set), set), nil
}

func (s *Service) loaded(source string, format extract.Format, doc content.Document, set *pages.Set) *Loaded {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	s.log.Info("Document opened",
		zap.Stringer("session", id),
		zap.String("source", source),
		zap.Stringer("format", format),
		zap.Int("units", doc.UnitCount()))
	return &Loaded{ID: id, Source: source, Format: format, Document: doc, Pages: set}
}

func (s *Service) remember(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent.Record(path)
	s.persistRecentLocked()
}

func (s *Service) persistRecentLocked() {
	if s.store == nil {
		return
	}
	if err := s.store.SaveRecent(s.recent.Items()); err != nil {
		s.log.Warn("Unable to save recent documents", zap.Error(err))
	}
}

// Recent returns recently opened paths, most recent first.
func (s *Service) Recent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recent.Items()
}

// ForgetRecent drops one path from the recent list.
func (s *Service) ForgetRecent(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent.RemovePath(path)
	s.persistRecentLocked()
}

// ClearRecent empties the recent list.
func (s *Service) ClearRecent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent.Clear()
	s.persistRecentLocked()
}

// Title derives a document title from a file name.
func Title(name string) string {
	base := filepath.Base(name)
	if t := strings.TrimSuffix(base, filepath.Ext(base)); t != "" {
		return t
	}
	return base
}
