// Package catalog is an in-memory species store loaded from Markdown files.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/Shadojus/amorph/internal/models"
	"github.com/Shadojus/amorph/internal/parser"
	"golang.org/x/sync/errgroup"
)

// Store holds species records in memory. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string]models.Record
	order   []string
}

// New returns a store holding records. Later records with an existing slug
// replace earlier ones.
func New(records ...models.Record) *Store {
	s := &Store{records: make(map[string]models.Record)}
	for _, rec := range records {
		s.Put(rec)
	}
	return s
}

// LoadDir parses every .md file under dir. Files are parsed concurrently;
// documents without a name are skipped with a warning, other parse errors
// abort the load.
func LoadDir(ctx context.Context, dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)

	records := make([]*models.Record, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			rec, err := parser.ParseSpecies(string(data))
			if errors.Is(err, parser.ErrNoName) {
				logger.Warn("skipping species without name", "file", path)
				return nil
			}
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			if rec.ID == "" {
				rec.ID = "species:" + rec.Slug
			}
			records[i] = &rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := New()
	for _, rec := range records {
		if rec != nil {
			s.Put(*rec)
		}
	}
	logger.Info("species catalog loaded", "dir", dir, "files", len(paths), "species", s.Len())
	return s, nil
}

// Put adds or replaces a record by slug.
func (s *Store) Put(rec models.Record) {
	key := rec.Key()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		s.order = append(s.order, key)
	}
	s.records[key] = rec
}

// Len returns the number of species.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// GetSpecies returns a species by slug, or models.ErrNotFound.
func (s *Store) GetSpecies(_ context.Context, slug string) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[slug]
	if !ok {
		return models.Record{}, fmt.Errorf("get species %q: %w", slug, models.ErrNotFound)
	}
	return rec, nil
}

// GetFields returns the species restricted to the named fields, in the
// species' field order. Empty names returns every field.
func (s *Store) GetFields(ctx context.Context, slug string, names []string) (models.Record, error) {
	rec, err := s.GetSpecies(ctx, slug)
	if err != nil {
		return models.Record{}, err
	}
	if len(names) == 0 {
		return rec, nil
	}
	out := rec
	out.Fields = nil
	for _, f := range rec.Fields {
		if slices.Contains(names, f.Name) {
			out.Fields = append(out.Fields, f)
		}
	}
	return out, nil
}

// ListSpecies returns every species ordered by name.
func (s *Store) ListSpecies(_ context.Context) ([]models.Record, error) {
	s.mu.RLock()
	out := make([]models.Record, 0, len(s.records))
	for _, key := range s.order {
		out = append(out, s.records[key])
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName()) < strings.ToLower(out[j].DisplayName())
	})
	return out, nil
}

// SearchSpecies ranks species by query token matches: a token found in the
// name scores 3, in the slug 2, in any field value 1. Species without a
// match are left out; ties are ordered by name. An empty query lists
// species by name.
func (s *Store) SearchSpecies(ctx context.Context, query string, limit int) ([]models.Record, error) {
	all, err := s.ListSpecies(ctx)
	if err != nil {
		return nil, err
	}
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return truncate(all, limit), nil
	}

	type hit struct {
		rec   models.Record
		score int
	}
	var hits []hit
	for _, rec := range all {
		if score := Score(rec, tokens); score > 0 {
			hits = append(hits, hit{rec, score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	out := make([]models.Record, len(hits))
	for i, h := range hits {
		out[i] = h.rec
	}
	return truncate(out, limit), nil
}

// Score returns the relevance of rec for lowercased query tokens.
func Score(rec models.Record, tokens []string) int {
	name := wordSet(rec.DisplayName())
	slug := wordSet(strings.ReplaceAll(rec.Key(), "-", " "))
	var text map[string]bool
	score := 0
	for _, tok := range tokens {
		switch {
		case name[tok]:
			score += 3
		case slug[tok]:
			score += 2
		default:
			if text == nil {
				text = make(map[string]bool)
				for _, f := range rec.Fields {
					collectWords(text, f.Value)
				}
			}
			if text[tok] {
				score++
			}
		}
	}
	return score
}

// Tokenize splits s into lowercased words.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range Tokenize(s) {
		set[w] = true
	}
	return set
}

func collectWords(set map[string]bool, v any) {
	switch x := v.(type) {
	case string:
		for _, w := range Tokenize(x) {
			set[w] = true
		}
	case []any:
		for _, item := range x {
			collectWords(set, item)
		}
	case map[string]any:
		for _, item := range x {
			collectWords(set, item)
		}
	}
}

func truncate(records []models.Record, limit int) []models.Record {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}
