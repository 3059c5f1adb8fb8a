package casefile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/gyaneshwarpardhi/casetimeline/internal/record"
)

// ErrCaseNotFound is returned by fetches for a case the file does not contain.
var ErrCaseNotFound = errors.New("case not found")

// File is the YAML layout of a case file.
type File struct {
	Cases []Case `yaml:"cases"`
}

// Case groups every source collection of one case.
type Case struct {
	ID           string                       `yaml:"id"`
	Title        string                       `yaml:"title"`
	Notes        []record.Note                `yaml:"notes"`
	Documents    []record.Document            `yaml:"documents"`
	Agenda       []record.AgendaEntry         `yaml:"agenda"`
	Publications []record.ExternalPublication `yaml:"publications"`
}

// Store serves case records from a YAML file and can hot-reload it.
type Store struct {
	path     string
	logger   *slog.Logger
	mu       sync.RWMutex
	cases    map[string]*Case
	order    []string
	onChange []func(caseCount int)
}

// Open creates a Store and performs the initial load.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Has reports whether caseID is present.
func (s *Store) Has(caseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cases[caseID]
	return ok
}

// CaseIDs returns case ids in file order.
func (s *Store) CaseIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Title returns the case title, if any.
func (s *Store) Title(caseID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.cases[caseID]; ok {
		return c.Title
	}
	return ""
}

func (s *Store) lookup(ctx context.Context, caseID string) (*Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCaseNotFound, caseID)
	}
	return c, nil
}

// FetchNotes implements engine.NoteFetcher.
func (s *Store) FetchNotes(ctx context.Context, caseID string) ([]record.Note, error) {
	c, err := s.lookup(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(c.Notes), nil
}

// FetchDocuments implements engine.DocumentFetcher.
func (s *Store) FetchDocuments(ctx context.Context, caseID string) ([]record.Document, error) {
	c, err := s.lookup(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(c.Documents), nil
}

// FetchAgenda implements engine.AgendaFetcher.
func (s *Store) FetchAgenda(ctx context.Context, caseID string) ([]record.AgendaEntry, error) {
	c, err := s.lookup(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(c.Agenda), nil
}

// FetchPublications implements engine.PublicationFetcher.
func (s *Store) FetchPublications(ctx context.Context, caseID string) ([]record.ExternalPublication, error) {
	c, err := s.lookup(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(c.Publications), nil
}

// OnChange registers a callback invoked after every successful reload.
func (s *Store) OnChange(fn func(caseCount int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Reload forces an immediate re-read of the case file. On error the
// previously loaded cases stay in place.
func (s *Store) Reload() (int, error) {
	cases, order, err := load(s.path)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.cases, s.order = cases, order
	callbacks := slices.Clone(s.onChange)
	s.mu.Unlock()
	for _, fn := range callbacks {
		fn(len(order))
	}
	return len(order), nil
}

// Watch starts a background goroutine that reloads the file on changes.
// Call the returned stop function to clean up.
func (s *Store) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("case file watcher: %w", err)
	}
	if err := w.Add(s.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("case file watcher add %s: %w", s.path, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					n, err := s.Reload()
					if err != nil {
						s.logger.Warn("case file reload failed, keeping previous cases", "path", s.path, "err", err)
						continue
					}
					s.logger.Info("case file reloaded", "path", s.path, "cases", n)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("case file watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}

func load(path string) (map[string]*Case, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read case file %s: %w", path, err)
	}
	return decode(data)
}

func decode(data []byte) (map[string]*Case, []string, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse case file: %w", err)
	}
	cases := make(map[string]*Case, len(f.Cases))
	order := make([]string, 0, len(f.Cases))
	for i := range f.Cases {
		c := &f.Cases[i]
		if c.ID == "" {
			return nil, nil, fmt.Errorf("cases[%d]: id is required", i)
		}
		if _, dup := cases[c.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate case id %q", c.ID)
		}
		cases[c.ID] = c
		order = append(order, c.ID)
	}
	return cases, order, nil
}
