// Package archive keeps the raw source documents on disk, one file per day,
// together with the text extracted from PDF bulletins.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
)

var ErrNotFound = errors.New("document not found")

// Store is a write-through cache keyed by date. A file that exists is never
// fetched or parsed again.
type Store struct {
	dir      string
	cacheDir string
}

// New creates the data and cache directories if needed.
func New(dir string) (*Store, error) {
	s := &Store{
		dir:      dir,
		cacheDir: filepath.Join(dir, "cache"),
	}

	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return s, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Path is where the document of day is stored, e.g. data/2020-05-04.pdf.
func (s *Store) Path(day time.Time, regime covid.Regime) string {
	return filepath.Join(s.dir, day.Format(covid.DayLayout)+regime.Extension())
}

func (s *Store) Has(day time.Time, regime covid.Regime) bool {
	_, err := os.Stat(s.Path(day, regime))
	return err == nil
}

// Write stores the document of day.
func (s *Store) Write(day time.Time, regime covid.Regime, data []byte) error {
	if regime.Extension() == "" {
		return fmt.Errorf("%s regime has no documents", regime)
	}

	return WriteFile(s.Path(day, regime), data)
}

// Open returns the document of day in a form the importers read: CSV files
// as they are, bulletins as extracted plain text.
func (s *Store) Open(day time.Time, regime covid.Regime) (io.ReadCloser, error) {
	if regime.Extension() == "" {
		return nil, fmt.Errorf("%s regime has no documents", regime)
	}

	path := s.Path(day, regime)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNotFound)
		}

		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if regime == covid.RegimeBulletin {
		return s.openText(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	return f, nil
}

// openText returns the cached text of a PDF, extracting it on first use.
func (s *Store) openText(path string) (io.ReadCloser, error) {
	cached := filepath.Join(s.cacheDir, filepath.Base(path)+".txt")

	if f, err := os.Open(cached); err == nil {
		return f, nil
	}

	text, err := pdfText(path)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", path, err)
	}

	if err := WriteFile(cached, []byte(text)); err != nil {
		return nil, fmt.Errorf("caching text of %s: %w", path, err)
	}

	return io.NopCloser(strings.NewReader(text)), nil
}

// WriteFile replaces path atomically so an interrupted run never leaves a
// truncated file that would later count as cached.
func WriteFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("writing file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("renaming file: %w", err)
	}

	return nil
}
