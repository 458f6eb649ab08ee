// Package uploadstore persists uploads to a local directory for the
// lifetime of one analysis.
package uploadstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Store writes uploads under Dir with a unique storage key per file.
type Store struct {
	dir string
}

// NewStore creates dir if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("upload directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Stored is a file written by Save.
type Stored struct {
	Key  string
	Path string
	Size int64
}

// Save writes r under a key of the form <uuid>_<sanitized filename>.
// A partially written file is removed on error.
func (s *Store) Save(filename string, r io.Reader) (*Stored, error) {
	key := uuid.NewString()
	if clean := SanitizeFilename(filename); clean != "" {
		key += "_" + clean
	}
	path := filepath.Join(s.dir, key)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", key, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", key, err)
	}
	return &Stored{Key: key, Path: path, Size: n}, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// asciiFold returns a fresh transformer; chained transformers keep state
// and cannot be shared between goroutines.
func asciiFold() transform.Transformer {
	return transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
}

// SanitizeFilename reduces name to a safe ASCII basename: accents are
// folded, path separators and whitespace become underscores, anything else
// outside [A-Za-z0-9_.-] is dropped and leading/trailing dots and
// underscores are trimmed. The result may be empty.
func SanitizeFilename(name string) string {
	folded, _, err := transform.String(asciiFold(), name)
	if err != nil {
		folded = name
	}
	folded = strings.NewReplacer("/", " ", "\\", " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")
	folded = unsafeChars.ReplaceAllString(folded, "")
	return strings.Trim(folded, "._")
}
