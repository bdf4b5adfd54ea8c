// Package content stores narrative strings by identifier, optionally gzip
// compressed in memory.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"
)

// ErrDuplicateID is returned when an identifier is added twice.
var ErrDuplicateID = errors.New("duplicate content identifier")

// ErrInvalidArgument is returned for an empty identifier or empty text.
var ErrInvalidArgument = errors.New("invalid argument")

// Store maps identifiers to narrative text.
//
// A Store is not safe for concurrent use.
type Store struct {
	compressed bool
	entries    map[string][]byte
}

// Option configures a Store.
type Option func(*Store)

// WithCompression keeps stored text gzip compressed.
func WithCompression(enabled bool) Option {
	return func(s *Store) { s.compressed = enabled }
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{entries: make(map[string][]byte)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compressed reports whether text is held compressed.
func (s *Store) Compressed() bool {
	return s.compressed
}

// Add stores text under id.
//
// Precondition: id and text must be non-empty.
// Postcondition: Returns an error wrapping ErrDuplicateID if id is already stored.
func (s *Store) Add(id, text string) error {
	if id == "" {
		return fmt.Errorf("content identifier must not be empty: %w", ErrInvalidArgument)
	}
	if text == "" {
		return fmt.Errorf("content %q: text must not be empty: %w", id, ErrInvalidArgument)
	}
	if _, exists := s.entries[id]; exists {
		return fmt.Errorf("content %q: %w", id, ErrDuplicateID)
	}
	data := []byte(text)
	if s.compressed {
		var err error
		if data, err = compress(data); err != nil {
			return fmt.Errorf("compressing content %q: %w", id, err)
		}
	}
	s.entries[id] = data
	return nil
}

// Retrieve returns the text stored under id, or "" when id is unknown.
func (s *Store) Retrieve(id string) string {
	data, ok := s.entries[id]
	if !ok {
		return ""
	}
	if !s.compressed {
		return string(data)
	}
	text, err := decompress(data)
	if err != nil {
		return ""
	}
	return string(text)
}

// Exists reports whether id is stored.
func (s *Store) Exists(id string) bool {
	_, ok := s.entries[id]
	return ok
}

// Count returns the number of stored entries.
func (s *Store) Count() int {
	return len(s.entries)
}

// IDs returns every stored identifier, sorted.
func (s *Store) IDs() []string {
	out := make([]string, 0, len(s.entries))
	for id := range s.entries {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LoadFile adds every entry of a YAML mapping file.
//
// Precondition: path must name a YAML file whose top level maps identifiers to strings.
// Postcondition: Returns the first read, parse or Add error.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading content file %s: %w", path, err)
	}
	if err := s.LoadBytes(data); err != nil {
		return fmt.Errorf("loading content file %s: %w", path, err)
	}
	return nil
}

// LoadBytes adds every entry of a YAML mapping.
func (s *Store) LoadBytes(data []byte) error {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing content YAML: %w", err)
	}
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := s.Add(id, strings.TrimSpace(raw[id])); err != nil {
			return err
		}
	}
	return nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
