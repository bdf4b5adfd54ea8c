// Package savegame persists the raw input log of a game session under a named
// slot so it can be replayed later.
package savegame

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a slot holds no save.
	ErrNotFound = errors.New("save not found")
	// ErrInvalidArgument is returned for an empty slot name.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Record is one saved session.
type Record struct {
	ID        uuid.UUID
	Slot      string
	Inputs    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists input logs by slot.
type Store interface {
	// Save writes inputs to slot, replacing any previous save there. The
	// record keeps its ID and CreatedAt across overwrites.
	Save(ctx context.Context, slot string, inputs []string) (Record, error)
	// Load returns the save in slot or an error wrapping ErrNotFound.
	Load(ctx context.Context, slot string) (Record, error)
	// List returns every save ordered by slot.
	List(ctx context.Context) ([]Record, error)
	// Delete removes the save in slot or returns an error wrapping ErrNotFound.
	Delete(ctx context.Context, slot string) error
}

// NormalizeSlot trims and lowercases a slot name.
//
// Postcondition: Returns an error wrapping ErrInvalidArgument when the result is empty.
func NormalizeSlot(slot string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(slot))
	if s == "" {
		return "", fmt.Errorf("slot must not be empty: %w", ErrInvalidArgument)
	}
	return s, nil
}

// MemoryStore keeps saves in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record), now: time.Now}
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, slot string, inputs []string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	slot, err := NormalizeSlot(slot)
	if err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	rec, ok := s.records[slot]
	if !ok {
		rec = Record{ID: uuid.New(), Slot: slot, CreatedAt: now}
	}
	rec.Inputs = cloneInputs(inputs)
	rec.UpdatedAt = now
	s.records[slot] = rec
	return copyRecord(rec), nil
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, slot string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	slot, err := NormalizeSlot(slot)
	if err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[slot]
	if !ok {
		return Record{}, fmt.Errorf("slot %q: %w", slot, ErrNotFound)
	}
	return copyRecord(rec), nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, copyRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, slot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slot, err := NormalizeSlot(slot)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[slot]; !ok {
		return fmt.Errorf("slot %q: %w", slot, ErrNotFound)
	}
	delete(s.records, slot)
	return nil
}

func cloneInputs(inputs []string) []string {
	out := make([]string, len(inputs))
	copy(out, inputs)
	return out
}

func copyRecord(r Record) Record {
	r.Inputs = cloneInputs(r.Inputs)
	return r
}
