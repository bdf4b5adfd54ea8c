package savegame

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	bbolt "go.etcd.io/bbolt"
)

var bucketSaves = []byte("saves")

// boltRecord is the msgpack encoding of a Record.
type boltRecord struct {
	ID        string    `msgpack:"id"`
	Inputs    []string  `msgpack:"inputs"`
	CreatedAt time.Time `msgpack:"created_at"`
	UpdatedAt time.Time `msgpack:"updated_at"`
}

// BoltStore keeps saves in an embedded bbolt file, one key per slot.
type BoltStore struct {
	db  *bbolt.DB
	now func() time.Time
}

// OpenBolt opens or creates the bbolt file at path.
//
// Precondition: the parent directory of path must exist.
// Postcondition: Returns a BoltStore with the saves bucket present; the caller must Close it.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("savegame: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSaves)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("savegame: create bucket: %w", err)
	}
	return &BoltStore{db: db, now: time.Now}, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the filesystem path of the bbolt file.
func (s *BoltStore) Path() string {
	return s.db.Path()
}

// Save implements Store.
func (s *BoltStore) Save(ctx context.Context, slot string, inputs []string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	slot, err := NormalizeSlot(slot)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSaves)
		now := s.now().UTC()
		stored := boltRecord{ID: uuid.NewString(), CreatedAt: now}
		if data := b.Get([]byte(slot)); data != nil {
			if err := msgpack.Unmarshal(data, &stored); err != nil {
				return fmt.Errorf("decode slot %q: %w", slot, err)
			}
		}
		stored.Inputs = cloneInputs(inputs)
		stored.UpdatedAt = now
		data, err := msgpack.Marshal(&stored)
		if err != nil {
			return fmt.Errorf("encode slot %q: %w", slot, err)
		}
		if err := b.Put([]byte(slot), data); err != nil {
			return err
		}
		rec, err = stored.toRecord(slot)
		return err
	})
	if err != nil {
		return Record{}, fmt.Errorf("savegame: save: %w", err)
	}
	return rec, nil
}

// Load implements Store.
func (s *BoltStore) Load(ctx context.Context, slot string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	slot, err := NormalizeSlot(slot)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	err = s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSaves).Get([]byte(slot))
		if data == nil {
			return fmt.Errorf("slot %q: %w", slot, ErrNotFound)
		}
		rec, err = decodeRecord(slot, data)
		return err
	})
	if err != nil {
		return Record{}, fmt.Errorf("savegame: load: %w", err)
	}
	return rec, nil
}

// List implements Store. bbolt iterates keys in byte order, so records come
// back ordered by slot.
func (s *BoltStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSaves).ForEach(func(k, v []byte) error {
			rec, err := decodeRecord(string(k), v)
			if err != nil {
				return err
			}
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("savegame: list: %w", err)
	}
	return out, nil
}

// Delete implements Store.
func (s *BoltStore) Delete(ctx context.Context, slot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slot, err := NormalizeSlot(slot)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSaves)
		if b.Get([]byte(slot)) == nil {
			return fmt.Errorf("slot %q: %w", slot, ErrNotFound)
		}
		return b.Delete([]byte(slot))
	})
	if err != nil {
		return fmt.Errorf("savegame: delete: %w", err)
	}
	return nil
}

func decodeRecord(slot string, data []byte) (Record, error) {
	var stored boltRecord
	if err := msgpack.Unmarshal(data, &stored); err != nil {
		return Record{}, fmt.Errorf("decode slot %q: %w", slot, err)
	}
	return stored.toRecord(slot)
}

func (br boltRecord) toRecord(slot string) (Record, error) {
	id, err := uuid.Parse(br.ID)
	if err != nil {
		return Record{}, fmt.Errorf("slot %q: bad id: %w", slot, err)
	}
	return Record{
		ID:        id,
		Slot:      slot,
		Inputs:    cloneInputs(br.Inputs),
		CreatedAt: br.CreatedAt.UTC(),
		UpdatedAt: br.UpdatedAt.UTC(),
	}, nil
}
