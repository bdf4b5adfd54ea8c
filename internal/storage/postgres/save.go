package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/textreality/internal/savegame"
)

// SaveRepository implements savegame.Store on the saved_games table.
type SaveRepository struct {
	db *pgxpool.Pool
}

var _ savegame.Store = (*SaveRepository)(nil)

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with migrations applied.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Save upserts inputs into slot. An existing row keeps its id and created_at.
//
// Precondition: slot must be non-empty after trimming.
// Postcondition: Returns the stored Record or an error.
func (r *SaveRepository) Save(ctx context.Context, slot string, inputs []string) (savegame.Record, error) {
	slot, err := savegame.NormalizeSlot(slot)
	if err != nil {
		return savegame.Record{}, err
	}
	if inputs == nil {
		inputs = []string{}
	}
	var rec savegame.Record
	err = r.db.QueryRow(ctx,
		`INSERT INTO saved_games (id, slot, inputs)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (slot) DO UPDATE SET inputs = EXCLUDED.inputs, updated_at = NOW()
		 RETURNING id, slot, inputs, created_at, updated_at`,
		uuid.New(), slot, inputs,
	).Scan(&rec.ID, &rec.Slot, &rec.Inputs, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return savegame.Record{}, fmt.Errorf("saving slot %q: %w", slot, err)
	}
	return rec, nil
}

// Load returns the save in slot.
//
// Postcondition: Returns an error wrapping savegame.ErrNotFound when the slot is empty.
func (r *SaveRepository) Load(ctx context.Context, slot string) (savegame.Record, error) {
	slot, err := savegame.NormalizeSlot(slot)
	if err != nil {
		return savegame.Record{}, err
	}
	var rec savegame.Record
	err = r.db.QueryRow(ctx,
		`SELECT id, slot, inputs, created_at, updated_at FROM saved_games WHERE slot = $1`,
		slot,
	).Scan(&rec.ID, &rec.Slot, &rec.Inputs, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return savegame.Record{}, fmt.Errorf("slot %q: %w", slot, savegame.ErrNotFound)
	}
	if err != nil {
		return savegame.Record{}, fmt.Errorf("loading slot %q: %w", slot, err)
	}
	return rec, nil
}

// List returns every save ordered by slot.
func (r *SaveRepository) List(ctx context.Context) ([]savegame.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, slot, inputs, created_at, updated_at FROM saved_games ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	var out []savegame.Record
	for rows.Next() {
		var rec savegame.Record
		if err := rows.Scan(&rec.ID, &rec.Slot, &rec.Inputs, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning save: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	return out, nil
}

// Delete removes the save in slot.
//
// Postcondition: Returns an error wrapping savegame.ErrNotFound when the slot is empty.
func (r *SaveRepository) Delete(ctx context.Context, slot string) error {
	slot, err := savegame.NormalizeSlot(slot)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM saved_games WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", slot, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("slot %q: %w", slot, savegame.ErrNotFound)
	}
	return nil
}
