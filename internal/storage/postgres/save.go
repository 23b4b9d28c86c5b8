package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/ruins/internal/game/chara"
)

// ErrSaveNotFound is returned when a save lookup yields no results.
var ErrSaveNotFound = errors.New("save not found")

// SaveInfo describes one stored save.
type SaveInfo struct {
	ID        uuid.UUID
	Label     string
	Records   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveRepository persists character holder snapshots. Each character is one
// row holding its id, partition and JSONB body.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// NewSaveID returns a fresh save identifier.
func NewSaveID() uuid.UUID {
	return uuid.New()
}

// Save stores snap under saveID, replacing any records previously stored
// under that id, in a single transaction.
//
// Precondition: every record's Chara must be non-nil.
// Postcondition: Load(ctx, saveID) returns a snapshot equal to snap.
func (r *SaveRepository) Save(ctx context.Context, saveID uuid.UUID, label string, snap chara.Snapshot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO chara_saves (save_id, label)
		VALUES ($1, $2)
		ON CONFLICT (save_id) DO UPDATE SET label = EXCLUDED.label, updated_at = NOW()`,
		saveID, label,
	); err != nil {
		return fmt.Errorf("upserting save: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM chara_save_records WHERE save_id = $1`, saveID); err != nil {
		return fmt.Errorf("clearing save records: %w", err)
	}

	batch := &pgx.Batch{}
	queue := func(recs []chara.Record) error {
		for _, rec := range recs {
			if rec.Chara == nil {
				return fmt.Errorf("chara %s: record body must not be nil", rec.ID)
			}
			batch.Queue(`
				INSERT INTO chara_save_records (save_id, chara_id, partition, data)
				VALUES ($1, $2, $3, $4)`,
				saveID, rec.ID.String(), string(chara.PartitionOf(rec.ID)), rec.Chara,
			)
		}
		return nil
	}
	if err := queue(snap.Persistent); err != nil {
		return err
	}
	if err := queue(snap.OnMap); err != nil {
		return err
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting save records: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// Load returns the snapshot stored under saveID, each partition ordered by
// chara.CompareIDs.
//
// Postcondition: Returns the snapshot or ErrSaveNotFound.
func (r *SaveRepository) Load(ctx context.Context, saveID uuid.UUID) (chara.Snapshot, error) {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM chara_saves WHERE save_id = $1)`, saveID,
	).Scan(&exists); err != nil {
		return chara.Snapshot{}, fmt.Errorf("checking save: %w", err)
	}
	if !exists {
		return chara.Snapshot{}, ErrSaveNotFound
	}

	rows, err := r.db.Query(ctx, `
		SELECT chara_id, partition, data
		FROM chara_save_records WHERE save_id = $1`,
		saveID,
	)
	if err != nil {
		return chara.Snapshot{}, fmt.Errorf("loading save records: %w", err)
	}
	defer rows.Close()

	snap := chara.Snapshot{Persistent: []chara.Record{}, OnMap: []chara.Record{}}
	for rows.Next() {
		var (
			rawID     string
			partition string
			c         chara.Chara
		)
		if err := rows.Scan(&rawID, &partition, &c); err != nil {
			return chara.Snapshot{}, fmt.Errorf("scanning save record: %w", err)
		}
		id, err := chara.ParseCharaID(rawID)
		if err != nil {
			return chara.Snapshot{}, fmt.Errorf("scanning save record: %w", err)
		}
		rec := chara.Record{ID: id, Chara: &c}
		switch chara.Partition(partition) {
		case chara.PartitionPersistent:
			snap.Persistent = append(snap.Persistent, rec)
		case chara.PartitionOnMap:
			snap.OnMap = append(snap.OnMap, rec)
		default:
			return chara.Snapshot{}, fmt.Errorf("chara %s: unknown partition %q", id, partition)
		}
	}
	if err := rows.Err(); err != nil {
		return chara.Snapshot{}, fmt.Errorf("iterating save records: %w", err)
	}
	chara.SortRecords(snap.Persistent)
	chara.SortRecords(snap.OnMap)
	return snap, nil
}

// List returns every save ordered by most recently updated first.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SaveRepository) List(ctx context.Context) ([]SaveInfo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.save_id, s.label, COUNT(rec.chara_id), s.created_at, s.updated_at
		FROM chara_saves s
		LEFT JOIN chara_save_records rec ON rec.save_id = s.save_id
		GROUP BY s.save_id
		ORDER BY s.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	out := make([]SaveInfo, 0)
	for rows.Next() {
		var info SaveInfo
		if err := rows.Scan(&info.ID, &info.Label, &info.Records, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning save row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes the save and all of its records.
//
// Postcondition: Returns ErrSaveNotFound if no save has saveID.
func (r *SaveRepository) Delete(ctx context.Context, saveID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM chara_saves WHERE save_id = $1`, saveID)
	if err != nil {
		return fmt.Errorf("deleting save: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSaveNotFound
	}
	return nil
}
