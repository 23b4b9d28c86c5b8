// Package sqlite provides a single-file SQLite store for character holder
// snapshots, for local runs that have no PostgreSQL server.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/ruins/internal/game/chara"
)

//go:embed schema.sql
var schema string

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

// Store persists holder snapshots in SQLite. Each character is one row
// holding its id, partition and JSON body.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite database at path, creating it and its schema if needed.
//
// Precondition: path must be non-empty.
// Postcondition: Returns an open Store or a non-nil error.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save stores snap under saveID, replacing any records previously stored
// under that id, in a single transaction.
//
// Precondition: every record's Chara must be non-nil.
// Postcondition: Load(ctx, saveID) returns a snapshot equal to snap.
func (s *Store) Save(ctx context.Context, saveID uuid.UUID, label string, snap chara.Snapshot) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := toMillis(time.Now())
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chara_saves (save_id, label, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (save_id) DO UPDATE SET label = excluded.label, updated_at = excluded.updated_at`,
		saveID.String(), label, now, now,
	); err != nil {
		return fmt.Errorf("upsert save: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chara_save_records WHERE save_id = ?`, saveID.String()); err != nil {
		return fmt.Errorf("clear save records: %w", err)
	}

	insert := func(recs []chara.Record) error {
		for _, rec := range recs {
			if rec.Chara == nil {
				return fmt.Errorf("chara %s: record body must not be nil", rec.ID)
			}
			data, err := json.Marshal(rec.Chara)
			if err != nil {
				return fmt.Errorf("chara %s: encode: %w", rec.ID, err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO chara_save_records (save_id, chara_id, partition, data)
				VALUES (?, ?, ?, ?)`,
				saveID.String(), rec.ID.String(), string(chara.PartitionOf(rec.ID)), string(data),
			); err != nil {
				return fmt.Errorf("insert save record %s: %w", rec.ID, err)
			}
		}
		return nil
	}
	if err := insert(snap.Persistent); err != nil {
		return err
	}
	if err := insert(snap.OnMap); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load returns the snapshot stored under saveID, each partition ordered by
// chara.CompareIDs.
//
// Postcondition: Returns the snapshot or ErrSaveNotFound.
func (s *Store) Load(ctx context.Context, saveID uuid.UUID) (chara.Snapshot, error) {
	var exists bool
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM chara_saves WHERE save_id = ?)`, saveID.String(),
	).Scan(&exists); err != nil {
		return chara.Snapshot{}, fmt.Errorf("check save: %w", err)
	}
	if !exists {
		return chara.Snapshot{}, ErrSaveNotFound
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT chara_id, partition, data
		FROM chara_save_records WHERE save_id = ?`,
		saveID.String(),
	)
	if err != nil {
		return chara.Snapshot{}, fmt.Errorf("load save records: %w", err)
	}
	defer rows.Close()

	snap := chara.Snapshot{Persistent: []chara.Record{}, OnMap: []chara.Record{}}
	for rows.Next() {
		var rawID, partition, data string
		if err := rows.Scan(&rawID, &partition, &data); err != nil {
			return chara.Snapshot{}, fmt.Errorf("scan save record: %w", err)
		}
		id, err := chara.ParseCharaID(rawID)
		if err != nil {
			return chara.Snapshot{}, fmt.Errorf("scan save record: %w", err)
		}
		var c chara.Chara
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return chara.Snapshot{}, fmt.Errorf("chara %s: decode: %w", id, err)
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
		return chara.Snapshot{}, fmt.Errorf("iterate save records: %w", err)
	}
	chara.SortRecords(snap.Persistent)
	chara.SortRecords(snap.OnMap)
	return snap, nil
}

// List returns every save ordered by most recently updated first.
func (s *Store) List(ctx context.Context) ([]SaveInfo, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT s.save_id, s.label, COUNT(rec.chara_id), s.created_at, s.updated_at
		FROM chara_saves s
		LEFT JOIN chara_save_records rec ON rec.save_id = s.save_id
		GROUP BY s.save_id
		ORDER BY s.updated_at DESC, s.save_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	out := make([]SaveInfo, 0)
	for rows.Next() {
		var (
			rawID            string
			info             SaveInfo
			created, updated int64
		)
		if err := rows.Scan(&rawID, &info.Label, &info.Records, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan save row: %w", err)
		}
		if info.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("scan save row: %w", err)
		}
		info.CreatedAt = fromMillis(created)
		info.UpdatedAt = fromMillis(updated)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes the save and all of its records.
//
// Postcondition: Returns ErrSaveNotFound if no save has saveID.
func (s *Store) Delete(ctx context.Context, saveID uuid.UUID) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chara_save_records WHERE save_id = ?`, saveID.String()); err != nil {
		return fmt.Errorf("delete save records: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM chara_saves WHERE save_id = ?`, saveID.String())
	if err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	if n == 0 {
		return ErrSaveNotFound
	}
	return tx.Commit()
}
