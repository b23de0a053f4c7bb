package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"channel-portfolio/domain/model"
	"channel-portfolio/infrastructure/logger"
)

// EnsureSnapshotSchema creates the table holding the catalog snapshot
// document if not exists.
func EnsureSnapshotSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS catalog_snapshot (
        name TEXT PRIMARY KEY,
        data JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create catalog_snapshot table: %w", err)
	}
	return nil
}

// SnapshotRepository persists the single catalog document as a JSONB row.
// Save is a whole-document upsert, so replacement is atomic at row level
// and concurrent writers degrade to last-writer-wins.

type SnapshotRepository struct {
	db   *sql.DB
	name string
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, name: model.SnapshotName}
}

// Load returns the stored snapshot, or (nil, nil) when no document exists.
func (r *SnapshotRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data FROM catalog_snapshot WHERE name=$1`, r.name)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var s model.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		// A corrupt document is a miss, not a fatal condition.
		logger.GetLogger().WithField("error", err).Warn("stored snapshot is malformed; treating as absent")
		return nil, nil
	}
	return &s, nil
}

// Save replaces the stored document wholesale.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *model.Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	q := `INSERT INTO catalog_snapshot(name, data, updated_at)
          VALUES ($1,$2,$3)
          ON CONFLICT (name) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`
	_, err = r.db.ExecContext(ctx, q, r.name, raw, time.Now().UTC())
	return err
}
