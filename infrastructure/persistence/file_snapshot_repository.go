package persistence

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"channel-portfolio/domain/model"
	"channel-portfolio/infrastructure/logger"
)

// FileSnapshotRepository persists the catalog document as a single JSON
// file. Save writes to a temp file in the same directory and renames it
// over the target, so readers never observe a half-written document.

type FileSnapshotRepository struct {
	path string
}

func NewFileSnapshotRepository(path string) *FileSnapshotRepository {
	return &FileSnapshotRepository{path: path}
}

// Load returns the stored snapshot, or (nil, nil) when the file does not
// exist or does not parse.
func (r *FileSnapshotRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s model.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error": err,
			"path":  r.path,
		}).Warn("snapshot file is malformed; treating as absent")
		return nil, nil
	}
	return &s, nil
}

// Save replaces the stored document wholesale.
func (r *FileSnapshotRepository) Save(ctx context.Context, snapshot *model.Snapshot) error {
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, r.path)
}
