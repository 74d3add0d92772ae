package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go-card-ledger/logger"
)

// JSONStore persists snapshots as a single JSON file. Writes go to a
// temporary file first and are swapped in with a rename, so a crash mid-save
// never corrupts the previous snapshot.
type JSONStore struct {
	Path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{Path: path}
}

func (s *JSONStore) Save(snap Snapshot) error {
	snap.SavedAt = time.Now()
	tmp := s.Path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("could not create snapshot file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return fmt.Errorf("could not encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close snapshot file: %w", err)
	}

	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("could not replace snapshot file: %w", err)
	}

	logger.Log.WithField("accounts", len(snap.Accounts)).Info("Accounts saved to file")
	return nil
}

func (s *JSONStore) Load() (Snapshot, error) {
	var snap Snapshot

	f, err := os.Open(s.Path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return snap, fmt.Errorf("could not decode snapshot: %w", err)
	}

	logger.Log.WithField("accounts", len(snap.Accounts)).Info("Accounts loaded from file")
	return snap, nil
}
