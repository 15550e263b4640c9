package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type fileRecord struct {
	Session   *models.Session `json:"session"`
	ExpiresAt time.Time       `json:"expires_at,omitzero"`
}

// FileStore keeps each session in its own JSON file under dir. It backs the
// terminal client, where one process-wide session survives between runs.
type FileStore struct {
	dir string
	now func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve state directory: %w", err)
		}

		dir = filepath.Join(base, "storefront")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	return &FileStore{dir: dir, now: time.Now}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", ErrInvalidID
	}

	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Get(_ context.Context, id string) (*models.Session, bool, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to read session file: %w", err)
	}

	var record fileRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal session file: %w", err)
	}

	if record.Session == nil {
		return nil, false, nil
	}

	if !record.ExpiresAt.IsZero() && !s.now().Before(record.ExpiresAt) {
		return nil, false, nil
	}

	return record.Session, true, nil
}

func (s *FileStore) Save(_ context.Context, sess *models.Session, ttl time.Duration) error {
	if sess == nil {
		return ErrInvalidID
	}

	path, err := s.path(sess.ID)
	if err != nil {
		return err
	}

	record := fileRecord{Session: sess}
	if ttl > 0 {
		record.ExpiresAt = s.now().Add(ttl)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}

	return nil
}
