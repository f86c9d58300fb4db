// Package filestore keeps per-user study data as JSON documents under a
// single data directory.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/pkg/validator"
)

// File name suffixes, one document per user and concern.
const (
	cardsSuffix   = "_flashcards.json"
	statsSuffix   = "_stats.json"
	profileSuffix = "_profile.json"
	usersFile     = "users.json"
)

// Dir is a data directory shared by the file-backed repositories. Writes to
// the same directory are serialized.
type Dir struct {
	root string
	mu   sync.Mutex
}

// NewDir creates the directory if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Dir{root: root}, nil
}

// Root returns the directory path.
func (d *Dir) Root() string { return d.root }

func (d *Dir) userPath(username, suffix string) (string, error) {
	if err := validator.ValidateVar(username, "required,username"); err != nil {
		return "", apperrors.NewValidationError("username", "must be non-empty and use only letters, digits, '.', '_' or '-'")
	}
	return filepath.Join(d.root, username+suffix), nil
}

// readJSON decodes path into v. It reports false when the file does not exist.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// writeFile replaces path with data. Readers see either the old or the new
// content, never a partial write.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
