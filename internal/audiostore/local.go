package audiostore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore writes uploaded clips to the OS temp directory. Lifetime of the
// files is owned by the OS tempdir; the store keeps no index.
type LocalStore struct {
	dir string
}

func NewLocalStore() *LocalStore {
	return &LocalStore{dir: os.TempDir()}
}

func (s *LocalStore) Save(data []byte) (string, error) {
	name := uuid.NewString() + ".webm"
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("save clip: %w", err)
	}
	return name, nil
}

func (s *LocalStore) Path(filename string) (string, error) {
	// strip any path components so serving stays inside the clip dir
	path := filepath.Join(s.dir, filepath.Base(filename))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("clip %s: %w", filename, err)
	}
	return path, nil
}
