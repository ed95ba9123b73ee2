package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
)

// DiskStore keeps raw book text as files under a base directory. The same
// directory is served statically by the HTTP layer for download.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Put(ctx context.Context, key string, data []byte) error {
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return apperror.Wrap(apperror.KindInternal, "objectstore.disk", "failed to store object", err)
	}
	return nil
}

func (s *DiskStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperror.New(apperror.KindNotFound, "objectstore.disk",
				fmt.Sprintf("object not found: %s", key))
		}
		return nil, apperror.Wrap(apperror.KindInternal, "objectstore.disk", "failed to read object", err)
	}
	return data, nil
}

// path flattens the key to its base name so a crafted key cannot escape
// the uploads directory.
func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key))
}
