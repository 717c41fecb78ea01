package artifact

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/distcrawl/distcrawl/pkg/fileutil"
)

// localStore mirrors the object store's kind hierarchy under a root
// directory, without date partitions, per LocalKey.
type localStore struct {
	root string
}

func newLocalStore(root string) *localStore {
	return &localStore{root: root}
}

func (s *localStore) Put(_ context.Context, url string, kind Kind, data []byte, _ map[string]string) (PutResult, error) {
	path := filepath.Join(s.root, LocalKey(kind, url))
	if err := fileutil.AtomicWriteFile(path, data, 0644); err != nil {
		return PutResult{}, &ArtifactError{Message: err.Error(), Cause: ErrCauseLocalPut}
	}
	return PutResult{Success: true, Location: path, Kind: kind, StorageType: StorageTypeLocal}, nil
}

func (s *localStore) Get(_ context.Context, url string, kind Kind) ([]byte, bool, error) {
	path := filepath.Join(s.root, LocalKey(kind, url))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, &ArtifactError{Message: err.Error(), Cause: ErrCauseLocalGet}
	}
	return data, true, nil
}
