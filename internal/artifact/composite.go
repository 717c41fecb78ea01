package artifact

import (
	"context"
)

// compositeStore fans writes/reads out across the object store and a
// local fallback. Object-store failures never surface to the caller
// as long as the local fallback succeeds; only an exhausted fallback
// is reported as an error.
type compositeStore struct {
	object     *s3Store
	local      *localStore
	objectDead bool
}

// NewStore builds the composite store, bootstrapping bucket existence
// against the configured S3 endpoint. Any bootstrap failure other than
// a clean NOT_FOUND/create cycle disables the object store for the
// life of the returned Store, and all traffic serves from localRoot.
func NewStore(ctx context.Context, cfg AWSConfig, localRoot string) (Store, error) {
	local := newLocalStore(localRoot)

	object, err := newS3Store(ctx, cfg)
	if err != nil {
		return &compositeStore{local: local, objectDead: true}, nil
	}
	if err := object.bootstrap(ctx); err != nil {
		return &compositeStore{local: local, objectDead: true}, nil
	}
	return &compositeStore{object: object, local: local}, nil
}

func (c *compositeStore) Put(ctx context.Context, url string, kind Kind, data []byte, metadata map[string]string) (PutResult, error) {
	if !c.objectDead {
		result, err := c.object.Put(ctx, url, kind, data, metadata)
		if err == nil {
			return result, nil
		}
	}

	result, err := c.local.Put(ctx, url, kind, data, metadata)
	if err != nil {
		return PutResult{Success: false, Kind: kind, StorageType: StorageTypeNone, Error: err.Error()}, err
	}
	return result, nil
}

func (c *compositeStore) Get(ctx context.Context, url string, kind Kind) ([]byte, bool, error) {
	if !c.objectDead {
		data, found, err := c.object.Get(ctx, url, kind)
		if err == nil && found {
			return data, true, nil
		}
	}
	return c.local.Get(ctx, url, kind)
}
