package artifact

import "context"

/*
Responsibilities
- Durable, idempotent storage for raw HTML, processed text, and
  per-document metadata
- Deterministic key derivation shared by write and read paths
- Transparent fallback to a local directory tree when the object
  store is unavailable

Output Characteristics
- Idempotent writes (same url/kind/day always resolves to the same key)
- Never blocks retrieval on the object store alone
*/

// Store persists and retrieves artifacts by (url, kind).
type Store interface {
	Put(ctx context.Context, url string, kind Kind, data []byte, metadata map[string]string) (PutResult, error)
	Get(ctx context.Context, url string, kind Kind) ([]byte, bool, error)
}
