// Package index owns the indexer's two durable structures: the per-URL
// Document record and processed-URL membership set (go.etcd.io/bbolt,
// committed in a single transaction per ingest), and the inverted index
// itself, realized as a SQLite FTS5 virtual table queried with its native
// bm25() ranking function, scored BM25F-style over {title, content,
// keywords}.
//
// Build note: FTS5 must be compiled into the mattn/go-sqlite3 driver via
// the sqlite_fts5 build tag; this package assumes that tag is set for the
// binary, matching how erndmrc-spider2 pins its own sqlite3 build.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	bolt "go.etcd.io/bbolt"

	_ "github.com/mattn/go-sqlite3"
)

var (
	bucketDocuments = []byte("documents")
	bucketProcessed = []byte("processed")
)

// Store is the indexer's combined document/inverted-index handle.
type Store struct {
	docs *bolt.DB
	fts  *sql.DB
}

// Open opens (creating if necessary) the bbolt document store at
// boltPath and the SQLite FTS5 index at ftsPath.
func Open(boltPath, ftsPath string) (*Store, error) {
	docs, err := bolt.Open(boltPath, 0600, nil)
	if err != nil {
		return nil, &IndexError{Message: err.Error(), Cause: ErrCauseOpen}
	}
	err = docs.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketDocuments); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketProcessed)
		return err
	})
	if err != nil {
		docs.Close()
		return nil, &IndexError{Message: err.Error(), Cause: ErrCauseOpen}
	}

	fts, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal=WAL&_busy_timeout=5000", ftsPath))
	if err != nil {
		docs.Close()
		return nil, &IndexError{Message: err.Error(), Cause: ErrCauseOpen}
	}
	fts.SetMaxOpenConns(1)
	if _, err := fts.Exec(`CREATE VIRTUAL TABLE IF NOT EXISTS docs_fts USING fts5(url UNINDEXED, title, content, keywords)`); err != nil {
		docs.Close()
		fts.Close()
		return nil, &IndexError{Message: err.Error(), Cause: ErrCauseOpen}
	}

	return &Store{docs: docs, fts: fts}, nil
}

func (s *Store) Close() error {
	ftsErr := s.fts.Close()
	docsErr := s.docs.Close()
	if ftsErr != nil {
		return ftsErr
	}
	return docsErr
}

// IsProcessed reports whether url has already completed a full ingest.
func (s *Store) IsProcessed(url string) (bool, error) {
	var processed bool
	err := s.docs.View(func(tx *bolt.Tx) error {
		processed = tx.Bucket(bucketProcessed).Get([]byte(url)) != nil
		return nil
	})
	return processed, err
}

// Upsert writes doc's inverted-index entry and document record. The FTS5
// write happens first; only on its success does the bbolt transaction
// commit the document record and processed-membership mark, so a failed
// inverted-index write never leaves a URL marked processed.
func (s *Store) Upsert(ctx context.Context, doc Document) error {
	if err := s.upsertFTS(ctx, doc); err != nil {
		return &IndexError{Message: err.Error(), Cause: ErrCauseFTSWrite}
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return &IndexError{Message: err.Error(), Cause: ErrCauseDocumentPut}
	}

	err = s.docs.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketDocuments).Put([]byte(doc.URL), body); err != nil {
			return err
		}
		return tx.Bucket(bucketProcessed).Put([]byte(doc.URL), []byte{1})
	})
	if err != nil {
		return &IndexError{Message: err.Error(), Cause: ErrCauseDocumentPut}
	}
	return nil
}

func (s *Store) upsertFTS(ctx context.Context, doc Document) error {
	tx, err := s.fts.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM docs_fts WHERE url = ?`, doc.URL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO docs_fts(url, title, content, keywords) VALUES (?, ?, ?, ?)`,
		doc.URL, doc.Title, doc.Content, strings.Join(doc.Keywords, " ")); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns the document record for url, or ok=false if it has never
// been ingested.
func (s *Store) Get(url string) (Document, bool, error) {
	var doc Document
	var found bool
	err := s.docs.View(func(tx *bolt.Tx) error {
		body := tx.Bucket(bucketDocuments).Get([]byte(url))
		if body == nil {
			return nil
		}
		found = true
		return json.Unmarshal(body, &doc)
	})
	if err != nil {
		return Document{}, false, &IndexError{Message: err.Error(), Cause: ErrCauseDocumentRead}
	}
	return doc, found, nil
}
