// Package indexer implements the DOC ingestion pipeline: dedup, text
// extraction, tokenization, index write, and artifact persistence,
// plus the read-side query surface over the resulting inverted index.
package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/distcrawl/distcrawl/internal/artifact"
	"github.com/distcrawl/distcrawl/internal/bus"
	"github.com/distcrawl/distcrawl/internal/index"
	"github.com/distcrawl/distcrawl/internal/metadata"
	"github.com/distcrawl/distcrawl/internal/textextract"
	"github.com/distcrawl/distcrawl/internal/tokenize"
)

/*
Responsibilities
- Convert HTML bytes into searchable structured data
- Maintain an on-disk full-text index
- Persist artifacts
- Serve read-side queries over the index it maintains

Concurrency model: single-threaded cooperative receive loop; the
index library's internal locking serializes commits, so no additional
synchronization is needed here.
*/

// Indexer runs the ingestion pipeline over DOC messages received on
// its bus inbox.
type Indexer struct {
	param      Param
	bus        *bus.Bus
	store      *index.Store
	artifacts  artifact.Store
	lemmatizer tokenize.Lemmatizer
	sink       metadata.MetadataSink
}

func New(param Param, b *bus.Bus, store *index.Store, artifacts artifact.Store, lemmatizer tokenize.Lemmatizer, sink metadata.MetadataSink) *Indexer {
	if lemmatizer == nil {
		lemmatizer = tokenize.NoopLemmatizer{}
	}
	return &Indexer{param: param, bus: b, store: store, artifacts: artifacts, lemmatizer: lemmatizer, sink: sink}
}

// Run blocks, ingesting DOC messages until the shutdown sentinel
// arrives on the TASK tag or ctx is cancelled.
func (ix *Indexer) Run(ctx context.Context) error {
	inbox, err := ix.bus.Inbox(ix.param.Rank)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-inbox:
			if !ok {
				return nil
			}
			switch msg.Tag {
			case bus.TagTask:
				if task, ok := msg.Body.(bus.TaskPayload); ok && task.IsSentinel() {
					return nil
				}
			case bus.TagDoc:
				doc, ok := msg.Body.(bus.DocPayload)
				if !ok {
					continue
				}
				ix.ingest(ctx, doc)
			}
		}
	}
}

// ingest runs steps 1-8 of the ingestion pipeline for one document.
func (ix *Indexer) ingest(ctx context.Context, doc bus.DocPayload) {
	processed, err := ix.store.IsProcessed(doc.URL)
	if err != nil {
		ix.sendError(ctx, doc.URL, &IngestError{Message: err.Error(), Cause: ErrCauseIndexWrite})
		return
	}
	if processed {
		ix.sendStatus(ctx, doc.URL, "already indexed")
		return
	}

	extraction, err := textextract.Extract(doc.Content)
	if err != nil {
		ix.sendError(ctx, doc.URL, &IngestError{Message: err.Error(), Cause: ErrCauseTextExtract})
		return
	}
	title := doc.Title
	if title == "" {
		title = extraction.Title
	}

	tokens := tokenize.Tokenize(extraction.Text, ix.lemmatizer)
	keywords := tokenize.Keywords(tokens, keywordCount)
	sentences := tokenize.SplitSentences(extraction.Text)
	summary := tokenize.Summary(sentences, summarySentences)

	now := time.Now()
	record := index.Document{
		URL:         doc.URL,
		Title:       title,
		Content:     extraction.Text,
		Keywords:    keywords,
		Summary:     summary,
		LastUpdated: now,
	}
	if err := ix.store.Upsert(ctx, record); err != nil {
		ix.sendError(ctx, doc.URL, &IngestError{Message: err.Error(), Cause: ErrCauseIndexWrite})
		return
	}

	ix.writeArtifacts(ctx, doc, record)
	ix.sendStatus(ctx, doc.URL, "indexed")
}

// writeArtifacts pushes raw HTML, processed text, and metadata to the
// artifact store. Failures here are logged but never block the index
// write, which has already committed by the time this runs.
func (ix *Indexer) writeArtifacts(ctx context.Context, doc bus.DocPayload, record index.Document) {
	if result, err := ix.artifacts.Put(ctx, doc.URL, artifact.KindRawHTML, doc.Content, nil); err != nil {
		ix.sink.RecordError(time.Now(), "indexer", "writeArtifacts", metadata.CauseStorageFailure, err.Error(),
			metadata.NewAttr(metadata.AttrURL, doc.URL), metadata.NewAttr(metadata.AttrKind, string(artifact.KindRawHTML)))
	} else {
		ix.sink.RecordArtifact(string(artifact.KindRawHTML), result.Location, metadata.NewAttr(metadata.AttrURL, doc.URL))
	}
	if result, err := ix.artifacts.Put(ctx, doc.URL, artifact.KindProcessedText, []byte(record.Content), nil); err != nil {
		ix.sink.RecordError(time.Now(), "indexer", "writeArtifacts", metadata.CauseStorageFailure, err.Error(),
			metadata.NewAttr(metadata.AttrURL, doc.URL), metadata.NewAttr(metadata.AttrKind, string(artifact.KindProcessedText)))
	} else {
		ix.sink.RecordArtifact(string(artifact.KindProcessedText), result.Location, metadata.NewAttr(metadata.AttrURL, doc.URL))
	}
	metaBytes, err := json.Marshal(record)
	if err != nil {
		return
	}
	if result, err := ix.artifacts.Put(ctx, doc.URL, artifact.KindMetadata, metaBytes, nil); err != nil {
		ix.sink.RecordError(time.Now(), "indexer", "writeArtifacts", metadata.CauseStorageFailure, err.Error(),
			metadata.NewAttr(metadata.AttrURL, doc.URL), metadata.NewAttr(metadata.AttrKind, string(artifact.KindMetadata)))
	} else {
		ix.sink.RecordArtifact(string(artifact.KindMetadata), result.Location, metadata.NewAttr(metadata.AttrURL, doc.URL))
	}
}

// Query serves the read side: parse queryStr against fields (default
// {title, content, keywords}), score with BM25F, and return a page of
// hits.
func (ix *Indexer) Query(ctx context.Context, queryStr string, fields []string, limit, offset int) ([]index.Hit, error) {
	return ix.store.Query(ctx, queryStr, fields, limit, offset)
}

func (ix *Indexer) sendStatus(ctx context.Context, url, text string) {
	ix.send(ctx, bus.TagStatus, bus.StatusPayload{Text: fmt.Sprintf("%s: %s", text, url), URL: url})
}

func (ix *Indexer) sendError(ctx context.Context, url string, err error) {
	ix.send(ctx, bus.TagError, bus.ErrorPayload{Text: err.Error(), URL: url})
}

func (ix *Indexer) send(ctx context.Context, tag bus.Tag, body interface{}) {
	if err := ix.bus.Send(ctx, ix.param.CoordinatorRank, bus.Message{From: ix.param.Rank, Tag: tag, Body: body}); err != nil {
		ix.sink.RecordError(time.Now(), "indexer", "send", metadata.CauseNetworkFailure, err.Error(),
			metadata.NewAttr(metadata.AttrTag, tag.String()))
	}
}
