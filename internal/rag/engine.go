package rag

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"
	"sync"
)

// ErrEmptyCorpus rejects a build with no documents.
var ErrEmptyCorpus = errors.New("rag: cannot build index with empty document set")

type indexedChunk struct {
	docIdx int
	vector []float32
}

// Engine owns the knowledge corpus and a similarity index over it. The
// vector path degrades silently to lexical token-overlap ranking whenever
// embedding or the index is unavailable; Retrieve never fails. One mutex
// covers build, upsert, and retrieve so a query during a rebuild blocks
// instead of observing a partially built index.
type Engine struct {
	mu       sync.Mutex
	embedder Embedder
	store    IndexStore

	corpus []Document
	index  []indexedChunk // nil means lexical-only mode
}

// NewEngine creates an engine. embedder and store may be nil: a nil embedder
// forces lexical-only mode, a nil store disables persistence.
func NewEngine(embedder Embedder, store IndexStore) *Engine {
	return &Engine{embedder: embedder, store: store}
}

// LoadPersisted restores the corpus and index from the store. An unreadable
// persisted index is treated as absent, not as an error: the engine starts
// lexical-only until the next rebuild.
func (e *Engine) LoadPersisted(ctx context.Context) int {
	if e.store == nil {
		return 0
	}
	entries, err := e.store.LoadAll(ctx)
	if err != nil {
		log.Printf("rag: failed to load persisted index, starting lexical-only: %v", err)
		return 0
	}
	if len(entries) == 0 {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// A corrupt embedding drops only the vector index; every stored text
	// still joins the corpus so lexical retrieval sees all documents.
	corpus := make([]Document, 0, len(entries))
	index := make([]indexedChunk, 0, len(entries))
	for i, entry := range entries {
		corpus = append(corpus, Document{
			Text:     entry.Content,
			Source:   entry.Source,
			Ordinal:  entry.Ordinal,
			Category: entry.Category,
		})
		if index == nil {
			continue
		}
		vector, err := decodeVector(entry.Embedding)
		if err != nil {
			log.Printf("rag: persisted embedding unreadable, continuing lexical-only: %v", err)
			index = nil
			continue
		}
		index = append(index, indexedChunk{docIdx: i, vector: vector})
	}

	if e.embedder == nil {
		index = nil
	}
	e.corpus = corpus
	e.index = index
	return len(corpus)
}

// Build replaces the corpus and rebuilds the similarity index from scratch.
// Index construction failures are logged and leave the engine in lexical
// mode; the corpus is recorded either way so Build still succeeds.
func (e *Engine) Build(ctx context.Context, documents []Document) error {
	if len(documents) == 0 {
		return ErrEmptyCorpus
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.corpus = append([]Document(nil), documents...)
	e.rebuildIndexLocked(ctx)
	return nil
}

// Upsert appends documents to the corpus. With no index present it triggers
// a full rebuild from the accumulated corpus; with an index present it
// inserts incrementally and persists the new entries.
func (e *Engine) Upsert(ctx context.Context, documents []Document) int {
	if len(documents) == 0 {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	base := len(e.corpus)
	e.corpus = append(e.corpus, documents...)

	if e.index == nil {
		e.rebuildIndexLocked(ctx)
		return len(documents)
	}

	added := make([]indexedChunk, 0, len(documents))
	entries := make([]IndexEntry, 0, len(documents))
	for i, doc := range documents {
		vector, err := e.embedder.Embed(ctx, doc.Text)
		if err != nil {
			log.Printf("rag: incremental index insert failed, dropping to lexical mode: %v", err)
			e.index = nil
			return len(documents)
		}
		encoded, err := encodeVector(vector)
		if err != nil {
			log.Printf("rag: encoding embedding failed, dropping to lexical mode: %v", err)
			e.index = nil
			return len(documents)
		}
		added = append(added, indexedChunk{docIdx: base + i, vector: vector})
		entries = append(entries, IndexEntry{
			Source:    doc.Source,
			Ordinal:   doc.Ordinal,
			Category:  doc.Category,
			Content:   doc.Text,
			Embedding: encoded,
		})
	}
	e.index = append(e.index, added...)

	if e.store != nil {
		if err := e.store.Append(ctx, entries); err != nil {
			log.Printf("rag: persisting index entries failed: %v", err)
		}
	}
	return len(documents)
}

// Retrieve returns up to topK ranked chunks for the query. All backend
// failures degrade to the lexical path; Retrieve never propagates them.
func (e *Engine) Retrieve(ctx context.Context, query string, topK int) []string {
	if topK <= 0 {
		topK = 3
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.index != nil {
		chunks, err := e.vectorRetrieveLocked(ctx, query, topK)
		if err == nil {
			return chunks
		}
		log.Printf("rag: similarity retrieval failed, using lexical fallback: %v", err)
	}
	return lexicalRetrieve(e.corpus, query, topK)
}

// Size reports the corpus length.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.corpus)
}

func (e *Engine) rebuildIndexLocked(ctx context.Context) {
	if e.embedder == nil {
		e.index = nil
		return
	}

	index := make([]indexedChunk, 0, len(e.corpus))
	entries := make([]IndexEntry, 0, len(e.corpus))
	for i, doc := range e.corpus {
		vector, err := e.embedder.Embed(ctx, doc.Text)
		if err != nil {
			log.Printf("rag: index build failed, using lexical fallback: %v", err)
			e.index = nil
			return
		}
		encoded, err := encodeVector(vector)
		if err != nil {
			log.Printf("rag: encoding embedding failed, using lexical fallback: %v", err)
			e.index = nil
			return
		}
		index = append(index, indexedChunk{docIdx: i, vector: vector})
		entries = append(entries, IndexEntry{
			Source:    doc.Source,
			Ordinal:   doc.Ordinal,
			Category:  doc.Category,
			Content:   doc.Text,
			Embedding: encoded,
		})
	}
	e.index = index

	if e.store != nil {
		if err := e.store.ReplaceAll(ctx, entries); err != nil {
			log.Printf("rag: persisting rebuilt index failed: %v", err)
		}
	}
}

func (e *Engine) vectorRetrieveLocked(ctx context.Context, query string, topK int) ([]string, error) {
	queryVector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	type scored struct {
		docIdx int
		score  float64
	}
	results := make([]scored, 0, len(e.index))
	for _, chunk := range e.index {
		results = append(results, scored{
			docIdx: chunk.docIdx,
			score:  cosineSimilarity(queryVector, chunk.vector),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, e.corpus[r.docIdx].Text)
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
