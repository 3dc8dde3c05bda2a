package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ragent-ai/ragent/internal/helpers"
	"github.com/ragent-ai/ragent/provider"
)

// FallbackAnswer is the fixed reply when the corpus does not contain the
// answer. The generation prompt instructs the model to use it verbatim.
const FallbackAnswer = "I don't know"

const embedBatchSize = 64

const generationPrompt = `Use the following context to answer the query. Only use the provided context to answer the query. If you do not know the answer, or the answer is not contained in the provided context, respond with "I don't know". Cite the source tag of every passage you rely on.

Context:
%s

Query:
%s`

// Retriever answers questions over the local corpus. The index is built
// lazily on first use; concurrent first callers collapse into one build.
type Retriever struct {
	provider  provider.Provider
	corpusDir string
	topK      int
	splitter  *Splitter
	logger    *log.Logger

	buildOnce sync.Once
	index     *Index
}

func NewRetriever(p provider.Provider, corpusDir string, topK int, splitter *Splitter) *Retriever {
	return &Retriever{
		provider:  p,
		corpusDir: corpusDir,
		topK:      topK,
		splitter:  splitter,
		logger:    log.New(log.Writer(), "[RAG] ", log.LstdFlags),
	}
}

// Warm builds the index ahead of the first query.
func (r *Retriever) Warm(ctx context.Context) { r.ensureIndex(ctx) }

func (r *Retriever) ensureIndex(ctx context.Context) *Index {
	r.buildOnce.Do(func() {
		idx, err := NewIndex()
		if err != nil {
			r.logger.Printf("index init failed: %v", err)
			return
		}
		r.index = idx

		pages := LoadCorpus(r.corpusDir, r.logger)
		var chunks []Chunk
		for _, page := range pages {
			for _, text := range r.splitter.Split(page.Text) {
				chunks = append(chunks, Chunk{
					ID:   uuid.NewString(),
					File: page.File,
					Page: page.Page,
					Text: text,
				})
			}
		}

		vecs := r.embedChunks(ctx, chunks)
		for i, chunk := range chunks {
			var v []float32
			if i < len(vecs) {
				v = vecs[i]
			}
			if err := idx.Add(chunk, v); err != nil {
				r.logger.Printf("indexing chunk from %s failed: %v", chunk.File, err)
			}
		}
		r.logger.Printf("indexed %d chunks from %d pages in %s", len(chunks), len(pages), r.corpusDir)
	})
	return r.index
}

func (r *Retriever) embedChunks(ctx context.Context, chunks []Chunk) [][]float32 {
	var vecs [][]float32
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}
		batch, err := r.provider.Embed(ctx, texts)
		if err != nil {
			r.logger.Printf("embedding batch failed, keyword search only for the remainder: %v", err)
			return vecs
		}
		vecs = append(vecs, batch...)
	}
	return vecs
}

// Retrieve answers query strictly from the corpus. An empty index still runs
// generation so the model produces the fixed fallback.
func (r *Retriever) Retrieve(ctx context.Context, query string) (string, error) {
	idx := r.ensureIndex(ctx)
	if idx == nil {
		return "", fmt.Errorf("retrieval index unavailable")
	}

	hits := r.search(ctx, idx, query)

	var sb strings.Builder
	for _, h := range hits {
		sb.WriteString(helpers.SourceTag(h.File, h.Page))
		sb.WriteString("\n")
		sb.WriteString(h.Text)
		sb.WriteString("\n\n")
	}

	answer, err := r.provider.Complete(ctx, fmt.Sprintf(generationPrompt, sb.String(), query))
	if err != nil {
		return "", fmt.Errorf("grounded generation: %w", err)
	}
	return answer, nil
}

func (r *Retriever) search(ctx context.Context, idx *Index, query string) []Hit {
	bmHits, err := idx.BM25Search(query, r.topK)
	if err != nil {
		r.logger.Printf("keyword search failed: %v", err)
	}

	var vecHits []Hit
	qvecs, err := r.provider.Embed(ctx, []string{query})
	if err != nil || len(qvecs) == 0 {
		r.logger.Printf("query embedding failed, keyword ranking only: %v", err)
	} else {
		vecHits = idx.VectorSearch(qvecs[0], r.topK)
	}

	return idx.FuseRRF(bmHits, vecHits, r.topK)
}
