package rag

import (
	"math"
	"sort"
	"sync"

	"github.com/blevesearch/bleve"
)

const rrfK = 60 // reciprocal-rank-fusion constant

// Chunk is an indexed passage with its source locator.
type Chunk struct {
	ID   string
	File string
	Page int
	Text string
}

// Hit is a scored retrieval result.
type Hit struct {
	ChunkID string
	File    string
	Page    int
	Text    string
	Score   float64
	Rank    int
}

type chunkVec struct {
	id  string
	vec []float32
}

// Index is an in-memory hybrid index: a bleve keyword index plus raw
// embedding vectors, fused with RRF at query time.
type Index struct {
	bleve   bleve.Index
	meta    map[string]Chunk
	vectors []chunkVec
	mu      sync.RWMutex
}

func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Index{bleve: idx, meta: make(map[string]Chunk)}, nil
}

// Add indexes a chunk. vec may be nil when embedding failed; the chunk then
// only participates in keyword search.
func (ix *Index) Add(chunk Chunk, vec []float32) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.meta[chunk.ID] = chunk
	if len(vec) > 0 {
		ix.vectors = append(ix.vectors, chunkVec{id: chunk.ID, vec: vec})
	}
	return ix.bleve.Index(chunk.ID, chunk)
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.meta)
}

func (ix *Index) BM25Search(q string, k int) ([]Hit, error) {
	query := bleve.NewQueryStringQuery(q)
	searchReq := bleve.NewSearchRequestOptions(query, k*3, 0, false)
	res, err := ix.bleve.Search(searchReq)
	if err != nil {
		return nil, err
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	var out []Hit
	for i, hit := range res.Hits {
		chunk := ix.meta[hit.ID]
		out = append(out, Hit{
			ChunkID: hit.ID, File: chunk.File, Page: chunk.Page,
			Text: chunk.Text, Score: hit.Score, Rank: i + 1,
		})
		if len(out) >= k {
			break
		}
	}
	return out, nil
}

func (ix *Index) VectorSearch(q []float32, k int) []Hit {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	type scored struct {
		id    string
		score float64
	}
	var scoreds []scored
	for _, v := range ix.vectors {
		scoreds = append(scoreds, scored{id: v.id, score: cosine(q, v.vec)})
	}
	sort.Slice(scoreds, func(i, j int) bool { return scoreds[i].score > scoreds[j].score })

	var out []Hit
	for i, sc := range scoreds {
		chunk := ix.meta[sc.id]
		out = append(out, Hit{
			ChunkID: sc.id, File: chunk.File, Page: chunk.Page,
			Text: chunk.Text, Score: sc.score, Rank: i + 1,
		})
		if len(out) >= k {
			break
		}
	}
	return out
}

// FuseRRF merges two ranked lists by reciprocal-rank fusion.
func (ix *Index) FuseRRF(a, b []Hit, k int) []Hit {
	type agg struct {
		item  Hit
		score float64
	}
	m := map[string]*agg{}
	add := func(list []Hit) {
		for _, h := range list {
			x, ok := m[h.ChunkID]
			if !ok {
				x = &agg{item: h}
				m[h.ChunkID] = x
			}
			x.score += 1.0 / float64(rrfK+h.Rank)
		}
	}
	add(a)
	add(b)

	items := make([]*agg, 0, len(m))
	for _, v := range m {
		items = append(items, v)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].score > items[j].score })

	n := min(k, len(items))
	out := make([]Hit, 0, n)
	for i := 0; i < n; i++ {
		h := items[i].item
		h.Score = items[i].score
		h.Rank = i + 1
		out = append(out, h)
	}
	return out
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		ai := float64(a[i])
		bi := float64(b[i])
		dot += ai * bi
		na += ai * ai
		nb += bi * bi
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
