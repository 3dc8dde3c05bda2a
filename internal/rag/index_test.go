package rag

import "testing"

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	return idx
}

func TestBM25Search(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	if err := idx.Add(Chunk{ID: "c1", File: "a.txt", Text: "the quick brown fox"}, nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Add(Chunk{ID: "c2", File: "b.txt", Text: "slow green turtle"}, nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	hits, err := idx.BM25Search("fox", 5)
	if err != nil {
		t.Fatalf("BM25Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ChunkID != "c1" || hits[0].File != "a.txt" {
		t.Fatalf("unexpected hits %#v", hits)
	}
}

func TestVectorSearchRanksByCosine(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	_ = idx.Add(Chunk{ID: "near", File: "a.pdf", Page: 1, Text: "near"}, []float32{1, 0})
	_ = idx.Add(Chunk{ID: "far", File: "a.pdf", Page: 2, Text: "far"}, []float32{0, 1})

	hits := idx.VectorSearch([]float32{0.9, 0.1}, 2)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ChunkID != "near" || hits[0].Rank != 1 {
		t.Fatalf("unexpected order %#v", hits)
	}
}

func TestVectorSearchSkipsUnembedded(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	_ = idx.Add(Chunk{ID: "no-vec", File: "a.txt", Text: "keyword only"}, nil)

	if hits := idx.VectorSearch([]float32{1}, 5); len(hits) != 0 {
		t.Fatalf("expected no vector hits, got %#v", hits)
	}
	if idx.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", idx.Len())
	}
}

func TestFuseRRFPrefersAgreement(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	a := []Hit{{ChunkID: "x", Rank: 1}, {ChunkID: "y", Rank: 2}}
	b := []Hit{{ChunkID: "y", Rank: 1}, {ChunkID: "z", Rank: 2}}

	fused := idx.FuseRRF(a, b, 3)
	if len(fused) != 3 {
		t.Fatalf("expected 3 fused hits, got %d", len(fused))
	}
	// y appears in both lists and must win.
	if fused[0].ChunkID != "y" {
		t.Fatalf("expected y first, got %#v", fused)
	}
	for i, h := range fused {
		if h.Rank != i+1 {
			t.Fatalf("ranks not reassigned: %#v", fused)
		}
	}
}

func TestFuseRRFTruncates(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	a := []Hit{{ChunkID: "x", Rank: 1}, {ChunkID: "y", Rank: 2}, {ChunkID: "z", Rank: 3}}
	if fused := idx.FuseRRF(a, nil, 2); len(fused) != 2 {
		t.Fatalf("expected 2 fused hits, got %d", len(fused))
	}
}
