package search

import (
	"fmt"
	"math"
	"sort"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
)

const (
	BackendBrute   = "brute"
	BackendSharded = "sharded"
)

// Entry is the unit a similarity index is built from. The index owns its
// entries: vectors are copied and normalized at build time, so mutating the
// caller's slices afterwards cannot corrupt search results.
type Entry struct {
	BookTitle string
	ChunkID   string
	Vector    []float64
}

// Hit is one search result: a chunk id with its cosine similarity to the
// query, in [-1, 1].
type Hit struct {
	ChunkID string
	Score   float64
}

// Index answers top-k similarity queries over a fixed set of entries.
// Results are ordered by score descending; ties keep build insertion order.
// Both backends honor the same ranking contract, they only differ in how
// the scan is executed.
type Index interface {
	Search(query []float64, k int) ([]Hit, error)
	Len() int
}

// NewIndex builds an index over entries with the given backend.
func NewIndex(backend string, entries []Entry) (Index, error) {
	switch backend {
	case BackendBrute, "":
		return newBruteIndex(entries), nil
	case BackendSharded:
		return newShardedIndex(entries), nil
	default:
		return nil, fmt.Errorf("unsupported index backend: %s", backend)
	}
}

// bruteIndex scans every vector on each query. Exact, O(n*d), fine for the
// per-book entry counts this system sees.
type bruteIndex struct {
	ids     []string
	vectors [][]float64 // L2-normalized at build time
	dim     int
}

func newBruteIndex(entries []Entry) *bruteIndex {
	idx := &bruteIndex{
		ids:     make([]string, len(entries)),
		vectors: make([][]float64, len(entries)),
	}
	for i, e := range entries {
		idx.ids[i] = e.ChunkID
		idx.vectors[i] = normalize(e.Vector)
		if idx.dim == 0 {
			idx.dim = len(e.Vector)
		}
	}
	return idx
}

func (b *bruteIndex) Len() int {
	return len(b.ids)
}

func (b *bruteIndex) Search(query []float64, k int) ([]Hit, error) {
	if err := checkDimension(len(query), b.dim); err != nil {
		return nil, err
	}

	q := normalize(query)
	hits := make([]Hit, len(b.ids))
	for i, v := range b.vectors {
		hits[i] = Hit{ChunkID: b.ids[i], Score: dot(q, v)}
	}

	return topK(hits, k), nil
}

// topK sorts hits by score descending, keeping insertion order on ties,
// and truncates to k.
func topK(hits []Hit, k int) []Hit {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if k > 0 && k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

func checkDimension(got, want int) error {
	if want != 0 && got != want {
		return apperror.New(apperror.KindInvalid, "search.index",
			fmt.Sprintf("query dimension mismatch: got %d, want %d", got, want))
	}
	return nil
}

// normalize returns an L2-normalized copy of v. The zero vector is returned
// as-is so it scores 0 against everything instead of dividing by zero.
func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	out := make([]float64, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}
	mag := math.Sqrt(sum)
	for i, x := range v {
		out[i] = x / mag
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Zero-magnitude input scores 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	return dot(normalize(a), normalize(b))
}
