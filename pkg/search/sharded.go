package search

import (
	"runtime"
	"sort"
	"sync"
)

// shardedIndex splits the entry set across shards and scans them in
// parallel on each query. The scan is still exact: every shard is probed
// and the partial results are merged, so ranking is identical to the brute
// backend. Worth it only for books with very large chunk counts.
type shardedIndex struct {
	shards []*indexShard
	dim    int
	total  int
}

type indexShard struct {
	ids     []string
	pos     []int // global insertion position, used to keep ties stable
	vectors [][]float64
}

func newShardedIndex(entries []Entry) *shardedIndex {
	numShards := runtime.NumCPU()
	if numShards > len(entries) {
		numShards = len(entries)
	}
	if numShards < 1 {
		numShards = 1
	}

	idx := &shardedIndex{
		shards: make([]*indexShard, numShards),
		total:  len(entries),
	}
	for i := range idx.shards {
		idx.shards[i] = &indexShard{}
	}

	for i, e := range entries {
		s := idx.shards[i%numShards]
		s.ids = append(s.ids, e.ChunkID)
		s.pos = append(s.pos, i)
		s.vectors = append(s.vectors, normalize(e.Vector))
		if idx.dim == 0 {
			idx.dim = len(e.Vector)
		}
	}

	return idx
}

func (s *shardedIndex) Len() int {
	return s.total
}

type shardedHit struct {
	Hit
	pos int
}

func (s *shardedIndex) Search(query []float64, k int) ([]Hit, error) {
	if err := checkDimension(len(query), s.dim); err != nil {
		return nil, err
	}

	q := normalize(query)
	partials := make([][]shardedHit, len(s.shards))

	var wg sync.WaitGroup
	for i, shard := range s.shards {
		wg.Add(1)
		go func(i int, shard *indexShard) {
			defer wg.Done()
			hits := make([]shardedHit, len(shard.ids))
			for j, v := range shard.vectors {
				hits[j] = shardedHit{
					Hit: Hit{ChunkID: shard.ids[j], Score: dot(q, v)},
					pos: shard.pos[j],
				}
			}
			partials[i] = hits
		}(i, shard)
	}
	wg.Wait()

	var merged []shardedHit
	for _, p := range partials {
		merged = append(merged, p...)
	}

	// Sort on (score desc, insertion pos asc) so ties resolve exactly as
	// the brute backend would.
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].pos < merged[j].pos
	})

	if k > 0 && k < len(merged) {
		merged = merged[:k]
	}

	hits := make([]Hit, len(merged))
	for i, m := range merged {
		hits[i] = m.Hit
	}
	return hits, nil
}
