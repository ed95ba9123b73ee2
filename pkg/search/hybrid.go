package search

import (
	"sort"
	"strings"
)

// Hybrid scoring weights. These are contract constants shared with the
// frontend's score display, not tunables.
const (
	SemanticWeight = 0.7
	LexicalWeight  = 0.3
)

// ScoredChunk is a transient per-query result pairing a chunk with its
// semantic, lexical, and combined relevance. Never persisted.
type ScoredChunk struct {
	ChunkID  string  `json:"chunk_id"`
	Text     string  `json:"text"`
	Semantic float64 `json:"semantic_score"`
	Lexical  float64 `json:"lexical_score"`
	Combined float64 `json:"combined_score"`
}

// LexicalOverlap measures what fraction of the question's distinct words
// appear in the text. Case-folded, whitespace-tokenized. A question with no
// words scores 0.
func LexicalOverlap(question, text string) float64 {
	questionWords := wordSet(question)
	if len(questionWords) == 0 {
		return 0
	}

	textWords := wordSet(text)
	matched := 0
	for w := range questionWords {
		if _, ok := textWords[w]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(questionWords))
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// ScoreChunk combines a chunk's semantic similarity with its lexical
// overlap against the question.
func ScoreChunk(question, chunkID, text string, semantic float64) ScoredChunk {
	lexical := LexicalOverlap(question, text)
	return ScoredChunk{
		ChunkID:  chunkID,
		Text:     text,
		Semantic: semantic,
		Lexical:  lexical,
		Combined: SemanticWeight*semantic + LexicalWeight*lexical,
	}
}

// Rank sorts chunks by combined score descending, in place. Ties keep
// their incoming order, which callers arrange to be semantic-score order.
func Rank(chunks []ScoredChunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Combined > chunks[j].Combined
	})
}
