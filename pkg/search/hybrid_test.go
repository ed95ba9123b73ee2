package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexicalOverlap(t *testing.T) {
	tests := []struct {
		name     string
		question string
		text     string
		want     float64
	}{
		{"full overlap", "who is rama", "rama is who we ask about", 1.0},
		{"partial overlap", "who is the king", "the king sat down", 0.5},
		{"no overlap", "who is rama", "sita went away", 0.0},
		{"case folded", "WHO IS RAMA", "rama who is", 1.0},
		{"empty question", "", "anything at all", 0.0},
		{"duplicate question words count once", "king king king", "the king", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, LexicalOverlap(tt.question, tt.text), 1e-12)
		})
	}
}

func TestScoreChunkExactWeights(t *testing.T) {
	sc := ScoreChunk("who is the king", "book-0001", "the king sat down", 0.5)

	assert.Equal(t, 0.5, sc.Semantic)
	assert.Equal(t, 0.5, sc.Lexical)
	assert.InDelta(t, 0.7*0.5+0.3*0.5, sc.Combined, 1e-12)
}

func TestRankPrefersLexicalOnEqualSemantic(t *testing.T) {
	// Two chunks, identical semantic score: the one with lexical overlap
	// 0.4 (combined 0.7*0.5+0.3*0.4 = 0.47) must outrank the one with
	// 0.0 (combined 0.35).
	question := "alpha beta gamma delta epsilon"
	chunks := []ScoredChunk{
		ScoreChunk(question, "plain", "nothing shared here", 0.5),
		ScoreChunk(question, "overlapping", "alpha beta words only", 0.5),
	}

	assert.InDelta(t, 0.35, chunks[0].Combined, 1e-12)
	assert.InDelta(t, 0.47, chunks[1].Combined, 1e-12)

	Rank(chunks)

	assert.Equal(t, "overlapping", chunks[0].ChunkID)
	assert.Equal(t, "plain", chunks[1].ChunkID)
}

func TestRankStableOnTies(t *testing.T) {
	chunks := []ScoredChunk{
		{ChunkID: "a", Combined: 0.5},
		{ChunkID: "b", Combined: 0.5},
		{ChunkID: "c", Combined: 0.9},
	}

	Rank(chunks)

	assert.Equal(t, "c", chunks[0].ChunkID)
	assert.Equal(t, "a", chunks[1].ChunkID, "ties keep semantic-rank order")
	assert.Equal(t, "b", chunks[2].ChunkID)
}

func TestRankDeterministic(t *testing.T) {
	build := func() []ScoredChunk {
		return []ScoredChunk{
			{ChunkID: "x", Combined: 0.31},
			{ChunkID: "y", Combined: 0.31},
			{ChunkID: "z", Combined: 0.62},
		}
	}

	first := build()
	Rank(first)
	for i := 0; i < 5; i++ {
		again := build()
		Rank(again)
		assert.Equal(t, first, again)
	}
}
