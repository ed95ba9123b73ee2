package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPreservesWords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
	}{
		{"short sentence", "the quick brown fox jumps over the lazy dog", 10},
		{"single word", "hello", 100},
		{"word longer than chunk", "supercalifragilisticexpialidocious tiny", 10},
		{"irregular whitespace", "one\t two\n\nthree    four", 8},
		{"prose", strings.Repeat("rama went to the forest with sita ", 50), 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.text, tt.maxChars)

			var got []string
			for _, c := range chunks {
				got = append(got, strings.Fields(c)...)
			}
			assert.Equal(t, strings.Fields(tt.text), got, "word sequence must survive splitting")
		})
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("deterministic boundaries matter ", 200)

	first := Split(text, 300)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Split(text, 300))
	}
}

func TestSplitEmptyInput(t *testing.T) {
	assert.Nil(t, Split("", 4000))
	assert.Nil(t, Split("   \n\t  ", 4000))
}

func TestSplitNonEmptyProducesChunk(t *testing.T) {
	chunks := Split("a", 4000)
	assert.Len(t, chunks, 1)
	assert.Equal(t, "a", chunks[0])
}

func TestSplitChunkSizes(t *testing.T) {
	text := strings.Repeat("word ", 1800) // 9000 characters of 4-letter words
	chunks := Split(text, 4000)

	assert.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 4000)
	}
}

func TestSplitNeverCutsWords(t *testing.T) {
	text := "alpha beta gamma delta epsilon"
	chunks := Split(text, 11)

	for _, c := range chunks {
		for _, w := range strings.Fields(c) {
			assert.Contains(t, []string{"alpha", "beta", "gamma", "delta", "epsilon"}, w)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens("abc"))
	assert.Equal(t, 1000, EstimateTokens(strings.Repeat("x", 4000)))
}
