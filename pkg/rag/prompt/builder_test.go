package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soujanyavullam/epic-web-app/pkg/search"
)

func TestBuildQAPrompt(t *testing.T) {
	b := NewBuilder()

	chunks := []search.ScoredChunk{
		{ChunkID: "ramayana-0003", Text: "Rama was the king of Ayodhya.", Combined: 0.912},
		{ChunkID: "ramayana-0007", Text: "Sita accompanied him to the forest.", Combined: 0.455},
	}

	prompt := b.BuildQAPrompt("who is the king", "ramayana", chunks)

	assert.Contains(t, prompt, "[Source: ramayana, Chunk 1, Combined Score: 0.912]")
	assert.Contains(t, prompt, "[Source: ramayana, Chunk 2, Combined Score: 0.455]")
	assert.Contains(t, prompt, "Rama was the king of Ayodhya.")
	assert.Contains(t, prompt, "Question: who is the king")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))

	// Sources come in ranking order.
	assert.Less(t, strings.Index(prompt, "Rama was"), strings.Index(prompt, "Sita accompanied"))
}

func TestBuildQAPromptNoChunks(t *testing.T) {
	b := NewBuilder()

	prompt := b.BuildQAPrompt("anything", "empty-book", nil)

	assert.Contains(t, prompt, "Question: anything")
	assert.NotContains(t, prompt, "[Source:")
}
