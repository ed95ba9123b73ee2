package prompt

import (
	"fmt"
	"strings"

	"github.com/soujanyavullam/epic-web-app/pkg/search"
)

// NoAnswerSentinel is returned to the user when generation produced nothing
// usable. The query service substitutes it when the filtered answer is
// shorter than 10 characters after trimming.
const NoAnswerSentinel = "I cannot find a clear answer to this question in the provided context."

// Builder assembles the question-answering prompt from the retrieved
// passages.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// BuildQAPrompt lays out the scored passages as numbered sources followed by
// the grounding instructions and the question.
func (b *Builder) BuildQAPrompt(question, bookTitle string, chunks []search.ScoredChunk) string {
	contextParts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		header := fmt.Sprintf("[Source: %s, Chunk %d, Combined Score: %.3f]", bookTitle, i+1, chunk.Combined)
		contextParts = append(contextParts, header+"\n"+chunk.Text)
	}

	contextBlock := strings.Join(contextParts, "\n\n")

	return fmt.Sprintf(`You are a knowledgeable assistant that answers questions about books based on the provided context.

IMPORTANT INSTRUCTIONS:
1. Answer ONLY using information from the provided context
2. If the answer is not clearly stated in the context, say "I cannot find a clear answer to this question in the provided context"
3. Do not make assumptions or inferences beyond what is explicitly stated
4. Be precise and accurate in your response
5. If you find conflicting information in the context, mention this
6. Cite specific parts of the context when possible
7. Use appropriate, family-friendly language in your responses
8. If discussing sensitive topics, use respectful and appropriate terminology
9. Maintain a scholarly and professional tone throughout your response

Context:
%s

Question: %s

Answer:`, contextBlock, question)
}
