package engine

import (
	"context"
	"strings"

	"github.com/voice-for-nature/wadden-sea/internal/knowledge"
)

// compose runs the retrieval-mode query engine: search the index with the
// (possibly prefixed) query, synthesize an answer from the retrieved
// context, and collect the origin label of every chunk. Labels keep the
// backend's ranking order and are not deduplicated; a file contributing
// several chunks appears once per chunk.
func (e *Engine) compose(ctx context.Context, effectiveQuery string, idx Index) (answer string, sources []string, err error) {
	chunks, err := idx.Search(ctx, effectiveQuery, e.topK)
	if err != nil {
		return "", nil, err
	}

	answer, err = e.generator.Complete(ctx, augmentedPrompt(effectiveQuery, chunks))
	if err != nil {
		return "", nil, err
	}

	sources = make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		sources = append(sources, chunk.OriginLabel())
	}
	return answer, sources, nil
}

// augmentedPrompt builds the synthesis prompt: retrieved context first,
// then the instruction to answer from that context alone.
func augmentedPrompt(query string, chunks []knowledge.Chunk) string {
	var b strings.Builder
	b.WriteString("Context information is below.\n---------------------\n")
	for _, chunk := range chunks {
		b.WriteString(chunk.Content)
		b.WriteString("\n")
	}
	b.WriteString("---------------------\n")
	b.WriteString("Given the context information and not prior knowledge, answer the query.\n")
	b.WriteString("Query: ")
	b.WriteString(query)
	b.WriteString("\nAnswer: ")
	return b.String()
}
