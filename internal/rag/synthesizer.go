package rag

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"legalai/internal/contextutil"
)

// Generator invokes the text-generation model with a fully built prompt.
type Generator interface {
	// Generate returns the model output for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// InsufficientInfoMessage is the canonical reply when the retrieved context
// cannot support a grounded answer. It doubles as the decline phrasing the
// model is instructed to use, so the grounding post-check can detect it.
const InsufficientInfoMessage = "I don't have enough verified information in my knowledge base to answer that precisely."

// insufficiencyMarkers are the phrases the grounding post-check looks for in
// model output. Detection is a heuristic over the prompt convention.
var insufficiencyMarkers = []string{
	"don't have enough",
	"do not have enough",
	"insufficient information",
	"cannot provide guidance",
}

var sourceMarkerRe = regexp.MustCompile(`(?i)\[source\s+(\d+)\]`)

// Synthesis is the outcome of one generation pass.
type Synthesis struct {
	// Text is the raw answer text, without disclaimer.
	Text string
	// Grounded reports whether the answer is supported by the context.
	Grounded bool
	// Used holds zero-based ContextSet indices of the chunks that plausibly
	// contributed to the answer.
	Used []int
}

const promptHeader = `You are a legal AI assistant that provides legal awareness and information.

Strict guidelines:
1. Answer ONLY from the retrieved legal context below.
2. If the context does not contain sufficient information, respond with:
   "` + InsufficientInfoMessage + `"
3. NEVER make up legal section numbers or citations.
4. NEVER provide guidance on illegal activities.
5. Cite the sources you rely on using their markers, e.g. [Source 1].
6. Keep responses clear, concise, and accurate, in a helpful and educational tone.`

// Synthesizer builds the context-constrained prompt and runs the generation
// model. The context-only constraint is a prompt-level convention; grounding
// detection is a heuristic post-check, not a guarantee.
type Synthesizer struct {
	generator Generator
}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer(generator Generator) *Synthesizer {
	return &Synthesizer{generator: generator}
}

// Synthesize answers the query from the supplied context. An empty context
// short-circuits without calling the model.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, contextSet ContextSet) (Synthesis, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(contextSet) == 0 {
		logger.InfoContext(ctx, "no context available, skipping generation")
		return Synthesis{Text: InsufficientInfoMessage, Grounded: false}, nil
	}

	prompt := buildPrompt(query, contextSet)
	logger.DebugContext(ctx, "prompt built", "prompt_length", len(prompt), "chunks_included", len(contextSet))

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		logger.ErrorContext(ctx, "generation call failed", "error", err)
		return Synthesis{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	answer = strings.TrimSpace(answer)
	logger.InfoContext(ctx, "received model response", "answer_length", len(answer))

	if isInsufficient(answer) {
		return Synthesis{Text: InsufficientInfoMessage, Grounded: false}, nil
	}

	return Synthesis{
		Text:     answer,
		Grounded: true,
		Used:     usedChunkIndices(answer, len(contextSet)),
	}, nil
}

// buildPrompt serializes the context into numbered source blocks followed by
// the question. The numbering is what [Source N] markers refer back to.
func buildPrompt(query string, contextSet ContextSet) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\n--- Retrieved legal context ---\n\n")

	for i, chunk := range contextSet {
		label := chunk.Source
		if chunk.Section != "" {
			label = fmt.Sprintf("%s, %s", label, chunk.Section)
		}
		b.WriteString(fmt.Sprintf("[Source %d: %s]\n%s\n\n", i+1, label, chunk.Text))
	}

	b.WriteString("--- End context ---\n\n")
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\nAnswer (cite sources from the context):")
	return b.String()
}

// isInsufficient reports whether the model declined to answer from context.
func isInsufficient(answer string) bool {
	lowered := strings.ToLower(answer)
	for _, marker := range insufficiencyMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// usedChunkIndices parses [Source N] markers from the answer and maps them
// back to ContextSet indices. When the model cites nothing explicitly, all
// supplied chunks count as contributing.
func usedChunkIndices(answer string, contextLen int) []int {
	matches := sourceMarkerRe.FindAllStringSubmatch(answer, -1)

	seen := make(map[int]bool, contextLen)
	var used []int
	for _, match := range matches {
		n, err := strconv.Atoi(match[1])
		if err != nil || n < 1 || n > contextLen {
			continue
		}
		idx := n - 1
		if !seen[idx] {
			seen[idx] = true
			used = append(used, idx)
		}
	}

	if len(used) == 0 {
		used = make([]int, contextLen)
		for i := range used {
			used[i] = i
		}
	}
	return used
}
