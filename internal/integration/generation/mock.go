package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// MockConnector produces a cited answer from the supplied chunks for local
// development without a generation service.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) AssemblePrompt(ctx context.Context, req *entity.AssemblePromptRequest) (*entity.AssembledPrompt, error) {
	ctxzap.Info(ctx, "[MOCK] assembling prompt",
		zap.Int("chunk_count", len(req.Chunks)),
		zap.Int("history_turns", len(req.History)),
	)

	var b strings.Builder
	b.WriteString("Answer the question using only the numbered passages below.\n\n")

	citations := make([]entity.Citation, 0, len(req.Chunks))
	for i, chunk := range req.Chunks {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, chunk.Content)
		citations = append(citations, entity.Citation{
			Index:    i + 1,
			ChunkID:  chunk.ID,
			SourceID: chunk.SourceID,
			Snippet:  snippet(chunk.Content),
		})
	}

	return &entity.AssembledPrompt{
		System:    "You are a careful assistant for fund administration questions. Cite passages by number.",
		User:      b.String() + "\nQuestion: " + req.Query,
		Citations: citations,
	}, nil
}

func (m *MockConnector) Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.Generation, error) {
	ctxzap.Info(ctx, "[MOCK] generating answer",
		zap.String("model", req.Options.Model),
		zap.Int("max_tokens", req.Options.MaxTokens),
	)

	var b strings.Builder
	b.WriteString("Based on the available documentation: ")
	for _, citation := range req.Prompt.Citations {
		fmt.Fprintf(&b, "%s [%d]. ", citation.Snippet, citation.Index)
	}
	if len(req.Prompt.Citations) == 0 {
		b.WriteString("I could not ground this answer in any retrieved passage.")
	}
	b.WriteString("In addition, the cited passages agree on the key figures, so the summary above should hold.")

	content := b.String()
	completionTokens := len(strings.Fields(content))

	return &entity.Generation{
		Content: content,
		Usage: entity.TokenUsage{
			PromptTokens:     len(strings.Fields(req.Prompt.User)) + len(strings.Fields(req.Prompt.System)),
			CompletionTokens: completionTokens,
		},
		FinishReason: entity.FinishReasonStop,
	}, nil
}

// snippet trims chunk content for citation previews.
func snippet(content string) string {
	const maxLen = 110
	if len(content) <= maxLen {
		return content
	}
	cut := strings.LastIndex(content[:maxLen], " ")
	if cut <= 0 {
		cut = maxLen
	}
	return content[:cut] + "..."
}
