package generation

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/ragdesk/answer-backend/internal/config"
	"github.com/ragdesk/answer-backend/internal/entity"
	"github.com/ragdesk/answer-backend/internal/integration/common"
	pkghttp "github.com/ragdesk/answer-backend/pkg/http"
)

type Connector struct {
	config    config.GenerationConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.GenerationConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// AssemblePrompt asks the prompt service to turn the query, the selected
// chunks and the conversation history into a final prompt with its citation
// map. Not retried: assembly is deterministic on the service side.
func (c *Connector) AssemblePrompt(ctx context.Context, req *entity.AssemblePromptRequest) (*entity.AssembledPrompt, error) {
	ctxzap.Debug(ctx, "assembling prompt",
		zap.Int("chunk_count", len(req.Chunks)),
		zap.Int("history_turns", len(req.History)),
	)

	var resp entity.AssembledPrompt
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.AssembleEndpoint, req, &resp)
	if err != nil {
		ctxzap.Error(ctx, "prompt assembly failed", zap.Error(err))
		return nil, fmt.Errorf("%w: assemble prompt: %w", entity.ErrGenerationFailed, err)
	}

	ctxzap.Debug(ctx, "prompt assembled", zap.Int("citation_count", len(resp.Citations)))

	return &resp, nil
}

// Generate runs the language model call. Retried per the connector's retry
// config with backoff; retries stop early when ctx is cancelled.
func (c *Connector) Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.Generation, error) {
	if req.Options.Model == "" {
		req.Options.Model = c.config.DefaultModel
	}

	ctxzap.Info(ctx, "generating answer",
		zap.String("model", req.Options.Model),
		zap.Int("max_tokens", req.Options.MaxTokens),
	)

	var resp entity.Generation
	err := c.config.Retry.Do(ctx, func() error {
		resp = entity.Generation{}
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, req, &resp)
	})
	if err != nil {
		ctxzap.Error(ctx, "generation failed after retries", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", entity.ErrGenerationFailed, err)
	}

	ctxzap.Info(ctx, "answer generated",
		zap.String("finish_reason", resp.FinishReason),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return &resp, nil
}
