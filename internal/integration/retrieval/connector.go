package retrieval

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
	config    config.RetrievalConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.RetrievalConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Retrieve searches the vector/keyword index for passages relevant to the
// query. Not retried: a retrieval failure is handled downstream as a
// confidence issue, not by hammering the search service.
func (c *Connector) Retrieve(ctx context.Context, req *entity.RetrievalRequest) (*entity.RetrievalResult, error) {
	ctxzap.Debug(ctx, "retrieving passages",
		zap.Int("max_results", req.Options.MaxResults),
		zap.String("strategy", req.Options.Strategy),
	)

	var resp entity.RetrievalResult
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.SearchEndpoint, req, &resp)
	if err != nil {
		ctxzap.Error(ctx, "retrieval request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", entity.ErrRetrievalFailed, err)
	}

	ctxzap.Debug(ctx, "passages retrieved",
		zap.Int("chunk_count", len(resp.Chunks)),
		zap.Float64("reported_confidence", resp.ConfidenceScore),
	)

	return &resp, nil
}
