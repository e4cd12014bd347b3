package answer

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/ragdesk/answer-backend/internal/entity"
	"github.com/ragdesk/answer-backend/internal/pkg/logger"
	"github.com/ragdesk/answer-backend/internal/pkg/response"
	"github.com/ragdesk/answer-backend/internal/pkg/validator"
)

type Handler struct {
	usecase   AnswerUsecase
	validator *validator.Validator
}

func NewHandler(usecase AnswerUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// GenerateAnswer handles POST /v1/answers
func (h *Handler) GenerateAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateAnswer")

	var req entity.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Warn(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.validator.ValidateAnswer(&req); err != nil {
		ctxzap.Warn(ctx, "request validation failed", zap.Error(err))
		response.DomainError(w, err, err.Error())
		return
	}

	meta := entity.RequestMeta{
		UserAgent: r.UserAgent(),
		Timestamp: time.Now(),
	}

	resp, err := h.usecase.GenerateResponse(ctx, &req, meta)
	if err != nil {
		// Only the caller's own cancellation surfaces as an error; pipeline
		// failures come back as fallback responses.
		ctxzap.Warn(ctx, "request aborted", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "request aborted")
		return
	}

	ctxzap.Info(ctx, "answer generated",
		zap.String("kind", string(resp.QueryClassification.Kind)),
		zap.Float64("confidence", resp.Confidence),
		zap.String("fallback_strategy", resp.FallbackStrategy),
	)
	response.Success(w, resp)
}

// GetStats handles GET /v1/answers/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetStats")

	snapshots, recommendations := h.usecase.UtilizationReport()

	ctxzap.Debug(ctx, "utilization stats requested",
		zap.Int("complexity_buckets", len(snapshots)),
	)
	response.Success(w, toStatsResponse(snapshots, recommendations))
}
