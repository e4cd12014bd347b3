package answer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdesk/answer-backend/internal/config"
	"github.com/ragdesk/answer-backend/internal/entity"
	"github.com/ragdesk/answer-backend/internal/pipeline/budget"
	"github.com/ragdesk/answer-backend/internal/pkg/validator"
)

type stubUsecase struct {
	resp      *entity.AnswerResponse
	err       error
	gotReq    *entity.AnswerRequest
	gotMeta   entity.RequestMeta
	snapshots []budget.UtilizationSnapshot
	recs      []string
}

func (s *stubUsecase) GenerateResponse(ctx context.Context, req *entity.AnswerRequest, meta entity.RequestMeta) (*entity.AnswerResponse, error) {
	s.gotReq = req
	s.gotMeta = meta
	return s.resp, s.err
}

func (s *stubUsecase) UtilizationReport() ([]budget.UtilizationSnapshot, []string) {
	return s.snapshots, s.recs
}

func newTestHandler(uc *stubUsecase) *Handler {
	return NewHandler(uc, validator.NewValidator(config.PipelineConfig{MaxQueryLength: 4000}))
}

func TestGenerateAnswer(t *testing.T) {
	t.Run("Should answer a valid request", func(t *testing.T) {
		uc := &stubUsecase{resp: &entity.AnswerResponse{
			Message:    "NAV is computed daily.",
			Confidence: 0.9,
		}}
		h := newTestHandler(uc)

		body := `{"query":"What is NAV?","session_id":"sess-1"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/answers", strings.NewReader(body))
		req.Header.Set("User-Agent", "support-widget/2.1")
		rec := httptest.NewRecorder()

		h.GenerateAnswer(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp entity.AnswerResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "NAV is computed daily.", resp.Message)

		require.NotNil(t, uc.gotReq)
		assert.Equal(t, "What is NAV?", uc.gotReq.Query)
		assert.Equal(t, "support-widget/2.1", uc.gotMeta.UserAgent)
		assert.False(t, uc.gotMeta.Timestamp.IsZero())
	})

	t.Run("Should reject malformed JSON", func(t *testing.T) {
		h := newTestHandler(&stubUsecase{})

		req := httptest.NewRequest(http.MethodPost, "/v1/answers", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		h.GenerateAnswer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should reject empty query", func(t *testing.T) {
		uc := &stubUsecase{}
		h := newTestHandler(uc)

		req := httptest.NewRequest(http.MethodPost, "/v1/answers", strings.NewReader(`{"query":"  "}`))
		rec := httptest.NewRecorder()

		h.GenerateAnswer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.gotReq, "usecase must not be called for invalid requests")
	})

	t.Run("Should reject temperature out of range", func(t *testing.T) {
		h := newTestHandler(&stubUsecase{})

		body := `{"query":"hello","options":{"temperature":3.5}}`
		req := httptest.NewRequest(http.MethodPost, "/v1/answers", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.GenerateAnswer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should map cancellation to an error status", func(t *testing.T) {
		h := newTestHandler(&stubUsecase{err: context.Canceled})

		req := httptest.NewRequest(http.MethodPost, "/v1/answers", strings.NewReader(`{"query":"hello"}`))
		rec := httptest.NewRecorder()

		h.GenerateAnswer(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetStats(t *testing.T) {
	uc := &stubUsecase{
		snapshots: []budget.UtilizationSnapshot{
			{Complexity: entity.ComplexityStandard, Count: 4, TotalAllocated: 6000, TotalUsed: 3000},
		},
		recs: []string{"standard queries use 50.0% of their allocation; consider lowering the base budget"},
	}
	h := newTestHandler(uc)

	req := httptest.NewRequest(http.MethodGet, "/v1/answers/stats", nil)
	rec := httptest.NewRecorder()

	h.GetStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp statsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Utilization, 1)
	assert.Equal(t, string(entity.ComplexityStandard), resp.Utilization[0].Complexity)
	assert.InDelta(t, 50.0, resp.Utilization[0].UtilizationPct, 1e-9)
	assert.Len(t, resp.Recommendations, 1)
}
