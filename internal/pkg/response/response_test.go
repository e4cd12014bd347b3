package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdesk/answer-backend/internal/entity"
)

func TestStatusFor(t *testing.T) {
	t.Run("Should map validation errors to 400", func(t *testing.T) {
		for _, err := range []error{
			entity.ErrEmptyQuery,
			entity.ErrQueryTooLong,
			entity.ErrMissingField,
			entity.ErrInvalidFormat,
			entity.ErrInvalidParameter,
		} {
			assert.Equal(t, http.StatusBadRequest, StatusFor(err))
		}
	})

	t.Run("Should map wrapped errors through the chain", func(t *testing.T) {
		err := fmt.Errorf("validate: %w", entity.ErrInvalidParameter)
		assert.Equal(t, http.StatusBadRequest, StatusFor(err))
	})

	t.Run("Should map not found to 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, StatusFor(entity.ErrAuditNotFound))
	})

	t.Run("Should map upstream failures to 502", func(t *testing.T) {
		assert.Equal(t, http.StatusBadGateway, StatusFor(entity.ErrRetrievalFailed))
		assert.Equal(t, http.StatusBadGateway, StatusFor(entity.ErrGenerationFailed))
	})

	t.Run("Should map unknown errors to 500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
	})
}

func TestDomainError(t *testing.T) {
	t.Run("Should write status and error body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		DomainError(rec, entity.ErrEmptyQuery, "query must not be empty")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body entity.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Bad Request", body.Error)
		assert.Equal(t, "query must not be empty", body.Message)
	})
}

func TestJSON(t *testing.T) {
	t.Run("Should encode payload with status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		JSON(rec, http.StatusCreated, map[string]string{"id": "abc"})

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
	})

	t.Run("Should write nothing for nil payload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		JSON(rec, http.StatusOK, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}
