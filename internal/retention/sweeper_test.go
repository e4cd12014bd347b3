package retention

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ragdesk/answer-backend/internal/config"
)

type stubStore struct {
	mu      sync.Mutex
	deleted int64
	err     error
	cutoffs []time.Time
}

func (s *stubStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.deleted, s.err
}

func (s *stubStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cutoffs)
}

func testConfig() config.RetentionConfig {
	return config.RetentionConfig{
		Enabled:  true,
		Schedule: "0 3 * * *",
		MaxAge:   90 * 24 * time.Hour,
	}
}

func TestSweep(t *testing.T) {
	t.Run("Should sweep both stores with the retention cutoff", func(t *testing.T) {
		auditStore := &stubStore{deleted: 12}
		convStore := &stubStore{deleted: 30}
		s := NewSweeper(testConfig(), auditStore, convStore, zap.NewNop())

		s.Sweep()

		require.Equal(t, 1, auditStore.calls())
		require.Equal(t, 1, convStore.calls())

		wantCutoff := time.Now().UTC().Add(-90 * 24 * time.Hour)
		assert.WithinDuration(t, wantCutoff, auditStore.cutoffs[0], time.Minute)
	})

	t.Run("Should keep sweeping when one store fails", func(t *testing.T) {
		auditStore := &stubStore{err: errors.New("connection refused")}
		convStore := &stubStore{}
		s := NewSweeper(testConfig(), auditStore, convStore, zap.NewNop())

		s.Sweep()

		assert.Equal(t, 1, convStore.calls(), "healthy store must still be swept")
	})
}

func TestStart(t *testing.T) {
	t.Run("Should be a no-op when disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Enabled = false
		s := NewSweeper(cfg, &stubStore{}, &stubStore{}, zap.NewNop())

		require.NoError(t, s.Start())
		s.Stop()
	})

	t.Run("Should reject a malformed schedule", func(t *testing.T) {
		cfg := testConfig()
		cfg.Schedule = "not a schedule"
		s := NewSweeper(cfg, &stubStore{}, &stubStore{}, zap.NewNop())

		assert.Error(t, s.Start())
	})

	t.Run("Should start and stop cleanly", func(t *testing.T) {
		s := NewSweeper(testConfig(), &stubStore{}, &stubStore{}, zap.NewNop())

		require.NoError(t, s.Start())
		s.Stop()
	})
}
