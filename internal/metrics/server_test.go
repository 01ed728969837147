package metrics_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hashline/hashline/internal/metrics"
)

type stubStats struct {
	height  int
	pending int
}

func (s *stubStats) Length() int       { return s.height }
func (s *stubStats) PendingCount() int { return s.pending }

func TestCreateMetricsServer(t *testing.T) {
	t.Run("StartServer", func(t *testing.T) {
		stats := &stubStats{height: 3, pending: 2}

		server, err := metrics.CreateMetricsServer(stats, "127.0.0.1:21120")
		require.NoError(t, err)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			require.NoError(t, server.Shutdown(ctx))
		}()

		time.Sleep(100 * time.Millisecond)

		resp, err := http.Get("http://127.0.0.1:21120/metrics")
		require.NoError(t, err, "Failed to connect to metrics server")
		defer resp.Body.Close()
		require.Equal(t, 200, resp.StatusCode, "Expected status code 200")

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Contains(t, string(body), "hashline_chain_height 3")
		require.Contains(t, string(body), "hashline_transactions_pending_count 2")
	})

	t.Run("WhenInvalidAddress", func(t *testing.T) {
		_, err := metrics.CreateMetricsServer(&stubStats{}, "invalid-address😆")
		require.Error(t, err)
	})

	t.Run("WhenInvalidPort", func(t *testing.T) {
		_, err := metrics.CreateMetricsServer(&stubStats{}, "localhost:99999")
		require.Error(t, err)
	})

	t.Run("ValidPort", func(t *testing.T) {
		server, err := metrics.CreateMetricsServer(&stubStats{}, "localhost:21121")
		require.NoError(t, err)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			require.NoError(t, server.Shutdown(ctx))
		}()
	})
}
