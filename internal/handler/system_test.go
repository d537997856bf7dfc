package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"loanapproval/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCounter int

func (c fixedCounter) Len() int { return int(c) }

func getHealth(t *testing.T, h *SystemHandler) (int, healthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestHealth_WithoutRedis(t *testing.T) {
	code, resp := getHealth(t, NewSystemHandler(nil, fixedCounter(3), logger.NewNop()))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 3, resp.PendingRequests)
	assert.Equal(t, "disabled", resp.Components["redis"].Status)
}

func TestHealth_RedisUpAndDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	h := NewSystemHandler(client, fixedCounter(0), logger.NewNop())

	code, resp := getHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "operational", resp.Components["redis"].Status)

	mr.Close()
	code, resp = getHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "outage", resp.Components["redis"].Status)
}
