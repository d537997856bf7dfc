package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// PendingCounter reports how many requests await approval.
type PendingCounter interface {
	Len() int
}

type SystemHandler struct {
	redisClient *redis.Client
	pending     PendingCounter
	logger      Logger
	startTime   time.Time
}

// NewSystemHandler creates the health handler. redisClient may be nil when Redis is not configured.
func NewSystemHandler(redisClient *redis.Client, pending PendingCounter, log Logger) *SystemHandler {
	return &SystemHandler{
		redisClient: redisClient,
		pending:     pending,
		logger:      log,
		startTime:   time.Now(),
	}
}

type componentStatus struct {
	Status    string `json:"status"` // operational, outage, disabled
	LatencyMs int64  `json:"latency_ms"`
}

type healthResponse struct {
	Status          string                     `json:"status"`
	Service         string                     `json:"service"`
	Timestamp       string                     `json:"timestamp"`
	UptimeSeconds   int64                      `json:"uptime_seconds"`
	PendingRequests int                        `json:"pending_requests"`
	Components      map[string]componentStatus `json:"components"`
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:          "healthy",
		Service:         "loan-approval",
		Timestamp:       time.Now().Format(time.RFC3339),
		UptimeSeconds:   int64(time.Since(h.startTime).Seconds()),
		PendingRequests: h.pending.Len(),
		Components:      map[string]componentStatus{"redis": h.checkRedis(r.Context())},
	}

	status := http.StatusOK
	if resp.Components["redis"].Status == "outage" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}

func (h *SystemHandler) checkRedis(ctx context.Context) componentStatus {
	if h.redisClient == nil {
		return componentStatus{Status: "disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.logger.Warn("Redis health check failed", map[string]interface{}{"error": err.Error()})
		return componentStatus{Status: "outage", LatencyMs: time.Since(start).Milliseconds()}
	}
	return componentStatus{Status: "operational", LatencyMs: time.Since(start).Milliseconds()}
}
