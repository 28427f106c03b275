package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	client *mongo.Client
	logger zerolog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(client *mongo.Client, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		client: client,
		logger: logger.With().Str("handler", "health").Logger(),
	}
}

// Root handles GET / requests, a bare liveness probe.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "API is running"})
}

// Health handles GET /health requests, pinging the database.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.client.Ping(ctx, readpref.Primary()); err != nil {
		h.logger.Error().Err(err).Msg("database ping failed")
		writeJSON(w, http.StatusServiceUnavailable, messageResponse{Success: false, Message: "Database unreachable"})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "OK"})
}
