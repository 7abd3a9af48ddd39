package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/thedreamteamconsultancy/workstatus/internal/handlers/dto"
	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
)

type GemHandler struct {
	gems GemService
}

func NewGemHandler(gems GemService) *GemHandler {
	return &GemHandler{gems: gems}
}

func (h *GemHandler) ListGems(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	gems, err := h.gems.ListGems(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_gems")
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("gems", gems),
		toPayload("count", len(gems)))
}

func (h *GemHandler) PostGem(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.GemRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	created, err := h.gems.CreateGem(r.Context(), request.ToGem())
	if err != nil {
		handleServiceError(w, r, err, "create_gem")
		return
	}
	logger.Info("HTTP_OUT: gem created",
		zap.String("gem_id", created.UUID.String()),
		zap.Int("http_status", http.StatusCreated))
	responseWithJSON(w, http.StatusCreated, toPayload("gem", created))
}

func (h *GemHandler) GetGem(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	found, err := h.gems.GetGem(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_gem")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("gem", found))
}

func (h *GemHandler) UpdateGem(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var request dto.GemRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	updated, err := h.gems.UpdateGem(r.Context(), id, request.ToGem())
	if err != nil {
		handleServiceError(w, r, err, "update_gem")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("gem", updated))
}

// DeleteGem also removes every task the gem owns.
func (h *GemHandler) DeleteGem(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.gems.DeleteGem(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_gem")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("deleted", id))
}

func (h *GemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	stats, err := h.gems.GemStats(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "gem_stats")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("stats", stats))
}
