package handlers

import (
	"net/http"

	"github.com/thedreamteamconsultancy/workstatus/internal/handlers/dto"
	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
	"github.com/thedreamteamconsultancy/workstatus/internal/version"
)

type SystemHandler struct {
	settings dto.Settings
}

func NewSystemHandler(settings dto.Settings) *SystemHandler {
	return &SystemHandler{settings: settings}
}

// Settings exposes the running engine knobs, including message_retention
// for the dashboard's notification list.
func (h *SystemHandler) Settings(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	responseWithJSON(w, http.StatusOK, toPayload("settings", h.settings))
}

func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK,
		toPayload("version", version.Version),
		toPayload("git_commit", version.GitCommit),
		toPayload("build_time", version.BuildTime),
		toPayload("go_version", version.GoVersion()))
}
