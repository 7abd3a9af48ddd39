package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thedreamteamconsultancy/workstatus/internal/handlers/dto"
	"github.com/thedreamteamconsultancy/workstatus/internal/lifecycle"
	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
)

type ClientHandler struct {
	clients ClientService
	tasks   TaskService
}

func NewClientHandler(clients ClientService, tasks TaskService) *ClientHandler {
	return &ClientHandler{clients: clients, tasks: tasks}
}

func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	clients, err := h.clients.ListClients(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_clients")
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("clients", clients),
		toPayload("count", len(clients)))
}

func (h *ClientHandler) PostClient(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ClientRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	created, err := h.clients.CreateClient(r.Context(), request.ToClient())
	if err != nil {
		handleServiceError(w, r, err, "create_client")
		return
	}

	logger.Info("HTTP_OUT: client created",
		zap.String("client_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("client", created))
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	found, err := h.clients.GetClient(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_client")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("client", found))
}

func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var request dto.ClientRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	updated, err := h.clients.UpdateClient(r.Context(), id, request.ToClient())
	if err != nil {
		handleServiceError(w, r, err, "update_client")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("client", updated))
}

func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.clients.DeleteClient(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_client")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("deleted", id))
}

func (h *ClientHandler) AddMarketingCost(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var request dto.MarketingCostRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	var date time.Time
	if request.Date != nil {
		date = *request.Date
	}

	updated, err := h.clients.AddDigitalMarketingCost(r.Context(), id, request.Amount, request.Description, date)
	if err != nil {
		handleServiceError(w, r, err, "add_marketing_cost")
		return
	}
	responseWithJSON(w, http.StatusCreated, toPayload("client", updated))
}

func (h *ClientHandler) SetTravellingCharges(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var request dto.TravellingChargesRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	updated, err := h.clients.SetTravellingCharges(r.Context(), id, request.Amount)
	if err != nil {
		handleServiceError(w, r, err, "set_travelling_charges")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("client", updated))
}

func (h *ClientHandler) Financials(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	fin, err := h.clients.ClientFinancials(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "client_financials")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("financials", fin))
}

func (h *ClientHandler) Progress(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	progress, err := h.tasks.ClientProgress(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "client_progress")
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("client_id", id),
		toPayload("progress", progress))
}

// Capacity answers GET /clients/{id}/capacity?type=...&exclude_task=...
// Without a type every commitment type is reported.
func (h *ClientHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	exclude, ok := queryID(w, r, "exclude_task")
	if !ok {
		return
	}
	excludeID := uuid.Nil
	if exclude != nil {
		excludeID = *exclude
	}

	kinds := task.CommitmentTypes()
	if raw := r.URL.Query().Get("type"); raw != "" {
		kinds = []task.CommitmentType{task.CommitmentType(raw)}
	}

	result := make([]capacityView, 0, len(kinds))
	for _, kind := range kinds {
		c, err := h.tasks.RemainingCapacity(r.Context(), id, kind, excludeID)
		if err != nil {
			handleServiceError(w, r, err, "remaining_capacity")
			return
		}
		result = append(result, capacityView{Capacity: c, Remaining: c.Remaining()})
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("client_id", id),
		toPayload("capacity", result))
}

type capacityView struct {
	lifecycle.Capacity
	Remaining int `json:"remaining"`
}
