package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thedreamteamconsultancy/workstatus/internal/handlers/dto"
	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
	"github.com/thedreamteamconsultancy/workstatus/internal/middleware"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
	"github.com/thedreamteamconsultancy/workstatus/internal/service"
)

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) view(t *task.Task) dto.TaskResponse {
	return dto.FromTask(t, h.tasks.Now(), h.tasks.Location())
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.tasks.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("error", err.Error()))
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("time", h.tasks.Now().UTC()))
}

// ListTasks answers GET /tasks, optionally narrowed by gem_id and client_id.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	gemID, ok := queryID(w, r, "gem_id")
	if !ok {
		return
	}
	clientID, ok := queryID(w, r, "client_id")
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(r.Context(), repo.TaskFilter{GemID: gemID, ClientID: clientID})
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: tasks listed",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(tasks, h.tasks.Now(), h.tasks.Location())),
		toPayload("count", len(tasks)))
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.tasks.CreateTask(r.Context(), request.GemID, request.Title, request.Deadline, request.Options()...)
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: task created",
		zap.String("task_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", h.view(created)))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	found, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("task", h.view(found)))
}

// UpdateTaskByID applies an admin edit. Status has its own endpoint.
func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	opts := request.Options()
	if len(opts) == 0 {
		logger.Warn("HTTP: empty update",
			zap.String("task_id", id.String()),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	updated, err := h.tasks.UpdateTask(r.Context(), id, request.Version, opts...)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: task updated",
		zap.String("task_id", id.String()),
		zap.Int("version", updated.Version),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", h.view(updated)))
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.tasks.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("deleted", id))
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.updateStatus(w, r, id)
}

func (h *TaskHandler) updateStatus(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.UpdateStatusRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.tasks.UpdateStatus(r.Context(), id, request.Status)
	if err != nil {
		handleServiceError(w, r, err, "update_status")
		return
	}

	logger.Info("HTTP_OUT: task status changed",
		zap.String("task_id", id.String()),
		zap.String("status", string(updated.Status)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", h.view(updated)))
}

func (h *TaskHandler) VerifyTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var request dto.VerifyRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.tasks.VerifyTask(r.Context(), id, request.Verified)
	if err != nil {
		handleServiceError(w, r, err, "verify_task")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("task", h.view(updated)))
}

func (h *TaskHandler) UpdateCompletedQuantity(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var request dto.CompletedQuantityRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.tasks.UpdateCompletedQuantity(r.Context(), id, request.CompletedQuantity)
	if err != nil {
		handleServiceError(w, r, err, "update_completed_quantity")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("task", h.view(updated)))
}

// CategorizedTasks answers with present, future and past buckets, for one
// gem when gem_id is given.
func (h *TaskHandler) CategorizedTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	gemID, ok := queryID(w, r, "gem_id")
	if !ok {
		return
	}
	h.categorized(w, r, gemID)
}

func (h *TaskHandler) categorized(w http.ResponseWriter, r *http.Request, gemID *uuid.UUID) {
	buckets, err := h.tasks.CategorizedTasks(r.Context(), gemID)
	if err != nil {
		handleServiceError(w, r, err, "categorized_tasks")
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("present", buckets.Present),
		toPayload("future", buckets.Future),
		toPayload("past", buckets.Past))
}

func (h *TaskHandler) MyTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	gemID, _ := middleware.GetGemID(r.Context())
	tasks, err := h.tasks.ListTasks(r.Context(), repo.TaskFilter{GemID: &gemID})
	if err != nil {
		handleServiceError(w, r, err, "my_tasks")
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(tasks, h.tasks.Now(), h.tasks.Location())),
		toPayload("count", len(tasks)))
}

func (h *TaskHandler) MyCategorizedTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	gemID, _ := middleware.GetGemID(r.Context())
	h.categorized(w, r, &gemID)
}

// UpdateMyTaskStatus lets a gem move its own task. Tasks of other gems
// answer as not found.
func (h *TaskHandler) UpdateMyTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	gemID, _ := middleware.GetGemID(r.Context())

	current, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "my_task_status")
		return
	}
	if current.GemID != gemID {
		logger.Warn("HTTP: gem touched a foreign task",
			zap.String("task_id", id.String()),
			zap.String("gem_id", gemID.String()))
		handleBusinessError(w, service.NewNotFound(service.ResourceTask, id.String()))
		return
	}
	h.updateStatus(w, r, id)
}
