package handlers

import (
	"net/http"

	"github.com/thedreamteamconsultancy/workstatus/internal/handlers/dto"
	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
)

type LedgerHandler struct {
	ledger LedgerService
}

func NewLedgerHandler(ledger LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	txs, err := h.ledger.ListTransactions(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_transactions")
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("transactions", txs),
		toPayload("count", len(txs)))
}

func (h *LedgerHandler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.TransactionRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	created, err := h.ledger.CreateTransaction(r.Context(), request.Type, request.Category, request.Amount, request.Description)
	if err != nil {
		handleServiceError(w, r, err, "create_transaction")
		return
	}
	responseWithJSON(w, http.StatusCreated, toPayload("transaction", created))
}

func (h *LedgerHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var request dto.TransactionRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	updated, err := h.ledger.UpdateTransaction(r.Context(), id, request.Type, request.Category, request.Amount, request.Description)
	if err != nil {
		handleServiceError(w, r, err, "update_transaction")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("transaction", updated))
}

func (h *LedgerHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.ledger.DeleteTransaction(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_transaction")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("deleted", id))
}

func (h *LedgerHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	cats, err := h.ledger.ListCategories(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_categories")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("categories", cats))
}

func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	summary, err := h.ledger.FinancialSummary(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "financial_summary")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("summary", summary))
}
