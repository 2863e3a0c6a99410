package transaction

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/xpensecontrol/xpense/internal/auth"
	"github.com/xpensecontrol/xpense/internal/report"
	"github.com/xpensecontrol/xpense/internal/transport"
	"github.com/xpensecontrol/xpense/pkg/logger"
)

type ServiceAPI interface {
	CreateTransaction(ownerID int64, dto CreateTransactionDTO) (*Transaction, error)
	ListMonth(ownerID int64, query MonthQuery) (*MonthListing, error)
	UpdateTransaction(ownerID int64, dto UpdateTransactionDTO) (*Transaction, error)
	DeleteTransaction(ownerID int64, id string) error
	MonthSummary(ownerID int64, query MonthQuery) (*DashboardSummary, error)
	ExportMonth(ownerID int64, query MonthQuery, criteria report.Criteria) (string, []byte, error)
	RenderMonthReport(ownerID int64, query MonthQuery, criteria report.Criteria, generatedAt time.Time) ([]byte, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateTransaction: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.CreateTransaction(u.ID, dto)
	if err != nil {
		h.Logger.Error("CreateTransaction: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateTransaction: transaction created",
		"transaction_id", t.ID,
		"user_id", u.ID,
		"type", t.Type,
		"value", t.Value)

	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	query, appErr := ParseMonthQuery(r.URL.Query())
	if appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	listing, err := h.Service.ListMonth(u.ID, query)
	if err != nil {
		h.Logger.Error("ListTransactions: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listing)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateTransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateTransaction: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.UpdateTransaction(u.ID, dto)
	if err != nil {
		h.Logger.Error("UpdateTransaction: service error", "error", err, "transaction_id", dto.ID, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if err := h.Service.DeleteTransaction(u.ID, id); err != nil {
		h.Logger.Error("DeleteTransaction: service error", "error", err, "transaction_id", id, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DeleteTransaction: transaction deleted", "transaction_id", id, "user_id", u.ID)
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	query, appErr := ParseMonthQuery(r.URL.Query())
	if appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	summary, err := h.Service.MonthSummary(u.ID, query)
	if err != nil {
		h.Logger.Error("GetSummary: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	query, appErr := ParseMonthQuery(r.URL.Query())
	if appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	filename, data, err := h.Service.ExportMonth(u.ID, query, criteriaFromQuery(r))
	if err != nil {
		h.Logger.Error("ExportTransactions: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("ExportTransactions: failed to write response", "error", err)
	}
}

func (h *Handler) PrintableReport(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	query, appErr := ParseMonthQuery(r.URL.Query())
	if appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	doc, err := h.Service.RenderMonthReport(u.ID, query, criteriaFromQuery(r), time.Now())
	if err != nil {
		h.Logger.Error("PrintableReport: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.Logger.Error("PrintableReport: failed to write response", "error", err)
	}
}

func criteriaFromQuery(r *http.Request) report.Criteria {
	q := r.URL.Query()
	return report.Criteria{
		Search:   q.Get("search"),
		Type:     q.Get("type"),
		Category: q.Get("category"),
	}
}
