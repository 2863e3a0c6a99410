package category

import (
	"encoding/json"
	"net/http"

	"github.com/xpensecontrol/xpense/internal/auth"
	"github.com/xpensecontrol/xpense/internal/transport"
	"github.com/xpensecontrol/xpense/pkg/logger"
)

type ServiceAPI interface {
	GetAllCategories() ([]*Category, error)
	CreateCategory(dto CreateCategoryDTO) (*Category, error)
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

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFromContext(r.Context()); !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	categories, err := h.Service.GetAllCategories()
	if err != nil {
		h.Logger.Error("GetCategories: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFromContext(r.Context()); !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateCategory: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.Service.CreateCategory(dto)
	if err != nil {
		h.Logger.Error("CreateCategory: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateCategory: category created", "category_id", cat.ID, "name", cat.Name)
	h.WriteJSON(w, http.StatusCreated, cat)
}
