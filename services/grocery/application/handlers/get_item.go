package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/grocerylist/pkg/httpx"
	"github.com/ghuser/grocerylist/pkg/logger"
	appsvcs "github.com/ghuser/grocerylist/services/grocery/application/services"
)

// GetItemHandler handles GET /items/{id} requests.
type GetItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services, log logger.Logger) *GetItemHandler {
	return &GetItemHandler{svc: svc, log: log}
}

// Execute returns a single item.
//
//	@Summary		Get item
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"	format(uuid)
//	@Success		200	{object}	ItemResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/items/{id} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDFromPath(r)
	if err != nil {
		writeError(r.Context(), w, h.log, "get", chi.URLParam(r, "id"), err)
		return
	}

	item, err := h.svc.Item.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, h.log, "get", id.String(), err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
