package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/grocerylist/pkg/httpx"
	"github.com/ghuser/grocerylist/pkg/logger"
	appsvcs "github.com/ghuser/grocerylist/services/grocery/application/services"
)

// DeleteItemHandler handles DELETE /items/{id} requests.
type DeleteItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewDeleteItemHandler returns a DeleteItemHandler backed by the given services.
func NewDeleteItemHandler(svc *appsvcs.Services, log logger.Logger) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc, log: log}
}

// Execute permanently removes an item.
//
//	@Summary		Delete item
//	@Tags			items
//	@Param			id	path	string	true	"Item ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/items/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDFromPath(r)
	if err != nil {
		writeError(r.Context(), w, h.log, "delete", chi.URLParam(r, "id"), err)
		return
	}

	if err := h.svc.Item.Delete(r.Context(), id); err != nil {
		writeError(r.Context(), w, h.log, "delete", id.String(), err)
		return
	}

	httpx.NoContent(w)
}
