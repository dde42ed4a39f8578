package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/grocerylist/pkg/httpx"
	"github.com/ghuser/grocerylist/pkg/logger"
	pkgvalidator "github.com/ghuser/grocerylist/pkg/validator"
	appsvcs "github.com/ghuser/grocerylist/services/grocery/application/services"
)

// UpdateItemStatusRequest is the request body for PATCH /items/{id}. bought
// must be a JSON boolean; strings, numbers and null are rejected.
type UpdateItemStatusRequest struct {
	Bought *bool `json:"bought" validate:"required" example:"true"`
} // @name UpdateItemStatusRequest

// PatchItemHandler handles PATCH /items/{id} requests.
type PatchItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewPatchItemHandler returns a PatchItemHandler backed by the given services.
func NewPatchItemHandler(svc *appsvcs.Services, log logger.Logger) *PatchItemHandler {
	return &PatchItemHandler{svc: svc, log: log}
}

// Execute sets the bought flag of an item.
//
//	@Summary		Update item status
//	@Description	Sets bought on an existing item. Other fields in the payload are ignored.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Item ID"	format(uuid)
//	@Param			request	body		UpdateItemStatusRequest	true	"New status"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/items/{id} [patch]
func (h *PatchItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDFromPath(r)
	if err != nil {
		writeError(r.Context(), w, h.log, "update_status", chi.URLParam(r, "id"), err)
		return
	}

	if _, err := h.svc.Item.Get(r.Context(), id); err != nil {
		writeError(r.Context(), w, h.log, "update_status", id.String(), err)
		return
	}

	req, err := pkgvalidator.DecodeAndValidate[UpdateItemStatusRequest](r.Body)
	if err != nil {
		if !pkgvalidator.WriteDecodeError(w, err) {
			writeError(r.Context(), w, h.log, "update_status", id.String(), err)
		}
		return
	}

	// Still NotFound if a delete lands after the lookup above.
	item, err := h.svc.Item.UpdateStatus(r.Context(), id, *req.Bought)
	if err != nil {
		writeError(r.Context(), w, h.log, "update_status", id.String(), err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
