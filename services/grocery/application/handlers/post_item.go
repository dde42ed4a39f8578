package handlers

import (
	"net/http"

	"github.com/ghuser/grocerylist/pkg/httpx"
	"github.com/ghuser/grocerylist/pkg/logger"
	pkgvalidator "github.com/ghuser/grocerylist/pkg/validator"
	appsvcs "github.com/ghuser/grocerylist/services/grocery/application/services"
)

// CreateItemRequest is the request body for POST /items. Only name is read;
// bought, id and any other key in the payload are never decoded.
type CreateItemRequest struct {
	Name *string `json:"name" validate:"required" example:"Milk"`
} // @name CreateItemRequest

// PostItemHandler handles POST /items requests.
type PostItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, log logger.Logger) *PostItemHandler {
	return &PostItemHandler{svc: svc, log: log}
}

// Execute creates a new item.
//
//	@Summary		Create item
//	@Description	Creates an unbought item. The name is trimmed and must be 1 to 100 characters.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item creation request"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, err := pkgvalidator.DecodeAndValidate[CreateItemRequest](r.Body)
	if err != nil {
		if !pkgvalidator.WriteDecodeError(w, err) {
			writeError(r.Context(), w, h.log, "create", "", err)
		}
		return
	}

	item, err := h.svc.Item.Create(r.Context(), *req.Name)
	if err != nil {
		writeError(r.Context(), w, h.log, "create", "", err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}
