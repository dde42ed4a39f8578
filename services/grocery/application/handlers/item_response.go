package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/grocerylist/pkg/errhttp"
	"github.com/ghuser/grocerylist/pkg/logger"
	itemdomain "github.com/ghuser/grocerylist/services/grocery/domain"
	"github.com/ghuser/grocerylist/services/grocery/domain/models"
)

// CreatedAtLayout is the wire format of createdAt: UTC, microseconds, Z suffix.
const CreatedAtLayout = "2006-01-02T15:04:05.000000Z"

// ItemResponse is the JSON shape of a grocery item.
type ItemResponse struct {
	ID        uuid.UUID `json:"id"        example:"123e4567-e89b-12d3-a456-426614174000"`
	Name      string    `json:"name"      example:"Milk"`
	Bought    bool      `json:"bought"    example:"false"`
	CreatedAt string    `json:"createdAt" example:"2025-01-15T10:30:00.000000Z"`
} // @name ItemResponse

// ErrorResponse is returned for generic failures.
type ErrorResponse struct {
	Error string `json:"error" example:"Item not found"`
} // @name ErrorResponse

// ValidationErrorResponse maps a field name to its messages.
type ValidationErrorResponse map[string][]string // @name ValidationErrorResponse

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Name:      item.Name.String(),
		Bought:    item.Bought,
		CreatedAt: item.CreatedAt.UTC().Format(CreatedAtLayout),
	}
}

// itemIDFromPath parses the {id} segment. Anything but a canonical UUID is
// reported as ErrItemNotFound so callers cannot probe the id format.
func itemIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil || len(raw) != 36 {
		return uuid.Nil, itemdomain.ErrItemNotFound
	}
	return id, nil
}

// writeError logs 5xx failures with their operation and item id, then writes
// the mapped response. Client errors are not logged.
func writeError(ctx context.Context, w http.ResponseWriter, log logger.Logger, op, itemID string, err error) {
	if errhttp.StatusOf(err) >= http.StatusInternalServerError {
		log.ErrorContext(ctx, "grocery item request failed",
			"op", op,
			"item_id", itemID,
			"error", err,
		)
	}
	errhttp.WriteError(w, err)
}
