package handlers

import (
	"net/http"

	"github.com/ghuser/grocerylist/pkg/errhttp"
)

// PutItem rejects full replacement of an item. It never reads the body or
// touches the store.
//
//	@Summary		Replace item (unsupported)
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"
//	@Failure		405	{object}	ErrorResponse
//	@Router			/items/{id} [put]
func PutItem(w http.ResponseWriter, r *http.Request) {
	errhttp.MethodNotAllowed(w, r)
}
