// Package errhttp maps domain errors to HTTP responses.
// Add a case to StatusOf for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/grocerylist/pkg/httpx"
	itemdomain "github.com/ghuser/grocerylist/services/grocery/domain"
)

// Client-facing messages. Internal detail never reaches the response body.
const (
	MsgItemNotFound      = "Item not found"
	MsgItemAlreadyExists = "Item already exists"
	MsgInvalidItemName   = "Invalid item name."
	MsgInternal          = "Internal server error"
	MsgMethodNotAllowed  = "Method not allowed"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Domain field errors become field-keyed bodies; everything unrecognized is a
// generic 500.
func WriteError(w http.ResponseWriter, err error) {
	var fe *itemdomain.FieldError
	if errors.As(err, &fe) {
		httpx.JSON(w, http.StatusBadRequest, map[string][]string{fe.Field: {fe.Reason}})
		return
	}

	status := StatusOf(err)
	switch status {
	case http.StatusBadRequest:
		httpx.JSON(w, status, map[string][]string{"name": {MsgInvalidItemName}})
	case http.StatusNotFound:
		httpx.JSONError(w, status, MsgItemNotFound)
	case http.StatusConflict:
		httpx.JSONError(w, status, MsgItemAlreadyExists)
	default:
		httpx.JSONError(w, status, MsgInternal)
	}
}

// StatusOf returns the HTTP status WriteError uses for err.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, itemdomain.ErrItemAlreadyExists):
		return http.StatusConflict // 409
	case errors.Is(err, itemdomain.ErrInvalidItemName):
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}

// MethodNotAllowed writes the 405 response used for unsupported methods.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	httpx.JSONError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}
