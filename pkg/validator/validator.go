package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/grocerylist/pkg/httpx"
)

// Field error messages written to clients.
const (
	MsgRequired      = "This field is required."
	MsgNotString     = "Not a valid string."
	MsgNotBoolean    = "Must be a valid boolean."
	MsgInvalidValue  = "Invalid value."
	MsgNotDictionary = "Invalid data. Expected a dictionary."

	// NonFieldErrorsKey holds errors about the payload as a whole.
	NonFieldErrorsKey = "non_field_errors"
)

// ErrInvalidJSON is returned by Decode for bodies that are not well-formed JSON.
var ErrInvalidJSON = errors.New("invalid JSON")

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		// ignore unexported or explicitly ignored
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// FieldErrors maps a JSON field name to its validation messages.
type FieldErrors map[string][]string

// Add appends msg to the messages for field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into FieldErrors
// keyed by JSON field name. Other errors yield an empty map.
func FormatValidationErrors(err error) FieldErrors {
	errs := make(FieldErrors)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs.Add(e.Field(), formatFieldError(e))
	}
	return errs
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return MsgRequired
	default:
		return fmt.Sprintf("Validation failed on '%s'.", e.Tag())
	}
}

// Decode reads a JSON object from body into a new T. An empty body decodes as
// {}. Keys must match a field's json name exactly; any other key is ignored.
// Type mismatches are reported as FieldErrors instead of being coerced;
// a well-formed body that is not an object yields a non-field error.
func Decode[T any](body io.Reader) (*T, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		data = []byte("{}")
	}
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}
	if data[0] != '{' {
		return nil, FieldErrors{NonFieldErrorsKey: {MsgNotDictionary}}
	}

	data, err = keepKnownKeys[T](data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	var req T
	if err := json.Unmarshal(data, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, FieldErrors{typeErr.Field: {typeMismatchMessage(typeErr.Type)}}
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return &req, nil
}

// keepKnownKeys drops every key of the object in data that is not the exact
// json name of a field of T. encoding/json alone would fold case.
func keepKnownKeys[T any](data []byte) ([]byte, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	known := jsonFieldNames(reflect.TypeFor[T]())
	for k := range obj {
		if !known[k] {
			delete(obj, k)
		}
	}
	return json.Marshal(obj)
}

func jsonFieldNames(t reflect.Type) map[string]bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	names := make(map[string]bool)
	if t.Kind() != reflect.Struct {
		return names
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		names[name] = true
	}
	return names
}

func typeMismatchMessage(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return MsgNotString
	case reflect.Bool:
		return MsgNotBoolean
	default:
		return MsgInvalidValue
	}
}

// DecodeAndValidate decodes body into T and runs tag validation on it.
// Validation failures are returned as FieldErrors.
func DecodeAndValidate[T any](body io.Reader) (*T, error) {
	req, err := Decode[T](body)
	if err != nil {
		return nil, err
	}
	if err := Validate(req); err != nil {
		if fe := FormatValidationErrors(err); len(fe) > 0 {
			return nil, fe
		}
		return nil, err
	}
	return req, nil
}

// WriteDecodeError writes the response for an error from Decode or
// DecodeAndValidate: field errors and malformed JSON are 400, an oversized
// body is 413. It reports false for any other error so the caller can map it.
func WriteDecodeError(w http.ResponseWriter, err error) bool {
	var fe FieldErrors
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &fe):
		httpx.JSON(w, http.StatusBadRequest, fe)
	case errors.As(err, &tooLarge):
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, ErrInvalidJSON):
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
	default:
		return false
	}
	return true
}
