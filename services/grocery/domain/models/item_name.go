package models

import (
	"strings"
	"unicode/utf8"

	"github.com/ghuser/grocerylist/services/grocery/domain"
)

// ItemName is a value object representing a valid grocery item name.
// It is always trimmed and 1 <= length <= 100, counted in code points.
type ItemName string

const (
	minItemNameLength = 1
	maxItemNameLength = 100
)

// Reasons reported on the "name" field.
const (
	ReasonNameBlank   = "Name cannot be empty."
	ReasonNameTooLong = "Name cannot exceed 100 characters."
	ReasonNameNullChr = "Null characters are not allowed."
)

// NewItemName trims s and constructs a valid ItemName, or returns a
// *domain.FieldError wrapping domain.ErrInvalidItemName.
func NewItemName(s string) (ItemName, error) {
	s = strings.TrimSpace(s)
	if err := checkItemName(s); err != nil {
		return "", err
	}
	return ItemName(s), nil
}

// Validate re-checks the invariants of an already constructed name.
func (n ItemName) Validate() error {
	s := n.String()
	if s != strings.TrimSpace(s) {
		return domain.NewFieldError("name", "Name must not have leading or trailing whitespace.", domain.ErrInvalidItemName)
	}
	return checkItemName(s)
}

func checkItemName(s string) error {
	if utf8.RuneCountInString(s) < minItemNameLength {
		return domain.NewFieldError("name", ReasonNameBlank, domain.ErrInvalidItemName)
	}
	if utf8.RuneCountInString(s) > maxItemNameLength {
		return domain.NewFieldError("name", ReasonNameTooLong, domain.ErrInvalidItemName)
	}
	if strings.ContainsRune(s, 0) {
		return domain.NewFieldError("name", ReasonNameNullChr, domain.ErrInvalidItemName)
	}
	return nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}
