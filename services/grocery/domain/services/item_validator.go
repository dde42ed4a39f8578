// Package services contains stateless domain services for the grocery bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/grocerylist/services/grocery/domain/models"
)

// ValidateItemForCreation checks the invariants every stored Item must hold.
// Stores call it before persisting so the invariants hold no matter who the
// caller is:
//   - item is non-nil with a non-zero ID
//   - name is trimmed, 1–100 code points, free of NUL characters
//   - CreatedAt is set and UpdatedAt is not before it
//
// Name violations are returned unchanged so they keep their *domain.FieldError
// form and still match domain.ErrInvalidItemName.
func ValidateItemForCreation(item *models.Item) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}

	if item.ID == uuid.Nil {
		return errors.New("id must be set")
	}

	if err := item.Name.Validate(); err != nil {
		return err
	}

	if item.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}

	if item.UpdatedAt.Before(item.CreatedAt) {
		return fmt.Errorf("updated_at %s is before created_at %s", item.UpdatedAt, item.CreatedAt)
	}

	return nil
}
