package shared

import (
	"errors"

	"github.com/google/uuid"
)

// ErrEmptyProductRef indicates a product reference with neither an ID nor a name
var ErrEmptyProductRef = errors.New("product reference requires a catalog ID or a name")

// ProductRef identifies the product of a transaction either by catalog ID
// or by free-text name. Exactly one side is set; the catalog ID wins when
// both are present.
type ProductRef struct {
	CatalogID uuid.UUID `json:"catalog_id,omitempty"`
	Name      string    `json:"name,omitempty"`
}

// CatalogRef builds a reference to an existing catalog entry
func CatalogRef(id uuid.UUID) ProductRef {
	return ProductRef{CatalogID: id}
}

// NameRef builds a by-name reference, resolved (and possibly
// auto-provisioned) at processing time
func NameRef(name string) ProductRef {
	return ProductRef{Name: name}
}

// ByCatalog reports whether the reference points at a catalog entry
func (r ProductRef) ByCatalog() bool {
	return r.CatalogID != uuid.Nil
}

// Validate checks that the reference identifies a product at all
func (r ProductRef) Validate() error {
	if !r.ByCatalog() && r.Name == "" {
		return ErrEmptyProductRef
	}
	return nil
}
