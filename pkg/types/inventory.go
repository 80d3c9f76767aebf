package types

import (
	"fmt"
	"math"
	"time"
)

// MaxQuantity is the largest quantity the INTEGER columns hold.
const MaxQuantity = math.MaxInt32

var errQuantityTooLarge = FieldValidation("quantity", fmt.Sprintf("ensure this value is less than or equal to %d", MaxQuantity))

type InventoryItem struct {
	ID                   string    `db:"id" json:"id"`
	DistributionCenterID string    `db:"distribution_center_id" json:"distribution_center"`
	ProductTypeID        string    `db:"product_type_id" json:"product_type"`
	Quantity             int       `db:"quantity" json:"quantity"`
	LastUpdated          time.Time `db:"last_updated" json:"last_updated"`
}

// InventoryItemView is the read model returned by the API.
type InventoryItemView struct {
	InventoryItem
	ProductTypeName string `db:"product_type_name" json:"product_type_name"`
	CenterName      string `db:"center_name" json:"distribution_center_name"`
}

func (i *InventoryItem) Validate() error {
	if i.Quantity < 0 {
		return FieldValidation("quantity", "quantity cannot be negative")
	}
	if i.Quantity > MaxQuantity {
		return errQuantityTooLarge
	}
	if i.DistributionCenterID == "" {
		return FieldValidation("distribution_center", "this field is required")
	}
	if i.ProductTypeID == "" {
		return FieldValidation("product_type", "this field is required")
	}
	return nil
}

type CreateInventoryInput struct {
	DistributionCenterID string `json:"distribution_center" validate:"required"`
	ProductTypeID        string `json:"product_type" validate:"required"`
	Quantity             *int   `json:"quantity" validate:"required,lte=2147483647"`
}

// UpdateInventoryInput is the inbound update payload. Only Quantity is writable; the
// other fields are decoded so their presence can be rejected.
type UpdateInventoryInput struct {
	DistributionCenterID *string `json:"distribution_center"`
	ProductTypeID        *string `json:"product_type"`
	Quantity             *int    `json:"quantity" validate:"omitempty,lte=2147483647"`
}

// InventoryScope is the set of inventory rows visible to a caller.
// The zero value matches nothing.
type InventoryScope struct {
	All      bool
	CenterID *string
}

func (s InventoryScope) Empty() bool {
	return !s.All && s.CenterID == nil
}

func (s InventoryScope) Allows(item *InventoryItem) bool {
	if s.All {
		return true
	}
	return s.CenterID != nil && *s.CenterID == item.DistributionCenterID
}

// InventorySnapshot is the document uploaded by the snapshot export.
type InventorySnapshot struct {
	TakenAt time.Time            `json:"taken_at"`
	Items   []*InventoryItemView `json:"items"`
}
