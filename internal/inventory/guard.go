// Package inventory guards reads and writes of distribution center stock levels.
package inventory

import (
	"context"

	"relief/internal/access"
	"relief/pkg/types"

	"github.com/sirupsen/logrus"
)

type Repository interface {
	Items(ctx context.Context, scope types.InventoryScope) ([]*types.InventoryItemView, error)
	Item(ctx context.Context, scope types.InventoryScope, itemID string) (*types.InventoryItemView, error)
	Create(ctx context.Context, item *types.InventoryItem) error
	UpdateQuantity(ctx context.Context, itemID string, fn func(*types.InventoryItem) error) (*types.InventoryItem, error)
}

type Guard struct {
	logger *logrus.Logger
	repo   Repository
}

func New(logger *logrus.Logger, repo Repository) *Guard {
	return &Guard{logger: logger, repo: repo}
}

// List returns the caller's visible inventory. centerID is honored for staff only.
func (g *Guard) List(ctx context.Context, c *types.Caller, centerID *string) ([]*types.InventoryItemView, error) {
	scope, err := access.ListInventory(c, centerID)
	if err != nil {
		return nil, err
	}
	return g.repo.Items(ctx, scope)
}

func (g *Guard) Get(ctx context.Context, c *types.Caller, itemID string) (*types.InventoryItemView, error) {
	scope, err := access.ListInventory(c, nil)
	if err != nil {
		return nil, err
	}
	return g.repo.Item(ctx, scope, itemID)
}

func (g *Guard) Create(ctx context.Context, c *types.Caller, in *types.CreateInventoryInput) (*types.InventoryItemView, error) {
	if _, err := access.ListInventory(c, nil); err != nil {
		return nil, err
	}

	if in.Quantity == nil {
		return nil, types.FieldValidation("quantity", "this field is required")
	}

	item := &types.InventoryItem{
		DistributionCenterID: in.DistributionCenterID,
		ProductTypeID:        in.ProductTypeID,
		Quantity:             *in.Quantity,
	}

	if err := access.CanWriteInventory(c, item); err != nil {
		return nil, err
	}

	if err := g.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	g.logger.WithFields(logrus.Fields{
		"account_id": c.AccountID,
		"item_id":    item.ID,
		"quantity":   item.Quantity,
	}).Info("inventory item created")

	return g.repo.Item(ctx, types.InventoryScope{All: true}, item.ID)
}

// UpdateQuantity sets the quantity of an item. The item is looked up without scoping
// so that an item of another center is reported as forbidden rather than missing.
func (g *Guard) UpdateQuantity(ctx context.Context, c *types.Caller, itemID string, in *types.UpdateInventoryInput) (*types.InventoryItemView, error) {
	if _, err := access.ListInventory(c, nil); err != nil {
		return nil, err
	}

	if in.DistributionCenterID != nil {
		return nil, types.FieldValidation("distribution_center", "this field cannot be changed")
	}
	if in.ProductTypeID != nil {
		return nil, types.FieldValidation("product_type", "this field cannot be changed")
	}
	if in.Quantity == nil {
		return nil, types.FieldValidation("quantity", "this field is required")
	}
	if *in.Quantity < 0 {
		return nil, types.FieldValidation("quantity", "quantity cannot be negative")
	}

	var previous int
	updated, err := g.repo.UpdateQuantity(ctx, itemID, func(item *types.InventoryItem) error {
		if err := access.CanWriteInventory(c, item); err != nil {
			return err
		}
		previous = item.Quantity
		item.Quantity = *in.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.logger.WithFields(logrus.Fields{
		"account_id": c.AccountID,
		"item_id":    itemID,
		"previous":   previous,
		"quantity":   updated.Quantity,
	}).Info("inventory quantity updated")

	return g.repo.Item(ctx, types.InventoryScope{All: true}, itemID)
}
