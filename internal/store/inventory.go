package store

import (
	"context"
	"fmt"
	"time"

	"relief/internal/utils"
	"relief/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const inventoryTableName = "inventory_items"

var inventoryColumns = utils.StructTagValues(types.InventoryItem{})

type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) selectViews(scope types.InventoryScope) sq.SelectBuilder {
	columns := append(utils.PrefixColumns("i", inventoryColumns),
		"pt.name AS product_type_name",
		"c.name AS center_name",
	)

	b := psql().
		Select(columns...).
		From(inventoryTableName + " i").
		Join(productTypeTableName + " pt ON pt.id = i.product_type_id").
		Join(centerTableName + " c ON c.id = i.distribution_center_id")

	return whereScope(b, inventoryScopeWhere(scope))
}

// Items lists inventory within scope ordered by center and product type name.
func (r *InventoryRepository) Items(ctx context.Context, scope types.InventoryScope) ([]*types.InventoryItemView, error) {
	out := make([]*types.InventoryItemView, 0)
	if scope.Empty() {
		return out, nil
	}

	query, args, err := r.selectViews(scope).OrderBy("c.name ASC", "pt.name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate inventory query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.pool, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}

	return out, nil
}

func (r *InventoryRepository) Item(ctx context.Context, scope types.InventoryScope, itemID string) (*types.InventoryItemView, error) {
	if scope.Empty() {
		return nil, types.ErrInventoryNotFound
	}

	query, args, err := r.selectViews(scope).Where(sq.Eq{"i.id": itemID}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate inventory item query: %w", err)
	}

	var item types.InventoryItemView
	err = pgxscan.Get(ctx, r.pool, &item, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrInventoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch inventory item: %w", err)
	}

	return &item, nil
}

func (r *InventoryRepository) Create(ctx context.Context, item *types.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	item.ID = utils.NanoID()
	item.LastUpdated = time.Now()

	query, args, err := psql().
		Insert(inventoryTableName).
		SetMap(utils.StructToMap(item)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create inventory item query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(translate(err), "failed to create inventory item")
}

// UpdateQuantity locks the item, lets fn check and change it, then writes only the
// quantity and a fresh last_updated. Center and product type are never rewritten.
func (r *InventoryRepository) UpdateQuantity(ctx context.Context, itemID string, fn func(*types.InventoryItem) error) (*types.InventoryItem, error) {
	var updated *types.InventoryItem
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := lockInventoryQuery(itemID).ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate lock inventory item query: %w", err)
		}

		var item types.InventoryItem
		err = pgxscan.Get(ctx, tx, &item, query, args...)
		if err != nil {
			if pgxscan.NotFound(err) {
				return types.ErrInventoryNotFound
			}
			return fmt.Errorf("failed to lock inventory item: %w", err)
		}

		if err := applyInventoryUpdate(&item, fn, time.Now()); err != nil {
			return err
		}

		query, args, err = updateQuantityQuery(itemID, &item).ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate update inventory item query for item %s: %w", itemID, err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return utils.ErrorWrapOrNil(translate(err), "failed to update inventory item")
		}

		updated = &item
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// lockInventoryQuery locks an item regardless of caller scope; ownership is checked by
// the update callback so a foreign item is a permission error, not a missing one.
func lockInventoryQuery(itemID string) sq.SelectBuilder {
	return psql().
		Select(inventoryColumns...).
		From(inventoryTableName).
		Where(sq.Eq{"id": itemID}).
		Suffix("FOR UPDATE")
}

// applyInventoryUpdate runs fn, validates the result and stamps last_updated, keeping it
// strictly increasing even when two writes share a clock tick.
func applyInventoryUpdate(item *types.InventoryItem, fn func(*types.InventoryItem) error, now time.Time) error {
	if err := fn(item); err != nil {
		return err
	}

	if err := item.Validate(); err != nil {
		return err
	}

	if !now.After(item.LastUpdated) {
		now = item.LastUpdated.Add(time.Microsecond)
	}
	item.LastUpdated = now
	return nil
}

func updateQuantityQuery(itemID string, item *types.InventoryItem) sq.UpdateBuilder {
	return psql().
		Update(inventoryTableName).
		Set("quantity", item.Quantity).
		Set("last_updated", item.LastUpdated).
		Where(sq.Eq{"id": itemID})
}
