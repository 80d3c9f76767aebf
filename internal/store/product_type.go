package store

import (
	"context"
	"fmt"

	"relief/internal/utils"
	"relief/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productTypeTableName = "product_types"

var productTypeColumns = utils.StructTagValues(types.ProductType{})

type ProductTypeRepository struct {
	pool *pgxpool.Pool
}

func NewProductTypeRepository(pool *pgxpool.Pool) *ProductTypeRepository {
	return &ProductTypeRepository{pool: pool}
}

func (r *ProductTypeRepository) ProductTypes(ctx context.Context) ([]*types.ProductType, error) {
	query, args, err := psql().
		Select(productTypeColumns...).
		From(productTypeTableName).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate product types query: %w", err)
	}

	out := make([]*types.ProductType, 0)
	if err := pgxscan.Select(ctx, r.pool, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch product types: %w", err)
	}

	return out, nil
}

func (r *ProductTypeRepository) ProductType(ctx context.Context, id string) (*types.ProductType, error) {
	query, args, err := psql().
		Select(productTypeColumns...).
		From(productTypeTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate product type query: %w", err)
	}

	var pt types.ProductType
	err = pgxscan.Get(ctx, r.pool, &pt, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProductTypeNotFound
		}
		return nil, fmt.Errorf("failed to fetch product type: %w", err)
	}

	return &pt, nil
}

func (r *ProductTypeRepository) Create(ctx context.Context, pt *types.ProductType) error {
	pt.ID = utils.NanoID()

	query, args, err := psql().
		Insert(productTypeTableName).
		SetMap(utils.StructToMap(pt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create product type query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(translate(err), "failed to create product type")
}

// Upsert inserts or updates a product type by ID, the seed data's source of truth.
func (r *ProductTypeRepository) Upsert(ctx context.Context, pt *types.ProductType) error {
	query, args, err := psql().
		Insert(productTypeTableName).
		Columns("id", "name", "description").
		Values(pt.ID, pt.Name, pt.Description).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert product type query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(translate(err), "failed to upsert product type")
}
