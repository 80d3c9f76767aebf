package store

import (
	"context"
	"fmt"
	"time"

	"relief/internal/utils"
	"relief/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const centerTableName = "distribution_centers"

var centerColumns = utils.StructTagValues(types.DistributionCenter{})

type CenterRepository struct {
	pool *pgxpool.Pool
}

func NewCenterRepository(pool *pgxpool.Pool) *CenterRepository {
	return &CenterRepository{pool: pool}
}

func (r *CenterRepository) Centers(ctx context.Context) ([]*types.DistributionCenter, error) {
	query, args, err := psql().
		Select(centerColumns...).
		From(centerTableName).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate centers query: %w", err)
	}

	out := make([]*types.DistributionCenter, 0)
	if err := pgxscan.Select(ctx, r.pool, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch distribution centers: %w", err)
	}

	return out, nil
}

func (r *CenterRepository) Center(ctx context.Context, centerID string) (*types.DistributionCenter, error) {
	query, args, err := psql().
		Select(centerColumns...).
		From(centerTableName).
		Where(sq.Eq{"id": centerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate center query: %w", err)
	}

	var center types.DistributionCenter
	err = pgxscan.Get(ctx, r.pool, &center, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCenterNotFound
		}
		return nil, fmt.Errorf("failed to fetch distribution center: %w", err)
	}

	return &center, nil
}

func (r *CenterRepository) Create(ctx context.Context, center *types.DistributionCenter) error {
	now := time.Now()
	if center.ID == "" {
		center.ID = utils.NanoID()
	}
	center.CreatedAt = now
	center.UpdatedAt = now

	query, args, err := psql().
		Insert(centerTableName).
		SetMap(utils.StructToMap(center)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create center query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(translate(err), "failed to create distribution center")
}

// Upsert inserts or refreshes a seeded center by ID, leaving its admin link alone.
func (r *CenterRepository) Upsert(ctx context.Context, center *types.DistributionCenter) error {
	now := time.Now()
	query, args, err := psql().
		Insert(centerTableName).
		Columns("id", "name", "location", "contact_email", "contact_phone", "operating_hours", "created_at", "updated_at").
		Values(center.ID, center.Name, center.Location, center.ContactEmail, center.ContactPhone, center.OperatingHours, now, now).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, location = EXCLUDED.location, contact_email = EXCLUDED.contact_email, contact_phone = EXCLUDED.contact_phone, operating_hours = EXCLUDED.operating_hours, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert center query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(translate(err), "failed to upsert distribution center")
}

func (r *CenterRepository) SetAdmin(ctx context.Context, centerID string, profileID *string) error {
	return setAdmin(ctx, r.pool, centerTableName, centerID, profileID, types.ErrCenterNotFound)
}
