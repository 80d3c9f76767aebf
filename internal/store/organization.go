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

const organizationTableName = "organizations"

var organizationColumns = utils.StructTagValues(types.Organization{})

type OrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

func (r *OrganizationRepository) selectViews() sq.SelectBuilder {
	columns := append(utils.PrefixColumns("o", organizationColumns), "a.username AS admin_username")
	return psql().
		Select(columns...).
		From(organizationTableName + " o").
		LeftJoin(profileTableName + " p ON p.id = o.admin_profile_id").
		LeftJoin(accountTableName + " a ON a.id = p.account_id")
}

func (r *OrganizationRepository) Organizations(ctx context.Context) ([]*types.OrganizationView, error) {
	query, args, err := r.selectViews().OrderBy("o.name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organizations query: %w", err)
	}

	out := make([]*types.OrganizationView, 0)
	if err := pgxscan.Select(ctx, r.pool, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}

	return out, nil
}

func (r *OrganizationRepository) Organization(ctx context.Context, orgID string) (*types.OrganizationView, error) {
	query, args, err := r.selectViews().Where(sq.Eq{"o.id": orgID}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization query: %w", err)
	}

	var org types.OrganizationView
	err = pgxscan.Get(ctx, r.pool, &org, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}

	return &org, nil
}

func (r *OrganizationRepository) Create(ctx context.Context, org *types.Organization) error {
	now := time.Now()
	org.ID = utils.NanoID()
	org.CreatedAt = now
	org.UpdatedAt = now

	query, args, err := psql().
		Insert(organizationTableName).
		SetMap(utils.StructToMap(org)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create organization query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(translate(err), "failed to create organization")
}

// SetAdmin links profileID as the organization's admin, or clears the link when nil.
func (r *OrganizationRepository) SetAdmin(ctx context.Context, orgID string, profileID *string) error {
	return setAdmin(ctx, r.pool, organizationTableName, orgID, profileID, types.ErrOrganizationNotFound)
}

func setAdmin(ctx context.Context, pool *pgxpool.Pool, table, id string, profileID *string, notFound error) error {
	query, args, err := psql().
		Update(table).
		Set("admin_profile_id", profileID).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate set admin query for %s %s: %w", table, id, err)
	}

	tag, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(translate(err), "failed to set admin")
	}

	if tag.RowsAffected() == 0 {
		return notFound
	}

	return nil
}
