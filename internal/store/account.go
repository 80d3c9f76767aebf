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

const (
	accountTableName = "accounts"
	profileTableName = "profiles"
)

var (
	accountColumns = utils.StructTagValues(types.Account{})
	profileColumns = utils.StructTagValues(types.Profile{})
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Account(ctx context.Context, accountID string) (*types.Account, error) {
	query, args, err := psql().
		Select(accountColumns...).
		From(accountTableName).
		Where(sq.Eq{"id": accountID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account query: %w", err)
	}

	var account types.Account
	err = pgxscan.Get(ctx, r.pool, &account, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	return &account, nil
}

// CreateWithProfile inserts the account and then its profile in one transaction.
// The profile ID is generated here; role and location come from profile.
func (r *AccountRepository) CreateWithProfile(ctx context.Context, account *types.Account, profile *types.Profile) error {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	profile.ID = utils.NanoID()
	profile.AccountID = account.ID
	profile.CreatedAt = now
	profile.UpdatedAt = now

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql().
			Insert(accountTableName).
			SetMap(utils.StructToMap(account)).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate create account query: %w", err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return utils.ErrorWrapOrNil(translate(err), "failed to create account")
		}

		query, args, err = psql().
			Insert(profileTableName).
			SetMap(utils.StructToMap(profile)).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate create profile query: %w", err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return utils.ErrorWrapOrNil(translate(err), "failed to create profile")
		}

		return nil
	})
}

func (r *AccountRepository) Profile(ctx context.Context, profileID string) (*types.Profile, error) {
	query, args, err := psql().
		Select(profileColumns...).
		From(profileTableName).
		Where(sq.Eq{"id": profileID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profile query: %w", err)
	}

	var profile types.Profile
	err = pgxscan.Get(ctx, r.pool, &profile, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	return &profile, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, profileID string, update *types.ProfileUpdate) (*types.Profile, error) {
	set := map[string]any{"updated_at": time.Now()}
	if update.Role != nil {
		set["role"] = *update.Role
	}
	if update.Location != nil {
		set["location"] = nullable(*update.Location)
	}

	query, args, err := psql().
		Update(profileTableName).
		SetMap(set).
		Where(sq.Eq{"id": profileID}).
		Suffix("RETURNING " + joinColumns(profileColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update profile query for profile %s: %w", profileID, err)
	}

	var profile types.Profile
	err = pgxscan.Get(ctx, r.pool, &profile, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, utils.ErrorWrapOrNil(translate(err), "failed to update profile")
	}

	return &profile, nil
}

// Caller resolves the account, its profile and the organization or center the profile
// manages. A missing profile yields a Caller with a nil Profile, not an error.
func (r *AccountRepository) Caller(ctx context.Context, accountID string) (*types.Caller, error) {
	query, args, err := psql().
		Select(
			"a.id AS account_id",
			"a.username",
			"a.is_staff",
			"a.is_superuser",
			"p.id AS profile_id",
			"p.role",
			"p.location",
			"o.id AS organization_id",
			"c.id AS center_id",
		).
		From(accountTableName + " a").
		LeftJoin(profileTableName + " p ON p.account_id = a.id").
		LeftJoin(organizationTableName + " o ON o.admin_profile_id = p.id").
		LeftJoin(centerTableName + " c ON c.admin_profile_id = p.id").
		Where(sq.Eq{"a.id": accountID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate caller query: %w", err)
	}

	var row types.CallerRow
	err = pgxscan.Get(ctx, r.pool, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to resolve caller: %w", err)
	}

	return row.Caller(), nil
}
