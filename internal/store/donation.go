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

const donationTableName = "donations"

var donationColumns = utils.StructTagValues(types.Donation{})

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

func (r *DonationRepository) Donations(ctx context.Context, accountID string) ([]*types.Donation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations query: %w", err)
	}

	out := make([]*types.Donation, 0)
	if err := pgxscan.Select(ctx, r.pool, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch donations: %w", err)
	}

	return out, nil
}

func (r *DonationRepository) Create(ctx context.Context, donation *types.Donation) error {
	now := time.Now()
	donation.ID = utils.NanoID()
	donation.CreatedAt = now
	donation.UpdatedAt = now

	query, args, err := psql().
		Insert(donationTableName).
		SetMap(utils.StructToMap(donation)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create donation query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(translate(err), "failed to create donation")
}

// SetCheckout records the checkout session created for a pending donation.
func (r *DonationRepository) SetCheckout(ctx context.Context, donationID, sessionID, url string) error {
	query, args, err := psql().
		Update(donationTableName).
		Set("checkout_session_id", sessionID).
		Set("checkout_url", url).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": donationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update donation query for donation %s: %w", donationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update donation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrDonationNotFound
	}

	return nil
}

// Delete removes a donation that never reached checkout. Only pending rows without a
// session are eligible.
func (r *DonationRepository) Delete(ctx context.Context, donationID string) error {
	query, args, err := deleteAbandonedDonationQuery(donationID).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete donation query for donation %s: %w", donationID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete donation")
}

func deleteAbandonedDonationQuery(donationID string) sq.DeleteBuilder {
	return psql().
		Delete(donationTableName).
		Where(sq.Eq{"id": donationID, "status": types.DonationStatusPending}).
		Where("checkout_session_id = ''")
}
