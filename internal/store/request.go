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

const requestTableName = "product_requests"

var requestColumns = utils.StructTagValues(types.ProductRequest{})

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func (r *RequestRepository) selectViews(scope types.RequestScope) sq.SelectBuilder {
	columns := append(utils.PrefixColumns("r", requestColumns),
		"pt.name AS product_type_name",
		"o.name AS requesting_organization_name",
		"a.username AS requester_username",
		"c.name AS assigned_distribution_center_name",
	)

	b := psql().
		Select(columns...).
		From(requestTableName + " r").
		Join(productTypeTableName + " pt ON pt.id = r.product_type_id").
		LeftJoin(organizationTableName + " o ON o.id = r.requesting_organization_id").
		LeftJoin(accountTableName + " a ON a.id = r.requester_account_id").
		LeftJoin(centerTableName + " c ON c.id = r.assigned_distribution_center_id")

	return whereScope(b, requestScopeWhere(scope))
}

// Requests lists the requests within scope, newest first.
func (r *RequestRepository) Requests(ctx context.Context, scope types.RequestScope) ([]*types.ProductRequestView, error) {
	out := make([]*types.ProductRequestView, 0)
	if scope.Empty() {
		return out, nil
	}

	query, args, err := r.selectViews(scope).OrderBy("r.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requests query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.pool, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	return out, nil
}

// Request returns one request if it is within scope. Out-of-scope and missing IDs both
// yield types.ErrRequestNotFound.
func (r *RequestRepository) Request(ctx context.Context, scope types.RequestScope, requestID string) (*types.ProductRequestView, error) {
	if scope.Empty() {
		return nil, types.ErrRequestNotFound
	}

	query, args, err := r.selectViews(scope).Where(sq.Eq{"r.id": requestID}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request query: %w", err)
	}

	var req types.ProductRequestView
	err = pgxscan.Get(ctx, r.pool, &req, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}

	return &req, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *types.ProductRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	now := time.Now()
	req.ID = utils.NanoID()
	req.CreatedAt = now
	req.UpdatedAt = now

	query, args, err := psql().
		Insert(requestTableName).
		SetMap(utils.StructToMap(req)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(translate(err), "failed to create request")
}

// Update locks the request row, applies fn and writes the result back in one transaction.
// fn sees the current row and may return an error to abort without writing.
func (r *RequestRepository) Update(ctx context.Context, scope types.RequestScope, requestID string, fn func(*types.ProductRequest) error) (*types.ProductRequest, error) {
	if scope.Empty() {
		return nil, types.ErrRequestNotFound
	}

	var updated *types.ProductRequest
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		req, err := r.lock(ctx, tx, scope, requestID)
		if err != nil {
			return err
		}

		if err := applyRequestUpdate(req, requestID, fn, time.Now()); err != nil {
			return err
		}

		query, args, err := updateRequestQuery(req).ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate update request query for request %s: %w", requestID, err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return utils.ErrorWrapOrNil(translate(err), "failed to update request")
		}

		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the request after fn approves the locked row.
func (r *RequestRepository) Delete(ctx context.Context, scope types.RequestScope, requestID string, fn func(*types.ProductRequest) error) error {
	if scope.Empty() {
		return types.ErrRequestNotFound
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		req, err := r.lock(ctx, tx, scope, requestID)
		if err != nil {
			return err
		}

		if err := fn(req); err != nil {
			return err
		}

		query, args, err := psql().Delete(requestTableName).Where(sq.Eq{"id": requestID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate delete request query for request %s: %w", requestID, err)
		}

		_, err = tx.Exec(ctx, query, args...)
		return utils.ErrorWrapOrNil(err, "failed to delete request")
	})
}

func (r *RequestRepository) lock(ctx context.Context, tx pgx.Tx, scope types.RequestScope, requestID string) (*types.ProductRequest, error) {
	query, args, err := lockRequestQuery(scope, requestID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate lock request query: %w", err)
	}

	var req types.ProductRequest
	err = pgxscan.Get(ctx, tx, &req, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to lock request: %w", err)
	}

	return &req, nil
}

// lockRequestQuery selects one request inside scope with a row lock, so an id outside
// the scope reads as not found.
func lockRequestQuery(scope types.RequestScope, requestID string) sq.SelectBuilder {
	b := psql().
		Select(utils.PrefixColumns("r", requestColumns)...).
		From(requestTableName + " r").
		Where(sq.Eq{"r.id": requestID})

	return whereScope(b, requestScopeWhere(scope)).Suffix("FOR UPDATE")
}

// applyRequestUpdate runs fn on the locked row, then the requester invariant. The id
// is pinned so fn cannot retarget the write. A row already orphaned by a requester
// delete may stay orphaned.
func applyRequestUpdate(req *types.ProductRequest, requestID string, fn func(*types.ProductRequest) error, now time.Time) error {
	orphaned := req.RequesterCount() == 0

	if err := fn(req); err != nil {
		return err
	}

	validate := req.Validate
	if orphaned {
		validate = req.ValidateOrphaned
	}
	if err := validate(); err != nil {
		return err
	}

	req.ID = requestID
	req.UpdatedAt = now
	return nil
}

func updateRequestQuery(req *types.ProductRequest) sq.UpdateBuilder {
	return psql().
		Update(requestTableName).
		SetMap(utils.StructToMap(req)).
		Where(sq.Eq{"id": req.ID})
}
