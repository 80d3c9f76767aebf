package store

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"relief/pkg/types"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fromClause drops the column list so assertions stay stable when columns change.
func fromClause(query string) string {
	if i := strings.Index(query, " FROM "); i >= 0 {
		return query[i+1:]
	}
	return query
}

func TestLockRequestQuery(t *testing.T) {
	t.Run("staff lock is unscoped", func(t *testing.T) {
		query, args, err := lockRequestQuery(types.RequestScope{All: true}, "req-1").ToSql()
		require.NoError(t, err)
		assert.Equal(t, "FROM product_requests r WHERE r.id = $1 FOR UPDATE", fromClause(query))
		assert.Equal(t, []any{"req-1"}, args)
	})

	t.Run("scoped lock filters before locking", func(t *testing.T) {
		query, args, err := lockRequestQuery(types.RequestScope{AccountID: ptr("acct-1")}, "req-1").ToSql()
		require.NoError(t, err)
		assert.Equal(t, "FROM product_requests r WHERE r.id = $1 AND r.requester_account_id = $2 FOR UPDATE", fromClause(query))
		assert.Equal(t, []any{"req-1", "acct-1"}, args)
	})

	t.Run("columns are alias qualified", func(t *testing.T) {
		query, _, err := lockRequestQuery(types.RequestScope{All: true}, "req-1").ToSql()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(query, "SELECT r.id, "), query)
	})
}

func validStoredRequest() *types.ProductRequest {
	return &types.ProductRequest{
		ID:                 "req-1",
		RequesterAccountID: ptr("acct-1"),
		ProductTypeID:      "pt-1",
		Quantity:           4,
		Status:             types.RequestStatusPending,
	}
}

func TestApplyRequestUpdate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("callback error aborts before validation", func(t *testing.T) {
		req := validStoredRequest()
		req.RequesterAccountID = nil
		denied := types.Permission("no")

		err := applyRequestUpdate(req, "req-1", func(*types.ProductRequest) error { return denied }, now)
		assert.ErrorIs(t, err, denied)
		assert.True(t, req.UpdatedAt.IsZero())
	})

	t.Run("invariant is checked after the callback", func(t *testing.T) {
		req := validStoredRequest()
		err := applyRequestUpdate(req, "req-1", func(r *types.ProductRequest) error {
			r.RequesterPhoneNumber = ptr("+254700000000")
			return nil
		}, now)
		assert.ErrorIs(t, err, types.ErrMultipleRequesters)
	})

	t.Run("id pinned and timestamp set", func(t *testing.T) {
		req := validStoredRequest()
		err := applyRequestUpdate(req, "req-1", func(r *types.ProductRequest) error {
			r.ID = "req-other"
			r.Status = types.RequestStatusReady
			return nil
		}, now)
		require.NoError(t, err)
		assert.Equal(t, "req-1", req.ID)
		assert.Equal(t, now, req.UpdatedAt)
	})
}

func TestApplyRequestUpdateOrphaned(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	orphan := func() *types.ProductRequest {
		req := validStoredRequest()
		req.RequesterAccountID = nil
		return req
	}

	t.Run("status change on an orphaned row", func(t *testing.T) {
		req := orphan()
		err := applyRequestUpdate(req, "req-1", func(r *types.ProductRequest) error {
			r.Status = types.RequestStatusCancelled
			return nil
		}, now)
		require.NoError(t, err)
		assert.Equal(t, types.RequestStatusCancelled, req.Status)
		assert.Equal(t, now, req.UpdatedAt)
	})

	t.Run("other fields still checked", func(t *testing.T) {
		err := applyRequestUpdate(orphan(), "req-1", func(r *types.ProductRequest) error {
			r.Quantity = 0
			return nil
		}, now)
		assert.Equal(t, types.KindValidation, types.KindOf(err))
	})

	t.Run("clearing a live requester is still rejected", func(t *testing.T) {
		err := applyRequestUpdate(validStoredRequest(), "req-1", func(r *types.ProductRequest) error {
			r.RequesterAccountID = nil
			return nil
		}, now)
		assert.ErrorIs(t, err, types.ErrMissingRequester)
	})
}

func TestUpdateRequestQuery(t *testing.T) {
	req := validStoredRequest()
	query, args, err := updateRequestQuery(req).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "UPDATE product_requests SET "), query)
	assert.Contains(t, query, "quantity = $")
	assert.Contains(t, query, "requester_account_id = $")
	assert.True(t, strings.HasSuffix(query, " WHERE id = $"+strconv.Itoa(len(args))), query)
	assert.Equal(t, "req-1", args[len(args)-1])
}

func TestLockInventoryQuery(t *testing.T) {
	query, args, err := lockInventoryQuery("inv-1").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "FROM inventory_items WHERE id = $1 FOR UPDATE", fromClause(query))
	assert.Equal(t, []any{"inv-1"}, args)
}

func TestApplyInventoryUpdate(t *testing.T) {
	last := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := func() *types.InventoryItem {
		return &types.InventoryItem{ID: "inv-1", DistributionCenterID: "c-1", ProductTypeID: "pt-1", Quantity: 3, LastUpdated: last}
	}
	setQuantity := func(q int) func(*types.InventoryItem) error {
		return func(i *types.InventoryItem) error {
			i.Quantity = q
			return nil
		}
	}

	t.Run("negative quantity rejected and timestamp untouched", func(t *testing.T) {
		i := item()
		err := applyInventoryUpdate(i, setQuantity(-1), last.Add(time.Hour))
		assert.Equal(t, types.KindValidation, types.KindOf(err))
		assert.Equal(t, last, i.LastUpdated)
	})

	t.Run("oversized quantity rejected", func(t *testing.T) {
		i := item()
		err := applyInventoryUpdate(i, setQuantity(types.MaxQuantity+1), last.Add(time.Hour))
		assert.Equal(t, types.KindValidation, types.KindOf(err))
	})

	t.Run("clock tick collision still advances", func(t *testing.T) {
		i := item()
		require.NoError(t, applyInventoryUpdate(i, setQuantity(3), last))
		assert.True(t, i.LastUpdated.After(last))
	})

	t.Run("uses the current time", func(t *testing.T) {
		i := item()
		now := last.Add(time.Minute)
		require.NoError(t, applyInventoryUpdate(i, setQuantity(7), now))
		assert.Equal(t, now, i.LastUpdated)
		assert.Equal(t, 7, i.Quantity)
	})
}

func TestUpdateQuantityQuery(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := &types.InventoryItem{DistributionCenterID: "c-2", ProductTypeID: "pt-2", Quantity: 7, LastUpdated: at}

	query, args, err := updateQuantityQuery("inv-1", item).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE inventory_items SET quantity = $1, last_updated = $2 WHERE id = $3", query)
	assert.Equal(t, []any{7, at, "inv-1"}, args)
}

func TestDeleteAbandonedDonationQuery(t *testing.T) {
	query, args, err := deleteAbandonedDonationQuery("don-1").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM donations WHERE id = $1 AND status = $2 AND checkout_session_id = ''", query)
	assert.Equal(t, []any{"don-1", types.DonationStatusPending}, args)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		kind  types.ErrorKind
		field string
	}{
		{name: "integer overflow", err: &pgconn.PgError{Code: pgNumericOutOfRange}, kind: types.KindValidation, field: "quantity"},
		{name: "named constraint", err: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "product_types_name_key"}, kind: types.KindValidation, field: "name"},
		{name: "unnamed unique", err: &pgconn.PgError{Code: pgUniqueViolation}, kind: types.KindValidation},
		{name: "foreign key", err: &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "product_requests_product_type_id_fkey"}, kind: types.KindValidation},
		{name: "other postgres error", err: &pgconn.PgError{Code: "40001"}, kind: ""},
		{name: "not a postgres error", err: errors.New("conn closed"), kind: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err)
			assert.Equal(t, tt.kind, types.KindOf(got))

			var e *types.Error
			if tt.field != "" && assert.ErrorAs(t, got, &e) {
				assert.Equal(t, tt.field, e.Field)
			}
		})
	}
}
