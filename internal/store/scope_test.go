package store

import (
	"testing"

	"relief/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func render(t *testing.T, scope types.RequestScope) (string, []any) {
	t.Helper()
	b := whereScope(psql().Select("r.id").From("product_requests r"), requestScopeWhere(scope))
	query, args, err := b.ToSql()
	require.NoError(t, err)
	return query, args
}

func TestRequestScopeWhere(t *testing.T) {
	t.Run("all adds no predicate", func(t *testing.T) {
		query, args := render(t, types.RequestScope{All: true})
		assert.Equal(t, "SELECT r.id FROM product_requests r", query)
		assert.Empty(t, args)
	})

	t.Run("empty scope matches nothing", func(t *testing.T) {
		query, args := render(t, types.RequestScope{})
		assert.Equal(t, "SELECT r.id FROM product_requests r WHERE FALSE", query)
		assert.Empty(t, args)
	})

	t.Run("single criterion", func(t *testing.T) {
		query, args := render(t, types.RequestScope{AccountID: ptr("acct-1")})
		assert.Equal(t, "SELECT r.id FROM product_requests r WHERE r.requester_account_id = $1", query)
		assert.Equal(t, []any{"acct-1"}, args)
	})

	t.Run("union of organization and account", func(t *testing.T) {
		query, args := render(t, types.RequestScope{OrganizationID: ptr("org-1"), AccountID: ptr("acct-1")})
		assert.Equal(t, "SELECT r.id FROM product_requests r WHERE (r.requesting_organization_id = $1 OR r.requester_account_id = $2)", query)
		assert.Equal(t, []any{"org-1", "acct-1"}, args)
	})
}

func TestInventoryScopeWhere(t *testing.T) {
	b := psql().Select("i.id").From("inventory_items i")

	query, _, err := whereScope(b, inventoryScopeWhere(types.InventoryScope{All: true})).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT i.id FROM inventory_items i", query)

	query, args, err := whereScope(b, inventoryScopeWhere(types.InventoryScope{CenterID: ptr("c-1")})).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT i.id FROM inventory_items i WHERE i.distribution_center_id = $1", query)
	assert.Equal(t, []any{"c-1"}, args)

	query, _, err = whereScope(b, inventoryScopeWhere(types.InventoryScope{})).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT i.id FROM inventory_items i WHERE FALSE", query)
}

func TestTranslateLeavesUntypedErrors(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.Equal(t, assert.AnError, translate(assert.AnError))
}
