package store

import (
	"relief/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

// matchNothing is a predicate that filters out every row.
var matchNothing = sq.Expr("FALSE")

// requestScopeWhere renders a RequestScope as a predicate over the product_requests alias r.
// The result is nil when the scope is unrestricted.
func requestScopeWhere(scope types.RequestScope) sq.Sqlizer {
	if scope.All {
		return nil
	}

	or := sq.Or{}
	if scope.OrganizationID != nil {
		or = append(or, sq.Eq{"r.requesting_organization_id": *scope.OrganizationID})
	}
	if scope.AccountID != nil {
		or = append(or, sq.Eq{"r.requester_account_id": *scope.AccountID})
	}
	if scope.CenterID != nil {
		or = append(or, sq.Eq{"r.assigned_distribution_center_id": *scope.CenterID})
	}

	if len(or) == 0 {
		return matchNothing
	}
	if len(or) == 1 {
		return or[0]
	}
	return or
}

// inventoryScopeWhere renders an InventoryScope as a predicate over the inventory_items alias i.
func inventoryScopeWhere(scope types.InventoryScope) sq.Sqlizer {
	if scope.All {
		return nil
	}
	if scope.CenterID == nil {
		return matchNothing
	}
	return sq.Eq{"i.distribution_center_id": *scope.CenterID}
}

func whereScope(b sq.SelectBuilder, pred sq.Sqlizer) sq.SelectBuilder {
	if pred == nil {
		return b
	}
	return b.Where(pred)
}
