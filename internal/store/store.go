package store

import (
	"errors"
	"fmt"
	"strings"

	"relief/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// Postgres error codes the store translates into validation errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
)

// constraintErrors maps known constraint names to caller-facing messages.
var constraintErrors = map[string]error{
	"product_types_name_key":                                   types.FieldValidation("name", "product type with this name already exists"),
	"accounts_username_key":                                    types.FieldValidation("username", "a user with that username already exists"),
	"inventory_items_distribution_center_id_product_type_id_key": types.Validation("an inventory item for this center and product type already exists"),
	"organizations_admin_profile_id_key":                       types.FieldValidation("profile_id", "this profile already manages an organization"),
	"distribution_centers_admin_profile_id_key":                types.FieldValidation("profile_id", "this profile already manages a distribution center"),
	"inventory_items_quantity_check":                           types.FieldValidation("quantity", "quantity cannot be negative"),
	"product_requests_quantity_check":                          types.FieldValidation("quantity", "quantity must be a positive integer"),
	"product_requests_single_requester":                        types.ErrMultipleRequesters,
}

// translate converts constraint violations into typed validation errors and returns
// every other error unchanged.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
		return mapped
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return types.Validation("a record with these values already exists")
	case pgForeignKeyViolation:
		return types.Validationf("referenced %s does not exist", referencedEntity(pgErr.ConstraintName))
	case pgCheckViolation:
		return types.Validation("value violates a data constraint")
	case pgNumericOutOfRange:
		// Quantities are the only INTEGER columns written from payloads.
		return types.FieldValidation("quantity", fmt.Sprintf("ensure this value is less than or equal to %d", types.MaxQuantity))
	}

	return err
}

// referencedEntity guesses the entity from a "<table>_<column>_fkey" constraint name.
func referencedEntity(constraint string) string {
	switch {
	case strings.Contains(constraint, "product_type"):
		return "product type"
	case strings.Contains(constraint, "organization"):
		return "organization"
	case strings.Contains(constraint, "distribution_center"):
		return "distribution center"
	case strings.Contains(constraint, "account"):
		return "account"
	case strings.Contains(constraint, "profile"):
		return "profile"
	}
	return "record"
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
