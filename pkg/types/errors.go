package types

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindPermission      ErrorKind = "permission"
	KindNotFound        ErrorKind = "not_found"
	KindUnauthenticated ErrorKind = "unauthenticated"
)

// Error is the typed result returned by the policy, lifecycle and guard layers.
// Field is optional and names the offending payload field.
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so sentinel errors compare by kind and message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func FieldValidation(field, message string) error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Permission(message string) error {
	return &Error{Kind: KindPermission, Message: message}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Unauthenticated(message string) error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or "" for untyped errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

var (
	ErrAccountNotFound      = NotFound("account not found")
	ErrProfileNotFound      = NotFound("profile not found")
	ErrOrganizationNotFound = NotFound("organization not found")
	ErrCenterNotFound       = NotFound("distribution center not found")
	ErrProductTypeNotFound  = NotFound("product type not found")
	ErrInventoryNotFound    = NotFound("inventory item not found")
	ErrRequestNotFound      = NotFound("product request not found")
	ErrDonationNotFound     = NotFound("donation not found")

	ErrMissingRequester   = Validation("a request must have a requester (organization, account, or phone number)")
	ErrMultipleRequesters = Validation("a request cannot have multiple requester types")

	ErrProfileMissing = Permission("user profile missing")
)
