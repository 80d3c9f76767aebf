package types

import (
	"strings"
	"time"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "Pending"
	RequestStatusReady     RequestStatus = "Ready"
	RequestStatusFulfilled RequestStatus = "Fulfilled"
	RequestStatusCancelled RequestStatus = "Cancelled"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending: {RequestStatusReady, RequestStatusCancelled},
	RequestStatusReady:   {RequestStatusFulfilled, RequestStatusCancelled},
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusReady, RequestStatusFulfilled, RequestStatusCancelled:
		return true
	}
	return false
}

func (s RequestStatus) Terminal() bool {
	return s == RequestStatusFulfilled || s == RequestStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is legal.
// Re-writing the current status is always legal.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ProductRequest struct {
	ID                           string        `db:"id" json:"id"`
	RequestingOrganizationID     *string       `db:"requesting_organization_id" json:"requesting_organization"`
	RequesterAccountID           *string       `db:"requester_account_id" json:"requester_account"`
	RequesterPhoneNumber         *string       `db:"requester_phone_number" json:"requester_phone_number"`
	ProductTypeID                string        `db:"product_type_id" json:"product_type"`
	Quantity                     int           `db:"quantity" json:"quantity"`
	Status                       RequestStatus `db:"status" json:"status"`
	AssignedDistributionCenterID *string       `db:"assigned_distribution_center_id" json:"assigned_distribution_center"`
	PickupDetails                string        `db:"pickup_details" json:"pickup_details"`
	CreatedAt                    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt                    time.Time     `db:"updated_at" json:"updated_at"`
}

// RequesterCount returns how many of the three requester fields are set.
// An empty phone number counts as unset.
func (r *ProductRequest) RequesterCount() int {
	n := 0
	if r.RequestingOrganizationID != nil {
		n++
	}
	if r.RequesterAccountID != nil {
		n++
	}
	if r.RequesterPhoneNumber != nil && strings.TrimSpace(*r.RequesterPhoneNumber) != "" {
		n++
	}
	return n
}

// Validate enforces the row-level invariants. The store calls it on every insert and update.
func (r *ProductRequest) Validate() error {
	switch n := r.RequesterCount(); {
	case n == 0:
		return ErrMissingRequester
	case n > 1:
		return ErrMultipleRequesters
	}
	return r.validateFields()
}

// ValidateOrphaned is Validate for a row whose requester was deleted out from under it.
// Zero requesters are accepted so staff can still move the request through its lifecycle.
func (r *ProductRequest) ValidateOrphaned() error {
	if r.RequesterCount() > 1 {
		return ErrMultipleRequesters
	}
	return r.validateFields()
}

func (r *ProductRequest) validateFields() error {
	if r.ProductTypeID == "" {
		return FieldValidation("product_type", "this field is required")
	}
	if r.Quantity <= 0 {
		return FieldValidation("quantity", "quantity must be a positive integer")
	}
	if r.Quantity > MaxQuantity {
		return errQuantityTooLarge
	}
	if !r.Status.Valid() {
		return FieldValidation("status", "\""+string(r.Status)+"\" is not a valid status")
	}
	return nil
}

// ProductRequestView is the read model returned by the API.
type ProductRequestView struct {
	ProductRequest
	ProductTypeName                string  `db:"product_type_name" json:"product_type_name"`
	RequestingOrganizationName     *string `db:"requesting_organization_name" json:"requesting_organization_name"`
	RequesterUsername              *string `db:"requester_username" json:"requester_username"`
	AssignedDistributionCenterName *string `db:"assigned_distribution_center_name" json:"assigned_distribution_center_name"`
}

// RequestInput is the inbound payload for create, PUT and PATCH.
// Pointer fields distinguish "absent" from zero values.
type RequestInput struct {
	RequestingOrganizationID     *string        `json:"requesting_organization"`
	RequesterAccountID           *string        `json:"requester_account"`
	RequesterPhoneNumber         *string        `json:"requester_phone_number"`
	ProductTypeID                *string        `json:"product_type"`
	Quantity                     *int           `json:"quantity" validate:"omitempty,gt=0,lte=2147483647"`
	Status                       *RequestStatus `json:"status"`
	AssignedDistributionCenterID *string        `json:"assigned_distribution_center"`
	PickupDetails                *string        `json:"pickup_details"`
}

// HasRequester reports whether the payload names any requester field.
func (in *RequestInput) HasRequester() bool {
	if in.RequestingOrganizationID != nil || in.RequesterAccountID != nil {
		return true
	}
	return in.RequesterPhoneNumber != nil && strings.TrimSpace(*in.RequesterPhoneNumber) != ""
}

// Fields returns the set of writable fields the payload touches, requester fields excluded.
func (in *RequestInput) Fields() RequestFields {
	var f RequestFields
	if in.ProductTypeID != nil {
		f |= FieldProductType
	}
	if in.Quantity != nil {
		f |= FieldQuantity
	}
	if in.Status != nil {
		f |= FieldStatus
	}
	if in.AssignedDistributionCenterID != nil {
		f |= FieldAssignedCenter
	}
	if in.PickupDetails != nil {
		f |= FieldPickupDetails
	}
	return f
}

// Changes returns the fields whose inbound value differs from req. Repeating a current
// value is not a change.
func (in *RequestInput) Changes(req *ProductRequest) RequestFields {
	var f RequestFields
	if in.ProductTypeID != nil && *in.ProductTypeID != req.ProductTypeID {
		f |= FieldProductType
	}
	if in.Quantity != nil && *in.Quantity != req.Quantity {
		f |= FieldQuantity
	}
	if in.Status != nil && *in.Status != req.Status {
		f |= FieldStatus
	}
	if in.AssignedDistributionCenterID != nil && normalizeID(*in.AssignedDistributionCenterID) != normalizeID(derefID(req.AssignedDistributionCenterID)) {
		f |= FieldAssignedCenter
	}
	if in.PickupDetails != nil && *in.PickupDetails != req.PickupDetails {
		f |= FieldPickupDetails
	}
	return f
}

func normalizeID(s string) string {
	return strings.TrimSpace(s)
}

func derefID(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// RequestFields is a bit set of request fields writable through update.
type RequestFields uint8

const (
	FieldStatus RequestFields = 1 << iota
	FieldAssignedCenter
	FieldPickupDetails
	FieldQuantity
	FieldProductType

	FieldsNone RequestFields = 0
	FieldsAll                = FieldStatus | FieldAssignedCenter | FieldPickupDetails | FieldQuantity | FieldProductType
)

var requestFieldNames = []struct {
	field RequestFields
	name  string
}{
	{FieldStatus, "status"},
	{FieldAssignedCenter, "assigned_distribution_center"},
	{FieldPickupDetails, "pickup_details"},
	{FieldQuantity, "quantity"},
	{FieldProductType, "product_type"},
}

func (f RequestFields) Has(other RequestFields) bool {
	return f&other == other
}

// Names lists the JSON names of the fields in f, in a stable order.
func (f RequestFields) Names() []string {
	out := make([]string, 0, len(requestFieldNames))
	for _, n := range requestFieldNames {
		if f&n.field != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

// RequestScope is the set of requests visible to a caller: the union of every set criterion.
// The zero value matches nothing.
type RequestScope struct {
	All            bool
	OrganizationID *string
	AccountID      *string
	CenterID       *string
}

func (s RequestScope) Empty() bool {
	return !s.All && s.OrganizationID == nil && s.AccountID == nil && s.CenterID == nil
}

func (s RequestScope) Allows(r *ProductRequest) bool {
	if s.All {
		return true
	}
	return eqPtr(s.OrganizationID, r.RequestingOrganizationID) ||
		eqPtr(s.AccountID, r.RequesterAccountID) ||
		eqPtr(s.CenterID, r.AssignedDistributionCenterID)
}

func eqPtr(scope, value *string) bool {
	return scope != nil && value != nil && *scope == *value
}
