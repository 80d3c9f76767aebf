// Package access decides what a caller may see and change. Every function is keyed
// on the closed role set in pkg/types and has no storage or HTTP dependencies.
//
// Rules are evaluated in order and the first match wins: the staff override, then
// the caller's profile role. A caller without a profile is always denied.
package access

import (
	"relief/pkg/types"
)

var (
	errNoRequestAccess   = types.Permission("you do not have permission to view requests")
	errNoCreateAccess    = types.Permission("you do not have permission to create this type of request")
	errNoInventoryAccess = types.Permission("you do not have permission to view inventory")
	errNoInventoryWrite  = types.Permission("you do not have permission to update this inventory item")
	errNoRequestWrite    = types.Permission("you do not have permission to modify this request")

	errRequesterInPayload = types.Validation("cannot specify requester organization, account, or phone number in the request payload")
	errOrgAdminUnlinked   = types.Validation("your organization admin profile is not linked to an organization")
)

func role(c *types.Caller) (types.Role, error) {
	r, ok := c.Role()
	if !ok {
		return "", types.ErrProfileMissing
	}
	return r, nil
}

// ListRequests returns the scope of the request list endpoint.
func ListRequests(c *types.Caller) (types.RequestScope, error) {
	if c.Staff() {
		return types.RequestScope{All: true}, nil
	}

	r, err := role(c)
	if err != nil {
		return types.RequestScope{}, err
	}

	switch r {
	case types.RoleOrganizationAdmin:
		if c.OrganizationID == nil {
			return types.RequestScope{}, nil
		}
		return types.RequestScope{OrganizationID: c.OrganizationID}, nil
	case types.RoleIndividual:
		return types.RequestScope{AccountID: &c.AccountID}, nil
	case types.RoleCenterAdmin:
		// Center admins reach requests through the assignment relation instead.
		return types.RequestScope{}, nil
	}

	return types.RequestScope{}, errNoRequestAccess
}

// RetrieveRequests returns the scope used to look up a single request, for reads and writes.
func RetrieveRequests(c *types.Caller) (types.RequestScope, error) {
	if c.Staff() {
		return types.RequestScope{All: true}, nil
	}

	r, err := role(c)
	if err != nil {
		return types.RequestScope{}, err
	}

	switch r {
	case types.RoleOrganizationAdmin:
		return types.RequestScope{OrganizationID: c.OrganizationID, AccountID: &c.AccountID}, nil
	case types.RoleIndividual:
		return types.RequestScope{AccountID: &c.AccountID}, nil
	case types.RoleCenterAdmin:
		if c.CenterID == nil {
			return types.RequestScope{}, nil
		}
		return types.RequestScope{CenterID: c.CenterID}, nil
	}

	return types.RequestScope{}, errNoRequestAccess
}

// Requester is the requester identity assigned to a new request.
type Requester struct {
	OrganizationID *string
	AccountID      *string
	PhoneNumber    *string
}

// RequesterForCreate decides who a new request is filed for. Staff may name the
// requester in the payload, e.g. a phone number taken over the phone. Without one,
// staff file through their own role like everyone else. Non-staff callers must leave
// requester fields empty.
func RequesterForCreate(c *types.Caller, in *types.RequestInput) (Requester, error) {
	if c.Staff() && in.HasRequester() {
		return Requester{
			OrganizationID: in.RequestingOrganizationID,
			AccountID:      in.RequesterAccountID,
			PhoneNumber:    in.RequesterPhoneNumber,
		}, nil
	}

	if in.HasRequester() {
		return Requester{}, errRequesterInPayload
	}

	r, err := role(c)
	if err != nil {
		return Requester{}, err
	}

	switch r {
	case types.RoleOrganizationAdmin:
		if c.OrganizationID == nil {
			return Requester{}, errOrgAdminUnlinked
		}
		return Requester{OrganizationID: c.OrganizationID}, nil
	case types.RoleIndividual:
		return Requester{AccountID: &c.AccountID}, nil
	}

	return Requester{}, errNoCreateAccess
}

// RequestWritableFields returns the fields c may change on req. req must already be
// within RetrieveRequests(c).
func RequestWritableFields(c *types.Caller, req *types.ProductRequest) (types.RequestFields, error) {
	if c.Staff() {
		return types.FieldsAll, nil
	}

	r, err := role(c)
	if err != nil {
		return types.FieldsNone, err
	}

	switch r {
	case types.RoleCenterAdmin:
		if c.CenterID != nil && req.AssignedDistributionCenterID != nil && *c.CenterID == *req.AssignedDistributionCenterID {
			return types.FieldStatus | types.FieldPickupDetails, nil
		}
	case types.RoleIndividual, types.RoleOrganizationAdmin:
		if (types.RequestScope{OrganizationID: c.OrganizationID, AccountID: &c.AccountID}).Allows(req) {
			return types.FieldStatus, nil
		}
	}

	return types.FieldsNone, errNoRequestWrite
}

// CanSetStatus checks role-specific limits on top of the lifecycle graph: requesters
// may only withdraw their own request.
func CanSetStatus(c *types.Caller, next types.RequestStatus) error {
	if c.Staff() {
		return nil
	}

	r, err := role(c)
	if err != nil {
		return err
	}

	switch r {
	case types.RoleCenterAdmin:
		return nil
	case types.RoleIndividual, types.RoleOrganizationAdmin:
		if next == types.RequestStatusCancelled {
			return nil
		}
		return types.Permission("requesters may only cancel a request")
	}

	return errNoRequestWrite
}

// CanDeleteRequest allows staff to delete any request and a requester to delete
// their own request while it is still pending.
func CanDeleteRequest(c *types.Caller, req *types.ProductRequest) error {
	if c.Staff() {
		return nil
	}

	r, err := role(c)
	if err != nil {
		return err
	}

	switch r {
	case types.RoleIndividual, types.RoleOrganizationAdmin:
		own := types.RequestScope{OrganizationID: c.OrganizationID, AccountID: &c.AccountID}.Allows(req)
		if own && req.Status == types.RequestStatusPending {
			return nil
		}
	}

	return types.Permission("you do not have permission to delete this request")
}

// ListInventory returns the inventory scope. centerID is the optional query parameter;
// only staff have it honored.
func ListInventory(c *types.Caller, centerID *string) (types.InventoryScope, error) {
	if c.Staff() {
		if centerID != nil && *centerID != "" {
			return types.InventoryScope{CenterID: centerID}, nil
		}
		return types.InventoryScope{All: true}, nil
	}

	r, err := role(c)
	if err != nil {
		return types.InventoryScope{}, err
	}

	if r == types.RoleCenterAdmin {
		return types.InventoryScope{CenterID: c.CenterID}, nil
	}

	return types.InventoryScope{}, errNoInventoryAccess
}

// CanWriteInventory allows staff, or the center admin of the item's center.
func CanWriteInventory(c *types.Caller, item *types.InventoryItem) error {
	if c.Staff() {
		return nil
	}

	r, err := role(c)
	if err != nil {
		return err
	}

	if r == types.RoleCenterAdmin && c.CenterID != nil && *c.CenterID == item.DistributionCenterID {
		return nil
	}

	return errNoInventoryWrite
}

// CanDonate allows donors and staff to start a donation.
func CanDonate(c *types.Caller) error {
	if c.Staff() {
		return nil
	}

	r, err := role(c)
	if err != nil {
		return err
	}

	if r == types.RoleDonor {
		return nil
	}

	return types.Permission("only donors can make donations")
}

// RequireStaff guards reference-data and administration endpoints.
func RequireStaff(c *types.Caller) error {
	if c.Staff() {
		return nil
	}
	return types.Permission("you do not have permission to perform this action")
}
