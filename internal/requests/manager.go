// Package requests owns the product request lifecycle: who a request is filed for,
// which fields a caller may change and which status moves are legal.
package requests

import (
	"context"
	"errors"
	"strings"

	"relief/internal/access"
	"relief/internal/utils"
	"relief/pkg/types"

	"github.com/sirupsen/logrus"
)

type Repository interface {
	Requests(ctx context.Context, scope types.RequestScope) ([]*types.ProductRequestView, error)
	Request(ctx context.Context, scope types.RequestScope, requestID string) (*types.ProductRequestView, error)
	Create(ctx context.Context, req *types.ProductRequest) error
	Update(ctx context.Context, scope types.RequestScope, requestID string, fn func(*types.ProductRequest) error) (*types.ProductRequest, error)
	Delete(ctx context.Context, scope types.RequestScope, requestID string, fn func(*types.ProductRequest) error) error
}

type ProductTypeLookup interface {
	ProductType(ctx context.Context, id string) (*types.ProductType, error)
}

type Manager struct {
	logger       *logrus.Logger
	repo         Repository
	productTypes ProductTypeLookup
}

func New(logger *logrus.Logger, repo Repository, productTypes ProductTypeLookup) *Manager {
	return &Manager{
		logger:       logger,
		repo:         repo,
		productTypes: productTypes,
	}
}

func (m *Manager) List(ctx context.Context, c *types.Caller) ([]*types.ProductRequestView, error) {
	scope, err := access.ListRequests(c)
	if err != nil {
		return nil, err
	}
	return m.repo.Requests(ctx, scope)
}

func (m *Manager) Get(ctx context.Context, c *types.Caller, requestID string) (*types.ProductRequestView, error) {
	scope, err := access.RetrieveRequests(c)
	if err != nil {
		return nil, err
	}
	return m.repo.Request(ctx, scope, requestID)
}

func (m *Manager) Create(ctx context.Context, c *types.Caller, in *types.RequestInput) (*types.ProductRequestView, error) {
	requester, err := access.RequesterForCreate(c, in)
	if err != nil {
		return nil, err
	}

	if in.ProductTypeID == nil || *in.ProductTypeID == "" {
		return nil, types.FieldValidation("product_type", "this field is required")
	}
	if err := m.checkProductType(ctx, *in.ProductTypeID); err != nil {
		return nil, err
	}
	if in.Quantity == nil {
		return nil, types.FieldValidation("quantity", "this field is required")
	}

	req := &types.ProductRequest{
		RequestingOrganizationID: requester.OrganizationID,
		RequesterAccountID:       requester.AccountID,
		RequesterPhoneNumber:     normalizePhone(requester.PhoneNumber),
		ProductTypeID:            *in.ProductTypeID,
		Quantity:                 *in.Quantity,
		Status:                   types.RequestStatusPending,
	}

	// Only staff choose the initial status and assignment.
	if c.Staff() {
		if in.Status != nil {
			req.Status = *in.Status
		}
		if in.AssignedDistributionCenterID != nil {
			req.AssignedDistributionCenterID = utils.NonEmptyPtr(strings.TrimSpace(*in.AssignedDistributionCenterID))
		}
		if in.PickupDetails != nil {
			req.PickupDetails = *in.PickupDetails
		}
	}

	if err := m.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	m.logger.WithFields(logrus.Fields{
		"account_id": c.AccountID,
		"request_id": req.ID,
	}).Info("product request created")

	return m.repo.Request(ctx, types.RequestScope{All: true}, req.ID)
}

// Update applies in to the request. When full is set, in replaces the request and must
// carry every required field; otherwise only the given fields are applied.
func (m *Manager) Update(ctx context.Context, c *types.Caller, requestID string, in *types.RequestInput, full bool) (*types.ProductRequestView, error) {
	scope, err := access.RetrieveRequests(c)
	if err != nil {
		return nil, err
	}

	if in.HasRequester() {
		return nil, types.Permission("requester fields cannot be changed")
	}

	if full {
		if in.ProductTypeID == nil {
			return nil, types.FieldValidation("product_type", "this field is required")
		}
		if in.Quantity == nil {
			return nil, types.FieldValidation("quantity", "this field is required")
		}
	}

	var changed types.RequestFields
	_, err = m.repo.Update(ctx, scope, requestID, func(req *types.ProductRequest) error {
		writable, err := access.RequestWritableFields(c, req)
		if err != nil {
			return err
		}

		changed = in.Changes(req)
		if denied := changed &^ writable; denied != types.FieldsNone {
			return types.Permission("you do not have permission to change: " + strings.Join(denied.Names(), ", "))
		}

		if changed.Has(types.FieldStatus) {
			if err := checkTransition(c, req.Status, *in.Status); err != nil {
				return err
			}
			req.Status = *in.Status
		}

		if changed.Has(types.FieldProductType) {
			if err := m.checkProductType(ctx, *in.ProductTypeID); err != nil {
				return err
			}
			req.ProductTypeID = *in.ProductTypeID
		}

		if changed.Has(types.FieldQuantity) {
			req.Quantity = *in.Quantity
		}

		if changed.Has(types.FieldAssignedCenter) {
			req.AssignedDistributionCenterID = utils.NonEmptyPtr(strings.TrimSpace(*in.AssignedDistributionCenterID))
		}

		if changed.Has(types.FieldPickupDetails) {
			req.PickupDetails = *in.PickupDetails
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.WithFields(logrus.Fields{
		"account_id": c.AccountID,
		"request_id": requestID,
		"fields":     changed.Names(),
	}).Info("product request updated")

	return m.repo.Request(ctx, types.RequestScope{All: true}, requestID)
}

func (m *Manager) Delete(ctx context.Context, c *types.Caller, requestID string) error {
	scope, err := access.RetrieveRequests(c)
	if err != nil {
		return err
	}

	err = m.repo.Delete(ctx, scope, requestID, func(req *types.ProductRequest) error {
		return access.CanDeleteRequest(c, req)
	})
	if err != nil {
		return err
	}

	m.logger.WithFields(logrus.Fields{
		"account_id": c.AccountID,
		"request_id": requestID,
	}).Info("product request deleted")

	return nil
}

func (m *Manager) checkProductType(ctx context.Context, productTypeID string) error {
	_, err := m.productTypes.ProductType(ctx, productTypeID)
	if errors.Is(err, types.ErrProductTypeNotFound) {
		return types.FieldValidation("product_type", "invalid product type \""+productTypeID+"\"")
	}
	return err
}

// checkTransition applies the role limits before the lifecycle graph, so a requester
// asking for a status they may never set gets a permission error.
func checkTransition(c *types.Caller, from, to types.RequestStatus) error {
	if err := access.CanSetStatus(c, to); err != nil {
		return err
	}
	if !to.Valid() {
		return types.FieldValidation("status", "\""+string(to)+"\" is not a valid status")
	}
	if !from.CanTransitionTo(to) {
		return types.FieldValidation("status", "cannot change status from "+string(from)+" to "+string(to))
	}
	return nil
}

func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	return utils.NonEmptyPtr(strings.TrimSpace(*phone))
}
