// Package donations records monetary donations and hands payment off to Stripe Checkout.
package donations

import (
	"context"
	"strings"

	"relief/internal/access"
	"relief/pkg/types"

	"github.com/sirupsen/logrus"
)

type Checkout interface {
	// CreateSession returns the session id and the hosted checkout URL.
	CreateSession(ctx context.Context, donation *types.Donation) (string, string, error)
}

type Repository interface {
	Donations(ctx context.Context, accountID string) ([]*types.Donation, error)
	Create(ctx context.Context, donation *types.Donation) error
	SetCheckout(ctx context.Context, donationID, sessionID, url string) error
	Delete(ctx context.Context, donationID string) error
}

type Service struct {
	logger   *logrus.Logger
	repo     Repository
	checkout Checkout
	currency string
}

// New returns a Service. A nil checkout disables new donations.
func New(logger *logrus.Logger, repo Repository, checkout Checkout, currency string) *Service {
	return &Service{
		logger:   logger,
		repo:     repo,
		checkout: checkout,
		currency: strings.ToLower(currency),
	}
}

func (s *Service) List(ctx context.Context, c *types.Caller) ([]*types.Donation, error) {
	return s.repo.Donations(ctx, c.AccountID)
}

func (s *Service) Create(ctx context.Context, c *types.Caller, in *types.CreateDonationInput) (*types.Donation, error) {
	if err := access.CanDonate(c); err != nil {
		return nil, err
	}

	if in.AmountCents <= 0 {
		return nil, types.FieldValidation("amount_cents", "amount must be positive")
	}

	if s.checkout == nil {
		return nil, types.Validation("donations are not enabled")
	}

	donation := &types.Donation{
		AccountID:   c.AccountID,
		AmountCents: in.AmountCents,
		Currency:    s.currency,
		Status:      types.DonationStatusPending,
	}

	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, err
	}

	sessionID, url, err := s.checkout.CreateSession(ctx, donation)
	if err != nil {
		entry := s.logger.WithError(err).WithField("donation_id", donation.ID)
		entry.Error("failed to start checkout")
		if delErr := s.repo.Delete(ctx, donation.ID); delErr != nil {
			entry.WithField("cleanup_error", delErr.Error()).Warn("failed to remove abandoned donation")
		}
		return nil, err
	}

	if err := s.repo.SetCheckout(ctx, donation.ID, sessionID, url); err != nil {
		return nil, err
	}

	donation.CheckoutSessionID = sessionID
	donation.CheckoutURL = url

	s.logger.WithFields(logrus.Fields{
		"account_id":   c.AccountID,
		"donation_id":  donation.ID,
		"amount_cents": donation.AmountCents,
	}).Info("donation checkout started")

	return donation, nil
}
