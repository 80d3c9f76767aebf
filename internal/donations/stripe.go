package donations

import (
	"context"
	"fmt"

	"relief/pkg/types"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
)

// StripeCheckout creates hosted Stripe Checkout sessions for one-off donations.
type StripeCheckout struct {
	client     *session.Client
	successURL string
	cancelURL  string
}

func NewStripeCheckout(secretKey, successURL, cancelURL string) *StripeCheckout {
	return &StripeCheckout{
		client:     &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

func (s *StripeCheckout) CreateSession(_ context.Context, donation *types.Donation) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(donation.ID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(donation.Currency),
					UnitAmount: stripe.Int64(donation.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Relief supplies donation"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("donation_id", donation.ID)
	params.AddMetadata("account_id", donation.AccountID)

	sess, err := s.client.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.ID, sess.URL, nil
}
