package types

import "time"

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
)

type Donation struct {
	ID                string         `db:"id" json:"id"`
	AccountID         string         `db:"account_id" json:"account_id"`
	AmountCents       int64          `db:"amount_cents" json:"amount_cents"`
	Currency          string         `db:"currency" json:"currency"`
	Status            DonationStatus `db:"status" json:"status"`
	CheckoutSessionID string         `db:"checkout_session_id" json:"-"`
	CheckoutURL       string         `db:"checkout_url" json:"checkout_url"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

type CreateDonationInput struct {
	AmountCents int64 `json:"amount_cents" validate:"required,gt=0"`
}
