package types

import "time"

type Organization struct {
	ID             string    `db:"id" json:"id"`
	AdminProfileID *string   `db:"admin_profile_id" json:"admin_profile_id"`
	Name           string    `db:"name" json:"name"`
	Location       string    `db:"location" json:"location"`
	ContactPerson  string    `db:"contact_person" json:"contact_person"`
	ContactEmail   string    `db:"contact_email" json:"contact_email"`
	ContactPhone   string    `db:"contact_phone" json:"contact_phone"`
	IsVerified     bool      `db:"is_verified" json:"is_verified"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// OrganizationView adds the admin's username for API output.
type OrganizationView struct {
	Organization
	AdminUsername *string `db:"admin_username" json:"admin_username"`
}

type CreateOrganizationInput struct {
	AdminProfileID *string `json:"admin_profile_id"`
	Name           string  `json:"name" validate:"required,max=200"`
	Location       string  `json:"location" validate:"required,max=255"`
	ContactPerson  string  `json:"contact_person" validate:"max=100"`
	ContactEmail   string  `json:"contact_email" validate:"omitempty,email"`
	ContactPhone   string  `json:"contact_phone" validate:"max=20"`
}

// AdminLinkInput sets or clears the managing profile of an organization or center.
type AdminLinkInput struct {
	ProfileID *string `json:"profile_id"`
}

type DistributionCenter struct {
	ID             string    `db:"id" json:"id"`
	AdminProfileID *string   `db:"admin_profile_id" json:"-"`
	Name           string    `db:"name" json:"name"`
	Location       string    `db:"location" json:"location"`
	ContactEmail   string    `db:"contact_email" json:"contact_email"`
	ContactPhone   string    `db:"contact_phone" json:"contact_phone"`
	OperatingHours string    `db:"operating_hours" json:"operating_hours"`
	CreatedAt      time.Time `db:"created_at" json:"-"`
	UpdatedAt      time.Time `db:"updated_at" json:"-"`
}

type CreateCenterInput struct {
	Name           string `json:"name" validate:"required,max=200"`
	Location       string `json:"location" validate:"required,max=255"`
	ContactEmail   string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone   string `json:"contact_phone" validate:"max=20"`
	OperatingHours string `json:"operating_hours" validate:"max=150"`
}

type ProductType struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name" validate:"required,max=100"`
	Description string `db:"description" json:"description"`
}
