package types

import "time"

type Role string

const (
	RoleIndividual        Role = "individual"
	RoleOrganizationAdmin Role = "organization_admin"
	RoleDonor             Role = "donor"
	RoleCenterAdmin       Role = "center_admin"
)

var AllRoles = []Role{RoleIndividual, RoleOrganizationAdmin, RoleDonor, RoleCenterAdmin}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// SelfAssignable reports whether a role may be picked at registration.
// Admin roles are granted by staff.
func (r Role) SelfAssignable() bool {
	return r == RoleIndividual || r == RoleDonor
}

type Account struct {
	ID          string    `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	Email       *string   `db:"email" json:"email"`
	IsStaff     bool      `db:"is_staff" json:"is_staff"`
	IsSuperuser bool      `db:"is_superuser" json:"is_superuser"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Profile struct {
	ID        string    `db:"id" json:"id"`
	AccountID string    `db:"account_id" json:"account_id"`
	Role      Role      `db:"role" json:"role"`
	Location  *string   `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type ProfileUpdate struct {
	Role     *Role   `json:"role"`
	Location *string `json:"location"`
}

// Caller is the resolved (account, role, linked entity) triple for an authenticated request.
// Profile is nil when the account has no profile row.
type Caller struct {
	AccountID      string
	Username       string
	IsStaff        bool
	Profile        *Profile
	OrganizationID *string
	CenterID       *string
}

// Staff reports the staff/superuser override.
func (c *Caller) Staff() bool {
	return c != nil && c.IsStaff
}

func (c *Caller) Role() (Role, bool) {
	if c == nil || c.Profile == nil {
		return "", false
	}
	return c.Profile.Role, true
}

// CallerRow is the joined account/profile/linked-entity row the store resolves a Caller from.
type CallerRow struct {
	AccountID      string  `db:"account_id"`
	Username       string  `db:"username"`
	IsStaff        bool    `db:"is_staff"`
	IsSuperuser    bool    `db:"is_superuser"`
	ProfileID      *string `db:"profile_id"`
	Role           *Role   `db:"role"`
	Location       *string `db:"location"`
	OrganizationID *string `db:"organization_id"`
	CenterID       *string `db:"center_id"`
}

func (r *CallerRow) Caller() *Caller {
	c := &Caller{
		AccountID:      r.AccountID,
		Username:       r.Username,
		IsStaff:        r.IsStaff || r.IsSuperuser,
		OrganizationID: r.OrganizationID,
		CenterID:       r.CenterID,
	}
	if r.ProfileID != nil && r.Role != nil {
		c.Profile = &Profile{
			ID:        *r.ProfileID,
			AccountID: r.AccountID,
			Role:      *r.Role,
			Location:  r.Location,
		}
	}
	return c
}

// CurrentUser is the payload of the current-user endpoint.
type CurrentUser struct {
	ID                   string  `json:"id"`
	Username             string  `json:"username"`
	Email                *string `json:"email"`
	IsStaff              bool    `json:"is_staff"`
	IsSuperuser          bool    `json:"is_superuser"`
	Role                 *Role   `json:"role"`
	ProfileID            *string `json:"profile_id"`
	LinkedOrganizationID *string `json:"linked_organization_id"`
	LinkedCenterID       *string `json:"linked_center_id"`
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role"`
}

type ConfirmInput struct {
	Username string `json:"username" validate:"required"`
	Code     string `json:"code" validate:"required"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
