// Package accounts onboards new users and lets staff manage profiles.
package accounts

import (
	"context"
	"fmt"
	"strings"

	"relief/internal/access"
	"relief/internal/utils"
	"relief/pkg/types"

	"github.com/sirupsen/logrus"
)

type IdentityProvider interface {
	SignUp(ctx context.Context, username, email, password string) (string, error)
	DeleteUser(ctx context.Context, username string) error
}

type Repository interface {
	CreateWithProfile(ctx context.Context, account *types.Account, profile *types.Profile) error
	UpdateProfile(ctx context.Context, profileID string, update *types.ProfileUpdate) (*types.Profile, error)
}

type Registrar struct {
	logger *logrus.Logger
	idp    IdentityProvider
	repo   Repository
}

func NewRegistrar(logger *logrus.Logger, idp IdentityProvider, repo Repository) *Registrar {
	return &Registrar{logger: logger, idp: idp, repo: repo}
}

// Register signs the user up with the identity provider, then stores the account and
// its profile. The profile is always written in the same transaction as the account.
// A failed store write deletes the identity again.
func (r *Registrar) Register(ctx context.Context, in *types.RegisterInput) (*types.Account, *types.Profile, error) {
	role := in.Role
	if role == "" {
		role = types.RoleIndividual
	}
	if !role.SelfAssignable() {
		return nil, nil, types.FieldValidation("role", "\""+string(role)+"\" cannot be chosen at registration")
	}

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	subject, err := r.idp.SignUp(ctx, username, email, in.Password)
	if err != nil {
		return nil, nil, err
	}

	account := &types.Account{
		ID:       subject,
		Username: username,
		Email:    utils.NonEmptyPtr(email),
	}
	profile := &types.Profile{Role: role}

	if err := r.repo.CreateWithProfile(ctx, account, profile); err != nil {
		entry := r.logger.WithError(err).WithField("account_id", subject)
		entry.Error("failed to create account after sign up")

		// Without the local account the identity can never sign in, so release the
		// username for a retry.
		if delErr := r.idp.DeleteUser(ctx, username); delErr != nil {
			entry.WithField("cleanup_error", delErr.Error()).Error("failed to roll back identity after sign up")
		}
		return nil, nil, fmt.Errorf("failed to complete registration: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"account_id": account.ID,
		"role":       profile.Role,
	}).Info("account registered")

	return account, profile, nil
}

// UpdateProfile lets staff change a profile's role or location.
func (r *Registrar) UpdateProfile(ctx context.Context, c *types.Caller, profileID string, update *types.ProfileUpdate) (*types.Profile, error) {
	if err := access.RequireStaff(c); err != nil {
		return nil, err
	}

	if update.Role != nil && !update.Role.Valid() {
		return nil, types.FieldValidation("role", "\""+string(*update.Role)+"\" is not a valid choice")
	}

	profile, err := r.repo.UpdateProfile(ctx, profileID, update)
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"account_id": c.AccountID,
		"profile_id": profileID,
	}).Info("profile updated")

	return profile, nil
}
