package server

import (
	"net/http"
	"strings"

	"relief/internal/access"
	"relief/pkg/types"
)

func (s *Service) handleListProductTypes(w http.ResponseWriter, r *http.Request) {
	pts, err := s.backends.ProductTypes.ProductTypes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pts)
}

func (s *Service) handleCreateProductType(w http.ResponseWriter, r *http.Request) {
	if err := access.RequireStaff(callerFromContext(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}

	var pt types.ProductType
	if err := s.decode(r, &pt); err != nil {
		s.writeError(w, r, err)
		return
	}
	pt.Name = strings.TrimSpace(pt.Name)

	if err := s.backends.ProductTypes.Create(r.Context(), &pt); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, pt)
}

func (s *Service) handleListCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := s.backends.Centers.Centers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, centers)
}

func (s *Service) handleCreateCenter(w http.ResponseWriter, r *http.Request) {
	if err := access.RequireStaff(callerFromContext(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}

	var in types.CreateCenterInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	center := &types.DistributionCenter{
		Name:           strings.TrimSpace(in.Name),
		Location:       strings.TrimSpace(in.Location),
		ContactEmail:   in.ContactEmail,
		ContactPhone:   in.ContactPhone,
		OperatingHours: in.OperatingHours,
	}
	if err := s.backends.Centers.Create(r.Context(), center); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, center)
}

func (s *Service) handleSetCenterAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := access.RequireStaff(callerFromContext(ctx)); err != nil {
		s.writeError(w, r, err)
		return
	}

	var in types.AdminLinkInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.checkAdminProfile(r, in.ProfileID, types.RoleCenterAdmin); err != nil {
		s.writeError(w, r, err)
		return
	}

	centerID := r.PathValue("id")
	if err := s.backends.Centers.SetAdmin(ctx, centerID, in.ProfileID); err != nil {
		s.writeError(w, r, err)
		return
	}

	center, err := s.backends.Centers.Center(ctx, centerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, center)
}

func (s *Service) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.backends.Organizations.Organizations(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, orgs)
}

func (s *Service) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := access.RequireStaff(callerFromContext(ctx)); err != nil {
		s.writeError(w, r, err)
		return
	}

	var in types.CreateOrganizationInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.checkAdminProfile(r, in.AdminProfileID, types.RoleOrganizationAdmin); err != nil {
		s.writeError(w, r, err)
		return
	}

	org := &types.Organization{
		AdminProfileID: in.AdminProfileID,
		Name:           strings.TrimSpace(in.Name),
		Location:       strings.TrimSpace(in.Location),
		ContactPerson:  in.ContactPerson,
		ContactEmail:   in.ContactEmail,
		ContactPhone:   in.ContactPhone,
	}
	if err := s.backends.Organizations.Create(ctx, org); err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.backends.Organizations.Organization(ctx, org.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, view)
}

func (s *Service) handleSetOrganizationAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := access.RequireStaff(callerFromContext(ctx)); err != nil {
		s.writeError(w, r, err)
		return
	}

	var in types.AdminLinkInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.checkAdminProfile(r, in.ProfileID, types.RoleOrganizationAdmin); err != nil {
		s.writeError(w, r, err)
		return
	}

	orgID := r.PathValue("id")
	if err := s.backends.Organizations.SetAdmin(ctx, orgID, in.ProfileID); err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.backends.Organizations.Organization(ctx, orgID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, view)
}

// checkAdminProfile requires a linked admin to hold the matching admin role.
// A nil profile clears the link.
func (s *Service) checkAdminProfile(r *http.Request, profileID *string, want types.Role) error {
	if profileID == nil {
		return nil
	}

	profile, err := s.backends.Directory.Profile(r.Context(), *profileID)
	if err != nil {
		if types.KindOf(err) == types.KindNotFound {
			return types.FieldValidation("profile_id", "profile does not exist")
		}
		return err
	}

	if profile.Role != want {
		return types.FieldValidation("profile_id", "profile must have the "+string(want)+" role")
	}

	return nil
}

func (s *Service) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var update types.ProfileUpdate
	if err := s.decode(r, &update); err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.backends.Accounts.UpdateProfile(ctx, callerFromContext(ctx), r.PathValue("id"), &update)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}
