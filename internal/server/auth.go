package server

import (
	"net/http"

	"relief/pkg/types"
)

type registrationResponse struct {
	Account *types.Account `json:"account"`
	Profile *types.Profile `json:"profile"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in types.RegisterInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, profile, err := s.backends.Accounts.Register(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, registrationResponse{Account: account, Profile: profile})
}

func (s *Service) handleConfirmRegistration(w http.ResponseWriter, r *http.Request) {
	var in types.ConfirmInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.backends.Identity.ConfirmSignUp(r.Context(), in.Username, in.Code); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"detail": "registration confirmed"})
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in types.LoginInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.backends.Identity.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	encryptedToken, err := s.cookie.Encode(s.config.CookieName, session.AccessToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	maxAge := session.ExpiresIn
	if maxAge <= 0 {
		maxAge = s.config.SessionMaxAgeSec
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   !s.config.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
		Path:     "/",
	})

	s.writeJSON(w, http.StatusOK, loginResponse{AccessToken: session.AccessToken, ExpiresIn: maxAge})
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.backends.Identity.Logout(r.Context(), accessTokenFromContext(r.Context())); err != nil {
		// The cookie is cleared regardless; the token just lives out its expiry.
		s.logger.WithError(err).Warn("failed to revoke tokens")
	}

	s.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   !s.config.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func (s *Service) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := callerFromContext(ctx)

	account, err := s.backends.Directory.Account(ctx, c.AccountID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := types.CurrentUser{
		ID:                   account.ID,
		Username:             account.Username,
		Email:                account.Email,
		IsStaff:              account.IsStaff,
		IsSuperuser:          account.IsSuperuser,
		LinkedOrganizationID: c.OrganizationID,
		LinkedCenterID:       c.CenterID,
	}
	if c.Profile != nil {
		role := c.Profile.Role
		out.Role = &role
		out.ProfileID = &c.Profile.ID
	}

	s.writeJSON(w, http.StatusOK, out)
}
