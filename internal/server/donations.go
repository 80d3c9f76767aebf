package server

import (
	"net/http"

	"relief/pkg/types"
)

func (s *Service) handleListDonations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donations, err := s.backends.Donations.List(ctx, callerFromContext(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, donations)
}

func (s *Service) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in types.CreateDonationInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	donation, err := s.backends.Donations.Create(ctx, callerFromContext(ctx), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, donation)
}
