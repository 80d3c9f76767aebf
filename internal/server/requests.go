package server

import (
	"net/http"

	"relief/pkg/types"
)

func (s *Service) handleListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	views, err := s.backends.Requests.List(ctx, callerFromContext(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, views)
}

func (s *Service) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in types.RequestInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.backends.Requests.Create(ctx, callerFromContext(ctx), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, view)
}

func (s *Service) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := s.backends.Requests.Get(ctx, callerFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, view)
}

func (s *Service) handlePutRequest(w http.ResponseWriter, r *http.Request) {
	s.updateRequest(w, r, true)
}

func (s *Service) handlePatchRequest(w http.ResponseWriter, r *http.Request) {
	s.updateRequest(w, r, false)
}

func (s *Service) updateRequest(w http.ResponseWriter, r *http.Request, full bool) {
	ctx := r.Context()

	var in types.RequestInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.backends.Requests.Update(ctx, callerFromContext(ctx), r.PathValue("id"), &in, full)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, view)
}

func (s *Service) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.backends.Requests.Delete(ctx, callerFromContext(ctx), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
