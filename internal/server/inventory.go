package server

import (
	"net/http"

	"relief/pkg/types"
)

func (s *Service) handleListInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := s.backends.Inventory.List(ctx, callerFromContext(ctx), optionalQuery(r, "center_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, items)
}

func (s *Service) handleCreateInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in types.CreateInventoryInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.backends.Inventory.Create(ctx, callerFromContext(ctx), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, item)
}

func (s *Service) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	item, err := s.backends.Inventory.Get(ctx, callerFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, item)
}

func (s *Service) handlePatchInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in types.UpdateInventoryInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.backends.Inventory.UpdateQuantity(ctx, callerFromContext(ctx), r.PathValue("id"), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, item)
}
