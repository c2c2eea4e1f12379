package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"identity-console/internal/domain"
)

type createRoleBody struct {
	Name string `json:"name"`
}

type updateRoleBody struct {
	Name   string      `json:"name"`
	Claims []claimBody `json:"claims"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	req, err := parseTableRequest(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.roles.List(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTableResponse(res, h.roleToRow))
}

func (h *Handler) roleNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.roles.Names(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.roles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roleDetail{roleRow: h.roleToRow(*role), CreatedAt: role.CreatedAt})
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var body createRoleBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.roles.Create(r.Context(), domain.CreateRoleRequest(body)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	var body updateRoleBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	err := h.roles.Update(r.Context(), domain.UpdateRoleRequest{
		ID:     chi.URLParam(r, "id"),
		Name:   body.Name,
		Claims: claimInputs(body.Claims),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.roles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
