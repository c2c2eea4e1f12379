package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"identity-console/internal/domain"
)

type createUserBody struct {
	UserName string `json:"userName"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type claimBody struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type updateUserBody struct {
	Email  string      `json:"email"`
	Locked bool        `json:"locked"`
	Roles  []string    `json:"roles"`
	Claims []claimBody `json:"claims"`
}

type resetPasswordBody struct {
	Password string `json:"password"`
	Verify   string `json:"verify"`
}

func claimInputs(in []claimBody) []domain.ClaimInput {
	out := make([]domain.ClaimInput, len(in))
	for i, c := range in {
		out[i] = domain.ClaimInput(c)
	}
	return out
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	req, err := parseTableRequest(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.users.List(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTableResponse(res, h.userToRow))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.userToDetail(*u))
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var body createUserBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	_, err := h.users.Create(r.Context(), domain.CreateUserRequest(body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var body updateUserBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	err := h.users.Update(r.Context(), domain.UpdateUserRequest{
		ID:     chi.URLParam(r, "id"),
		Email:  body.Email,
		Locked: body.Locked,
		Roles:  body.Roles,
		Claims: claimInputs(body.Claims),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var body resetPasswordBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	err := h.users.ResetPassword(r.Context(), domain.ResetPasswordRequest{
		ID:       chi.URLParam(r, "id"),
		Password: body.Password,
		Verify:   body.Verify,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
