package handler

import (
	"net/http"

	"github.com/gocart-dev/gocart/internal/domain"
	"github.com/gocart-dev/gocart/internal/utils"
)

type registerWithRoleRequest struct {
	Email    string `validate:"required,email" json:"email"`
	FullName string `validate:"required" json:"full_name"`
	Password string `validate:"required" json:"password"`
	Role     string `validate:"required" json:"role"`
}

// RegisterWithRole creates an account with an arbitrary role. Admin only.
func (h *Handler) RegisterWithRole(w http.ResponseWriter, r *http.Request) {
	var body registerWithRoleRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, err := h.auth.RegisterWithRole(body.Email, body.FullName, body.Password, domain.Role(body.Role))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, toUserResponse(user))
}

// GetAllUsers lists accounts with limit/skip paging and an optional role
// filter. Admin only.
func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 10
	skip := 0
	var err error
	if v := query.Get("limit"); v != "" {
		if limit, err = parseIntParam(v, "limit"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if v := query.Get("skip"); v != "" {
		if skip, err = parseIntParam(v, "skip"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	users, err := h.auth.Users(limit, skip, query.Get("role"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := make([]userResponse, len(users))
	for i, user := range users {
		response[i] = toUserResponse(user)
	}
	writeJSON(w, response)
}
