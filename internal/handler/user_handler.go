package handler

import (
	"context"
	"net/http"

	"go-auth-service/internal/middleware"
	"go-auth-service/internal/model"
	"go-auth-service/internal/service"
	"go-auth-service/pkg/apierror"
)

type userLister interface {
	List(ctx context.Context) ([]model.User, error)
}

type UserHandler struct {
	service *service.AuthService
	users   userLister
}

func NewUserHandler(service *service.AuthService, users userLister) *UserHandler {
	return &UserHandler{service: service, users: users}
}

// Me returns the profile behind the authenticated principal.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	user, err := h.service.UserByUsername(r.Context(), principal.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// List is admin-only; the route table enforces the role.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserListResponse{Users: users, Total: len(users)})
}
