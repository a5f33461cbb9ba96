package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/quietwire/courier/internal/api/service"
	"github.com/quietwire/courier/pkg/couriersdk"
	"github.com/quietwire/courier/pkg/httpx"
	"github.com/quietwire/courier/pkg/idx"
	"github.com/quietwire/courier/pkg/slogx"
)

// UsersHandler serves the current-user profile and contact search.
type UsersHandler struct {
	UserService *service.UserService
}

func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := idx.ID(httpx.UserIDFromContext(ctx))
	user, err := h.UserService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			couriersdk.ErrUserNotFound.WriteError(w)
			return
		}
		log.Error("failed to load current user", "err", err)
		couriersdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *UsersHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		couriersdk.NewAPIError(http.StatusBadRequest, "q is required").WriteError(w)
		return
	}

	self := idx.ID(httpx.UserIDFromContext(ctx))
	users, err := h.UserService.SearchUsers(ctx, query, self)
	if err != nil {
		log.Error("user search failed", "err", err)
		couriersdk.ErrServerError.WriteError(w)
		return
	}

	out := couriersdk.SearchUsersResponse{Users: make([]couriersdk.UserSummary, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, couriersdk.UserSummary{
			ID:       u.ID.String(),
			FullName: u.FullName(),
			Email:    u.Email,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
