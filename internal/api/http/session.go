package http

import (
	"errors"
	"net/http"

	"github.com/quietwire/courier/internal/api/domain"
	"github.com/quietwire/courier/internal/api/service"
	"github.com/quietwire/courier/pkg/couriersdk"
	"github.com/quietwire/courier/pkg/httpx"
	"github.com/quietwire/courier/pkg/slogx"
)

// SessionHandler serves signup, login, refresh and logout.
type SessionHandler struct {
	SessionService *service.SessionService
	Cookies        RefreshCookies
}

func (h *SessionHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req couriersdk.SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.SessionService.Signup(ctx, req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			couriersdk.ErrEmailTaken.WriteError(w)
			return
		}
		log.Error("signup failed", "err", err)
		couriersdk.ErrServerError.WriteError(w)
		return
	}

	h.Cookies.Attach(w, pair.RefreshToken)
	httpx.WriteJSON(w, http.StatusCreated, couriersdk.AuthResponse{
		User:        toUserDTO(user),
		AccessToken: pair.AccessToken,
	})
}

func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req couriersdk.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.SessionService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			couriersdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		log.Error("login failed", "err", err)
		couriersdk.ErrServerError.WriteError(w)
		return
	}

	h.Cookies.Attach(w, pair.RefreshToken)
	httpx.WriteJSON(w, http.StatusOK, couriersdk.AuthResponse{
		User:        toUserDTO(user),
		AccessToken: pair.AccessToken,
	})
}

func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := h.Cookies.Read(r)
	if token == "" {
		couriersdk.ErrMissingRefreshToken.WriteError(w)
		return
	}

	_, access, err := h.SessionService.Refresh(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			// The cookie is bad; clearing it stops the client retrying a
			// credential that can never work.
			h.Cookies.Clear(w)
			couriersdk.ErrInvalidRefreshToken.WriteError(w)
		case errors.Is(err, service.ErrUserNotFound):
			couriersdk.ErrUserNotFound.WriteError(w)
		default:
			log.Error("refresh failed", "err", err)
			couriersdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, couriersdk.RefreshResponse{AccessToken: access})
}

func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func toUserDTO(u domain.User) couriersdk.User {
	return couriersdk.User{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
