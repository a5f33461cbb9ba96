package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/quietwire/courier/internal/api/domain"
	"github.com/quietwire/courier/internal/api/store"
	"github.com/quietwire/courier/pkg/cryptox"
	"github.com/quietwire/courier/pkg/idx"
	"github.com/quietwire/courier/pkg/jwtx"
	"github.com/quietwire/courier/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrUserNotFound       = errors.New("user_not_found")
)

// TokenCodec mints and verifies both token kinds with one key.
type TokenCodec interface {
	jwtx.Minter
	jwtx.Verifier
}

// SessionService owns the account lifecycle: signup, login and access-token
// refresh. Refresh tokens are stateless, so there is nothing to persist or
// revoke here; possession of a valid refresh token is the whole session.
type SessionService struct {
	Codec TokenCodec
	Store store.Store
}

// Signup registers a new account and signs the user straight in.
func (s *SessionService) Signup(ctx context.Context, firstName, lastName, email, password string) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New(),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			l.Info("signup rejected, email taken", slog.String("email", user.Email))
			return domain.User{}, domain.TokenPair{}, ErrEmailTaken
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	pair, err := s.mintPair(user)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("user signed up", slog.String("user_id", user.ID.String()))
	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair. An unknown email
// and a wrong password both come back as ErrInvalidCredentials so the
// response can't be used to probe which addresses have accounts.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed, bad password", slog.String("user_id", user.ID.String()))
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.mintPair(user)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("user logged in", slog.String("user_id", user.ID.String()))
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is not rotated; it stays good until its own expiry. The user
// is re-read so a deleted account stops refreshing immediately and the new
// access token carries current identity claims.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (domain.User, string, error) {
	claims, err := s.Codec.Verify(refreshToken)
	if err != nil {
		return domain.User{}, "", ErrInvalidRefresh
	}

	user, err := s.Store.Users().GetUserByID(ctx, idx.ID(claims.Subject))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrUserNotFound
		}
		return domain.User{}, "", err
	}

	access, err := s.Codec.Mint(identityOf(user), jwtx.KindAccess)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, access, nil
}

func (s *SessionService) mintPair(user domain.User) (domain.TokenPair, error) {
	id := identityOf(user)

	access, err := s.Codec.Mint(id, jwtx.KindAccess)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.Codec.Mint(id, jwtx.KindRefresh)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func identityOf(user domain.User) jwtx.Identity {
	return jwtx.Identity{
		Subject: user.ID.String(),
		Email:   user.Email,
		Name:    user.FullName(),
	}
}
