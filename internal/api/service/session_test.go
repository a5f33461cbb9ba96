package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/quietwire/courier/internal/api/domain"
	"github.com/quietwire/courier/internal/api/service"
	"github.com/quietwire/courier/internal/api/store"
	"github.com/quietwire/courier/internal/api/store/drivers/sqlite"
	"github.com/quietwire/courier/pkg/idx"
	"github.com/quietwire/courier/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T) (*service.SessionService, store.Store) {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	codec, err := jwtx.NewHS256Codec([]byte("test-secret-key"), "courier-test")
	require.NoError(t, err)

	return &service.SessionService{Codec: codec, Store: s}, s
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSessionService(t)

	user, pair, err := svc.Signup(ctx, "Alice", "Smith", "Alice@Example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.False(t, user.ID.IsZero())
	require.Equal(t, "alice@example.com", user.Email, "email should be normalized")
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	t.Run("tokens carry identity claims", func(t *testing.T) {
		claims, err := svc.Codec.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, user.ID.String(), claims.Subject)
		require.Equal(t, "alice@example.com", claims.Email)
		require.Equal(t, "Alice Smith", claims.Name)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := svc.Signup(ctx, "Other", "Alice", "alice@example.com", "different-pass")
		require.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("password is hashed", func(t *testing.T) {
		require.NotContains(t, user.PasswordHash, "hunter2")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSessionService(t)

	_, _, err := svc.Signup(ctx, "Alice", "Smith", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, pair, err := svc.Login(ctx, "alice@example.com", "hunter2hunter2")
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", user.Email)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc, st := newSessionService(t)

	user, pair, err := svc.Signup(ctx, "Alice", "Smith", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	t.Run("valid refresh token mints new access token", func(t *testing.T) {
		got, access, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
		require.NotEmpty(t, access)

		claims, err := svc.Codec.Verify(access)
		require.NoError(t, err)
		require.Equal(t, user.ID.String(), claims.Subject)
		require.Equal(t, jwtx.KindAccess.TTL(), claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := svc.Refresh(ctx, "not.a.token")
		require.ErrorIs(t, err, service.ErrInvalidRefresh)
	})

	t.Run("deleted user cannot refresh", func(t *testing.T) {
		victim, victimPair, err := svc.Signup(ctx, "Bob", "Jones", "bob@example.com", "hunter2hunter2")
		require.NoError(t, err)
		require.NoError(t, st.Users().DeleteUser(ctx, victim.ID))

		_, _, err = svc.Refresh(ctx, victimPair.RefreshToken)
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestUserSearchLimit(t *testing.T) {
	ctx := context.Background()
	_, st := newSessionService(t)
	users := &service.UserService{Store: st}

	now := time.Now().UTC()
	for i := 0; i < 15; i++ {
		require.NoError(t, st.Users().CreateUser(ctx, domain.User{
			ID:           idx.New(),
			FirstName:    fmt.Sprintf("User%02d", i),
			LastName:     "Example",
			Email:        fmt.Sprintf("user%02d@example.com", i),
			PasswordHash: "x",
			CreatedAt:    now,
			UpdatedAt:    now,
		}))
	}

	results, err := users.SearchUsers(ctx, "example", idx.New())
	require.NoError(t, err)
	require.Len(t, results, 10)
}

func TestMessageService(t *testing.T) {
	ctx := context.Background()
	svc, st := newSessionService(t)
	msgs := &service.MessageService{Store: st}

	alice, _, err := svc.Signup(ctx, "Alice", "Smith", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	bob, _, err := svc.Signup(ctx, "Bob", "Jones", "bob@example.com", "hunter2hunter2")
	require.NoError(t, err)

	t.Run("send and read back", func(t *testing.T) {
		sent, err := msgs.SendMessage(ctx, alice.ID, bob.ID, "hello bob")
		require.NoError(t, err)
		require.Equal(t, alice.ID, sent.SenderID)

		conv, err := msgs.ListConversation(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		require.Len(t, conv, 1)
		require.Equal(t, "hello bob", conv[0].Body)

		threads, err := msgs.ListThreads(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, threads, 1)
		require.Equal(t, alice.ID, threads[0].Peer.ID)
	})

	t.Run("unknown receiver", func(t *testing.T) {
		_, err := msgs.SendMessage(ctx, alice.ID, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "into the void")
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("messaging yourself rejected", func(t *testing.T) {
		_, err := msgs.SendMessage(ctx, alice.ID, alice.ID, "hi me")
		require.ErrorIs(t, err, service.ErrSelfMessage)
	})

	t.Run("conversation capped at 200 messages", func(t *testing.T) {
		carol, _, err := svc.Signup(ctx, "Carol", "White", "carol@example.com", "hunter2hunter2")
		require.NoError(t, err)

		base := time.Now().UTC().Add(-time.Hour)
		for i := 0; i < 250; i++ {
			at := base.Add(time.Duration(i) * time.Second)
			require.NoError(t, st.Messages().CreateMessage(ctx, domain.Message{
				ID:         idx.NewAt(at),
				SenderID:   alice.ID,
				ReceiverID: carol.ID,
				Body:       "backlog",
				CreatedAt:  at,
			}))
		}

		conv, err := msgs.ListConversation(ctx, alice.ID, carol.ID)
		require.NoError(t, err)
		require.Len(t, conv, 200)
	})
}
