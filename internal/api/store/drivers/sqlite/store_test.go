package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/quietwire/courier/internal/api/domain"
	"github.com/quietwire/courier/internal/api/store"
	"github.com/quietwire/courier/internal/api/store/drivers/sqlite"
	"github.com/quietwire/courier/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, first, last, email string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New(),
		FirstName:    first,
		LastName:     last,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	alice := seedUser(t, s, "Alice", "Smith", "alice@example.com")

	t.Run("get by id", func(t *testing.T) {
		got, err := s.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, alice.Email, got.Email)
		require.Equal(t, "Alice Smith", got.FullName())
	})

	t.Run("get by email is case-insensitive", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "ALICE@Example.COM")
		require.NoError(t, err)
		require.Equal(t, alice.ID, got.ID)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := alice
		dup.ID = idx.New()
		err := s.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("unknown id returns ErrNotFound", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, idx.New())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("search excludes self and matches name or email", func(t *testing.T) {
		bob := seedUser(t, s, "Bob", "Jones", "bob@example.com")

		results, err := s.Users().SearchUsers(ctx, "bob", alice.ID, 20)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, bob.ID, results[0].ID)

		results, err = s.Users().SearchUsers(ctx, "alice", alice.ID, 20)
		require.NoError(t, err)
		require.Empty(t, results)

		results, err = s.Users().SearchUsers(ctx, "", alice.ID, 20)
		require.NoError(t, err)
		require.Len(t, results, 1)
	})

	t.Run("delete cascades to messages", func(t *testing.T) {
		carol := seedUser(t, s, "Carol", "White", "carol@example.com")
		require.NoError(t, s.Messages().CreateMessage(ctx, domain.Message{
			ID:         idx.New(),
			SenderID:   alice.ID,
			ReceiverID: carol.ID,
			Body:       "hi carol",
			CreatedAt:  time.Now().UTC(),
		}))

		require.NoError(t, s.Users().DeleteUser(ctx, carol.ID))

		_, err := s.Users().GetUserByID(ctx, carol.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		msgs, err := s.Messages().ListConversation(ctx, alice.ID, carol.ID, 200)
		require.NoError(t, err)
		require.Empty(t, msgs)
	})
}

func TestMessagesRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	alice := seedUser(t, s, "Alice", "Smith", "alice@example.com")
	bob := seedUser(t, s, "Bob", "Jones", "bob@example.com")
	carol := seedUser(t, s, "Carol", "White", "carol@example.com")

	send := func(from, to domain.User, body string, at time.Time) {
		t.Helper()
		require.NoError(t, s.Messages().CreateMessage(ctx, domain.Message{
			ID:         idx.NewAt(at),
			SenderID:   from.ID,
			ReceiverID: to.ID,
			Body:       body,
			CreatedAt:  at,
		}))
	}

	base := time.Now().UTC().Add(-time.Hour)
	send(alice, bob, "hey bob", base)
	send(bob, alice, "hey alice", base.Add(time.Minute))
	send(alice, carol, "hey carol", base.Add(2*time.Minute))

	t.Run("conversation in chronological order", func(t *testing.T) {
		msgs, err := s.Messages().ListConversation(ctx, alice.ID, bob.ID, 200)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		require.Equal(t, "hey bob", msgs[0].Body)
		require.Equal(t, "hey alice", msgs[1].Body)
	})

	t.Run("conversation is symmetric", func(t *testing.T) {
		fromBob, err := s.Messages().ListConversation(ctx, bob.ID, alice.ID, 200)
		require.NoError(t, err)
		require.Len(t, fromBob, 2)
	})

	t.Run("threads carry latest message per peer, newest first", func(t *testing.T) {
		threads, err := s.Messages().ListThreads(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, threads, 2)

		require.Equal(t, carol.ID, threads[0].Peer.ID)
		require.Equal(t, "hey carol", threads[0].LastMessage.Body)

		require.Equal(t, bob.ID, threads[1].Peer.ID)
		require.Equal(t, "hey alice", threads[1].LastMessage.Body)
	})

	t.Run("conversation respects limit", func(t *testing.T) {
		eve := seedUser(t, s, "Eve", "Green", "eve@example.com")
		frank := seedUser(t, s, "Frank", "Gray", "frank@example.com")

		for i := 0; i < 210; i++ {
			send(eve, frank, "msg", base.Add(time.Duration(i)*time.Second))
		}

		msgs, err := s.Messages().ListConversation(ctx, eve.ID, frank.ID, 200)
		require.NoError(t, err)
		require.Len(t, msgs, 200)
	})

	t.Run("no threads for uninvolved user", func(t *testing.T) {
		dave := seedUser(t, s, "Dave", "Black", "dave@example.com")
		threads, err := s.Messages().ListThreads(ctx, dave.ID)
		require.NoError(t, err)
		require.Empty(t, threads)
	})
}
