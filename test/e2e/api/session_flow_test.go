package api_test

import (
	"context"
	"testing"

	"github.com/quietwire/courier/pkg/couriersdk"
	"github.com/stretchr/testify/require"
)

func TestFullSessionFlow(t *testing.T) {
	ctx := context.Background()
	_, client := startServer(t)

	manager := couriersdk.NewSessionManager(client, &couriersdk.MemoryTokenCache{})

	// Signup starts a session.
	auth, err := manager.Signup(ctx, couriersdk.SignupRequest{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Password:  "hunter2hunter2",
	})
	require.NoError(t, err)
	require.True(t, manager.Active())

	// The access token works against protected endpoints.
	me, err := manager.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, auth.User.ID, me.ID)
	require.Equal(t, "alice@example.com", me.Email)

	// A manual refresh through the cookie jar yields a fresh token.
	refreshed, err := client.Refresh(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)

	// Logout clears the cookie; subsequent refresh fails with 400 because
	// the jar no longer holds the cookie.
	require.NoError(t, manager.Logout(ctx))
	require.False(t, manager.Active())

	_, err = client.Refresh(ctx)
	var apiErr *couriersdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 400, apiErr.StatusCode)
}

func TestLoginAndMessagingFlow(t *testing.T) {
	ctx := context.Background()
	_, client := startServer(t)

	// Two accounts on one server; each SDK client needs its own cookie jar,
	// so bob gets a separate client against the same base URL.
	alice := couriersdk.NewSessionManager(client, nil)
	_, err := alice.Signup(ctx, couriersdk.SignupRequest{
		FirstName: "Alice", LastName: "Smith",
		Email: "alice@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	srvURL := client.BaseURL
	bobClient, err := couriersdk.NewClient(srvURL)
	require.NoError(t, err)
	bob := couriersdk.NewSessionManager(bobClient, nil)
	bobAuth, err := bob.Signup(ctx, couriersdk.SignupRequest{
		FirstName: "Bob", LastName: "Jones",
		Email: "bob@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	// Alice finds Bob and messages him.
	found, err := alice.SearchUsers(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, bobAuth.User.ID, found[0].ID)

	sent, err := alice.SendMessage(ctx, couriersdk.SendMessageRequest{
		ReceiverID: found[0].ID,
		Body:       "hey bob",
	})
	require.NoError(t, err)
	require.Equal(t, "hey bob", sent.Body)

	// Bob sees the thread and replies.
	threads, err := bob.Threads(ctx)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	require.Equal(t, "hey bob", threads[0].LastMessage.Body)

	_, err = bob.SendMessage(ctx, couriersdk.SendMessageRequest{
		ReceiverID: threads[0].Peer.ID,
		Body:       "hey alice",
	})
	require.NoError(t, err)

	conv, err := alice.Conversation(ctx, bobAuth.User.ID)
	require.NoError(t, err)
	require.Len(t, conv, 2)
	require.Equal(t, "hey bob", conv[0].Body)
	require.Equal(t, "hey alice", conv[1].Body)
}

func TestLoginFlow(t *testing.T) {
	ctx := context.Background()
	_, client := startServer(t)

	m := couriersdk.NewSessionManager(client, nil)
	_, err := m.Signup(ctx, couriersdk.SignupRequest{
		FirstName: "Alice", LastName: "Smith",
		Email: "alice@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	m.Clear()

	t.Run("bad password", func(t *testing.T) {
		_, err := m.Login(ctx, couriersdk.LoginRequest{
			Email: "alice@example.com", Password: "wrong-password",
		})
		var apiErr *couriersdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 401, apiErr.StatusCode)
		require.False(t, m.Active())
	})

	t.Run("good password", func(t *testing.T) {
		auth, err := m.Login(ctx, couriersdk.LoginRequest{
			Email: "alice@example.com", Password: "hunter2hunter2",
		})
		require.NoError(t, err)
		require.NotEmpty(t, auth.AccessToken)
		require.True(t, m.Active())
	})
}
