package api_test

import (
	"log/slog"
	"net/http/httptest"
	"testing"

	apihttp "github.com/quietwire/courier/internal/api/http"
	"github.com/quietwire/courier/internal/api/service"
	"github.com/quietwire/courier/internal/api/store/drivers/sqlite"
	"github.com/quietwire/courier/pkg/couriersdk"
	"github.com/quietwire/courier/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// startServer brings up the full API stack in-process on an httptest server
// and returns an SDK client pointed at it.
func startServer(t *testing.T) (*httptest.Server, *couriersdk.Client) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewHS256Codec([]byte("e2e-test-secret"), "courier-e2e")
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	router := apihttp.NewRouter(codec, apihttp.RefreshCookies{}, "e2e", nil, st, logger)
	router.SessionService = &service.SessionService{Codec: codec, Store: st}
	router.UserService = &service.UserService{Store: st}
	router.MessageService = &service.MessageService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	client, err := couriersdk.NewClient(srv.URL)
	require.NoError(t, err)
	return srv, client
}
