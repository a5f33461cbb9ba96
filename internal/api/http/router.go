package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/quietwire/courier/internal/api/service"
	"github.com/quietwire/courier/internal/api/store"
	"github.com/quietwire/courier/pkg/httpx"
	"github.com/quietwire/courier/pkg/jwtx"
	"github.com/quietwire/courier/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	cookies      RefreshCookies
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	SessionService *service.SessionService
	UserService    *service.UserService
	MessageService *service.MessageService
}

func NewRouter(
	verifier jwtx.Verifier,
	cookies RefreshCookies,
	buildVersion string,
	corsOrigins []string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		cookies:      cookies,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Global chain: logging first so CORS rejections still get a log line.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORSMiddleware(corsOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerUsers()
	r.registerMessages()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	h := &SessionHandler{
		SessionService: r.SessionService,
		Cookies:        r.cookies,
	}

	// Credential endpoints get the strict limit to slow brute forcing.
	r.Mux.Handle("POST /api/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Refresh fires once per session per interval; moderate is plenty.
	r.Mux.Handle("POST /api/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /api/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /api/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /api/user/search",
		httpx.Chain(http.HandlerFunc(h.HandleSearch),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerMessages() {
	h := &MessagesHandler{MessageService: r.MessageService}

	r.Mux.Handle("POST /api/messages",
		httpx.Chain(http.HandlerFunc(h.HandleSend),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /api/messages/threads",
		httpx.Chain(http.HandlerFunc(h.HandleThreads),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /api/messages/with/{userId}",
		httpx.Chain(http.HandlerFunc(h.HandleConversation),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /healthz",
		httpx.Chain(HealthzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
