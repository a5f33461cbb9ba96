package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/quietwire/courier/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimit describes a token-bucket limit: Requests per Window, with up to
// Burst tokens available at once.
type RateLimit struct {
	Requests int
	Window   time.Duration
	Burst    int
}

// Limit profiles by endpoint sensitivity. Signup/login/refresh get Strict to
// slow credential stuffing; authenticated writes get Moderate; reads Lenient.
var (
	StrictLimit   = RateLimit{Requests: 5, Window: time.Minute, Burst: 5}
	ModerateLimit = RateLimit{Requests: 20, Window: time.Minute, Burst: 20}
	LenientLimit  = RateLimit{Requests: 100, Window: time.Minute, Burst: 100}
)

// KeyExtractor maps a request to the bucket it draws from.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor keys by client IP, honouring X-Forwarded-For and X-Real-IP
// set by a fronting proxy.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// UserIDKeyExtractor keys by the authenticated user, falling back to the
// client IP for anonymous requests.
func UserIDKeyExtractor(r *http.Request) string {
	if id := UserIDFromContext(r.Context()); id != "" {
		return id
	}
	return IPKeyExtractor(r)
}

// keyedLimiter holds one rate.Limiter per key.
type keyedLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (kl *keyedLimiter) get(key string) *rate.Limiter {
	if l, ok := kl.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	l, _ := kl.limiters.LoadOrStore(key, rate.NewLimiter(kl.rate, kl.burst))
	kl.maybeCleanup()
	return l.(*rate.Limiter)
}

// maybeCleanup drops idle limiters so ephemeral keys don't accumulate.
// A limiter sitting at a full bucket hasn't been touched for at least a
// window, which is good enough to call it idle.
func (kl *keyedLimiter) maybeCleanup() {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if time.Since(kl.lastCleanup) < 5*time.Minute {
		return
	}
	kl.lastCleanup = time.Now()

	kl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(kl.burst) {
			kl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware rejects requests over the limit with 429 and a
// Retry-After header. A request whose key cannot be determined is allowed
// through rather than sharing one global bucket.
func RateLimitMiddleware(limit RateLimit, key KeyExtractor) Middleware {
	kl := &keyedLimiter{
		rate:        rate.Limit(float64(limit.Requests) / limit.Window.Seconds()),
		burst:       limit.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			limiter := kl.get(k)
			if !limiter.Allow() {
				res := limiter.Reserve()
				delay := res.Delay()
				res.Cancel()

				retryAfter := max(int(delay.Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				slogx.FromContext(r.Context()).Warn("rate limit exceeded",
					"key", k,
					"path", r.URL.Path,
					"retry_after", retryAfter,
				)

				WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "too many requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits by client IP.
func RateLimitByIP(limit RateLimit) Middleware {
	return RateLimitMiddleware(limit, IPKeyExtractor)
}

// RateLimitByUser limits by authenticated user, or IP when anonymous.
func RateLimitByUser(limit RateLimit) Middleware {
	return RateLimitMiddleware(limit, UserIDKeyExtractor)
}
