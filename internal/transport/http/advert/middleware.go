package advert

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/app/advert/access"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
)

// IdentityResolver turns an Authorization header into a caller id.
type IdentityResolver interface {
	FromHeader(header string) (accountID string, ok bool, err error)
}

// Identity attaches the caller to the request context. Requests with a bad
// token continue anonymously; the operations that need a caller reject them.
func Identity(resolver IdentityResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, ok, err := resolver.FromHeader(r.Header.Get("Authorization"))
			if err != nil {
				logger.Debug("Rejected bearer token", zap.String("path", r.URL.Path), zap.Error(err))
			}
			if ok {
				r = r.WithContext(access.WithCaller(r.Context(), accountID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs each request and records its latency by route pattern.
func RequestLogger(logger *zap.Logger, m *metrics.MetricsManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			elapsed := time.Since(start)

			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("duration", elapsed),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
			if m != nil {
				m.APILatency.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
			}
		})
	}
}

// routePattern returns the matched chi pattern, or "unmatched".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
