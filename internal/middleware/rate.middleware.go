package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"rentx-admin/pkg/response"
	"rentx-admin/pkg/utils/cache"
	xerrors "rentx-admin/pkg/utils/errors"
)

// BlockedHandler answers a request rejected by the rate limiter.
type BlockedHandler func(w http.ResponseWriter, r *http.Request, retryAfter time.Duration)

// RateLimiter allows limit requests per client address within window. The request after
// that blocks the client for blockDuration. Redis failures let traffic through.
func RateLimiter(c *cache.Cache, limit int, window, blockDuration time.Duration, keyPrefix string, onBlocked BlockedHandler, logger *zap.Logger) func(http.Handler) http.Handler {
	if onBlocked == nil {
		onBlocked = func(w http.ResponseWriter, _ *http.Request, retryAfter time.Duration) {
			response.Error(w, http.StatusTooManyRequests, "Too Many Requests. Try again in "+retryAfter.String())
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := "ip:" + clientIP(r)
			blockKey := key + ":blocked"

			if _, err := c.Get(ctx, keyPrefix, blockKey); err == nil {
				ttl, _ := c.GetTTL(ctx, keyPrefix, blockKey)
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				onBlocked(w, r, ttl)
				return
			}

			count, err := c.IncrWithExpire(ctx, keyPrefix, key, window)
			if err != nil {
				logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				if err := c.Set(ctx, keyPrefix, blockKey, "1", blockDuration); err != nil {
					logger.Warn("failed to record rate limit block", zap.Error(err))
				}
				logger.Warn("client blocked by rate limiter",
					zap.String("client", key),
					zap.String("path", r.URL.Path),
					zap.Duration("block", blockDuration),
					zap.Error(xerrors.ErrTooManyRequests))
				w.Header().Set("Retry-After", strconv.Itoa(int(blockDuration.Seconds())))
				onBlocked(w, r, blockDuration)
				return
			}

			ttl, _ := c.GetTTL(ctx, keyPrefix, key)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-int(count)))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the peer address. Forwarding headers are honoured only through
// chi's RealIP, which the router installs when the proxy is trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
