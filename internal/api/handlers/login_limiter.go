package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/servicios-app/backend/internal/domain/providers"
	"github.com/servicios-app/backend/internal/infrastructure/observability"
)

// LoginLimiter caps login attempts per client IP and username. Counters live in the
// cache provider when one is configured and in process memory otherwise.
type LoginLimiter struct {
	cache   providers.CacheProvider
	local   *localRateLimiter
	limit   int
	window  time.Duration
	proxies []netip.Prefix
}

// NewLoginLimiter creates a limiter allowing limit attempts per window
func NewLoginLimiter(cache providers.CacheProvider, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		cache:  cache,
		local:  newLocalRateLimiter(),
		limit:  limit,
		window: window,
	}
}

// TrustProxies accepts addresses or CIDR ranges of reverse proxies whose
// X-Forwarded-For entries identify the client. Without any, only RemoteAddr counts.
func (l *LoginLimiter) TrustProxies(proxies []string) error {
	prefixes := make([]netip.Prefix, 0, len(proxies))
	for _, proxy := range proxies {
		if prefix, err := netip.ParsePrefix(proxy); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(proxy)
		if err != nil {
			return fmt.Errorf("invalid trusted proxy %q: %w", proxy, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	l.proxies = prefixes
	return nil
}

// Allow records one attempt and reports whether it may proceed
func (l *LoginLimiter) Allow(ctx context.Context, ip, username string) (bool, time.Duration) {
	key := "auth:login:" + loginFingerprint(ip, username)

	if l.cache != nil {
		count, err := l.cache.Increment(ctx, key, int(l.window.Seconds()))
		if err == nil {
			return count <= int64(l.limit), l.window
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("login limiter cache unavailable, using local counters")
	}

	return l.local.allow(key, l.limit, l.window)
}

func loginFingerprint(ip, username string) string {
	hash := sha256.Sum256([]byte(ip + "|" + strings.ToLower(strings.TrimSpace(username))))
	return hex.EncodeToString(hash[:])
}

type localRateLimiter struct {
	mu     sync.Mutex
	states map[string]*localRateState
}

type localRateState struct {
	count   int
	resetAt time.Time
}

func newLocalRateLimiter() *localRateLimiter {
	return &localRateLimiter{
		states: make(map[string]*localRateState),
	}
}

func (l *localRateLimiter) allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.states[key]
	if !ok || now.After(state.resetAt) {
		state = &localRateState{count: 0, resetAt: now.Add(window)}
		l.states[key] = state
	}

	if state.count >= limit {
		retryAfter := time.Until(state.resetAt)
		if retryAfter < 0 {
			retryAfter = window
		}
		return false, retryAfter
	}

	state.count++
	return true, window
}

// clientIP walks X-Forwarded-For from the nearest hop and returns the first address
// that is not a trusted proxy. Requests from untrusted peers are keyed by RemoteAddr.
func (l *LoginLimiter) clientIP(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remote = host
	}
	if !l.trusted(remote) {
		return remote
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !l.trusted(hop) {
			return hop
		}
	}
	return remote
}

func (l *LoginLimiter) trusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range l.proxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
