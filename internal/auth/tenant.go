package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/AbuBakr-03/watchtower/internal/config"
)

// TenantFlags are the per-tenant feature switches checked on every
// request. A tenant with system_enabled=false is read-only.
type TenantFlags struct {
	SystemEnabled bool `json:"system_enabled"`
	ImportEnabled bool `json:"import_enabled"`
}

// FlagsSource resolves the current flags for a tenant, typically from
// the database.
type FlagsSource interface {
	Flags(ctx context.Context, tenantID string) (TenantFlags, error)
}

// StaticFlags is a FlagsSource that returns the same flags for every
// tenant. Used when auth is disabled and in tests.
type StaticFlags TenantFlags

func (s StaticFlags) Flags(_ context.Context, _ string) (TenantFlags, error) {
	return TenantFlags(s), nil
}

type contextKey string

const (
	tenantKey contextKey = "tenant_id"
	userKey   contextKey = "user_id"
	flagsKey  contextKey = "tenant_flags"
)

// TenantID returns the tenant bound to the request context.
func TenantID(ctx context.Context) string {
	if v, ok := ctx.Value(tenantKey).(string); ok {
		return v
	}
	return ""
}

// UserID returns the authenticated user, or "" when auth is disabled.
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(userKey).(string); ok {
		return v
	}
	return ""
}

// Flags returns the tenant flags resolved for the request.
func Flags(ctx context.Context) TenantFlags {
	if v, ok := ctx.Value(flagsKey).(TenantFlags); ok {
		return v
	}
	return TenantFlags{}
}

// WithTenant binds tenant identity to a context. Exported for handler
// tests that bypass the middleware.
func WithTenant(ctx context.Context, tenantID, userID string, flags TenantFlags) context.Context {
	ctx = context.WithValue(ctx, tenantKey, tenantID)
	ctx = context.WithValue(ctx, userKey, userID)
	return context.WithValue(ctx, flagsKey, flags)
}

// claims are the JWT claims issued by the dashboard's identity service.
type claims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// TenantMiddleware authenticates requests with RS256 JWTs and attaches
// tenant flags to the request context. Flags are cached in Redis so the
// source is not hit on every request; lookup failures are cached for a
// short negative TTL to avoid hammering a downed source.
type TenantMiddleware struct {
	cfg    config.AuthConfig
	key    *rsa.PublicKey
	source FlagsSource
	rdb    *redis.Client
}

// NewTenantMiddleware loads the RS256 public key and wires the flags
// source and cache.
func NewTenantMiddleware(cfg config.AuthConfig, source FlagsSource, rdb *redis.Client) (*TenantMiddleware, error) {
	m := &TenantMiddleware{cfg: cfg, source: source, rdb: rdb}
	if !cfg.Enabled {
		return m, nil
	}

	pem, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	m.key = key
	return m, nil
}

// skipPath reports whether a request bypasses tenant auth entirely.
func skipPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/auth/")
}

// writeMethod reports whether the request mutates state.
func writeMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Handler is the chi middleware entry point.
func (m *TenantMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if skipPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		tenantID := m.cfg.DefaultTenantID
		userID := ""

		if m.cfg.Enabled {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "missing bearer token")
				return
			}
			c, err := m.parseToken(token)
			if err != nil {
				log.Printf("[Auth] rejected token: %v", err)
				unauthorized(w, "invalid token")
				return
			}
			if c.TenantID != "" {
				tenantID = c.TenantID
			}
			userID = c.Subject
		}

		flags, err := m.tenantFlags(r.Context(), tenantID)
		if err != nil {
			log.Printf("[Auth] flags lookup failed for %s: %v", tenantID, err)
			http.Error(w, `{"error":"tenant flags unavailable"}`, http.StatusServiceUnavailable)
			return
		}

		if writeMethod(r.Method) && !flags.SystemEnabled {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "tenant is disabled"})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenantID, userID, flags)))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func (m *TenantMiddleware) parseToken(raw string) (*claims, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(raw, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// tenantFlags returns cached flags, falling back to the source on a
// cache miss. A failed source lookup is recorded under a negative key
// so retries back off for a few seconds.
func (m *TenantMiddleware) tenantFlags(ctx context.Context, tenantID string) (TenantFlags, error) {
	cacheKey := "tenant:flags:" + tenantID
	missKey := "tenant:flags:miss:" + tenantID

	if m.rdb != nil {
		if data, err := m.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var f TenantFlags
			if json.Unmarshal(data, &f) == nil {
				return f, nil
			}
		}
		if n, _ := m.rdb.Exists(ctx, missKey).Result(); n > 0 {
			return TenantFlags{}, fmt.Errorf("flags lookup recently failed")
		}
	}

	flags, err := m.source.Flags(ctx, tenantID)
	if err != nil {
		if m.rdb != nil {
			m.rdb.Set(ctx, missKey, "1", m.negativeTTL())
		}
		return TenantFlags{}, err
	}

	if m.rdb != nil {
		if data, err := json.Marshal(flags); err == nil {
			m.rdb.Set(ctx, cacheKey, data, m.flagsTTL())
		}
	}
	return flags, nil
}

func (m *TenantMiddleware) flagsTTL() time.Duration {
	if ttl := m.cfg.FlagsTTL(); ttl > 0 {
		return ttl
	}
	return 30 * time.Second
}

func (m *TenantMiddleware) negativeTTL() time.Duration {
	if ttl := m.cfg.NegativeTTL(); ttl > 0 {
		return ttl
	}
	return 5 * time.Second
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
