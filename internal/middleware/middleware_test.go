package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/party-rental/internal/config"
	"github.com/iliyamo/party-rental/internal/logger"
	"github.com/iliyamo/party-rental/internal/utils"
)

func init() { logger.UseNop() }

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func do(e *echo.Echo, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokenBucketBlocksAfterCapacity(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 2, RefillTokens: 1,
		RefillInterval: time.Minute, TTL: 10 * time.Minute, KeyStrategy: "ip_route", Prefix: "test:rl"}

	e := echo.New()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(cfg, rdb))

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/login", "", nil).Code)
	rec := do(e, http.MethodPost, "/login", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do(e, http.MethodPost, "/login", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestTokenBucketDisabledWithoutRedis(t *testing.T) {
	e := echo.New()
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1}
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/", "", nil).Code)
	}
}

func TestCacheHitAndInvalidation(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute,
		Prefix: "test:cache", MaxBodyBytes: 1 << 20}

	calls := 0
	e := echo.New()
	e.Use(InvalidateCache(cfg, rdb), NewRedisCache(cfg, rdb))
	e.GET("/items/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "calls": calls})
	})
	e.POST("/items", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })
	e.POST("/fail", func(c echo.Context) error { return c.JSON(http.StatusBadRequest, echo.Map{"error": "no"}) })

	rec := do(e, http.MethodGet, "/items/1", "", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	rec = do(e, http.MethodGet, "/items/1", "", nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"calls":1`)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/json")

	rec = do(e, http.MethodGet, "/items/2", "", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"), "path params are part of the key")

	do(e, http.MethodPost, "/fail", "", nil)
	assert.Equal(t, "HIT", do(e, http.MethodGet, "/items/1", "", nil).Header().Get("X-Cache"))

	assert.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/items", "", nil).Code)
	rec = do(e, http.MethodGet, "/items/1", "", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 3, calls)
}

func TestFlushCacheOnlyTouchesPrefix(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set("test:cache:a", "1"))
	require.NoError(t, mr.Set("test:cache:b", "1"))
	require.NoError(t, mr.Set("other:c", "1"))

	n, err := FlushCache(context.Background(), rdb, "test:cache")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("other:c"))
	assert.False(t, mr.Exists("test:cache:a"))
}

func TestJWTAuthAndRole(t *testing.T) {
	e := echo.New()
	g := e.Group("", JWTAuth("s3cret"))
	g.GET("/me", func(c echo.Context) error {
		id, ok := OperatorID(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"id": id, "role": OperatorRole(c), "name": OperatorName(c)})
	})
	g.PUT("/admin", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, RequireRole("ADMIN"))

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/me", "",
		map[string]string{"Authorization": "Bearer garbage"}).Code)

	staff, err := utils.NewAccessToken("s3cret", 5, "Ana", "STAFF", 5)
	require.NoError(t, err)
	auth := map[string]string{"Authorization": "Bearer " + staff.Token}
	rec := do(e, http.MethodGet, "/me", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":5,"role":"STAFF","name":"Ana"}`, rec.Body.String())
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodPut, "/admin", "", auth).Code)

	admin, err := utils.NewAccessToken("s3cret", 1, "Claudia", "ADMIN", 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, do(e, http.MethodPut, "/admin", "",
		map[string]string{"Authorization": "Bearer " + admin.Token}).Code)
}

func TestUnconfiguredAndSecureHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecureHeaders(false), RequestLogger())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/down", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, Unconfigured("DB_HOST missing"))

	rec := do(e, http.MethodGet, "/ok", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = do(e, http.MethodGet, "/down", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "DB_HOST missing")
}
