package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-registration/internal/testcontainers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestIDKey)) })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(rec.Body.String())
	assert.NoError(t, err)
	assert.Equal(t, rec.Body.String(), rec.Header().Get(HeaderRequestID))

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, given)
	assert.Equal(t, given, serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	assert.NotEqual(t, "<script>", serve(r, req).Body.String())
}

func realIPEngine(t *testing.T, trusted []string) *gin.Engine {
	t.Helper()
	r := gin.New()
	require.NoError(t, TrustProxies(r, trusted))
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRealIPKey)) })
	return r
}

func requestFrom(remote string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestRealIP_BehindTrustedProxy(t *testing.T) {
	r := realIPEngine(t, []string{"10.0.0.0/8"})

	req := requestFrom("10.0.0.2:443", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"})
	assert.Equal(t, "203.0.113.7", serve(r, req).Body.String())

	// the right-most untrusted hop wins; earlier entries are client supplied
	req = requestFrom("10.0.0.2:443", map[string]string{"X-Forwarded-For": "127.0.0.1, 198.51.100.1, 10.0.0.9"})
	assert.Equal(t, "198.51.100.1", serve(r, req).Body.String())

	req = requestFrom("10.0.0.2:443", nil)
	assert.Equal(t, "10.0.0.2", serve(r, req).Body.String())
}

func TestRealIP_IgnoresForwardedHeadersFromUntrustedPeer(t *testing.T) {
	for _, trusted := range [][]string{nil, {"10.0.0.0/8"}} {
		r := realIPEngine(t, trusted)

		req := requestFrom("8.8.8.8:1234", map[string]string{
			"X-Forwarded-For":  "127.0.0.1",
			"CF-Connecting-IP": "10.1.1.1",
			"X-Real-IP":        "192.168.0.1",
		})
		assert.Equal(t, "8.8.8.8", serve(r, req).Body.String())
	}
}

func TestAllowPrivateIP_SpoofedLoopbackIsNotAllowed(t *testing.T) {
	r := gin.New()
	require.NoError(t, TrustProxies(r, nil))
	r.Use(RealIP())
	var allowed bool
	r.GET("/", func(c *gin.Context) { allowed = AllowPrivateIP()(c) })

	serve(r, requestFrom("8.8.8.8:1234", map[string]string{"X-Forwarded-For": "127.0.0.1"}))
	assert.False(t, allowed)

	serve(r, requestFrom("127.0.0.1:1234", nil))
	assert.True(t, allowed)
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	for ip, want := range map[string]bool{
		"127.0.0.1":   true,
		"10.1.2.3":    true,
		"192.168.1.9": true,
		"8.8.8.8":     false,
		"garbage":     false,
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set(CtxRealIPKey, ip)
		assert.Equal(t, want, allow(c), ip)
	}
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.POST("/register", RateLimit(nil, 1, time.Minute, KeyByIP(), nil, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		rec := serve(r, httptest.NewRequest(http.MethodPost, "/register", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimit_FailsOpenOnRedisError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer func() { _ = rdb.Close() }()

	r := gin.New()
	r.POST("/register", RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), nil, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/register", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestKeyFuncs(t *testing.T) {
	r := gin.New()
	var byIP, byPath string
	r.POST("/register", func(c *gin.Context) {
		c.Set(CtxRealIPKey, "198.51.100.1")
		byIP = KeyByIP()(c)
		byPath = KeyByIPAndPath()(c)
	})
	serve(r, httptest.NewRequest(http.MethodPost, "/register", nil))

	assert.Equal(t, "rl:ip:198.51.100.1", byIP)
	assert.Equal(t, "rl:path:/register:ip:198.51.100.1", byPath)
}

func limitedEngine(t *testing.T, rdb *redis.Client, max int) *gin.Engine {
	t.Helper()
	r := gin.New()
	require.NoError(t, TrustProxies(r, nil))
	r.Use(RealIP())
	r.POST("/register", RateLimit(rdb, max, time.Minute, KeyByIPAndPath(), nil, nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func postFrom(remote, forwarded string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	req.RemoteAddr = remote
	if forwarded != "" {
		req.Header.Set("X-Forwarded-For", forwarded)
	}
	return req
}

func TestRateLimit_RejectsAfterMax(t *testing.T) {
	rdb := testcontainers.Redis(t)
	r := limitedEngine(t, rdb, 2)

	for i := 0; i < 2; i++ {
		rec := serve(r, postFrom("198.51.100.20:4000", ""))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := serve(r, postFrom("198.51.100.20:4000", ""))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// other clients keep their own window
	assert.Equal(t, http.StatusOK, serve(r, postFrom("198.51.100.21:4000", "")).Code)
}

func TestRateLimit_SpoofedForwardedForSharesTheClientWindow(t *testing.T) {
	rdb := testcontainers.Redis(t)
	r := limitedEngine(t, rdb, 2)

	codes := make([]int, 0, 4)
	for i := 1; i <= 4; i++ {
		rec := serve(r, postFrom("8.8.8.8:1234", fmt.Sprintf("203.0.113.%d", i)))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)

	keys, err := rdb.Keys(context.Background(), "rl:*").Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"rl:path:/register:ip:8.8.8.8"}, keys)
}
