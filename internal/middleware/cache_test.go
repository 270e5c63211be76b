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

	"github.com/iliyamo/build-info-service/internal/config"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		Prefix:       "buildinfo",
		MaxBodyBytes: 1024,
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	body := []byte(`{"version":"2.1.0"}` + "\n")

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, echo.MIMEApplicationJSON, gotHdr.Get(echo.HeaderContentType))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{
		nil,
		[]byte("short"),
		{0, 0, 0, 200, 0, 0, 1, 0, '{'}, // header length beyond buffer
		{0, 0, 0, 200, 0, 0, 0, 2, 'x', 'y', 'z'}, // header not JSON
	} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok)
	}
}

func TestCacheKeyScopedByBuild(t *testing.T) {
	cfg := testCacheConfig()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/version")

	a := cacheKeyFrom(cfg, "2.1.0:abc123", c)
	b := cacheKeyFrom(cfg, "2.1.1:def456", c)

	assert.True(t, strings.HasPrefix(a, "buildinfo:"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, cacheKeyFrom(cfg, "2.1.0:abc123", c))
}

func TestRedisCachePassThroughWithoutClient(t *testing.T) {
	e := echo.New()
	e.GET("/api/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"version": "2.1.0"})
	}, NewRedisCache(testCacheConfig(), nil, "scope"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"version":"2.1.0"}`, rec.Body.String())
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	assert.False(t, cw.truncated())
	_, err = cw.Write([]byte("def"))
	require.NoError(t, err)

	assert.True(t, cw.truncated())
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, "abcdef", rec.Body.String())
}

// cachedServer serves /api/version through the Redis cache backed by an
// in-memory server.  calls counts how often the handler itself ran.
func cachedServer(t *testing.T, scope string, status int) (*echo.Echo, *miniredis.Miniredis, *int) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	calls := 0
	e := echo.New()
	e.Use(RequestID())
	e.GET("/api/version", func(c echo.Context) error {
		calls++
		c.Response().Header().Set("X-Build", "abc123")
		return c.JSONPretty(status, map[string]string{"version": "2.1.0", "environment": "staging"}, "  ")
	}, NewRedisCache(testCacheConfig(), rdb, scope))
	return e, mr, &calls
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRedisCacheMissThenHit(t *testing.T) {
	e, mr, calls := cachedServer(t, "2.1.0:abc123", http.StatusOK)

	first := get(e, "/api/version")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Len(t, mr.Keys(), 1)
	assert.True(t, strings.HasPrefix(mr.Keys()[0], "buildinfo:"))
	assert.Greater(t, mr.TTL(mr.Keys()[0]), time.Duration(0))

	second := get(e, "/api/version")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, *calls)

	// byte-identical body, same content headers, fresh request id
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, first.Header().Get(echo.HeaderContentType), second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "abc123", second.Header().Get("X-Build"))
	assert.Len(t, second.Header().Values("X-Cache"), 1)
	require.Len(t, second.Header().Values(echo.HeaderXRequestID), 1)
	assert.NotEmpty(t, second.Header().Get(echo.HeaderXRequestID))
	assert.NotEqual(t, first.Header().Get(echo.HeaderXRequestID), second.Header().Get(echo.HeaderXRequestID))
}

func TestRedisCacheQueryIsPartOfKey(t *testing.T) {
	e, mr, calls := cachedServer(t, "2.1.0:abc123", http.StatusOK)

	get(e, "/api/version")
	rec := get(e, "/api/version?x=1")

	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, *calls)
	assert.Len(t, mr.Keys(), 2)
}

func TestRedisCacheSkipsNonOK(t *testing.T) {
	e, mr, calls := cachedServer(t, "2.1.0:abc123", http.StatusAccepted)

	get(e, "/api/version")
	rec := get(e, "/api/version")

	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, *calls)
	assert.Empty(t, mr.Keys())
}

func TestRedisCacheIgnoresCorruptEntry(t *testing.T) {
	e, mr, calls := cachedServer(t, "2.1.0:abc123", http.StatusOK)
	get(e, "/api/version")
	require.Len(t, mr.Keys(), 1)
	require.NoError(t, mr.Set(mr.Keys()[0], "junk"))

	rec := get(e, "/api/version")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, *calls)
}

func TestRedisCacheServesWhenRedisDown(t *testing.T) {
	e, mr, calls := cachedServer(t, "2.1.0:abc123", http.StatusOK)
	mr.Close()

	rec := get(e, "/api/version")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"2.1.0","environment":"staging"}`, rec.Body.String())
	assert.Equal(t, 1, *calls)
}

func TestRedisCacheEntryRoundTripsThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	payload, err := encodePayload(http.StatusOK, http.Header{"X-Build": {"abc123"}}, []byte("{}\n"))
	require.NoError(t, err)
	require.NoError(t, rdb.Set(context.Background(), "k", payload, 0).Err())

	bs, err := rdb.Get(context.Background(), "k").Bytes()
	require.NoError(t, err)
	status, hdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "abc123", hdr.Get("X-Build"))
	assert.Equal(t, "{}\n", string(body))
}
