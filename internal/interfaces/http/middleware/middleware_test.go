package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/prometheus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newBufferLogger() (logging.Logger, *zaptest.Buffer) {
	buf := &zaptest.Buffer{}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), buf, zapcore.DebugLevel)
	return logging.NewLoggerFromCore(core), buf
}

func serve(r http.Handler, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ─────────────────────────────────────────────────────────────────────────────
// RequestID
// ─────────────────────────────────────────────────────────────────────────────

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		assert.Equal(t, GetRequestID(c), logging.RequestIDFromContext(c.Request.Context()))
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := serve(r, http.MethodGet, "/x", nil, map[string]string{HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	w = serve(r, http.MethodGet, "/x", nil, nil)
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)

	w = serve(r, http.MethodGet, "/x", nil, map[string]string{HeaderRequestID: strings.Repeat("a", 200)})
	assert.Len(t, w.Body.String(), 36)
}

// ─────────────────────────────────────────────────────────────────────────────
// RequestLogging
// ─────────────────────────────────────────────────────────────────────────────

func TestRequestLogging_LevelsByStatus(t *testing.T) {
	logger, buf := newBufferLogger()
	r := gin.New()
	r.Use(RequestID(), RequestLogging(logger, DefaultLoggingConfig()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	cases := []struct {
		path, level, msg string
	}{
		{"/ok?q=1", "info", "HTTP request completed"},
		{"/bad", "warn", "HTTP request completed with client error"},
		{"/boom", "error", "HTTP request completed with server error"},
	}
	for _, tc := range cases {
		buf.Reset()
		serve(r, http.MethodGet, tc.path, nil, map[string]string{HeaderRequestID: "rid"})
		out := buf.String()
		assert.Contains(t, out, `"level":"`+tc.level+`"`, tc.path)
		assert.Contains(t, out, `"msg":"`+tc.msg+`"`, tc.path)
		assert.Contains(t, out, `"request_id":"rid"`, tc.path)
		assert.Contains(t, out, `"path":"`+tc.path+`"`, tc.path)
	}
}

func TestRequestLogging_SkipPathsAndSlow(t *testing.T) {
	logger, buf := newBufferLogger()
	r := gin.New()
	r.Use(RequestID(), RequestLogging(logger, LoggingConfig{SkipPaths: []string{"/healthz"}, SlowThreshold: time.Nanosecond}))
	r.GET("/healthz", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("inside")
		c.Status(http.StatusOK)
	})
	r.GET("/slow", func(c *gin.Context) {
		time.Sleep(time.Millisecond)
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/healthz", nil, nil)
	assert.Contains(t, buf.String(), `"msg":"inside"`)
	assert.NotContains(t, buf.String(), "HTTP request completed")

	buf.Reset()
	serve(r, http.MethodGet, "/slow", nil, nil)
	assert.Contains(t, buf.String(), "HTTP request completed (slow)")
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics
// ─────────────────────────────────────────────────────────────────────────────

func TestMetrics(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "smiles"}, nil)
	require.NoError(t, err)
	m := prometheus.NewParserMetrics(collector)

	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	serve(r, http.MethodGet, "/items/1", nil, nil)
	serve(r, http.MethodGet, "/items/2", nil, nil)
	serve(r, http.MethodGet, "/nowhere", nil, nil)

	out := serve(collector.Handler(), http.MethodGet, "/metrics", nil, nil).Body.String()
	assert.Contains(t, out, `smiles_http_requests_total{method="GET",path="/items/:id",status_code="202"} 2`)
	assert.Contains(t, out, `smiles_http_requests_total{method="GET",path="unmatched",status_code="404"} 1`)
	assert.Contains(t, out, `smiles_http_active_requests{method="GET",path="/items/:id"} 0`)
}

// ─────────────────────────────────────────────────────────────────────────────
// Recovery and BodyLimit
// ─────────────────────────────────────────────────────────────────────────────

func TestRecovery(t *testing.T) {
	logger, buf := newBufferLogger()
	r := gin.New()
	r.Use(RequestID(), Recovery(logger))
	r.GET("/panic", func(*gin.Context) { panic("kaboom") })

	w := serve(r, http.MethodGet, "/panic", nil, map[string]string{HeaderRequestID: "rid-9"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"COMMON_001"`)
	assert.Contains(t, w.Body.String(), `"request_id":"rid-9"`)
	assert.Contains(t, buf.String(), "kaboom")
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/echo", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, string(data))
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/echo", strings.NewReader("CCO"), nil).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, http.MethodPost, "/echo", strings.NewReader("CCCCCCCCCC"), nil).Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// CORS
// ─────────────────────────────────────────────────────────────────────────────

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://app.example.org", "*.chem.example"}
	r := gin.New()
	r.Use(CORS(cfg))
	r.POST("/parse", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/parse", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := serve(r, http.MethodOptions, "/parse", nil, map[string]string{"Origin": "https://app.example.org"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))

	w = serve(r, http.MethodPost, "/parse", nil, map[string]string{"Origin": "https://lab.chem.example"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://lab.chem.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, HeaderRequestID, w.Header().Get("Access-Control-Expose-Headers"))

	w = serve(r, http.MethodPost, "/parse", nil, map[string]string{"Origin": "https://evil.test"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AllowAll(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"*"}
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/x", nil, map[string]string{"Origin": "https://anywhere.test"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

// ─────────────────────────────────────────────────────────────────────────────
// RateLimit
// ─────────────────────────────────────────────────────────────────────────────

func TestTokenBucketLimiter(t *testing.T) {
	l := NewTokenBucketLimiter(1, 2, 0)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	ok, info := l.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, 1, info.Remaining)
	ok, _ = l.Allow("a")
	assert.True(t, ok)
	ok, info = l.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, 0, info.Remaining)

	ok, _ = l.Allow("b")
	assert.True(t, ok)
	assert.Equal(t, 2, l.BucketCount())

	now = now.Add(time.Second)
	ok, _ = l.Allow("a")
	assert.True(t, ok)
}

func TestTokenBucketLimiter_Cleanup(t *testing.T) {
	l := NewTokenBucketLimiter(1, 1, time.Minute)
	defer l.Stop()
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(2 * time.Minute)
	l.Allow("b")
	l.cleanup()
	assert.Equal(t, 1, l.BucketCount())
	l.Stop()
}

func TestRateLimit(t *testing.T) {
	l := NewTokenBucketLimiter(0.001, 1, 0)
	r := gin.New()
	r.Use(RequestID(), RateLimit(l, "/healthz"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/x", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = serve(r, http.MethodGet, "/x", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"code":"COMMON_007"`)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/healthz", nil, nil).Code)
	}
}

//Personal.AI order the ending
