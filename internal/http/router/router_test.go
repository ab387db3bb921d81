package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apphttp "stakeholder_map_backend/internal/http"
	"stakeholder_map_backend/platform/logger"
	"stakeholder_map_backend/platform/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type routerConfig struct {
	secret  string
	origins []string
}

func (c routerConfig) GetHTTPAddr() string            { return ":0" }
func (c routerConfig) GetCORSAllowAll() bool          { return false }
func (c routerConfig) GetCORSOrigins() []string       { return c.origins }
func (c routerConfig) GetRateLimitPerSecond() float64 { return 100 }
func (c routerConfig) GetRateLimitBurst() int         { return 100 }
func (c routerConfig) GetJWTAccessSecret() string     { return c.secret }
func (c routerConfig) IsWriteAuthEnabled() bool       { return c.secret != "" }

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/echo", func(c *gin.Context) { c.String(http.StatusOK, "read") })
	ctx.V1.POST("/echo", ctx.WriteAuth, func(c *gin.Context) { c.String(http.StatusCreated, "write") })
}

func newApp(cfg routerConfig, health apphttp.HealthChecker) *apphttp.App {
	return &apphttp.App{
		Config:  cfg,
		Logger:  logger.Discard(),
		Health:  health,
		Metrics: metrics.New(),
		Modules: []apphttp.Module{echoModule{}},
	}
}

func do(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Origin", "http://localhost:3000")
	engine.ServeHTTP(rec, req)
	return rec
}

func TestOperationalEndpoints(t *testing.T) {
	engine := New(newApp(routerConfig{origins: []string{"http://localhost:3000"}}, pinger{}))

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/health").Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/ready").Code)

	do(engine, http.MethodGet, "/api/v1/echo")
	rec := do(engine, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `route="/api/v1/echo"`))
}

func TestReadyReportsStoreOutage(t *testing.T) {
	engine := New(newApp(routerConfig{}, pinger{err: errors.New("down")}))
	assert.Equal(t, http.StatusServiceUnavailable, do(engine, http.MethodGet, "/api/ready").Code)
}

func TestModuleRoutesAndWriteAuth(t *testing.T) {
	open := New(newApp(routerConfig{}, nil))
	assert.Equal(t, http.StatusCreated, do(open, http.MethodPost, "/api/v1/echo").Code)

	guarded := New(newApp(routerConfig{secret: "s3cret"}, nil))
	assert.Equal(t, http.StatusOK, do(guarded, http.MethodGet, "/api/v1/echo").Code)
	assert.Equal(t, http.StatusUnauthorized, do(guarded, http.MethodPost, "/api/v1/echo").Code)
}

func TestCORSAndRequestID(t *testing.T) {
	engine := New(newApp(routerConfig{origins: []string{"http://localhost:3000"}}, nil))
	rec := do(engine, http.MethodGet, "/api/health")
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
