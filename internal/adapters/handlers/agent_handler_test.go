package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/iwtcode/brotherAdapter/brother/snapshot"
	"github.com/iwtcode/brotherAdapter/internal/config"
	"github.com/iwtcode/brotherAdapter/internal/domain/models"
	"github.com/iwtcode/brotherAdapter/internal/interfaces"
	"github.com/iwtcode/brotherAdapter/internal/metrics"
	"github.com/iwtcode/brotherAdapter/internal/middleware/logging"
	"github.com/iwtcode/brotherAdapter/internal/middleware/swagger"
	"github.com/iwtcode/brotherAdapter/internal/usecases"
	"github.com/iwtcode/brotherAdapter/mtconnect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoller struct {
	status models.PollStatus
}

func (p *fakePoller) Start(context.Context) error { return nil }
func (p *fakePoller) Stop(context.Context) error  { return nil }
func (p *fakePoller) Status() models.PollStatus   { return p.status }

type panicUsecase struct {
	interfaces.Usecases
}

func (panicUsecase) Current() ([]byte, error) { panic("render exploded") }

type failingUsecase struct {
	interfaces.Usecases
}

func (failingUsecase) Probe() ([]byte, error) { return nil, errors.New("xml: unsupported type") }

func setupRouter(t *testing.T, uc interfaces.Usecases) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{GinMode: gin.TestMode, MetricsEnable: true}
	h := NewHandler(uc, metrics.New(), logging.NewNop())
	return ProvideRouter(h, cfg, &swagger.Config{Enabled: false})
}

func newUsecase(snap *snapshot.Snapshot) interfaces.Usecases {
	info := mtconnect.DeviceInfo{Name: "brother", UUID: "uuid-1", Sender: "test"}
	return usecases.NewUsecases(snap, &fakePoller{status: models.PollStatus{Endpoint: "10.0.0.1:10000"}}, info)
}

func do(router http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestCurrentBeforeFirstPollIsOK(t *testing.T) {
	router := setupRouter(t, newUsecase(snapshot.New()))

	w := do(router, http.MethodGet, "/current")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/xml"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	body := w.Body.String()
	assert.Contains(t, body, `dataItemId="avail"`)
	assert.Contains(t, body, ">UNAVAILABLE</Availability>")
	assert.Contains(t, body, "urn:mtconnect.org:MTConnectStreams:1.7")
}

func TestProbeAndSample(t *testing.T) {
	snap := snapshot.New()
	snap.Merge(map[string]string{"Program name": "O1000"})
	router := setupRouter(t, newUsecase(snap))

	w := do(router, http.MethodGet, "/probe")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<MTConnectDevices")
	assert.Contains(t, w.Body.String(), `uuid="uuid-1"`)

	w = do(router, http.MethodGet, "/sample")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ">O1000</Program>")
	assert.Contains(t, w.Body.String(), ">AVAILABLE</Availability>")
}

func TestBannerOptionsAndNotFound(t *testing.T) {
	router := setupRouter(t, newUsecase(snapshot.New()))

	w := do(router, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MTConnect")

	w = do(router, http.MethodOptions, "/current")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(router, http.MethodOptions, "/anything/else")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, w.Body.String(), "/nope")
}

func TestPanicBecomes500(t *testing.T) {
	router := setupRouter(t, panicUsecase{Usecases: newUsecase(snapshot.New())})

	w := do(router, http.MethodGet, "/current")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, http.StatusInternalServerError, resp.Error.Code)
	assert.Equal(t, "internal server error: panic: render exploded", resp.Error.Message)

	// Сервер продолжает обслуживать запросы.
	w = do(router, http.MethodGet, "/probe")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	snap := snapshot.New()
	snap.Merge(map[string]string{"A": "1", "B": "2"})
	router := setupRouter(t, newUsecase(snap))

	w := do(router, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 2, health.Fields)
	assert.Equal(t, "10.0.0.1:10000", health.Endpoint)
	assert.NotEmpty(t, health.LastUpdate)

	w = do(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `brother_adapter_http_requests_total{path="/health",status="200"} 1`)
}

func TestRenderErrorBecomes500(t *testing.T) {
	router := setupRouter(t, failingUsecase{Usecases: newUsecase(snapshot.New())})

	w := do(router, http.MethodGet, "/probe")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"))

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error: xml: unsupported type", resp.Error.Message)
}
