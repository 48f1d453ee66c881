package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/procintf/internal/api/middleware"
	"github.com/GriffinCanCode/procintf/internal/domain/access"
	"github.com/GriffinCanCode/procintf/internal/domain/lifecycle"
	"github.com/GriffinCanCode/procintf/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/procintf/internal/shared/fault"
)

type fixture struct {
	router  *gin.Engine
	manager *lifecycle.Manager
	metrics *monitoring.Metrics
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ns := access.NewNamespace()
	manager := lifecycle.NewManager(ns, lifecycle.Config{Name: "procintf"})
	require.NoError(t, manager.Start())
	t.Cleanup(manager.Stop)

	metrics := monitoring.NewMetrics()
	router := gin.New()
	router.Use(middleware.Credentials(access.Nobody))
	NewHandlers(ns, manager, metrics, nil).Register(router)

	return &fixture{router: router, manager: manager, metrics: metrics}
}

func (f *fixture) do(method, target, body string, uid string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if uid != "" {
		req.Header.Set(middleware.HeaderCallerUID, uid)
		req.Header.Set(middleware.HeaderCallerGID, uid)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestList(t *testing.T) {
	f := setup(t)

	w := f.do("GET", "/proc", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `"count":5`)
	for _, p := range []string{"procintf/primary-config", "procintf/show-page-offset", "procintf/show-context", "procintf/debug-level"} {
		assert.Contains(t, body, p)
	}
	assert.Contains(t, body, `"mode":"0440"`)
}

func TestWorkedExample(t *testing.T) {
	f := setup(t)

	w := f.do("PUT", "/proc/procintf/primary-config", "0x2A\n", "0")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"written":5}`, w.Body.String())

	w = f.do("GET", "/proc/procintf/primary-config", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "config1:42,0x2a\n", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	w = f.do("POST", "/proc/procintf/debug-level", "3\n", "0")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ERANGE"`)

	w = f.do("GET", "/proc/procintf/debug-level", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "debug_level:0\n", w.Body.String())
}

func TestWriteErrors(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name       string
		target     string
		body       string
		uid        string
		wantStatus int
		wantCode   string
	}{
		{"unprivileged write", "/proc/procintf/debug-level", "1\n", "", http.StatusForbidden, "EACCES"},
		{"read-only endpoint", "/proc/procintf/show-page-offset", "1\n", "0", http.StatusForbidden, "EACCES"},
		{"unknown endpoint", "/proc/procintf/nope", "1\n", "0", http.StatusNotFound, "ENOENT"},
		{"unknown container", "/proc/other/debug-level", "1\n", "0", http.StatusNotFound, "ENOENT"},
		{"empty", "/proc/procintf/primary-config", "\n", "0", http.StatusBadRequest, "EINVAL"},
		{"oversized", "/proc/procintf/primary-config", "123456789\n", "0", http.StatusBadRequest, "EINVAL"},
		{"huge body", "/proc/procintf/debug-level", strings.Repeat("1", 4096), "0", http.StatusBadRequest, "EINVAL"},
		{"garbage", "/proc/procintf/debug-level", "abc\n", "0", http.StatusBadRequest, "EINVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do("PUT", tt.target, tt.body, tt.uid)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"`+tt.wantCode+`"`)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}

	// None of the rejected writes changed anything
	w := f.do("GET", "/proc/procintf/debug-level", "", "")
	assert.Equal(t, "debug_level:0\n", w.Body.String())
}

func TestReadPermissions(t *testing.T) {
	f := setup(t)

	// show-context is 0440: owner and group only
	w := f.do("GET", "/proc/procintf/show-context", "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do("GET", "/proc/procintf/show-context", "", "0")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "prodname:procintf\n")
	assert.Contains(t, w.Body.String(), "power:1")

	w = f.do("GET", "/proc/procintf/show-page-offset", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "PAGE_OFFSET:0x"))

	// The container itself has no show handler
	w = f.do("GET", "/proc/procintf/", "", "0")
	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	f := setup(t)

	w := f.do("GET", "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"lifecycle":"READY"`)
	assert.Contains(t, w.Body.String(), `"nodes":5`)

	f.manager.Stop()

	w = f.do("GET", "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"lifecycle":"STOPPED"`)

	w = f.do("GET", "/proc/procintf/debug-level", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRootAndMetricsJSON(t *testing.T) {
	f := setup(t)

	w := f.do("GET", "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"container":"procintf"`)

	f.do("GET", "/proc/procintf/debug-level", "", "")
	f.do("PUT", "/proc/procintf/debug-level", "1", "0")
	f.do("PUT", "/proc/procintf/debug-level", "7", "0")

	s := f.metrics.GetSnapshot()
	assert.Equal(t, int64(1), s.Reads)
	assert.Equal(t, int64(1), s.Writes)
	assert.Equal(t, int64(1), s.Rejected)

	w = f.do("GET", "/metrics/json", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"writes":1`)
}

type stubNamespace struct {
	err error
}

func (s stubNamespace) Read(context.Context, string, access.Caller) (string, error) {
	return "", s.err
}

func (s stubNamespace) Write(context.Context, string, access.Caller, []byte) (int, error) {
	return 0, s.err
}

func (s stubNamespace) List() []access.NodeInfo { return nil }

type stubLifecycle struct{}

func (stubLifecycle) State() lifecycle.State { return lifecycle.StateReady }
func (stubLifecycle) Name() string           { return "stub" }

func TestInterruptedIsRetryable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ns := stubNamespace{err: fault.New(fault.KindInterrupted, "acquire", context.Canceled)}
	NewHandlers(ns, stubLifecycle{}, monitoring.NewMetrics(), nil).Register(router)

	for _, method := range []string{"GET", "PUT"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, "/proc/stub/debug-level", strings.NewReader("1")))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, RetryAfter, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), `"code":"ERESTARTSYS"`)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		kind fault.Kind
		want int
	}{
		{fault.KindValidation, http.StatusBadRequest},
		{fault.KindRange, http.StatusBadRequest},
		{fault.KindPermission, http.StatusForbidden},
		{fault.KindNotFound, http.StatusNotFound},
		{fault.KindInterrupted, http.StatusServiceUnavailable},
		{fault.KindResource, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(fault.New(tt.kind, "op", nil)))
		})
	}
	assert.Equal(t, http.StatusInternalServerError, StatusOf(assert.AnError))
}
