package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayProxiesReports(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/reports/missing" {
			http.Error(w, "nope", http.StatusNotFound)
			return
		}
		w.Write([]byte("reports:" + r.URL.Path))
	}))
	defer backend.Close()

	router, err := NewGatewayRouter(backend.URL)
	require.NoError(t, err)
	gw := httptest.NewServer(router)
	defer gw.Close()

	resp, err := http.Get(gw.URL + "/reports/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "reports:/reports/health", string(body))

	resp, err = http.Get(gw.URL + "/reports/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(gw.URL + "/elsewhere")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "404 - Route not found", string(body))

	resp, err = http.Get(gw.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGatewayRejectsBadTarget(t *testing.T) {
	_, err := NewGatewayRouter("not a url")
	assert.Error(t, err)

	_, err = NewGatewayRouter()
	assert.Error(t, err)
}

func TestReportsTargets(t *testing.T) {
	assert.Equal(t, []string{"http://localhost:4143"}, reportsTargets(map[string]interface{}{}))
	assert.Equal(t, []string{"http://a:1"}, reportsTargets(map[string]interface{}{"reports_target": "http://a:1"}))
	assert.Equal(t, []string{"http://a:1", "http://b:2"}, reportsTargets(map[string]interface{}{
		"reports_targets": []interface{}{"http://a:1", "http://b:2"},
	}))
}

func TestConfigString(t *testing.T) {
	cfg := map[string]interface{}{"port": 9090, "name": "x"}
	assert.Equal(t, "9090", configString(cfg, "port", "1"))
	assert.Equal(t, "x", configString(cfg, "name", "1"))
	assert.Equal(t, "1", configString(cfg, "missing", "1"))
}
