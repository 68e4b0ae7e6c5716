package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name: boltick-test
log_level: debug
http_listen_address: ":9090"
shutdown_grace_period: 5s
app:
  auditor_interval: 1m
`), 0o600))

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "boltick-test", config.AppName)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, ":9090", config.HTTPListenAddress)
	assert.Equal(t, defaultConfig.GRPCListenAddress, config.GRPCListenAddress)
	assert.Equal(t, 5*time.Second, config.ShutdownGracePeriod)
	assert.Equal(t, "1m", config.AppConfig["auditor_interval"])
}

func TestNewHTTPMux(t *testing.T) {
	var served []string
	mux := newHTTPMux(map[string]http.HandlerFunc{
		"/v1/a": func(w http.ResponseWriter, r *http.Request) {
			served = append(served, r.URL.Path)
			w.WriteHeader(http.StatusOK)
		},
		"/v1/b": func(w http.ResponseWriter, r *http.Request) {
			served = append(served, r.URL.Path)
			w.WriteHeader(http.StatusAccepted)
		},
	}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/b", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/c", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, []string{"/v1/b"}, served)
}

func TestNewRelicUnaryServerInterceptor_NoApplication(t *testing.T) {
	interceptor := newRelicUnaryServerInterceptor(nil)

	resp, err := interceptor(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: "/boltick.v1.Test/Call"}, func(_ context.Context, req interface{}) (interface{}, error) {
		return req.(string) + "-handled", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "req-handled", resp)

	_, err = interceptor(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: "/boltick.v1.Test/Call"}, func(context.Context, interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "missing")
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
