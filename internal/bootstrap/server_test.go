package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Domenick1991/mysterytrips/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type stubTrigger struct{ ids []int64 }

func (s *stubTrigger) BookingCreated(ctx context.Context, bookingID int64) {
	s.ids = append(s.ids, bookingID)
}

func testConfig(t *testing.T, grpcAddr string) *config.Config {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, swaggerSpec), []byte(`{"swagger":"2.0"}`), 0o600))
	return &config.Config{
		HTTP: config.HTTPConfig{Address: ":0", SwaggerDir: dir},
		GRPC: config.GRPCConfig{Address: grpcAddr},
		Auth: config.AuthConfig{JWTSecret: "secret", OperatorRoles: []string{"operator"}, ServiceRoles: []string{"service"}},
	}
}

func startServers(t *testing.T) *Servers {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s, err := newServers(testConfig(t, lis.Addr().String()), Services{Trigger: &stubTrigger{}})
	require.NoError(t, err)
	go func() { _ = s.grpcServer.Serve(lis) }()
	t.Cleanup(func() {
		s.grpcServer.Stop()
		s.gwConn.Close()
	})
	return s
}

func get(s *Servers, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestHealthzReflectsDependencyChecks(t *testing.T) {
	s := startServers(t)

	assert.Equal(t, http.StatusOK, get(s, "/healthz").Code)

	s.checks = map[string]func(context.Context) error{
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	}
	s.probe(context.Background())
	assert.NotEqual(t, http.StatusOK, get(s, "/healthz").Code)

	s.checks["postgres"] = func(context.Context) error { return nil }
	s.probe(context.Background())
	assert.Equal(t, http.StatusOK, get(s, "/healthz").Code)
}

func TestRouter_GuardsAPIAndServesDocs(t *testing.T) {
	s := startServers(t)

	assert.Equal(t, http.StatusUnauthorized, get(s, "/api/bookings/1/suggestions").Code)
	assert.Equal(t, http.StatusOK, get(s, "/swagger/"+swaggerSpec).Code)
	assert.Equal(t, http.StatusOK, get(s, "/docs/index.html").Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/hooks/bookings/created", nil)
	s.httpServer.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthServerStartsServing(t *testing.T) {
	s := startServers(t)
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
