package e2e

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"livefeed/internal/auth"
	"livefeed/internal/config"
	httpserver "livefeed/internal/http"
	"livefeed/internal/http/controller"
	"livefeed/internal/metrics"
	"livefeed/internal/prefs"
	"livefeed/internal/queue/rabbitmq"
	"livefeed/internal/readstate"
	"livefeed/internal/repository"
	"livefeed/internal/service/aggregate"
	"livefeed/internal/service/refresh"
	"livefeed/internal/service/social"
	"livefeed/internal/sse"
	"livefeed/internal/store/memory"
)

func ginTestMode() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		HTTPAddr:            ":0",
		SSEHeartbeat:        5 * time.Second,
		AggregateLimit:      aggregate.DefaultLimit,
		MutationTimeout:     5 * time.Second,
		RabbitPublishPrefix: "refresh",
		JWTSecret:           "e2e-secret",
		JWTAudience:         "authenticated",
		OTELServiceName:     "livefeed-e2e",
	}
}

type testServer struct {
	*httptest.Server
	cfg      *config.Config
	hub      *sse.Hub
	social   *social.Service
	verifier *auth.Verifier
}

// startServer wires the service the same way cmd/server does, over the given
// backend and kv.
func startServer(t *testing.T, cfg *config.Config, backend repository.Backend, kv repository.KV) *testServer {
	t.Helper()
	ginTestMode()

	logger := zap.NewNop()
	m := metrics.New()
	hub := sse.NewHub()
	reads := readstate.New(kv, logger, m)
	agg := aggregate.New(cfg, backend, reads, m, logger)
	notifier := refresh.NewNotifier(cfg, rabbitmq.NewPublisher(cfg, logger), hub, logger)
	socialSvc := social.NewService(backend, m, logger)
	handler := controller.NewHandler(cfg, agg, reads, notifier, hub, prefs.New(kv, logger), socialSvc, logger)
	verifier := auth.NewVerifier(cfg)
	router := httpserver.NewRouter(cfg, handler, verifier, m, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return &testServer{Server: srv, cfg: cfg, hub: hub, social: socialSvc, verifier: verifier}
}

func newMemoryServer(t *testing.T) (*testServer, *memory.Store) {
	t.Helper()
	store := memory.New(zap.NewNop())
	return startServer(t, testConfig(), store, memory.NewKV()), store
}

func (s *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := s.verifier.Sign(userID, time.Minute)
	require.NoError(t, err)
	return token
}

func (s *testServer) call(t *testing.T, userID, method, path string, body, out any) int {
	t.Helper()
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.URL+path, payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token(t, userID))

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func (s *testServer) openStream(t *testing.T, userID string) *http.Response {
	t.Helper()
	res, err := http.Get(s.URL + "/v1/notifications/stream?token=" + s.token(t, userID))
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Eventually(t, func() bool { return s.hub.Subscribers(userID) > 0 }, 2*time.Second, 10*time.Millisecond)
	return res
}

func readSSEData(body io.Reader, timeout time.Duration) (string, error) {
	reader := bufio.NewReader(body)
	type result struct {
		data string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		var dataLines []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				ch <- result{"", err}
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				if len(dataLines) > 0 {
					ch <- result{strings.Join(dataLines, "\n"), nil}
					return
				}
				continue
			}
			if strings.HasPrefix(line, ":") {
				continue
			}
			if strings.HasPrefix(line, "data:") {
				dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
	}()

	select {
	case res := <-ch:
		return res.data, res.err
	case <-time.After(timeout):
		return "", context.DeadlineExceeded
	}
}
