package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/taskqueue/internal/api"
	"github.com/phrazzld/taskqueue/internal/config"
	"github.com/phrazzld/taskqueue/internal/domain"
	"github.com/phrazzld/taskqueue/internal/platform/logger"
	"github.com/phrazzld/taskqueue/internal/service"
	"github.com/phrazzld/taskqueue/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            0,
			LogLevel:        "debug",
			ShutdownTimeout: 2 * time.Second,
			SubmitTimeout:   200 * time.Millisecond,
		},
		Queue:   config.QueueConfig{Capacity: 10},
		Worker:  config.WorkerConfig{ProcessingDelay: 5 * time.Millisecond},
		History: config.HistoryConfig{Retention: time.Minute, MaxSize: 50},
		Auth:    config.AuthConfig{TokenLifetime: time.Hour},
	}
}

// startTestApp builds an application, starts its worker and serves its router.
func startTestApp(t *testing.T, cfg *config.Config, processor task.Processor) (*application, *httptest.Server) {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	if processor == nil {
		processor = task.NewSimulatedProcessor(cfg.Worker.ProcessingDelay)
	}

	app, err := newApplicationWithProcessor(cfg, log, processor)
	require.NoError(t, err)
	require.NoError(t, app.worker.Start())

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(func() {
		srv.Close()
		app.queue.Close()
		_ = app.stopWorker()
	})

	return app, srv
}

func submit(t *testing.T, srv *httptest.Server, body string, headers map[string]string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/simulate-update", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, srv *httptest.Server, path string, v interface{}) {
	t.Helper()

	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestNewApplication(t *testing.T) {
	t.Run("auth disabled without secret", func(t *testing.T) {
		log, _ := logger.GetTestLogger(t)
		app, err := newApplication(testConfig(), log)
		require.NoError(t, err)

		assert.Nil(t, app.jwtService)
		assert.Equal(t, 10, app.queue.Cap())
		assert.Equal(t, task.WorkerStarting, app.worker.State())
	})

	t.Run("auth enabled with secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.JWTSecret = strings.Repeat("s", 32)

		log, _ := logger.GetTestLogger(t)
		app, err := newApplication(cfg, log)
		require.NoError(t, err)
		assert.NotNil(t, app.jwtService)
	})

	t.Run("invalid secret fails", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.JWTSecret = "short"

		log, _ := logger.GetTestLogger(t)
		_, err := newApplication(cfg, log)
		assert.Error(t, err)
	})
}

func TestEndToEnd_SubmitAndList(t *testing.T) {
	_, srv := startTestApp(t, testConfig(), nil)

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		resp := submit(t, srv, fmt.Sprintf(`{"target_name":"target-%d","payload":"p%d"}`, i, i), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body api.SubmitWorkItemResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, "Task queued", body.Message)
		ids = append(ids, body.ID)
	}

	var items []api.ProcessedWorkItemResponse
	require.Eventually(t, func() bool {
		getJSON(t, srv, "/tasks", &items)
		return len(items) == 3
	}, 2*time.Second, 10*time.Millisecond)

	for i, item := range items {
		assert.Equal(t, ids[i], item.ID, "items are listed in processing order")
		assert.Equal(t, fmt.Sprintf("target-%d", i), item.TargetName)
		assert.False(t, item.CompletedAt.Before(item.EnqueuedAt))
	}

	var stats service.Stats
	require.Eventually(t, func() bool {
		getJSON(t, srv, "/stats", &stats)
		return stats.Processing.Succeeded == 3
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 3, stats.HistorySize)
	assert.Equal(t, "running", stats.WorkerState)
	assert.Equal(t, 0, stats.QueueLength)
}

func TestEndToEnd_InvalidSubmission(t *testing.T) {
	_, srv := startTestApp(t, testConfig(), nil)

	for _, body := range []string{`{}`, `{"target_name":"  "}`, `not json`, ``} {
		resp := submit(t, srv, body, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %q", body)
	}
}

func TestEndToEnd_FailedItemsAreNotListed(t *testing.T) {
	processor := task.ProcessorFunc(func(ctx context.Context, item domain.WorkItem) error {
		if item.Payload == "fail" {
			return errors.New("simulated failure")
		}
		return nil
	})
	_, srv := startTestApp(t, testConfig(), processor)

	for _, payload := range []string{"ok", "fail", "ok"} {
		resp := submit(t, srv, fmt.Sprintf(`{"target_name":"t","payload":%q}`, payload), nil)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	var stats service.Stats
	require.Eventually(t, func() bool {
		getJSON(t, srv, "/stats", &stats)
		return stats.Processing.Succeeded+stats.Processing.Failed == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, uint64(1), stats.Processing.Failed)

	var items []api.ProcessedWorkItemResponse
	getJSON(t, srv, "/tasks", &items)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "ok", item.Payload)
	}
}

func TestEndToEnd_FullQueueReturnsServiceUnavailable(t *testing.T) {
	cfg := testConfig()
	cfg.Queue.Capacity = 1
	cfg.Server.SubmitTimeout = 50 * time.Millisecond

	release := make(chan struct{})
	var once sync.Once
	t.Cleanup(func() { once.Do(func() { close(release) }) })

	processor := task.ProcessorFunc(func(ctx context.Context, _ domain.WorkItem) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	app, srv := startTestApp(t, cfg, processor)

	// First item occupies the worker, second fills the queue
	resp := submit(t, srv, `{"target_name":"busy"}`, nil)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Eventually(t, func() bool { return app.queue.Len() == 0 }, time.Second, 5*time.Millisecond)

	resp = submit(t, srv, `{"target_name":"queued"}`, nil)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = submit(t, srv, `{"target_name":"overflow"}`, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	assert.Equal(t, 1, app.queue.Len(), "overflow item must not be added")

	once.Do(func() { close(release) })
}

func TestEndToEnd_AuthEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = "thisisaverylongsecretkeyforjwttesting1234567890"
	app, srv := startTestApp(t, cfg, nil)

	resp := submit(t, srv, `{"target_name":"t"}`, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = submit(t, srv, `{"target_name":"t"}`, map[string]string{"Authorization": "Bearer garbage"})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := app.jwtService.GenerateToken(context.Background(), "deploy-bot")
	require.NoError(t, err)

	resp = submit(t, srv, `{"target_name":"t"}`, map[string]string{"Authorization": "Bearer " + token})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Read endpoints stay open
	var items []api.ProcessedWorkItemResponse
	getJSON(t, srv, "/tasks", &items)
}

func TestIndexAndHealth(t *testing.T) {
	_, srv := startTestApp(t, testConfig(), nil)

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, err = srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "/simulate-update")
}

func TestServe_GracefulShutdown(t *testing.T) {
	cfg := testConfig()
	log, logBuf := logger.GetTestLogger(t)

	started := make(chan struct{})
	var startOnce sync.Once
	processor := task.ProcessorFunc(func(ctx context.Context, _ domain.WorkItem) error {
		startOnce.Do(func() { close(started) })
		<-ctx.Done()
		return ctx.Err()
	})

	app, err := newApplicationWithProcessor(cfg, log, processor)
	require.NoError(t, err)
	require.NoError(t, app.worker.Start())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.serve(ctx, ln, app.setupRouter())
	}()

	url := "http://" + ln.Addr().String()
	for _, target := range []string{"in-flight", "waiting"} {
		resp, err := http.Post(url+"/simulate-update", "application/json",
			strings.NewReader(fmt.Sprintf(`{"target_name":%q}`, target)))
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	<-started

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}

	assert.Equal(t, task.WorkerStopped, app.worker.State())
	assert.True(t, app.queue.Closed())
	assert.Empty(t, app.history.Snapshot(), "the cancelled in-flight item is not recorded")
	assert.Equal(t, uint64(1), app.metrics.Snapshot().Cancelled)

	logger.AssertLogContains(t, logBuf, "Abandoning queued work items on shutdown")
	logger.AssertLogContains(t, logBuf, "Server shutdown completed")
}
