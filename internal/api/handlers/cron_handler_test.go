package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/somema/somema-api/configs"
	"github.com/somema/somema-api/internal/transfer"
)

type fakeSchedulerService struct {
	calls int
	err   error
}

func (f *fakeSchedulerService) Dispatch(ctx context.Context) (*transfer.DispatchSummary, error) {
	f.calls++
	summary := &transfer.DispatchSummary{Logs: []string{"dispatched"}}
	if f.err != nil {
		return summary, f.err
	}
	summary.Success = true
	return summary, nil
}

func newCronApp(cfg config.Config, s *fakeSchedulerService) *fiber.App {
	h := NewCronHandler(cfg, s)
	app := fiber.New()
	app.Get("/api/cron/post-scheduler", h.PostScheduler)
	return app
}

func TestCronAuth(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.Config
		headers    map[string]string
		wantStatus int
		wantCalls  int
	}{
		{
			name:       "no credentials",
			cfg:        config.Config{CronSecret: "topsecret"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "matching secret",
			cfg:        config.Config{CronSecret: "topsecret"},
			headers:    map[string]string{cronSecretHeader: "topsecret"},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "wrong secret",
			cfg:        config.Config{CronSecret: "topsecret"},
			headers:    map[string]string{cronSecretHeader: "guess"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "platform trust header",
			cfg:        config.Config{CronTrustHeader: "x-vercel-cron"},
			headers:    map[string]string{"x-vercel-cron": "1"},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "trust header configured but absent",
			cfg:        config.Config{CronTrustHeader: "x-vercel-cron"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "nothing configured is a server error",
			cfg:        config.Config{},
			headers:    map[string]string{cronSecretHeader: "anything"},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSchedulerService{}
			app := newCronApp(tt.cfg, s)

			req := httptest.NewRequest(http.MethodGet, "/api/cron/post-scheduler", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, s.calls)
		})
	}
}

func TestCronDispatchErrorReturnsLogs(t *testing.T) {
	s := &fakeSchedulerService{err: errors.New("queue processor failed")}
	app := newCronApp(config.Config{CronSecret: "topsecret"}, s)

	req := httptest.NewRequest(http.MethodGet, "/api/cron/post-scheduler", nil)
	req.Header.Set(cronSecretHeader, "topsecret")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
