package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthTester struct {
	resp *slack.AuthTestResponse
	err  error
}

func (f *fakeAuthTester) AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error) {
	return f.resp, f.err
}

func TestServer_Health(t *testing.T) {
	t.Run("認証できれば200", func(t *testing.T) {
		s := New(&fakeAuthTester{resp: &slack.AuthTestResponse{Team: "example", User: "emojibot"}}, ":0")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		s.engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Status string `json:"status"`
			Slack  struct {
				Connected bool   `json:"connected"`
				Team      string `json:"team"`
				User      string `json:"user"`
			} `json:"slack"`
			Uptime float64 `json:"uptime"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body.Status)
		assert.True(t, body.Slack.Connected)
		assert.Equal(t, "example", body.Slack.Team)
		assert.Equal(t, "emojibot", body.Slack.User)
	})

	t.Run("認証に失敗すれば503", func(t *testing.T) {
		s := New(&fakeAuthTester{err: errors.New("invalid_auth")}, ":0")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		s.engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "unhealthy")
		assert.Contains(t, rec.Body.String(), "invalid_auth")
	})
}
