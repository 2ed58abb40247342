// Package server はヘルスチェック用のHTTPサーバを提供する
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
)

// AuthTester はSlackの認証状態を確認できるクライアントの最小インターフェース
type AuthTester interface {
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}

// Server はヘルスチェックエンドポイントを提供するHTTPサーバ
type Server struct {
	engine  *gin.Engine
	slack   AuthTester
	addr    string
	started time.Time
	http    *http.Server
}

// New は新しいServerを作成する
func New(client AuthTester, addr string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:  engine,
		slack:   client,
		addr:    addr,
		started: time.Now(),
	}
	engine.GET("/health", s.handleHealth)

	return s
}

// handleHealth はSlack APIへの認証を確認して稼働状態を返す
func (s *Server) handleHealth(c *gin.Context) {
	auth, err := s.slack.AuthTestContext(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"slack":  gin.H{"connected": false, "error": err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"slack": gin.H{
			"connected": true,
			"team":      auth.Team,
			"user":      auth.User,
		},
		"uptime": time.Since(s.started).Seconds(),
	})
}

// Start はサーバを起動してリクエストの受付を開始する
func (s *Server) Start() error {
	s.http = &http.Server{Addr: s.addr, Handler: s.engine}
	return s.http.ListenAndServe()
}

// Stop はサーバを停止する
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
