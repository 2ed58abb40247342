package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"

	"github.com/taciturnaxolotl/emojibot/internal/cache"
	"github.com/taciturnaxolotl/emojibot/internal/config"
	"github.com/taciturnaxolotl/emojibot/internal/handler"
	replicateinfra "github.com/taciturnaxolotl/emojibot/internal/infrastructure/replicate"
	slackinfra "github.com/taciturnaxolotl/emojibot/internal/infrastructure/slack"
	"github.com/taciturnaxolotl/emojibot/internal/logger"
	"github.com/taciturnaxolotl/emojibot/internal/server"
	"github.com/taciturnaxolotl/emojibot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	zl := logger.New(cfg.LogLevel)
	defer func() { _ = zl.Sync() }()

	zl.Info("emojibot を起動します", zap.String("channel", cfg.Channel))

	api := slack.New(cfg.BotToken, slack.OptionAppLevelToken(cfg.AppToken))
	socket := socketmode.New(api)

	httpClient := &http.Client{Timeout: 60 * time.Second}

	emojiRepo := slackinfra.NewEmojiRepository(httpClient, cfg.Workspace, cfg.UserToken, cfg.Cookie, cfg.SlackRoute())
	fileRepo := slackinfra.NewFileRepository(httpClient, cfg.Cookie)
	messenger := slackinfra.NewMessenger(api)
	userRepo := slackinfra.NewUserRepository(api)

	remover, err := replicateinfra.NewClient(cfg.ReplicateToken, cfg.ReplicateBaseURL, httpClient)
	if err != nil {
		zl.Fatal("Replicateクライアントの初期化に失敗しました", zap.Error(err))
	}

	images := cache.NewPrefetcher(cache.NewImageCache(), fileRepo, zl)

	uploader := service.NewUploader(emojiRepo, remover, messenger, userRepo, images,
		service.Config{Channel: cfg.Channel, Admins: cfg.AdminList()}, zl)

	h := handler.New(socket, uploader, zl)
	srv := server.New(api, cfg.HealthAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			zl.Error("ヘルスチェックサーバが停止しました", zap.Error(err))
		}
	}()

	go func() {
		if err := h.Run(ctx); err != nil && ctx.Err() == nil {
			zl.Fatal("Socket Mode接続が停止しました", zap.Error(err))
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	zl.Info("emojibot を停止します")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		zl.Warn("サーバ停止エラー", zap.Error(err))
	}
}
