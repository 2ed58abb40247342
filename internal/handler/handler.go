// Package handler はSocket Modeで届くイベントをワークフローサービスに振り分ける
package handler

import (
	"context"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
	slackinfra "github.com/taciturnaxolotl/emojibot/internal/infrastructure/slack"
	"github.com/taciturnaxolotl/emojibot/internal/service"
)

// Handler はSocket Modeのイベントループ。各インタラクションは独立した
// ゴルーチンで処理され、相互の順序は保証しない
type Handler struct {
	socket   *socketmode.Client
	uploader *service.Uploader
	log      *zap.Logger
}

// New は新しいHandlerを作成する
func New(socket *socketmode.Client, uploader *service.Uploader, log *zap.Logger) *Handler {
	return &Handler{socket: socket, uploader: uploader, log: log}
}

// Run はイベントループを開始する。ctxのキャンセルで停止する
func (h *Handler) Run(ctx context.Context) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-h.socket.Events:
				if !ok {
					return
				}
				h.dispatch(ctx, evt)
			}
		}
	}()

	return h.socket.RunContext(ctx)
}

func (h *Handler) dispatch(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnected:
		h.log.Info("Slackに接続しました")
	case socketmode.EventTypeConnectionError:
		h.log.Warn("Slack接続エラー", zap.Any("data", evt.Data))
	case socketmode.EventTypeEventsAPI:
		payload, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		h.socket.Ack(*evt.Request)
		go h.handleEvent(ctx, payload)
	case socketmode.EventTypeInteractive:
		callback, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		h.socket.Ack(*evt.Request)
		go h.handleInteraction(ctx, callback)
	}
}

func (h *Handler) handleEvent(ctx context.Context, payload slackevents.EventsAPIEvent) {
	if payload.Type != slackevents.CallbackEvent {
		return
	}

	ev, ok := payload.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok || ev.SubType != "file_share" {
		return
	}

	msg := domain.InboundMessage{
		ChannelID: ev.Channel,
		UserID:    ev.User,
		Timestamp: ev.TimeStamp,
		Text:      ev.Text,
		Files:     convertEventFiles(ev.Files),
	}

	if err := h.uploader.Propose(ctx, msg); err != nil {
		h.log.Error("アップロード提案に失敗しました",
			zap.String("channel", ev.Channel), zap.Error(err))
	}
}

func (h *Handler) handleInteraction(ctx context.Context, callback slack.InteractionCallback) {
	switch callback.Type {
	case slack.InteractionTypeBlockActions:
		h.handleBlockAction(ctx, callback)
	case slack.InteractionTypeMessageAction:
		h.handleShortcut(ctx, callback)
	case slack.InteractionTypeViewSubmission:
		h.handleViewSubmission(ctx, callback)
	}
}

func (h *Handler) handleBlockAction(ctx context.Context, callback slack.InteractionCallback) {
	if len(callback.ActionCallback.BlockActions) == 0 {
		return
	}
	action := callback.ActionCallback.BlockActions[0]
	if action.Value == "" {
		h.log.Error("ボタンのvalueが空です", zap.String("action", action.ActionID))
		return
	}

	state, err := domain.DecodeUploadState(action.Value)
	if err != nil {
		h.log.Error("アップロード状態の復元に失敗しました", zap.Error(err))
		return
	}
	promptTS := callback.Message.Timestamp

	switch action.ActionID {
	case service.ActionUploadNormal:
		h.uploader.Process(ctx, state, promptTS, false, false)
	case service.ActionUploadRemoveBG:
		h.uploader.Process(ctx, state, promptTS, true, false)
	case service.ActionRetryNormal:
		h.uploader.Process(ctx, state, promptTS, false, true)
	case service.ActionRetryRemoveBG:
		h.uploader.Process(ctx, state, promptTS, true, true)
	case service.ActionUploadCancel, service.ActionRetryCancel:
		h.uploader.Cancel(ctx, state, promptTS)
	}
}

func (h *Handler) handleShortcut(ctx context.Context, callback slack.InteractionCallback) {
	switch callback.CallbackID {
	case service.ShortcutRetry:
		req := domain.RetryRequest{
			TriggerID: callback.TriggerID,
			ChannelID: callback.Channel.ID,
			UserID:    callback.User.ID,
			Message: domain.InboundMessage{
				ChannelID: callback.Channel.ID,
				UserID:    callback.Message.User,
				Timestamp: callback.Message.Timestamp,
				Text:      callback.Message.Text,
				Files:     convertMessageFiles(callback.Message.Files),
			},
		}
		if err := h.uploader.RetryPropose(ctx, req); err != nil {
			h.log.Error("再試行提案に失敗しました",
				zap.String("user", callback.User.ID), zap.Error(err))
		}
	case service.ShortcutDelete:
		if err := h.uploader.OpenDeletePrompt(ctx, callback.TriggerID,
			callback.Channel.ID, callback.User.ID, callback.Message.Timestamp); err != nil {
			h.log.Error("削除モーダルの表示に失敗しました",
				zap.String("user", callback.User.ID), zap.Error(err))
		}
	}
}

func (h *Handler) handleViewSubmission(ctx context.Context, callback slack.InteractionCallback) {
	if callback.View.CallbackID != slackinfra.DeleteCallbackID {
		return
	}

	names := ""
	if block, ok := callback.View.State.Values[slackinfra.DeleteBlockID]; ok {
		names = block[slackinfra.DeleteActionID].Value
	}

	if err := h.uploader.DeleteEmojis(ctx, callback.View.PrivateMetadata, names); err != nil {
		h.log.Error("絵文字の削除処理に失敗しました", zap.Error(err))
	}
}

func convertEventFiles(files []slackevents.File) []domain.InboundFile {
	converted := make([]domain.InboundFile, 0, len(files))
	for _, f := range files {
		converted = append(converted, domain.InboundFile{
			ID:         f.ID,
			Name:       f.Name,
			MimeType:   f.Mimetype,
			URLPrivate: f.URLPrivate,
		})
	}
	return converted
}

func convertMessageFiles(files []slack.File) []domain.InboundFile {
	converted := make([]domain.InboundFile, 0, len(files))
	for _, f := range files {
		converted = append(converted, domain.InboundFile{
			ID:         f.ID,
			Name:       f.Name,
			MimeType:   f.Mimetype,
			URLPrivate: f.URLPrivate,
		})
	}
	return converted
}
