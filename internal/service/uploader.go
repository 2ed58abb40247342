package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/taciturnaxolotl/emojibot/internal/cache"
	"github.com/taciturnaxolotl/emojibot/internal/domain"
	"github.com/taciturnaxolotl/emojibot/internal/pipeline"
)

// ボタンとショートカットの識別子
const (
	ActionUploadNormal   = "upload_normal"
	ActionUploadRemoveBG = "upload_remove_bg"
	ActionUploadCancel   = "upload_cancel"
	ActionRetryNormal    = "retry_normal"
	ActionRetryRemoveBG  = "retry_remove_bg"
	ActionRetryCancel    = "retry_cancel"
	ShortcutRetry        = "retry_emoji"
	ShortcutDelete       = "delete_emoji"
)

// Config はワークフローが参照する設定値
type Config struct {
	// Channel はボットが監視する唯一のチャンネルID
	Channel string
	// Admins は他人の投稿を再試行できるユーザーIDのリスト
	Admins []string
}

// Uploader は絵文字アップロードの一連のワークフロー
// （提案 → 処理 → 成否の通知、再試行、キャンセル、削除）を調整するサービス。
// 各ハンドラはイベントに埋め込まれた状態だけに依存し、プロセスメモリ上の
// 状態には（レイテンシ用キャッシュを除いて）依存しない
type Uploader struct {
	emoji     domain.EmojiRepository
	remover   domain.BackgroundRemover
	messenger domain.Messenger
	users     domain.UserRepository
	images    *cache.Prefetcher
	cfg       Config
	log       *zap.Logger
}

// NewUploader は新しいUploaderサービスを作成する
func NewUploader(
	emoji domain.EmojiRepository,
	remover domain.BackgroundRemover,
	messenger domain.Messenger,
	users domain.UserRepository,
	images *cache.Prefetcher,
	cfg Config,
	log *zap.Logger,
) *Uploader {
	return &Uploader{
		emoji:     emoji,
		remover:   remover,
		messenger: messenger,
		users:     users,
		images:    images,
		cfg:       cfg,
		log:       log,
	}
}

// Propose はファイル付きメッセージに対してアップロード方法の選択プロンプトを
// 投稿し、バックグラウンドで画像の先読みを開始する。監視チャンネル以外の
// メッセージは無視する
func (u *Uploader) Propose(ctx context.Context, msg domain.InboundMessage) error {
	if msg.ChannelID != u.cfg.Channel {
		return nil
	}

	images := msg.ImageFiles()
	if len(images) == 0 {
		return nil
	}
	if len(images) > 1 {
		_, err := u.messenger.PostThread(ctx, msg.ChannelID, msg.Timestamp,
			"Please upload one image at a time.", nil)
		return err
	}

	file := images[0]
	emojiName := domain.DeriveEmojiName(msg.Text, file.Name)
	if len(domain.ParseEmojiNames(emojiName)) == 0 {
		_, err := u.messenger.PostThread(ctx, msg.ChannelID, msg.Timestamp,
			"Please include an emoji name in your message (no spaces).", nil)
		return err
	}

	state := &domain.UploadState{
		MessageTS: msg.Timestamp,
		ChannelID: msg.ChannelID,
		UserID:    msg.UserID,
		File: domain.FileReference{
			FileID:   file.ID,
			URL:      file.URLPrivate,
			MimeType: file.MimeType,
		},
		EmojiName: emojiName,
	}

	return u.proposePrompt(ctx, state, false)
}

// RetryPropose はメッセージショートカットから過去の投稿に対する再アップロード
// プロンプトを投稿する。元の投稿者か管理者だけが起動できる
func (u *Uploader) RetryPropose(ctx context.Context, req domain.RetryRequest) error {
	if req.ChannelID != u.cfg.Channel {
		return u.openError(ctx, req.TriggerID,
			"This channel doesn't have any emojis managed by emojibot.")
	}

	authorized, err := u.authorizeRetry(ctx, req)
	if err != nil {
		u.log.Warn("管理者判定に失敗しました", zap.String("user", req.UserID), zap.Error(err))
	}
	if !authorized {
		return u.openError(ctx, req.TriggerID,
			"Only the OP or authorized admins can retry emojis added with emojibot.")
	}

	if len(req.Message.Files) == 0 {
		return u.openError(ctx, req.TriggerID, "No file found in the message.")
	}
	file := req.Message.Files[0]
	if file.URLPrivate == "" {
		return u.openError(ctx, req.TriggerID, "File URL not found.")
	}

	state := &domain.UploadState{
		MessageTS: req.Message.Timestamp,
		ChannelID: req.ChannelID,
		UserID:    req.UserID,
		File: domain.FileReference{
			FileID:   file.ID,
			URL:      file.URLPrivate,
			MimeType: file.MimeType,
		},
		EmojiName: retryEmojiName(req.Message.Text),
	}

	return u.proposePrompt(ctx, state, true)
}

// authorizeRetry は再試行の権限を検査する。元の投稿者、設定された管理者、
// ワークスペースの管理者のいずれかであれば許可する
func (u *Uploader) authorizeRetry(ctx context.Context, req domain.RetryRequest) (bool, error) {
	if req.UserID == req.Message.UserID {
		return true, nil
	}
	for _, admin := range u.cfg.Admins {
		if admin == req.UserID {
			return true, nil
		}
	}

	user, err := u.users.FindByID(ctx, req.UserID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// proposePrompt は選択ボタン付きのプロンプトをスレッドに投稿する。
// 全ボタンが同じシリアライズ済み状態を抱える
func (u *Uploader) proposePrompt(ctx context.Context, state *domain.UploadState, retry bool) error {
	value, err := state.Encode()
	if err != nil {
		return err
	}

	animated := state.IsAnimated()
	buttons := []domain.Button{
		{ActionID: actionID(retry, "normal"), Label: "as is", Style: "primary", Value: value},
	}
	if !animated {
		buttons = append(buttons,
			domain.Button{ActionID: actionID(retry, "remove_bg"), Label: "remove bg", Value: value})
	}
	buttons = append(buttons,
		domain.Button{ActionID: actionID(retry, "cancel"), Label: "nvm", Style: "danger", Value: value})

	if err := u.messenger.AddReaction(ctx, domain.ReactionWorking, state.ChannelID, state.MessageTS); err != nil {
		u.log.Warn("作業中リアクションの追加に失敗しました", zap.Error(err))
	}

	prompt := promptText(state.PrimaryName(), animated, retry)
	if _, err := u.messenger.PostThread(ctx, state.ChannelID, state.MessageTS, prompt, buttons); err != nil {
		return fmt.Errorf("プロンプト投稿エラー: %w", err)
	}

	u.images.Prefetch(state.File)
	return nil
}

// Process はボタン押下から復元した状態で絵文字をアップロードする。
// 内部の失敗はすべてプロンプトメッセージの更新に変換され、呼び出し元には
// 伝播させない
func (u *Uploader) Process(ctx context.Context, state *domain.UploadState, promptTS string, removeBackground, retry bool) {
	if err := u.messenger.Update(ctx, state.ChannelID, promptTS,
		processingText(state.PrimaryName(), removeBackground, retry)); err != nil {
		u.log.Warn("処理中表示への更新に失敗しました", zap.Error(err))
	}

	status, err := u.upload(ctx, state, removeBackground)
	if err != nil {
		u.log.Error("アップロード処理に失敗しました",
			zap.String("user", state.UserID), zap.Error(err))
		u.markFailed(ctx, state)
		status = fmt.Sprintf("Failed to process upload: %s", err)
	}

	if err := u.messenger.Update(ctx, state.ChannelID, promptTS, status); err != nil {
		u.log.Warn("結果表示への更新に失敗しました", zap.Error(err))
	}
}

// upload は画像の取得からエイリアス作成までの必須経路を実行し、
// 最終ステータス文面を返す。アプリケーションレベルの拒否は文面として返り、
// エラーはトランスポートレベルの失敗のみ
func (u *Uploader) upload(ctx context.Context, state *domain.UploadState, removeBackground bool) (string, error) {
	img, err := u.images.Acquire(ctx, state.File)
	if err != nil {
		return "", err
	}

	var warning string
	if removeBackground {
		p := pipeline.New(pipeline.Options{RemoveBackground: true, FitToEmojiSize: true}, u.remover)
		result := p.Execute(ctx, img, pipeline.Context{UserID: state.UserID})
		img = result.Data
		if len(result.Warnings) > 0 {
			warning = "\n:warning: " + strings.Join(result.Warnings, "; ")
		}
	}

	names := domain.ParseEmojiNames(state.EmojiName)
	if len(names) == 0 {
		return "", fmt.Errorf("有効な絵文字名がありません: %q", state.EmojiName)
	}
	primary, aliases := names[0], names[1:]

	result, err := u.emoji.Add(ctx, primary, img)
	if err != nil {
		return "", err
	}
	if !result.OK {
		u.log.Info("絵文字の追加が拒否されました",
			zap.String("user", state.UserID),
			zap.String("name", primary),
			zap.String("reason", result.Error))
		u.markFailed(ctx, state)
		return fmt.Sprintf("Failed to add `:%s:`:\n```\n%s\n```", primary, HumanizeEmojiError(result)), nil
	}

	u.log.Info("絵文字を追加しました",
		zap.String("user", state.UserID), zap.String("name", primary))

	// エイリアスはプライマリの成功後に登録順で作成する。
	// 1件の失敗は残りのエイリアスにもプライマリにも影響しない
	var succeeded, failed []string
	for _, alias := range aliases {
		aliasResult, aliasErr := u.emoji.Alias(ctx, alias, primary)
		if aliasErr != nil || !aliasResult.OK {
			failed = append(failed, alias)
			reason := ""
			if aliasErr != nil {
				reason = aliasErr.Error()
			} else {
				reason = aliasResult.Error
			}
			u.log.Warn("エイリアス作成に失敗しました",
				zap.String("alias", alias), zap.String("reason", reason))
			continue
		}
		succeeded = append(succeeded, alias)
		u.log.Info("エイリアスを作成しました",
			zap.String("alias", alias), zap.String("target", primary))
	}

	status := fmt.Sprintf(":%s: has been added", primary)
	if len(succeeded) > 0 {
		status += " with aliases: " + quoteNames(succeeded)
	}
	if len(failed) > 0 {
		status += "\n:warning: Failed to create aliases: " + quoteNames(failed)
	}
	status += warning
	status += fmt.Sprintf("\nthanks <@%s>!", state.UserID)

	u.removeWorkingReaction(ctx, state)
	if err := u.messenger.AddReaction(ctx, primary, state.ChannelID, state.MessageTS); err != nil {
		u.log.Warn("完了リアクションの追加に失敗しました",
			zap.String("name", primary), zap.Error(err))
	}

	return status, nil
}

// Cancel はプロンプトを破棄し、キャッシュと作業中リアクションを片付ける
func (u *Uploader) Cancel(ctx context.Context, state *domain.UploadState, promptTS string) {
	u.images.Evict(state.File.FileID)
	u.removeWorkingReaction(ctx, state)

	if err := u.messenger.Delete(ctx, state.ChannelID, promptTS); err != nil {
		u.log.Warn("プロンプトの削除に失敗しました", zap.Error(err))
	}
}

// OpenDeletePrompt は削除する絵文字名を入力するモーダルを開く
func (u *Uploader) OpenDeletePrompt(ctx context.Context, triggerID, channelID, userID, threadTS string) error {
	if channelID != u.cfg.Channel {
		return u.openError(ctx, triggerID,
			"This channel doesn't have any emojis managed by emojibot.")
	}

	meta := domain.DeleteMetadata{ThreadTS: threadTS, UserID: userID}
	encoded, err := meta.Encode()
	if err != nil {
		return err
	}
	return u.messenger.OpenDeleteView(ctx, triggerID, encoded)
}

// DeleteEmojis はモーダルで指定された絵文字を順に削除し、結果のサマリを
// スレッドに投稿する。失敗は絵文字ごとに分離される
func (u *Uploader) DeleteEmojis(ctx context.Context, metadata, namesRaw string) error {
	meta, err := domain.DecodeDeleteMetadata(metadata)
	if err != nil {
		return err
	}

	var removed, failed []string
	for _, name := range domain.ParseEmojiNames(namesRaw) {
		result, err := u.emoji.Remove(ctx, name)
		switch {
		case err != nil:
			failed = append(failed, fmt.Sprintf("`:%s:` (%s)", name, err))
			u.log.Warn("絵文字の削除に失敗しました", zap.String("name", name), zap.Error(err))
		case !result.OK:
			failed = append(failed, fmt.Sprintf("`:%s:` (%s)", name, result.Error))
			u.log.Warn("絵文字の削除が拒否されました",
				zap.String("name", name), zap.String("reason", result.Error))
		default:
			removed = append(removed, fmt.Sprintf("`:%s:`", name))
			u.log.Info("絵文字を削除しました",
				zap.String("user", meta.UserID), zap.String("name", name))
		}
	}

	var status []string
	if len(removed) > 0 {
		status = append(status, "Removed: "+strings.Join(removed, ", "))
	}
	if len(failed) > 0 {
		status = append(status, "Failed to remove: "+strings.Join(failed, ", "))
	}
	if len(status) == 0 {
		return nil
	}

	_, err = u.messenger.PostThread(ctx, u.cfg.Channel, meta.ThreadTS,
		strings.Join(status, "\n"), nil)
	return err
}

// markFailed は作業中リアクションを失敗リアクションに差し替える。
// どちらの操作もベストエフォートで、失敗はログに残すだけ
func (u *Uploader) markFailed(ctx context.Context, state *domain.UploadState) {
	u.removeWorkingReaction(ctx, state)
	if err := u.messenger.AddReaction(ctx, domain.ReactionBad, state.ChannelID, state.MessageTS); err != nil {
		u.log.Warn("失敗リアクションの追加に失敗しました", zap.Error(err))
	}
}

func (u *Uploader) removeWorkingReaction(ctx context.Context, state *domain.UploadState) {
	if err := u.messenger.RemoveReaction(ctx, domain.ReactionWorking, state.ChannelID, state.MessageTS); err != nil {
		u.log.Warn("作業中リアクションの削除に失敗しました", zap.Error(err))
	}
}

func (u *Uploader) openError(ctx context.Context, triggerID, reason string) error {
	if err := u.messenger.OpenErrorView(ctx, triggerID, reason); err != nil {
		return fmt.Errorf("エラービュー表示に失敗: %w", err)
	}
	return nil
}

func actionID(retry bool, suffix string) string {
	if retry {
		return "retry_" + suffix
	}
	return "upload_" + suffix
}

func promptText(name string, animated, retry bool) string {
	switch {
	case retry && animated:
		return fmt.Sprintf("Would you like to retry uploading `:%s:`?", name)
	case retry:
		return fmt.Sprintf("How would you like to retry uploading `:%s:`?", name)
	case animated:
		return fmt.Sprintf("Would you like to upload this as `:%s:`?", name)
	default:
		return fmt.Sprintf("How would you like to upload `:%s:`?", name)
	}
}

func processingText(name string, removeBackground, retry bool) string {
	switch {
	case retry && removeBackground:
		return fmt.Sprintf("Removing background and re-uploading `:%s:`...", name)
	case retry:
		return fmt.Sprintf("Re-uploading `:%s:`...", name)
	case removeBackground:
		return fmt.Sprintf("Removing background and uploading `:%s:`...", name)
	default:
		return fmt.Sprintf("Uploading `:%s:`...", name)
	}
}

func quoteNames(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		quoted = append(quoted, fmt.Sprintf("`:%s:`", name))
	}
	return strings.Join(quoted, ", ")
}

// retryEmojiName は過去メッセージの本文から名前文字列を復元する。
// ":name:" 形式ならコロンを外し、空なら "emoji" にフォールバックする
func retryEmojiName(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > 1 && strings.HasPrefix(trimmed, ":") && strings.HasSuffix(trimmed, ":") {
		return strings.Trim(trimmed, ":")
	}
	if trimmed == "" {
		return "emoji"
	}
	return trimmed
}
