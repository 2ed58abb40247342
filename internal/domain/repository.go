package domain

import "context"

// EmojiResult は絵文字APIのアプリケーションレベルの結果を表す。
// 名前の重複などの拒否はエラーではなくこの値で返る
type EmojiResult struct {
	OK    bool
	Error string
}

// EmojiRepository は絵文字の追加・エイリアス作成・削除を行うリポジトリインターフェース
type EmojiRepository interface {
	Add(ctx context.Context, name string, image Image) (*EmojiResult, error)
	Alias(ctx context.Context, aliasName, targetName string) (*EmojiResult, error)
	Remove(ctx context.Context, name string) (*EmojiResult, error)
}

// FileRepository はプラットフォーム内部のファイルをダウンロードするリポジトリインターフェース
type FileRepository interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// BackgroundRemover は画像の背景除去を行う外部サービスのインターフェース
type BackgroundRemover interface {
	Process(ctx context.Context, image []byte) ([]byte, error)
}

// UserRepository はユーザー情報を取得するリポジトリインターフェース
type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*User, error)
}

// Button は対話メッセージのアクションボタンを表す
type Button struct {
	ActionID string
	Label    string
	Style    string // "primary" / "danger" / ""
	Value    string
}

// Messenger はチャットプラットフォームへの投稿・更新・リアクション操作を行うインターフェース
type Messenger interface {
	PostThread(ctx context.Context, channelID, threadTS, text string, buttons []Button) (string, error)
	Update(ctx context.Context, channelID, ts, text string) error
	Delete(ctx context.Context, channelID, ts string) error
	PostEphemeral(ctx context.Context, channelID, userID, text string) error
	AddReaction(ctx context.Context, name, channelID, ts string) error
	RemoveReaction(ctx context.Context, name, channelID, ts string) error
	OpenErrorView(ctx context.Context, triggerID, reason string) error
	OpenDeleteView(ctx context.Context, triggerID, metadata string) error
}
