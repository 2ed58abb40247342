package domain

import (
	"encoding/json"
	"fmt"
)

// FileReference はアップロード元画像への安定した参照を表す。
// ダウンロード済みかどうかに関係なく、この参照だけで画像を再取得できる
type FileReference struct {
	FileID   string `json:"fileId"`
	URL      string `json:"slackUrl"`
	MimeType string `json:"mimeType"`
}

// UploadState は1件の絵文字アップロードを複数のインタラクションにまたがって
// 運ぶ継続トークン。サーバ側のセッションテーブルは持たず、シリアライズした
// コピーを各ボタンのvalueに埋め込む（メッセージ自体が永続ストア）
type UploadState struct {
	MessageTS string        `json:"messageTs"`
	ChannelID string        `json:"channelId"`
	UserID    string        `json:"userId"`
	File      FileReference `json:"file"`
	// EmojiName はユーザー入力のままの名前文字列。カンマ区切りの
	// エイリアスを含むことがあり、解析は消費時に行う
	EmojiName string `json:"emojiName"`
}

// Encode は状態をボタンのvalueに埋め込むJSON文字列に変換する
func (s *UploadState) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("アップロード状態のシリアライズに失敗: %w", err)
	}
	return string(data), nil
}

// DecodeUploadState はボタンのvalueから状態を復元する
func DecodeUploadState(value string) (*UploadState, error) {
	var state UploadState
	if err := json.Unmarshal([]byte(value), &state); err != nil {
		return nil, fmt.Errorf("アップロード状態の復元に失敗: %w", err)
	}
	return &state, nil
}

// PrimaryName は表示用の先頭絵文字名を返す
func (s *UploadState) PrimaryName() string {
	names := ParseEmojiNames(s.EmojiName)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// IsAnimated は対象ファイルがアニメーション画像かどうかを返す
func (s *UploadState) IsAnimated() bool {
	return IsAnimatedMimeType(s.File.MimeType)
}
