package domain

import (
	"encoding/json"
	"fmt"
)

// DeleteMetadata は削除モーダルのprivate_metadataに埋め込む継続情報
type DeleteMetadata struct {
	ThreadTS string `json:"thread_ts"`
	UserID   string `json:"user"`
}

// Encode はメタデータをモーダルに埋め込むJSON文字列に変換する
func (m *DeleteMetadata) Encode() (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("削除メタデータのシリアライズに失敗: %w", err)
	}
	return string(data), nil
}

// DecodeDeleteMetadata はモーダルのprivate_metadataからメタデータを復元する
func DecodeDeleteMetadata(value string) (*DeleteMetadata, error) {
	var meta DeleteMetadata
	if err := json.Unmarshal([]byte(value), &meta); err != nil {
		return nil, fmt.Errorf("削除メタデータの復元に失敗: %w", err)
	}
	return &meta, nil
}
