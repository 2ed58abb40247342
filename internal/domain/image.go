package domain

import "strings"

// Image は処理対象の画像データを表す値オブジェクト。
// 一度生成されたら変更されず、パイプラインのステップ間で受け渡される
type Image struct {
	Data     []byte
	MimeType string
}

// IsAnimated はアニメーション画像かどうかを返す
func (i Image) IsAnimated() bool {
	return IsAnimatedMimeType(i.MimeType)
}

// IsEmpty は画像データが空かどうかを返す
func (i Image) IsEmpty() bool {
	return len(i.Data) == 0
}

// IsAnimatedMimeType はアニメーション画像のMIMEタイプかどうかを返す。
// アニメーション画像は背景除去の対象外
func IsAnimatedMimeType(mimeType string) bool {
	return strings.EqualFold(mimeType, "image/gif")
}
