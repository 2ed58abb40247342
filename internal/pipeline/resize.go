package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

// Slackの絵文字として受理される最大辺長
const maxEmojiDimension = 128

// FitToEmojiSizeStep は絵文字の上限サイズを超える画像を縮小するステップ。
// 上限以下の画像には手を付けない
type FitToEmojiSizeStep struct{}

// NewFitToEmojiSizeStep は新しいFitToEmojiSizeStepを作成する
func NewFitToEmojiSizeStep() *FitToEmojiSizeStep {
	return &FitToEmojiSizeStep{}
}

// Name はステップ名を返す
func (s *FitToEmojiSizeStep) Name() string {
	return "fitToEmojiSize"
}

// Run は縦横いずれかが上限を超える場合にアスペクト比を保ったまま縮小し、
// PNGとして再エンコードする
func (s *FitToEmojiSizeStep) Run(ctx context.Context, input domain.Image, pctx Context) Result {
	src, err := imaging.Decode(bytes.NewReader(input.Data))
	if err != nil {
		return Result{OK: false, Err: fmt.Sprintf("failed to decode image: %v", err), Data: input}
	}

	bounds := src.Bounds()
	if bounds.Dx() <= maxEmojiDimension && bounds.Dy() <= maxEmojiDimension {
		return Result{OK: true, Data: input}
	}

	resized := imaging.Fit(src, maxEmojiDimension, maxEmojiDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return Result{OK: false, Err: fmt.Sprintf("failed to encode resized image: %v", err), Data: input}
	}

	return Result{
		OK:   true,
		Data: domain.Image{Data: buf.Bytes(), MimeType: "image/png"},
	}
}
