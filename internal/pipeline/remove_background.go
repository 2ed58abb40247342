package pipeline

import (
	"context"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

// RemoveBackgroundStep は外部の推論サービスで画像の背景を除去するステップ。
// サービス側の失敗はすべて同一に扱い、元画像を返してフェイルオープンする
type RemoveBackgroundStep struct {
	remover domain.BackgroundRemover
}

// NewRemoveBackgroundStep は新しいRemoveBackgroundStepを作成する
func NewRemoveBackgroundStep(remover domain.BackgroundRemover) *RemoveBackgroundStep {
	return &RemoveBackgroundStep{remover: remover}
}

// Name はステップ名を返す
func (s *RemoveBackgroundStep) Name() string {
	return "removeBackground"
}

// Run は背景除去を実行する。成功時の出力は入力の形式に関係なくPNGになる
func (s *RemoveBackgroundStep) Run(ctx context.Context, input domain.Image, pctx Context) Result {
	if pctx.OnProgress != nil {
		pctx.OnProgress(s.Name(), "Processing background removal...")
	}

	processed, err := s.remover.Process(ctx, input.Data)
	if err != nil {
		return Result{OK: false, Err: err.Error(), Data: input}
	}

	return Result{
		OK:   true,
		Data: domain.Image{Data: processed, MimeType: "image/png"},
	}
}
