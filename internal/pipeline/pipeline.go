// Package pipeline は画像をオプションの処理ステップに順に通すパイプラインを提供する。
// ステップの失敗はパイプライン全体を中断せず、警告として記録したうえで
// 直前の正常な画像のまま処理を続行する（フェイルオープン方針）
package pipeline

import (
	"context"
	"fmt"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

// Context はパイプライン実行時の付帯情報
type Context struct {
	UserID string
	// OnProgress が設定されている場合、各ステップが進捗を通知する
	OnProgress func(step, status string)
}

// Result は1ステップの実行結果。Data は失敗時でも必ず設定される
// （部分的な結果がなければ入力をそのまま返す）
type Result struct {
	OK   bool
	Data domain.Image
	Err  string
}

// Step は画像を変換する処理ステップ
type Step interface {
	Name() string
	Run(ctx context.Context, input domain.Image, pctx Context) Result
}

// ExecResult はパイプライン全体の実行結果。Data は常に定義され、
// OK は警告が1件もなかった場合のみ true になる
type ExecResult struct {
	OK       bool
	Data     domain.Image
	Warnings []string
}

// Pipeline は登録順にステップを実行するパイプライン。
// 組み立て後は変更されない
type Pipeline struct {
	steps []Step
}

// AddStep はステップを末尾に追加する
func (p *Pipeline) AddStep(step Step) *Pipeline {
	p.steps = append(p.steps, step)
	return p
}

// Execute は入力画像を全ステップに順に通す。各ステップは直前のステップの
// 出力を受け取る。ステップが失敗しても中断せず「ステップ名: 理由」を
// 警告として記録して次のステップに進む
func (p *Pipeline) Execute(ctx context.Context, input domain.Image, pctx Context) ExecResult {
	current := input
	var warnings []string

	for _, step := range p.steps {
		result := step.Run(ctx, current, pctx)
		if !result.OK {
			warnings = append(warnings, fmt.Sprintf("%s: %s", step.Name(), result.Err))
		}
		if !result.Data.IsEmpty() {
			current = result.Data
		}
	}

	return ExecResult{
		OK:       len(warnings) == 0,
		Data:     current,
		Warnings: warnings,
	}
}

// Options はパイプラインの組み立てオプション。false のフラグはステップを追加しない
type Options struct {
	RemoveBackground bool
	FitToEmojiSize   bool
}

// New はオプションからパイプラインを組み立てる
func New(opts Options, remover domain.BackgroundRemover) *Pipeline {
	p := &Pipeline{}
	if opts.RemoveBackground {
		p.AddStep(NewRemoveBackgroundStep(remover))
	}
	if opts.FitToEmojiSize {
		p.AddStep(NewFitToEmojiSizeStep())
	}
	return p
}
