package slack

import (
	"context"

	"github.com/slack-go/slack"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

// Messenger はSlack APIを使用してメッセージの投稿・更新・リアクション操作を
// 行うリポジトリ
type Messenger struct {
	client *slack.Client
}

// NewMessenger は新しいMessengerを作成する
func NewMessenger(client *slack.Client) *Messenger {
	return &Messenger{client: client}
}

// PostThread はスレッドにメッセージを投稿する。buttons が空でなければ
// アクションブロックとして添付する。投稿したメッセージのtsを返す
func (m *Messenger) PostThread(ctx context.Context, channelID, threadTS, text string, buttons []domain.Button) (string, error) {
	blocks := []slack.Block{sectionBlock(text)}

	if len(buttons) > 0 {
		elements := make([]slack.BlockElement, 0, len(buttons))
		for _, b := range buttons {
			btn := slack.NewButtonBlockElement(b.ActionID, b.Value,
				slack.NewTextBlockObject(slack.PlainTextType, b.Label, false, false))
			if b.Style != "" {
				btn = btn.WithStyle(slack.Style(b.Style))
			}
			elements = append(elements, btn)
		}
		blocks = append(blocks, slack.NewActionBlock("", elements...))
	}

	_, ts, err := m.client.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTS),
		slack.MsgOptionBlocks(blocks...),
	)
	return ts, err
}

// Update は既存メッセージの本文を置き換える
func (m *Messenger) Update(ctx context.Context, channelID, ts, text string) error {
	_, _, _, err := m.client.UpdateMessageContext(ctx, channelID, ts,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(sectionBlock(text)),
	)
	return err
}

// Delete はメッセージを削除する
func (m *Messenger) Delete(ctx context.Context, channelID, ts string) error {
	_, _, err := m.client.DeleteMessageContext(ctx, channelID, ts)
	return err
}

// PostEphemeral は本人にだけ見えるメッセージを投稿する
func (m *Messenger) PostEphemeral(ctx context.Context, channelID, userID, text string) error {
	_, err := m.client.PostEphemeralContext(ctx, channelID, userID,
		slack.MsgOptionText(text, false))
	return err
}

// AddReaction はメッセージにリアクションを追加する
func (m *Messenger) AddReaction(ctx context.Context, name, channelID, ts string) error {
	return m.client.AddReactionContext(ctx, name, slack.NewRefToMessage(channelID, ts))
}

// RemoveReaction はメッセージからリアクションを外す
func (m *Messenger) RemoveReaction(ctx context.Context, name, channelID, ts string) error {
	return m.client.RemoveReactionContext(ctx, name, slack.NewRefToMessage(channelID, ts))
}

// OpenErrorView は理由を表示するだけのモーダルを開く
func (m *Messenger) OpenErrorView(ctx context.Context, triggerID, reason string) error {
	view := slack.ModalViewRequest{
		Type:  slack.VTModal,
		Title: slack.NewTextBlockObject(slack.PlainTextType, "Error", true, false),
		Close: slack.NewTextBlockObject(slack.PlainTextType, "Okay", true, false),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewContextBlock("",
				slack.NewTextBlockObject(slack.PlainTextType, reason, true, false)),
		}},
	}
	_, err := m.client.OpenViewContext(ctx, triggerID, view)
	return err
}

// OpenDeleteView は削除する絵文字名を入力するモーダルを開く
func (m *Messenger) OpenDeleteView(ctx context.Context, triggerID, metadata string) error {
	input := slack.NewInputBlock(DeleteBlockID,
		slack.NewTextBlockObject(slack.PlainTextType, "Emoji names", false, false),
		slack.NewTextBlockObject(slack.PlainTextType, "Comma separated, colons optional", false, false),
		slack.NewPlainTextInputBlockElement(
			slack.NewTextBlockObject(slack.PlainTextType, "cat, kitty", false, false),
			DeleteActionID),
	)

	view := slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      DeleteCallbackID,
		PrivateMetadata: metadata,
		Title:           slack.NewTextBlockObject(slack.PlainTextType, "Remove emoji", true, false),
		Submit:          slack.NewTextBlockObject(slack.PlainTextType, "Remove", true, false),
		Close:           slack.NewTextBlockObject(slack.PlainTextType, "Cancel", true, false),
		Blocks:          slack.Blocks{BlockSet: []slack.Block{input}},
	}
	_, err := m.client.OpenViewContext(ctx, triggerID, view)
	return err
}

// 削除モーダルのブロック/アクション識別子。ハンドラが入力値の取り出しに使う
const (
	DeleteCallbackID = "delete_view"
	DeleteBlockID    = "emoji_names"
	DeleteActionID   = "names"
)

func sectionBlock(text string) slack.Block {
	return slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
}
