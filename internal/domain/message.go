package domain

import "strings"

// InboundFile は受信メッセージに添付されたファイルを表すドメインモデル
type InboundFile struct {
	ID         string
	Name       string
	MimeType   string
	URLPrivate string
}

// IsImage は絵文字の元画像として扱えるファイルかどうかを返す
func (f *InboundFile) IsImage() bool {
	return strings.HasPrefix(f.MimeType, "image/") && f.ID != "" && f.URLPrivate != ""
}

// InboundMessage はファイル付きの受信メッセージを表すドメインモデル
type InboundMessage struct {
	ChannelID string
	UserID    string
	Timestamp string
	Text      string
	Files     []InboundFile
}

// ImageFiles は添付のうち画像として扱えるものだけを返す
func (m *InboundMessage) ImageFiles() []InboundFile {
	images := make([]InboundFile, 0, len(m.Files))
	for _, f := range m.Files {
		if f.IsImage() {
			images = append(images, f)
		}
	}
	return images
}

// RetryRequest はメッセージショートカットによる再アップロード要求を表す。
// Message は対象の過去メッセージで、UserID はショートカットを起動したユーザー
type RetryRequest struct {
	TriggerID string
	ChannelID string
	UserID    string
	Message   InboundMessage
}
