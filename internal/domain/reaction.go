package domain

// アップロードの進行状態をメッセージに示すリアクション名
const (
	// ReactionWorking は処理中であることを示すリアクション
	ReactionWorking = "emojbot-working"
	// ReactionBad はアップロード失敗を示すリアクション
	ReactionBad = "emojibot-bad"
)
