package domain

// User はSlackユーザーを表すドメインモデル
type User struct {
	ID      string
	Name    string
	IsAdmin bool
}
