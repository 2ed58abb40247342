package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

// UserRepository はSlack APIを使用してユーザー情報を取得するリポジトリ
type UserRepository struct {
	client *slack.Client
}

// NewUserRepository は新しいUserRepositoryを作成する
func NewUserRepository(client *slack.Client) *UserRepository {
	return &UserRepository{client: client}
}

// FindByID は指定されたIDのユーザーを取得する
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := r.client.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザー情報取得エラー: %w", err)
	}

	return &domain.User{
		ID:      user.ID,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
	}, nil
}
