package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

func TestHumanizeEmojiError(t *testing.T) {
	tests := []struct {
		name     string
		result   *domain.EmojiResult
		expected string
	}{
		{
			name:     "既知のコードは説明文とコードの両方を返す",
			result:   &domain.EmojiResult{Error: "error_name_taken"},
			expected: "An emoji with that name already exists. (error_name_taken)",
		},
		{
			name:     "リサイズ後も大きすぎる場合",
			result:   &domain.EmojiResult{Error: "resized_but_still_too_large"},
			expected: "The image is too large even after resizing. Try a smaller one. (resized_but_still_too_large)",
		},
		{
			name:     "未知のコードはそのまま返す",
			result:   &domain.EmojiResult{Error: "error_brand_new_code"},
			expected: "error_brand_new_code",
		},
		{
			name:     "コードなしの拒否",
			result:   &domain.EmojiResult{},
			expected: "Slack rejected the request without a reason.",
		},
		{
			name:     "nilの結果",
			result:   nil,
			expected: "Slack rejected the request without a reason.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HumanizeEmojiError(tt.result))
		})
	}
}
