package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEmojiNames(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "単一の名前",
			raw:      "party-parrot",
			expected: []string{"party-parrot"},
		},
		{
			name:     "カンマ区切りのエイリアス付き",
			raw:      "cat, kitty, meow",
			expected: []string{"cat", "kitty", "meow"},
		},
		{
			name:     "コロンは除去される",
			raw:      ":cat:, :kitty:",
			expected: []string{"cat", "kitty"},
		},
		{
			name:     "大文字は小文字化される",
			raw:      "Cat, KITTY",
			expected: []string{"cat", "kitty"},
		},
		{
			name:     "空要素は捨てられる",
			raw:      "cat,, ,meow,",
			expected: []string{"cat", "meow"},
		},
		{
			name:     "空文字列",
			raw:      "",
			expected: nil,
		},
		{
			name:     "コロンと空白だけ",
			raw:      " :: , : ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseEmojiNames(tt.raw))
		})
	}
}

// 解析結果を結合してもう一度解析しても結果が変わらないこと
func TestParseEmojiNames_Idempotent(t *testing.T) {
	inputs := []string{
		"party-parrot",
		"cat, kitty, meow",
		":Cat:,, KITTY ,",
		"a,b,c,d",
	}

	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			once := ParseEmojiNames(raw)
			twice := ParseEmojiNames(strings.Join(once, ","))
			assert.Equal(t, once, twice)
		})
	}
}

func TestDeriveEmojiName(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		filename string
		expected string
	}{
		{
			name:     "本文が単一の名前",
			text:     "party-parrot",
			filename: "image.png",
			expected: "party-parrot",
		},
		{
			name:     "本文がカンマ区切りの名前リスト",
			text:     "cat, kitty, meow",
			filename: "image.png",
			expected: "cat, kitty, meow",
		},
		{
			name:     "本文が文章ならファイル名にフォールバック",
			text:     "look at this cool image",
			filename: "My Cat.png",
			expected: "my_cat",
		},
		{
			name:     "本文が空ならファイル名にフォールバック",
			text:     "",
			filename: "Party Parrot!.gif",
			expected: "party_parrot_",
		},
		{
			name:     "改行を含む本文はファイル名にフォールバック",
			text:     "cat\nkitty",
			filename: "neko.png",
			expected: "neko",
		},
		{
			name:     "コロンだけの本文はファイル名にフォールバック",
			text:     "::",
			filename: "smile.png",
			expected: "smile",
		},
		{
			name:     "ファイル名のハイフンとアンダースコアは保持",
			text:     "",
			filename: "cool-emoji_v2.png",
			expected: "cool-emoji_v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveEmojiName(tt.text, tt.filename))
		})
	}
}
