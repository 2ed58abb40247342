package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadState_RoundTrip(t *testing.T) {
	original := &UploadState{
		MessageTS: "1700000000.000100",
		ChannelID: "C0123456789",
		UserID:    "U0123456789",
		File: FileReference{
			FileID:   "F0123456789",
			URL:      "https://files.slack.com/files-pri/T0-F0/cat.png",
			MimeType: "image/png",
		},
		EmojiName: "cat, kitty, meow",
	}

	encoded, err := original.Encode()
	require.NoError(t, err)

	decoded, err := DecodeUploadState(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

// ボタンのvalueに埋め込むJSONのキーが安定していること
func TestUploadState_EncodeKeys(t *testing.T) {
	state := &UploadState{File: FileReference{FileID: "F1"}}

	encoded, err := state.Encode()
	require.NoError(t, err)

	for _, key := range []string{"messageTs", "channelId", "userId", "file", "fileId", "slackUrl", "mimeType", "emojiName"} {
		assert.Contains(t, encoded, key)
	}
}

func TestDecodeUploadState_Invalid(t *testing.T) {
	_, err := DecodeUploadState("not json")
	assert.Error(t, err)
}

func TestUploadState_PrimaryName(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "単一の名前", raw: "cat", expected: "cat"},
		{name: "先頭の名前を返す", raw: "cat, kitty, meow", expected: "cat"},
		{name: "空文字列", raw: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &UploadState{EmojiName: tt.raw}
			assert.Equal(t, tt.expected, state.PrimaryName())
		})
	}
}

func TestUploadState_IsAnimated(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		expected bool
	}{
		{name: "GIFはアニメーション", mimeType: "image/gif", expected: true},
		{name: "大文字のGIFも判定される", mimeType: "IMAGE/GIF", expected: true},
		{name: "PNGは静止画", mimeType: "image/png", expected: false},
		{name: "JPEGは静止画", mimeType: "image/jpeg", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &UploadState{File: FileReference{MimeType: tt.mimeType}}
			assert.Equal(t, tt.expected, state.IsAnimated())
		})
	}
}
