package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

// encodePNG は指定サイズの無地PNGを生成する
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func TestFitToEmojiSizeStep_Run(t *testing.T) {
	step := NewFitToEmojiSizeStep()

	t.Run("上限を超える画像は縮小される", func(t *testing.T) {
		input := domain.Image{Data: encodePNG(t, 256, 256), MimeType: "image/png"}

		result := step.Run(context.Background(), input, Context{})

		require.True(t, result.OK)
		decoded, err := imaging.Decode(bytes.NewReader(result.Data.Data))
		require.NoError(t, err)
		assert.LessOrEqual(t, decoded.Bounds().Dx(), maxEmojiDimension)
		assert.LessOrEqual(t, decoded.Bounds().Dy(), maxEmojiDimension)
		assert.Equal(t, "image/png", result.Data.MimeType)
	})

	t.Run("縮小時はアスペクト比が保たれる", func(t *testing.T) {
		input := domain.Image{Data: encodePNG(t, 512, 256), MimeType: "image/png"}

		result := step.Run(context.Background(), input, Context{})

		require.True(t, result.OK)
		decoded, err := imaging.Decode(bytes.NewReader(result.Data.Data))
		require.NoError(t, err)
		assert.Equal(t, 128, decoded.Bounds().Dx())
		assert.Equal(t, 64, decoded.Bounds().Dy())
	})

	t.Run("上限以下の画像はそのまま", func(t *testing.T) {
		input := domain.Image{Data: encodePNG(t, 64, 64), MimeType: "image/png"}

		result := step.Run(context.Background(), input, Context{})

		require.True(t, result.OK)
		assert.Equal(t, input, result.Data)
	})

	t.Run("デコードできない画像はフェイルオープン", func(t *testing.T) {
		input := domain.Image{Data: []byte("not an image"), MimeType: "image/png"}

		result := step.Run(context.Background(), input, Context{})

		assert.False(t, result.OK)
		assert.Equal(t, input, result.Data)
		assert.Contains(t, result.Err, "failed to decode image")
	})
}
