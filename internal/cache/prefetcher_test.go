package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

// fakeFileRepository はダウンロード回数を数えるテスト用リポジトリ
type fakeFileRepository struct {
	mu    sync.Mutex
	data  []byte
	err   error
	calls int
}

func (f *fakeFileRepository) Download(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeFileRepository) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testRef() domain.FileReference {
	return domain.FileReference{
		FileID:   "F1",
		URL:      "https://files.slack.com/files-pri/T0-F1/cat.png",
		MimeType: "image/png",
	}
}

func TestPrefetcher_Acquire_CacheHit(t *testing.T) {
	c := NewImageCache()
	files := &fakeFileRepository{data: []byte("downloaded")}
	p := NewPrefetcher(c, files, zap.NewNop())

	cached := domain.Image{Data: []byte("cached"), MimeType: "image/png"}
	c.Put("F1", cached)

	img, err := p.Acquire(context.Background(), testRef())
	require.NoError(t, err)
	assert.Equal(t, cached, img)
	// ヒット時はダウンロードしない
	assert.Equal(t, 0, files.callCount())

	// 破壊的読み取りなので2回目はダウンロードにフォールバックする
	img, err = p.Acquire(context.Background(), testRef())
	require.NoError(t, err)
	assert.Equal(t, []byte("downloaded"), img.Data)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, 1, files.callCount())
}

func TestPrefetcher_Acquire_DownloadError(t *testing.T) {
	c := NewImageCache()
	files := &fakeFileRepository{err: errors.New("forbidden")}
	p := NewPrefetcher(c, files, zap.NewNop())

	_, err := p.Acquire(context.Background(), testRef())
	assert.Error(t, err)
}

func TestPrefetcher_Prefetch(t *testing.T) {
	c := NewImageCache()
	files := &fakeFileRepository{data: []byte("prefetched")}
	p := NewPrefetcher(c, files, zap.NewNop())

	p.Prefetch(testRef())

	require.Eventually(t, func() bool {
		return c.Len() == 1
	}, time.Second, 10*time.Millisecond)

	img, ok := c.Take("F1")
	require.True(t, ok)
	assert.Equal(t, []byte("prefetched"), img.Data)
}

func TestPrefetcher_Prefetch_FailureIsSilent(t *testing.T) {
	c := NewImageCache()
	files := &fakeFileRepository{err: errors.New("not found")}
	p := NewPrefetcher(c, files, zap.NewNop())

	p.Prefetch(testRef())

	require.Eventually(t, func() bool {
		return files.callCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, c.Len())
}

func TestPrefetcher_Evict(t *testing.T) {
	c := NewImageCache()
	p := NewPrefetcher(c, &fakeFileRepository{}, zap.NewNop())
	c.Put("F1", domain.Image{Data: []byte("png"), MimeType: "image/png"})

	p.Evict("F1")
	assert.Equal(t, 0, c.Len())
}
