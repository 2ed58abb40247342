// Package cache はプロンプト表示からボタン押下までの間だけ画像を保持する
// 短命キャッシュを提供する。キャッシュはレイテンシ最適化であって正当性の
// 前提ではなく、ミスした場合は常に再ダウンロードで回復できる
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

const (
	defaultSize = 256
	// 放置されたエントリ（キャンセルされないまま消費もされなかった
	// アップロード）はTTLで回収する
	defaultTTL = 15 * time.Minute
)

// ImageCache は先読みした画像をfileIdで保持するプロセス内キャッシュ
type ImageCache struct {
	store *expirable.LRU[string, domain.Image]
}

// NewImageCache は新しいImageCacheを作成する
func NewImageCache() *ImageCache {
	return &ImageCache{
		store: expirable.NewLRU[string, domain.Image](defaultSize, nil, defaultTTL),
	}
}

// Put は画像をキャッシュに登録する
func (c *ImageCache) Put(fileID string, img domain.Image) {
	c.store.Add(fileID, img)
}

// Take は画像を取得すると同時にエントリを削除する（破壊的読み取り）。
// 同じキーへの2回目の呼び出しはミスになり、呼び出し側が再ダウンロードに
// フォールバックする
func (c *ImageCache) Take(fileID string) (domain.Image, bool) {
	img, ok := c.store.Get(fileID)
	if ok {
		c.store.Remove(fileID)
	}
	return img, ok
}

// Evict はエントリを削除する。存在しないキーには何もしない
func (c *ImageCache) Evict(fileID string) {
	c.store.Remove(fileID)
}

// Len は現在のエントリ数を返す
func (c *ImageCache) Len() int {
	return c.store.Len()
}
