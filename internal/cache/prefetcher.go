package cache

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

// Prefetcher はプロンプト表示と並行して画像の先読みを開始し、消費時には
// キャッシュ→再ダウンロードの順で画像を取得する。同じファイルへの同時
// ダウンロードはsingleflightでまとめられる
type Prefetcher struct {
	cache *ImageCache
	files domain.FileRepository
	group singleflight.Group
	log   *zap.Logger
}

// NewPrefetcher は新しいPrefetcherを作成する
func NewPrefetcher(cache *ImageCache, files domain.FileRepository, log *zap.Logger) *Prefetcher {
	return &Prefetcher{cache: cache, files: files, log: log}
}

// Prefetch はバックグラウンドでダウンロードを開始する。失敗はログに残すのみで、
// 消費時のフォールバックで必ず回復できる。キャンセル後も進行中のダウンロードは
// 完了まで走り、キャッシュに入ったエントリはTTLで回収される
func (p *Prefetcher) Prefetch(ref domain.FileReference) {
	go func() {
		data, err := p.download(context.Background(), ref)
		if err != nil {
			p.log.Warn("画像の先読みに失敗しました",
				zap.String("file_id", ref.FileID), zap.Error(err))
			return
		}
		p.cache.Put(ref.FileID, domain.Image{Data: data, MimeType: ref.MimeType})
	}()
}

// Acquire はキャッシュから破壊的に画像を取得し、ミスした場合は
// 再ダウンロードする。キャッシュヒットは必須ではない
func (p *Prefetcher) Acquire(ctx context.Context, ref domain.FileReference) (domain.Image, error) {
	if img, ok := p.cache.Take(ref.FileID); ok {
		return img, nil
	}

	data, err := p.download(ctx, ref)
	if err != nil {
		return domain.Image{}, err
	}
	return domain.Image{Data: data, MimeType: ref.MimeType}, nil
}

// Evict はキャンセル時にキャッシュエントリを片付ける
func (p *Prefetcher) Evict(fileID string) {
	p.cache.Evict(fileID)
}

func (p *Prefetcher) download(ctx context.Context, ref domain.FileReference) ([]byte, error) {
	result, err, _ := p.group.Do(ref.FileID, func() (interface{}, error) {
		return p.files.Download(ctx, ref.URL)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}
