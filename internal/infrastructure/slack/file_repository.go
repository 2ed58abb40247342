package slack

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

// FileRepository はクッキー認証付きでSlackの非公開ファイルURLを
// ダウンロードするリポジトリ
type FileRepository struct {
	client HTTPClient
	cookie string
}

// NewFileRepository は新しいFileRepositoryを作成する
func NewFileRepository(client HTTPClient, cookie string) *FileRepository {
	return &FileRepository{client: client, cookie: cookie}
}

// Download はURLのファイルをバイト列として取得する。
// HTTPレベルの失敗は domain.DownloadError で返す
func (r *FileRepository) Download(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build download request")
	}
	req.Header.Set("Cookie", r.cookie)
	setUA(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download file")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.DownloadError{Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file body")
	}
	return data, nil
}
