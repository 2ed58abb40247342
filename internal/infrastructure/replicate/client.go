// Package replicate はReplicateでホストされる背景除去モデルを呼び出す
// クライアントを提供する
package replicate

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/pkg/errors"
	replicate "github.com/replicate/replicate-go"
)

const backgroundRemoverModel = "851-labs/background-remover:a029dff38972b5fda4ec5d75d7d1cd25aeff621d2cf4946a41055d7db66b80bc"

// HTTPClient は処理結果のURLを取得するための最小HTTPインターフェース
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client は背景除去モデルのクライアント。入力画像をdata URIとして送信し、
// モデル出力を解決してバイト列に正規化する
type Client struct {
	api  *replicate.Client
	http HTTPClient
}

// NewClient は新しいClientを作成する。baseURL が空でなければ
// プロキシ経由のエンドポイントを使う
func NewClient(token, baseURL string, httpClient HTTPClient) (*Client, error) {
	opts := []replicate.ClientOption{replicate.WithToken(token)}
	if baseURL != "" {
		opts = append(opts, replicate.WithBaseURL(baseURL))
	}

	api, err := replicate.NewClient(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create replicate client")
	}
	return &Client{api: api, http: httpClient}, nil
}

// Process は画像をモデルに送信し、背景を除去した画像のバイト列を返す
func (c *Client) Process(ctx context.Context, image []byte) ([]byte, error) {
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)
	input := replicate.PredictionInput{"image": dataURI}

	output, err := c.api.Run(ctx, backgroundRemoverModel, input, nil)
	if err != nil {
		return nil, errors.Wrap(err, "background removal failed")
	}

	resultURL, err := outputURL(output)
	if err != nil {
		return nil, err
	}
	return c.fetch(ctx, resultURL)
}

// outputURL はモデル出力の揺れ（URL文字列・urlフィールドを持つオブジェクト・
// URLのリスト）を1つのURLに正規化する
func outputURL(output replicate.PredictionOutput) (string, error) {
	switch v := output.(type) {
	case string:
		return v, nil
	case map[string]interface{}:
		if u, ok := v["url"].(string); ok && u != "" {
			return u, nil
		}
	case []interface{}:
		if len(v) > 0 {
			if u, ok := v[0].(string); ok && u != "" {
				return u, nil
			}
		}
	}
	return "", errors.Errorf("unexpected output from remove-bg model: %v", output)
}

func (c *Client) fetch(ctx context.Context, resultURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build result request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch processed image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("failed to fetch processed image: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read processed image")
	}
	return data, nil
}
