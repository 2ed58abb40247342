package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

// HTTPClient は *http.Client 相当の最小インターフェース
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// EmojiRepository はセッションクッキー認証でワークスペースの絵文字APIを
// 呼び出すリポジトリ。これらのエンドポイントはブラウザ外からの利用が
// 想定されていないため、呼び出し頻度には注意すること。
// 名前の重複などアプリケーションレベルの拒否は EmojiResult で返し、
// トランスポートレベルの失敗のみエラーにする
type EmojiRepository struct {
	client     HTTPClient
	endpoint   string
	userToken  string
	cookie     string
	slackRoute string
}

// NewEmojiRepository は新しいEmojiRepositoryを作成する。
// slackRoute は emoji.remove が要求する "enterpriseID:teamID" 形式の識別子
func NewEmojiRepository(client HTTPClient, workspace, userToken, cookie, slackRoute string) *EmojiRepository {
	return &EmojiRepository{
		client:     client,
		endpoint:   "https://" + workspace + ".slack.com",
		userToken:  userToken,
		cookie:     cookie,
		slackRoute: slackRoute,
	}
}

type emojiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Add は画像を新しい絵文字としてアップロードする
func (r *EmojiRepository) Add(ctx context.Context, name string, image domain.Image) (*domain.EmojiResult, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	if err := r.writeFields(form, map[string]string{
		"token": r.userToken,
		"mode":  "data",
		"name":  name,
	}); err != nil {
		return nil, err
	}

	part, err := form.CreateFormFile("image", name+".png")
	if err != nil {
		return nil, errors.Wrap(err, "failed to build emoji form")
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, errors.Wrap(err, "failed to write image data")
	}
	if err := form.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize emoji form")
	}

	return r.post(ctx, "/api/emoji.add", nil, body, form.FormDataContentType())
}

// Alias はアップロード済みの絵文字を指す別名を作成する
func (r *EmojiRepository) Alias(ctx context.Context, aliasName, targetName string) (*domain.EmojiResult, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	if err := r.writeFields(form, map[string]string{
		"token":     r.userToken,
		"mode":      "alias",
		"name":      aliasName,
		"alias_for": targetName,
	}); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize alias form")
	}

	return r.post(ctx, "/api/emoji.add", nil, body, form.FormDataContentType())
}

// Remove は絵文字を削除する。emoji.remove はブラウザが付けるクエリ
// パラメータ一式がないと拒否される
func (r *EmojiRepository) Remove(ctx context.Context, name string) (*domain.EmojiResult, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	if err := r.writeFields(form, map[string]string{
		"token":     r.userToken,
		"name":      name,
		"_x_reason": "customize-emoji-remove",
		"_x_mode":   "online",
	}); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize remove form")
	}

	query := url.Values{
		"_x_id":          {uuid.NewString()},
		"slack_route":    {r.slackRoute},
		"_x_version_ts":  {"noversion"},
		"fp":             {"eb"},
		"_x_num_retries": {"0"},
	}

	return r.post(ctx, "/api/emoji.remove", query, body, form.FormDataContentType())
}

func (r *EmojiRepository) writeFields(form *multipart.Writer, fields map[string]string) error {
	for field, value := range fields {
		if err := form.WriteField(field, value); err != nil {
			return errors.Wrapf(err, "failed to write form field %q", field)
		}
	}
	return nil
}

func (r *EmojiRepository) post(ctx context.Context, path string, query url.Values, body *bytes.Buffer, contentType string) (*domain.EmojiResult, error) {
	endpoint := r.endpoint + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build request for %q", path)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cookie", r.cookie)
	setUA(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call %q", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("%q returned unexpected status: %s", path, resp.Status)
	}

	var parsed emojiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrapf(err, "failed to decode response from %q", path)
	}

	return &domain.EmojiResult{OK: parsed.OK, Error: parsed.Error}, nil
}
