package domain

import "fmt"

// DownloadError はファイルダウンロードがHTTPレベルで失敗したことを表す。
// 必須経路（元画像の取得）で起きた場合はそのままユーザーに提示される
type DownloadError struct {
	Status string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download file: %s", e.Status)
}
