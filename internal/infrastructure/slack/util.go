package slack

import "net/http"

// セッションクッキーと同じブラウザ由来に見せるためのUser-Agent
func setUA(req *http.Request) {
	req.Header.Set(
		"User-Agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:128.0) Gecko/20100101 Firefox/128.0",
	)
}
