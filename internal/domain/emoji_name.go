package domain

import (
	"path/filepath"
	"regexp"
	"strings"
)

var filenameSanitizer = regexp.MustCompile(`[^a-z0-9_-]`)

// ParseEmojiNames はユーザー入力の名前文字列を絵文字名のリストに解析する。
// カンマで分割し、コロンを除去、前後の空白を削り、小文字化し、空要素は捨てる。
// 先頭の要素がプライマリ名、残りがエイリアスになる
func ParseEmojiNames(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(part, ":", "")))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// DeriveEmojiName はメッセージ本文とファイル名から名前文字列を導出する。
// 本文が名前リストとして解釈できる場合（各要素に空白を含まない）はそのまま
// 使い、そうでなければ拡張子を除いたファイル名を英数字以外を_に置換して使う
func DeriveEmojiName(text, filename string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed != "" && !strings.Contains(trimmed, "\n") {
		if names := ParseEmojiNames(trimmed); len(names) > 0 && allBareTokens(names) {
			return trimmed
		}
	}

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return filenameSanitizer.ReplaceAllString(strings.ToLower(base), "_")
}

func allBareTokens(names []string) bool {
	for _, name := range names {
		if strings.ContainsAny(name, " \t") {
			return false
		}
	}
	return true
}
