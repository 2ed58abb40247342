package service

import (
	"fmt"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

// slackEmojiErrors は絵文字APIが返すエラーコードと説明文の対応表
var slackEmojiErrors = map[string]string{
	"error_name_taken":            "An emoji with that name already exists.",
	"error_name_taken_i18n":       "An emoji or alias with that name already exists.",
	"error_bad_name_i18n":         "That name contains characters Slack doesn't allow in emoji names.",
	"error_missing_name":          "No emoji name was provided.",
	"error_no_image":              "Slack didn't receive an image with the request.",
	"error_bad_image":             "Slack couldn't read that image.",
	"error_bad_wide_image":        "That image is too wide to be an emoji.",
	"error_bad_format":            "That image format isn't supported for emoji.",
	"resized_but_still_too_large": "The image is too large even after resizing. Try a smaller one.",
	"error_too_slow":              "The upload took too long and Slack gave up.",
	"error_is_alias":              "That name already exists as an alias.",
	"no_permission":               "The bot's user isn't allowed to manage emoji in this workspace.",
	"not_authed":                  "The bot's Slack session has expired. Ask an admin to refresh it.",
	"invalid_auth":                "The bot's Slack session has expired. Ask an admin to refresh it.",
	"ratelimited":                 "Slack is rate limiting emoji changes. Try again in a bit.",
}

// HumanizeEmojiError はSlackのエラーコードを人間向けの説明文に変換する。
// 未知のコードはそのまま返す
func HumanizeEmojiError(result *domain.EmojiResult) string {
	if result == nil || result.Error == "" {
		return "Slack rejected the request without a reason."
	}
	if msg, ok := slackEmojiErrors[result.Error]; ok {
		return fmt.Sprintf("%s (%s)", msg, result.Error)
	}
	return result.Error
}
