// Package config はボットの設定を環境変数とconfig.yamlから読み込む
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config はボットの設定値
type Config struct {
	// Channel はボットが監視するチャンネルID
	Channel string `mapstructure:"channel"`
	// Workspace はワークスペースのサブドメイン（<workspace>.slack.com）
	Workspace string `mapstructure:"workspace"`
	// Admins は他人の投稿を再試行できるユーザーIDのカンマ区切りリスト
	Admins string `mapstructure:"admins"`

	// BotToken はEvents API用のボットトークン（xoxb-）
	BotToken string `mapstructure:"bot_token"`
	// AppToken はSocket Mode用のアプリレベルトークン（xapp-）
	AppToken string `mapstructure:"app_token"`
	// UserToken は絵文字APIが要求するブラウザセッションのトークン（xoxc-）
	UserToken string `mapstructure:"user_token"`
	// Cookie は絵文字APIと非公開ファイルURLの認証に使うセッションクッキー
	Cookie string `mapstructure:"cookie"`

	// EnterpriseID と TeamID は emoji.remove の slack_route に使う
	EnterpriseID string `mapstructure:"enterprise_id"`
	TeamID       string `mapstructure:"team_id"`

	ReplicateToken   string `mapstructure:"replicate_token"`
	ReplicateBaseURL string `mapstructure:"replicate_base_url"`

	HealthAddr string `mapstructure:"health_addr"`
	LogLevel   string `mapstructure:"log_level"`
}

// Load は設定を読み込む。環境変数（EMOJIBOT_ プレフィックス）が
// config.yaml より優先される
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("emojibot")
	v.AutomaticEnv()

	for _, key := range []string{
		"channel", "workspace", "admins",
		"bot_token", "app_token", "user_token", "cookie",
		"enterprise_id", "team_id",
		"replicate_token", "replicate_base_url",
		"health_addr", "log_level",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("環境変数のバインドに失敗: %w", err)
		}
	}

	v.SetDefault("replicate_base_url", "https://ai.hackclub.com/proxy/v1/replicate")
	v.SetDefault("health_addr", ":3000")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定の解析エラー: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	for key, value := range map[string]string{
		"channel":    c.Channel,
		"workspace":  c.Workspace,
		"bot_token":  c.BotToken,
		"app_token":  c.AppToken,
		"user_token": c.UserToken,
		"cookie":     c.Cookie,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("設定が不足しています: %s", strings.Join(missing, ", "))
	}
	return nil
}

// AdminList はカンマ区切りの管理者設定をIDのリストに解析する
func (c *Config) AdminList() []string {
	if c.Admins == "" {
		return nil
	}
	var admins []string
	for _, admin := range strings.Split(c.Admins, ",") {
		if trimmed := strings.TrimSpace(admin); trimmed != "" {
			admins = append(admins, trimmed)
		}
	}
	return admins
}

// SlackRoute は emoji.remove が要求する "enterprise:team" 形式の識別子を返す
func (c *Config) SlackRoute() string {
	return c.EnterpriseID + ":" + c.TeamID
}
