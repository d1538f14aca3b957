package main

import (
	"time"

	"github.com/spf13/viper"
)

func initViperDefaults() {
	// Telegram transport
	viper.SetDefault("telegram.api_base_url", "https://api.telegram.org")
	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.mode", "polling")
	viper.SetDefault("telegram.poll_timeout", 30*time.Second)
	viper.SetDefault("telegram.task_timeout", 30*time.Second)
	viper.SetDefault("telegram.max_concurrency", 8)
	viper.SetDefault("telegram.webhook_listen", ":8080")
	viper.SetDefault("telegram.admin_chat_id", int64(0))
	viper.SetDefault("telegram.support_chat_id", int64(0))

	// Knowledge base
	viper.SetDefault("knowledge.path", "faq.yaml")
	viper.SetDefault("knowledge.match_threshold", 0.63)

	// Rate limiting
	viper.SetDefault("ratelimit.message_interval", 800*time.Millisecond)
	viper.SetDefault("ratelimit.action_interval", 300*time.Millisecond)

	// Sessions
	viper.SetDefault("session.idle_ttl", 30*time.Minute)
	viper.SetDefault("session.sweep_every", 5*time.Minute)

	// Audit log
	viper.SetDefault("audit.db_path", "chatlog.db")
	viper.SetDefault("audit.recent_limit", 50)
}
