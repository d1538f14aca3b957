package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MoToViLoVArtem/bigolive-bot/internal/auditlog"
	"github.com/MoToViLoVArtem/bigolive-bot/internal/conversation"
	"github.com/MoToViLoVArtem/bigolive-bot/internal/knowledge"
	"github.com/MoToViLoVArtem/bigolive-bot/internal/rategate"
	"github.com/MoToViLoVArtem/bigolive-bot/internal/telegram"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot (long polling or webhook)",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := strings.TrimSpace(flagOrViperString(cmd, "telegram-bot-token", "telegram.bot_token"))
			if token == "" {
				return fmt.Errorf("missing telegram.bot_token (set via --telegram-bot-token or %s_TELEGRAM_BOT_TOKEN)", envPrefix)
			}

			logger, err := loggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			kbPath := flagOrViperString(cmd, "knowledge-path", "knowledge.path")
			threshold := flagOrViperFloat64(cmd, "match-threshold", "knowledge.match_threshold")
			index, quickReplies, err := knowledge.LoadWithThreshold(kbPath, threshold)
			if err != nil {
				return err
			}
			logger.Info("knowledge_loaded",
				"path", kbPath,
				"categories", len(index.Categories()),
				"threshold", threshold,
			)

			store, err := auditlog.Open(flagOrViperString(cmd, "audit-db", "audit.db_path"))
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			gate := rategate.New(rategate.Config{
				MessageInterval: viper.GetDuration("ratelimit.message_interval"),
				ActionInterval:  viper.GetDuration("ratelimit.action_interval"),
			})

			api := telegram.NewAPI(
				&http.Client{Timeout: 60 * time.Second},
				viper.GetString("telegram.api_base_url"),
				token,
			)
			notifier := telegram.NewNotifier(api, flagOrViperInt64(cmd, "admin-chat-id", "telegram.admin_chat_id"), logger)

			router, err := conversation.NewRouter(conversation.Options{
				Gate:         gate,
				Index:        index,
				QuickReplies: quickReplies,
				Notifier:     notifier,
				Recorder:     store,
				Logger:       logger,
			})
			if err != nil {
				return err
			}

			bot := telegram.NewBot(telegram.BotOptions{
				API:            api,
				Router:         router,
				Logger:         logger,
				SupportChatID:  flagOrViperInt64(cmd, "support-chat-id", "telegram.support_chat_id"),
				PollTimeout:    flagOrViperDuration(cmd, "poll-timeout", "telegram.poll_timeout"),
				TaskTimeout:    viper.GetDuration("telegram.task_timeout"),
				MaxConcurrency: flagOrViperInt(cmd, "max-concurrency", "telegram.max_concurrency"),
				SessionIdleTTL: viper.GetDuration("session.idle_ttl"),
				SweepEvery:     viper.GetDuration("session.sweep_every"),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mode := strings.ToLower(strings.TrimSpace(flagOrViperString(cmd, "mode", "telegram.mode")))
			switch mode {
			case "", "polling":
				err = bot.Run(ctx)
			case "webhook":
				err = bot.ServeWebhook(ctx, flagOrViperString(cmd, "webhook-listen", "telegram.webhook_listen"))
			default:
				return fmt.Errorf("unknown telegram.mode: %s (want polling or webhook)", mode)
			}
			if errors.Is(err, context.Canceled) {
				logger.Info("shutdown")
				return nil
			}
			return err
		},
	}

	cmd.Flags().String("telegram-bot-token", "", "Telegram Bot API token.")
	cmd.Flags().String("mode", "polling", "Update delivery: polling|webhook.")
	cmd.Flags().String("webhook-listen", ":8080", "Listen address for webhook mode.")
	cmd.Flags().Duration("poll-timeout", 30*time.Second, "Long-poll timeout for getUpdates.")
	cmd.Flags().Int("max-concurrency", 8, "Max events processed at once across users.")
	cmd.Flags().Int64("admin-chat-id", 0, "Chat that receives completed application summaries.")
	cmd.Flags().Int64("support-chat-id", 0, "Chat that receives a copy of every user message.")
	cmd.Flags().String("knowledge-path", "faq.yaml", "Knowledge base file (YAML or JSON).")
	cmd.Flags().Float64("match-threshold", knowledge.DefaultThreshold, "Minimum similarity for a knowledge match.")
	cmd.Flags().String("audit-db", "chatlog.db", "SQLite file for the conversation audit log.")

	return cmd
}
