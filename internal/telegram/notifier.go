package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MoToViLoVArtem/bigolive-bot/internal/intake"
)

// Notifier delivers completed application summaries to the admin chat.
type Notifier struct {
	api         *API
	adminChatID int64
	logger      *slog.Logger
}

func NewNotifier(api *API, adminChatID int64, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{api: api, adminChatID: adminChatID, logger: logger}
}

func (n *Notifier) NotifyApplication(ctx context.Context, s intake.Summary) error {
	text := FormatSummary(s)
	if n.adminChatID == 0 {
		// No admin chat configured; keep the application visible in the logs.
		n.logger.Info("application_summary", "name", s.Name, "age", s.Age, "contact", s.Contact, "experience", s.Experience)
		return nil
	}
	return n.api.SendMessage(ctx, n.adminChatID, text, nil)
}

// FormatSummary renders the summary in fixed field order.
func FormatSummary(s intake.Summary) string {
	return fmt.Sprintf("📝 New streamer application\nName: %s\nAge: %d\nContact: %s\nExperience: %s",
		s.Name, s.Age, s.Contact, s.Experience)
}
