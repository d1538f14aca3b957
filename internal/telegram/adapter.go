package telegram

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MoToViLoVArtem/bigolive-bot/internal/conversation"
)

// EventFromMessage adapts a plain text message. Bot-authored messages and
// non-text updates are skipped.
func EventFromMessage(msg *Message, now time.Time) (conversation.Event, bool) {
	if msg == nil || msg.From == nil || msg.From.IsBot || msg.Chat == nil {
		return conversation.Event{}, false
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return conversation.Event{}, false
	}

	at := now
	if msg.Date > 0 {
		at = time.Unix(msg.Date, 0).UTC()
	}
	return conversation.Event{
		ID:       "evt_" + uuid.NewString(),
		UserID:   msg.From.ID,
		Username: handleFor(msg.From),
		Class:    conversation.ClassMessage,
		Intent:   intentFromText(text),
		Raw:      text,
		At:       at,
	}, true
}

// EventFromCallback adapts a button press. Callback payloads the router
// never rendered parse to out-of-range intents and are rejected there, not
// here; only structurally broken payloads are dropped.
func EventFromCallback(cb *CallbackQuery, now time.Time) (conversation.Event, bool) {
	if cb == nil || cb.From == nil {
		return conversation.Event{}, false
	}
	intent, ok := intentFromAction(strings.TrimSpace(cb.Data))
	if !ok {
		return conversation.Event{}, false
	}
	return conversation.Event{
		ID:       "evt_" + uuid.NewString(),
		UserID:   cb.From.ID,
		Username: handleFor(cb.From),
		Class:    conversation.ClassAction,
		Intent:   intent,
		Raw:      cb.Data,
		At:       now,
	}, true
}

// handleFor prefers the @username; users without one are identified by
// their display name in the audit trail.
func handleFor(u *User) string {
	if u.Username != "" {
		return u.Username
	}
	return DisplayName(u)
}

func intentFromText(text string) conversation.Intent {
	if !strings.HasPrefix(text, "/") {
		return conversation.Intent{Kind: conversation.IntentFreeText, Text: text}
	}
	command := text
	if i := strings.IndexAny(command, " \t"); i >= 0 {
		command = command[:i]
	}
	// Commands may carry the bot's username in group chats: /faq@SomeBot.
	if i := strings.Index(command, "@"); i >= 0 {
		command = command[:i]
	}
	switch strings.ToLower(command) {
	case "/start":
		return conversation.Intent{Kind: conversation.IntentGreeting}
	case "/help":
		return conversation.Intent{Kind: conversation.IntentHelp}
	case "/faq":
		return conversation.Intent{Kind: conversation.IntentShowCategories}
	case "/apply":
		return conversation.Intent{Kind: conversation.IntentStartApplication}
	case "/contact":
		return conversation.Intent{Kind: conversation.IntentContact}
	case "/cancel":
		return conversation.Intent{Kind: conversation.IntentCancel}
	default:
		// Unknown commands go to the knowledge base like any other text.
		return conversation.Intent{Kind: conversation.IntentFreeText, Text: text}
	}
}

func intentFromAction(data string) (conversation.Intent, bool) {
	switch data {
	case "":
		return conversation.Intent{}, false
	case "faq":
		return conversation.Intent{Kind: conversation.IntentShowCategories}, true
	case "apply":
		return conversation.Intent{Kind: conversation.IntentStartApplication}, true
	case "contact":
		return conversation.Intent{Kind: conversation.IntentContact}, true
	case "cancel":
		return conversation.Intent{Kind: conversation.IntentCancel}, true
	}

	if rest, ok := strings.CutPrefix(data, "cat:"); ok {
		category, err := strconv.Atoi(rest)
		if err != nil {
			return conversation.Intent{}, false
		}
		return conversation.Intent{Kind: conversation.IntentShowCategory, Category: category}, true
	}
	if rest, ok := strings.CutPrefix(data, "item:"); ok {
		parts := strings.SplitN(rest, ":", 2)
		if len(parts) != 2 {
			return conversation.Intent{}, false
		}
		category, err := strconv.Atoi(parts[0])
		if err != nil {
			return conversation.Intent{}, false
		}
		item, err := strconv.Atoi(parts[1])
		if err != nil {
			return conversation.Intent{}, false
		}
		return conversation.Intent{Kind: conversation.IntentShowItem, Category: category, Item: item}, true
	}
	return conversation.Intent{}, false
}

// MarkupFromMenu renders a reply's menu as an inline keyboard, one button
// per row.
func MarkupFromMenu(menu []conversation.MenuEntry) *InlineKeyboardMarkup {
	if len(menu) == 0 {
		return nil
	}
	rows := make([][]InlineKeyboardButton, 0, len(menu))
	for _, entry := range menu {
		rows = append(rows, []InlineKeyboardButton{{Text: entry.Label, CallbackData: entry.ActionID}})
	}
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}
