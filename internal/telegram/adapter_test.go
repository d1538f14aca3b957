package telegram

import (
	"testing"
	"time"

	"github.com/MoToViLoVArtem/bigolive-bot/internal/conversation"
)

func TestIntentFromText(t *testing.T) {
	cases := []struct {
		text string
		kind conversation.IntentKind
	}{
		{text: "/start", kind: conversation.IntentGreeting},
		{text: "/help", kind: conversation.IntentHelp},
		{text: "/faq", kind: conversation.IntentShowCategories},
		{text: "/faq@BigoHelperBot", kind: conversation.IntentShowCategories},
		{text: "/apply", kind: conversation.IntentStartApplication},
		{text: "/contact", kind: conversation.IntentContact},
		{text: "/cancel", kind: conversation.IntentCancel},
		{text: "/unknown", kind: conversation.IntentFreeText},
		{text: "how do i start", kind: conversation.IntentFreeText},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			if got := intentFromText(tc.text); got.Kind != tc.kind {
				t.Fatalf("intentFromText(%q).Kind = %v, want %v", tc.text, got.Kind, tc.kind)
			}
		})
	}
}

func TestIntentFromAction(t *testing.T) {
	cases := []struct {
		data     string
		ok       bool
		kind     conversation.IntentKind
		category int
		item     int
	}{
		{data: "faq", ok: true, kind: conversation.IntentShowCategories},
		{data: "apply", ok: true, kind: conversation.IntentStartApplication},
		{data: "contact", ok: true, kind: conversation.IntentContact},
		{data: "cancel", ok: true, kind: conversation.IntentCancel},
		{data: "cat:2", ok: true, kind: conversation.IntentShowCategory, category: 2},
		{data: "item:1:3", ok: true, kind: conversation.IntentShowItem, category: 1, item: 3},
		{data: "", ok: false},
		{data: "cat:x", ok: false},
		{data: "item:1", ok: false},
		{data: "item:a:b", ok: false},
		{data: "something-else", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.data, func(t *testing.T) {
			intent, ok := intentFromAction(tc.data)
			if ok != tc.ok {
				t.Fatalf("intentFromAction(%q) ok = %v, want %v", tc.data, ok, tc.ok)
			}
			if !ok {
				return
			}
			if intent.Kind != tc.kind || intent.Category != tc.category || intent.Item != tc.item {
				t.Fatalf("intentFromAction(%q) = %+v", tc.data, intent)
			}
		})
	}
}

func TestEventFromMessage(t *testing.T) {
	now := time.Unix(1700000000, 0)
	msg := &Message{
		MessageID: 3,
		Date:      1699999000,
		Chat:      &Chat{ID: 42, Type: "private"},
		From:      &User{ID: 42, Username: "ivan"},
		Text:      "  hello there  ",
	}
	ev, ok := EventFromMessage(msg, now)
	if !ok {
		t.Fatalf("EventFromMessage() skipped a valid message")
	}
	if ev.UserID != 42 || ev.Username != "ivan" {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Class != conversation.ClassMessage {
		t.Fatalf("class = %v", ev.Class)
	}
	if ev.Intent.Kind != conversation.IntentFreeText || ev.Intent.Text != "hello there" {
		t.Fatalf("intent = %+v", ev.Intent)
	}
	if ev.At != time.Unix(1699999000, 0).UTC() {
		t.Fatalf("at = %v", ev.At)
	}
	if ev.ID == "" {
		t.Fatalf("event has no id")
	}
}

func TestEventFromMessageSkips(t *testing.T) {
	now := time.Unix(1700000000, 0)
	cases := []struct {
		name string
		msg  *Message
	}{
		{name: "nil", msg: nil},
		{name: "no sender", msg: &Message{Chat: &Chat{ID: 1}, Text: "x"}},
		{name: "bot sender", msg: &Message{Chat: &Chat{ID: 1}, From: &User{ID: 2, IsBot: true}, Text: "x"}},
		{name: "empty text", msg: &Message{Chat: &Chat{ID: 1}, From: &User{ID: 2}, Text: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := EventFromMessage(tc.msg, now); ok {
				t.Fatalf("EventFromMessage() accepted %s", tc.name)
			}
		})
	}
}

func TestEventFromCallback(t *testing.T) {
	now := time.Unix(1700000000, 0)
	cb := &CallbackQuery{
		ID:   "cbq-9",
		From: &User{ID: 77, Username: "anna"},
		Data: "item:0:1",
	}
	ev, ok := EventFromCallback(cb, now)
	if !ok {
		t.Fatalf("EventFromCallback() skipped a valid callback")
	}
	if ev.Class != conversation.ClassAction || ev.UserID != 77 {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Intent.Kind != conversation.IntentShowItem || ev.Intent.Category != 0 || ev.Intent.Item != 1 {
		t.Fatalf("intent = %+v", ev.Intent)
	}
	if ev.Raw != "item:0:1" {
		t.Fatalf("raw = %q", ev.Raw)
	}

	if _, ok := EventFromCallback(&CallbackQuery{ID: "x", From: &User{ID: 1}, Data: "garbage"}, now); ok {
		t.Fatalf("EventFromCallback() accepted malformed data")
	}
}

func TestMarkupFromMenu(t *testing.T) {
	if MarkupFromMenu(nil) != nil {
		t.Fatalf("MarkupFromMenu(nil) != nil")
	}
	markup := MarkupFromMenu([]conversation.MenuEntry{
		{Label: "FAQ", ActionID: "faq"},
		{Label: "Apply", ActionID: "apply"},
	})
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want one button per row", len(markup.InlineKeyboard))
	}
	if markup.InlineKeyboard[1][0].CallbackData != "apply" {
		t.Fatalf("markup = %+v", markup)
	}
}
