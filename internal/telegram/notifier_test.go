package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MoToViLoVArtem/bigolive-bot/internal/intake"
)

func TestFormatSummaryFieldOrder(t *testing.T) {
	got := FormatSummary(intake.Summary{Name: "Ivan Petrov", Age: 25, Contact: "@ivan", Experience: "none"})
	lines := strings.Split(got, "\n")
	if len(lines) != 5 {
		t.Fatalf("summary lines = %d: %q", len(lines), got)
	}
	wantPrefixes := []string{"📝", "Name: Ivan Petrov", "Age: 25", "Contact: @ivan", "Experience: none"}
	for i, want := range wantPrefixes {
		if !strings.HasPrefix(lines[i], want) {
			t.Fatalf("line %d = %q, want prefix %q", i, lines[i], want)
		}
	}
}

func TestNotifierSendsToAdminChat(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewNotifier(NewAPI(srv.Client(), srv.URL, "TOKEN"), 555, nil)
	err := n.NotifyApplication(context.Background(), intake.Summary{Name: "Ivan", Age: 30, Contact: "@i", Experience: "none"})
	if err != nil {
		t.Fatalf("NotifyApplication() error = %v", err)
	}
	if got.ChatID != 555 || !strings.Contains(got.Text, "Name: Ivan") {
		t.Fatalf("request = %+v", got)
	}
}

func TestNotifierWithoutAdminChatLogsOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("no API call expected without an admin chat")
	}))
	defer srv.Close()

	n := NewNotifier(NewAPI(srv.Client(), srv.URL, "TOKEN"), 0, nil)
	if err := n.NotifyApplication(context.Background(), intake.Summary{Name: "Ivan", Age: 30}); err != nil {
		t.Fatalf("NotifyApplication() error = %v", err)
	}
}
