package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// WebhookHandler returns the HTTP surface for webhook mode: Telegram posts
// updates to /telegram/webhook, /healthz answers liveness probes. The
// handler acknowledges immediately and processes through the same per-user
// workers as polling mode.
func (b *Bot) WebhookHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/telegram/webhook", func(w http.ResponseWriter, req *http.Request) {
		var u Update
		if err := json.NewDecoder(req.Body).Decode(&u); err != nil {
			b.logger.Warn("webhook_decode_error", "error", err.Error())
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		b.Dispatch(u)
		w.WriteHeader(http.StatusOK)
	})

	return r
}

// ServeWebhook runs the webhook HTTP server until ctx is done. The bot's
// workers keep running on the server's base context, so in-flight events
// finish during shutdown.
func (b *Bot) ServeWebhook(ctx context.Context, addr string) error {
	if b.idleTTL > 0 {
		go b.sweepLoop(ctx)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           b.WebhookHandler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	b.logger.Info("webhook_start", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
