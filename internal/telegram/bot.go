package telegram

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MoToViLoVArtem/bigolive-bot/internal/conversation"
)

const workerQueueSize = 16

type BotOptions struct {
	API    *API
	Router *conversation.Router
	Logger *slog.Logger

	// SupportChatID, when non-zero, receives a forward of every admitted
	// inbound user message.
	SupportChatID int64

	PollTimeout    time.Duration
	TaskTimeout    time.Duration
	MaxConcurrency int

	// SessionIdleTTL bounds how long idle sessions and stale rate entries
	// are kept. Zero disables the sweep.
	SessionIdleTTL time.Duration
	SweepEvery     time.Duration

	Now func() time.Time
}

type job struct {
	event       conversation.Event
	chatID      int64
	messageID   int64
	callbackID  string
	fromMessage bool
}

type chatWorker struct {
	jobs chan job
}

// Bot drives the router from Telegram updates. One worker goroutine per
// user keeps that user's events in arrival order; the shared semaphore caps
// how many users are processed at once.
type Bot struct {
	api           *API
	router        *conversation.Router
	logger        *slog.Logger
	supportChatID int64
	pollTimeout   time.Duration
	taskTimeout   time.Duration
	idleTTL       time.Duration
	sweepEvery    time.Duration
	nowFn         func() time.Time
	sem           chan struct{}

	mu      sync.Mutex
	workers map[int64]*chatWorker
}

func NewBot(opts BotOptions) *Bot {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pollTimeout := opts.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	taskTimeout := opts.TaskTimeout
	if taskTimeout <= 0 {
		taskTimeout = 30 * time.Second
	}
	maxConc := opts.MaxConcurrency
	if maxConc <= 0 {
		maxConc = 8
	}
	sweepEvery := opts.SweepEvery
	if sweepEvery <= 0 {
		sweepEvery = 5 * time.Minute
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Bot{
		api:           opts.API,
		router:        opts.Router,
		logger:        logger,
		supportChatID: opts.SupportChatID,
		pollTimeout:   pollTimeout,
		taskTimeout:   taskTimeout,
		idleTTL:       opts.SessionIdleTTL,
		sweepEvery:    sweepEvery,
		nowFn:         nowFn,
		sem:           make(chan struct{}, maxConc),
		workers:       make(map[int64]*chatWorker),
	}
}

// Run long-polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	me, err := b.api.GetMe(ctx)
	if err != nil {
		return err
	}
	b.logger.Info("telegram_start",
		"bot_username", me.Username,
		"bot_id", me.ID,
		"poll_timeout", b.pollTimeout.String(),
		"support_chat_configured", b.supportChatID != 0,
	)

	if b.idleTTL > 0 {
		go b.sweepLoop(ctx)
	}

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, next, err := b.api.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if IsPollTimeout(err) {
				continue
			}
			b.logger.Warn("telegram_poll_error", "error", err.Error())
			time.Sleep(2 * time.Second)
			continue
		}
		offset = next
		for _, u := range updates {
			b.Dispatch(u)
		}
	}
}

// Dispatch adapts one update and hands it to the owning user's worker. It
// never blocks the caller: a full worker queue drops the event. Processing
// itself runs on worker goroutines with a per-task timeout, so a canceled
// caller context never loses queued events.
func (b *Bot) Dispatch(u Update) {
	now := b.nowFn()

	var j job
	switch {
	case u.Message != nil:
		ev, ok := EventFromMessage(u.Message, now)
		if !ok {
			return
		}
		j = job{
			event:       ev,
			chatID:      u.Message.Chat.ID,
			messageID:   u.Message.MessageID,
			fromMessage: true,
		}
	case u.CallbackQuery != nil:
		cb := u.CallbackQuery
		ev, ok := EventFromCallback(cb, now)
		if !ok {
			// Even a malformed callback gets acknowledged so the client
			// clears its pending indicator.
			if cb.ID != "" {
				ctx, cancel := context.WithTimeout(context.Background(), b.taskTimeout)
				b.answerCallback(ctx, cb.ID)
				cancel()
			}
			return
		}
		j = job{event: ev, callbackID: cb.ID}
		if cb.Message != nil && cb.Message.Chat != nil {
			j.chatID = cb.Message.Chat.ID
		} else {
			j.chatID = ev.UserID
		}
	default:
		return
	}

	w := b.worker(j.event.UserID)
	select {
	case w.jobs <- j:
	default:
		b.logger.Warn("worker_queue_full", "user_id", j.event.UserID, "event_id", j.event.ID)
		if j.callbackID != "" {
			ctx, cancel := context.WithTimeout(context.Background(), b.taskTimeout)
			b.answerCallback(ctx, j.callbackID)
			cancel()
		}
	}
}

func (b *Bot) worker(userID int64) *chatWorker {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w, ok := b.workers[userID]; ok {
		return w
	}
	w := &chatWorker{jobs: make(chan job, workerQueueSize)}
	b.workers[userID] = w

	go func() {
		for j := range w.jobs {
			b.sem <- struct{}{}
			ctx, cancel := context.WithTimeout(context.Background(), b.taskTimeout)
			b.process(ctx, j)
			cancel()
			<-b.sem
		}
	}()
	return w
}

func (b *Bot) process(ctx context.Context, j job) {
	replies, admitted := b.router.Handle(ctx, j.event)

	// Callback acknowledgment is owed regardless of admission.
	if j.callbackID != "" {
		b.answerCallback(ctx, j.callbackID)
	}
	if !admitted {
		return
	}

	if j.fromMessage && b.supportChatID != 0 {
		if err := b.api.ForwardMessage(ctx, b.supportChatID, j.chatID, j.messageID); err != nil {
			b.logger.Warn("support_forward_error", "event_id", j.event.ID, "chat_id", j.chatID, "error", err.Error())
		}
	}

	for _, rep := range replies {
		b.deliver(ctx, j.chatID, rep)
	}
}

func (b *Bot) deliver(ctx context.Context, chatID int64, rep conversation.Reply) {
	markup := MarkupFromMenu(rep.Menu)
	var err error
	if rep.ImageRef != "" {
		err = b.api.SendPhoto(ctx, chatID, rep.ImageRef, rep.Text, markup)
	} else {
		err = b.api.SendMessage(ctx, chatID, rep.Text, markup)
	}
	if err != nil {
		b.logger.Warn("telegram_send_error", "chat_id", chatID, "error", err.Error())
	}
}

func (b *Bot) answerCallback(ctx context.Context, callbackID string) {
	if err := b.api.AnswerCallbackQuery(ctx, callbackID); err != nil {
		b.logger.Warn("telegram_callback_ack_error", "error", err.Error())
	}
}

func (b *Bot) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(b.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := b.router.EvictIdle(b.idleTTL)
			if removed > 0 {
				b.logger.Debug("sessions_evicted", "count", removed)
			}
		}
	}
}
