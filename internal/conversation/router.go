package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/MoToViLoVArtem/bigolive-bot/internal/auditlog"
	"github.com/MoToViLoVArtem/bigolive-bot/internal/intake"
	"github.com/MoToViLoVArtem/bigolive-bot/internal/knowledge"
	"github.com/MoToViLoVArtem/bigolive-bot/internal/rategate"
)

// Notifier receives completed application summaries. Delivery failures are
// logged and swallowed; the user-facing confirmation has already been sent.
type Notifier interface {
	NotifyApplication(ctx context.Context, summary intake.Summary) error
}

// Recorder persists the chat audit trail. Same failure contract as Notifier.
type Recorder interface {
	Append(ctx context.Context, e auditlog.Entry) error
}

type Options struct {
	Gate         *rategate.Gate
	Index        *knowledge.Index
	QuickReplies []knowledge.QuickReply
	Notifier     Notifier
	Recorder     Recorder
	Logger       *slog.Logger
	Now          func() time.Time
}

type userSession struct {
	mu       sync.Mutex
	form     *intake.Session
	lastSeen time.Time
}

// Router owns all per-user conversation state. One instance is built at
// startup and shared by every event-handling goroutine; sessions are
// serialized per user, different users proceed in parallel.
type Router struct {
	gate     *rategate.Gate
	index    *knowledge.Index
	menu     []MenuEntry
	notifier Notifier
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[int64]*userSession
}

func NewRouter(opts Options) (*Router, error) {
	if opts.Gate == nil {
		return nil, fmt.Errorf("rate gate is required")
	}
	if opts.Index == nil {
		return nil, fmt.Errorf("knowledge index is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	menu := make([]MenuEntry, 0, len(opts.QuickReplies))
	for _, qr := range opts.QuickReplies {
		menu = append(menu, MenuEntry{Label: qr.Label, ActionID: qr.ActionID})
	}
	return &Router{
		gate:     opts.Gate,
		index:    opts.Index,
		menu:     menu,
		notifier: opts.Notifier,
		recorder: opts.Recorder,
		logger:   logger,
		now:      nowFn,
		sessions: make(map[int64]*userSession),
	}, nil
}

// Handle routes one inbound event and returns the outbound replies. The
// second result reports whether the event was admitted by the rate gate;
// dropped events produce no replies and no state changes, but the transport
// must still acknowledge dropped interactive actions.
func (r *Router) Handle(ctx context.Context, ev Event) ([]Reply, bool) {
	now := r.now()

	class := rategate.ClassMessage
	if ev.Class == ClassAction {
		class = rategate.ClassAction
	}
	if !r.gate.Admit(ev.UserID, class, now) {
		r.logger.Debug("event_rate_dropped", "event_id", ev.ID, "user_id", ev.UserID, "intent", ev.Intent.Kind.String())
		return nil, false
	}

	r.record(ctx, ev, auditlog.RoleUser, ev.Raw)

	s := r.session(ev.UserID, now)
	s.mu.Lock()
	replies := r.dispatch(ctx, s, ev)
	s.mu.Unlock()

	for _, rep := range replies {
		text := rep.Text
		if rep.ImageRef != "" {
			text = "[PHOTO] " + text
		}
		r.record(ctx, ev, auditlog.RoleBot, text)
	}
	return replies, true
}

// SessionState reports the user's current form state; users with no session
// yet are idle.
func (r *Router) SessionState(userID int64) intake.State {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	r.mu.Unlock()
	if !ok {
		return intake.StateIdle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.State()
}

// EvictIdle drops sessions that are idle and have not been seen for maxAge,
// along with rate-gate entries of the same age. Active applications are
// never evicted, so the sweep is invisible to anyone mid-form.
func (r *Router) EvictIdle(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}
	now := r.now()
	r.gate.Sweep(now, maxAge)
	cutoff := now.Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if !s.mu.TryLock() {
			continue
		}
		idle := s.form.State() == intake.StateIdle && s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *Router) session(userID int64, now time.Time) *userSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		s = &userSession{form: intake.NewSession()}
		r.sessions[userID] = s
	}
	s.lastSeen = now
	return s
}

// dispatch runs with the session lock held.
func (r *Router) dispatch(ctx context.Context, s *userSession, ev Event) []Reply {
	switch ev.Intent.Kind {
	case IntentGreeting:
		return []Reply{{Text: msgGreeting, Menu: r.mainMenu()}}

	case IntentHelp:
		return []Reply{{Text: msgHelp}}

	case IntentShowCategories:
		return []Reply{{Text: msgChooseCategory, Menu: r.categoryMenu()}}

	case IntentShowCategory:
		return r.showCategory(ev)

	case IntentShowItem:
		return r.showItem(ev)

	case IntentContact:
		return []Reply{{Text: msgContact, Menu: r.mainMenu()}}

	case IntentStartApplication:
		s.form.Start()
		return []Reply{{Text: msgAskName}}

	case IntentCancel:
		if s.form.State() == intake.StateIdle {
			return []Reply{{Text: msgNothingActive, Menu: r.mainMenu()}}
		}
		s.form.Reset()
		return []Reply{{Text: msgCancelled, Menu: r.mainMenu()}}

	case IntentFreeText:
		if s.form.State() != intake.StateIdle {
			return r.applyFormInput(ctx, s, ev)
		}
		return r.answerFreeText(ev)

	default:
		r.logger.Warn("unknown_intent", "event_id", ev.ID, "user_id", ev.UserID)
		return []Reply{{Text: msgFallback, Menu: r.mainMenu()}}
	}
}

func (r *Router) showCategory(ev Event) []Reply {
	items, err := r.index.ItemsOf(ev.Intent.Category)
	if err != nil {
		// The transport only relays action ids the router rendered, so this
		// is an internal bug or a forged callback, never a user mistake.
		r.logger.Error("knowledge_index_out_of_range", "event_id", ev.ID, "category", ev.Intent.Category, "error", err.Error())
		return []Reply{{Text: msgFallback, Menu: r.mainMenu()}}
	}
	title := r.index.Categories()[ev.Intent.Category]

	menu := make([]MenuEntry, 0, len(items)+1)
	for i, item := range items {
		label := "Question"
		if len(item.Patterns) > 0 && item.Patterns[0] != "" {
			label = capitalize(item.Patterns[0])
		}
		menu = append(menu, MenuEntry{Label: label, ActionID: itemAction(ev.Intent.Category, i)})
	}
	menu = append(menu, MenuEntry{Label: backLabel, ActionID: "faq"})

	return []Reply{{Text: "Category: " + title, Menu: menu}}
}

func (r *Router) showItem(ev Event) []Reply {
	item, err := r.index.ItemAt(ev.Intent.Category, ev.Intent.Item)
	if err != nil {
		r.logger.Error("knowledge_index_out_of_range", "event_id", ev.ID, "category", ev.Intent.Category, "item", ev.Intent.Item, "error", err.Error())
		return []Reply{{Text: msgFallback, Menu: r.mainMenu()}}
	}
	return []Reply{{Text: item.Answer, ImageRef: item.Image, Menu: r.mainMenu()}}
}

func (r *Router) answerFreeText(ev Event) []Reply {
	item, score := r.index.Resolve(ev.Intent.Text)
	if item == nil {
		r.logger.Debug("knowledge_no_match", "event_id", ev.ID, "user_id", ev.UserID, "score", score)
		return []Reply{{Text: msgFallback, Menu: r.mainMenu()}}
	}
	r.logger.Debug("knowledge_match", "event_id", ev.ID, "user_id", ev.UserID, "score", score)
	return []Reply{{Text: item.Answer, ImageRef: item.Image, Menu: r.mainMenu()}}
}

// applyFormInput runs with the session lock held and the form in a
// non-idle state.
func (r *Router) applyFormInput(ctx context.Context, s *userSession, ev Event) []Reply {
	res := s.form.Input(ev.Intent.Text)
	switch res.Outcome {
	case intake.OutcomeAdvanced:
		return []Reply{{Text: promptFor(res.State)}}

	case intake.OutcomeRetry:
		if res.State == intake.StateCollectingAge {
			return []Reply{{Text: msgAgeDigitsOnly}}
		}
		return []Reply{{Text: promptFor(res.State)}}

	case intake.OutcomeRejected:
		return []Reply{{Text: msgAgeRejected}}

	case intake.OutcomeCompleted:
		if r.notifier != nil && res.Summary != nil {
			if err := r.notifier.NotifyApplication(ctx, *res.Summary); err != nil {
				// The confirmation below is already owed to the user and is
				// never retracted over a back-office delivery failure.
				r.logger.Warn("staff_notify_error", "event_id", ev.ID, "user_id", ev.UserID, "error", err.Error())
			}
		}
		return []Reply{{Text: msgCompleted, Menu: r.mainMenu()}}

	default:
		return nil
	}
}

func promptFor(state intake.State) string {
	switch state {
	case intake.StateCollectingName:
		return msgAskName
	case intake.StateCollectingAge:
		return msgAskAge
	case intake.StateCollectingContact:
		return msgAskContact
	case intake.StateCollectingExperience:
		return msgAskExperience
	default:
		return msgFallback
	}
}

func (r *Router) mainMenu() []MenuEntry {
	menu := make([]MenuEntry, len(r.menu))
	copy(menu, r.menu)
	return menu
}

func (r *Router) categoryMenu() []MenuEntry {
	titles := r.index.Categories()
	menu := make([]MenuEntry, 0, len(titles))
	for i, title := range titles {
		if strings.TrimSpace(title) == "" {
			title = fmt.Sprintf("Category %d", i+1)
		}
		menu = append(menu, MenuEntry{Label: title, ActionID: categoryAction(i)})
	}
	return menu
}

func (r *Router) record(ctx context.Context, ev Event, role auditlog.Role, text string) {
	if r.recorder == nil {
		return
	}
	err := r.recorder.Append(ctx, auditlog.Entry{
		At:       r.now(),
		UserID:   ev.UserID,
		Username: ev.Username,
		Role:     role,
		Text:     text,
	})
	if err != nil {
		r.logger.Warn("audit_append_error", "event_id", ev.ID, "user_id", ev.UserID, "error", err.Error())
	}
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
