// Package conversation routes inbound chat events: explicit navigation
// actions dispatch directly, an active application consumes free text, and
// idle free text is resolved against the knowledge index.
package conversation

import (
	"fmt"
	"time"
)

// IntentKind is the transport-independent meaning of an inbound event. The
// adapter at the transport boundary produces it; the router never inspects
// transport types.
type IntentKind int

const (
	IntentFreeText IntentKind = iota
	IntentGreeting
	IntentHelp
	IntentShowCategories
	IntentShowCategory
	IntentShowItem
	IntentContact
	IntentStartApplication
	IntentCancel
)

func (k IntentKind) String() string {
	switch k {
	case IntentFreeText:
		return "free_text"
	case IntentGreeting:
		return "greeting"
	case IntentHelp:
		return "help"
	case IntentShowCategories:
		return "show_categories"
	case IntentShowCategory:
		return "show_category"
	case IntentShowItem:
		return "show_item"
	case IntentContact:
		return "contact"
	case IntentStartApplication:
		return "start_application"
	case IntentCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

type Intent struct {
	Kind IntentKind

	// Category and Item are set for IntentShowCategory / IntentShowItem.
	Category int
	Item     int

	// Text is set for IntentFreeText.
	Text string
}

type EventClass int

const (
	ClassMessage EventClass = iota
	ClassAction
)

// Event is one inbound chat event after transport adaptation.
type Event struct {
	ID       string
	UserID   int64
	Username string
	Class    EventClass
	Intent   Intent
	// Raw is the original text or action id, kept for the audit log.
	Raw string
	At  time.Time
}

// Reply is one outbound message. Menu, when present, is rendered by the
// transport as an interactive keyboard.
type Reply struct {
	Text     string
	Menu     []MenuEntry
	ImageRef string
}

type MenuEntry struct {
	Label    string
	ActionID string
}

func categoryAction(index int) string {
	return fmt.Sprintf("cat:%d", index)
}

func itemAction(category, item int) string {
	return fmt.Sprintf("item:%d:%d", category, item)
}
