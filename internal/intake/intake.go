// Package intake drives the application form: a linear state machine that
// collects name, age, contact and experience from one user, validates the
// age, and produces a summary on completion.
package intake

import (
	"strconv"
	"strings"
)

type State int

const (
	StateIdle State = iota
	StateCollectingName
	StateCollectingAge
	StateCollectingContact
	StateCollectingExperience
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollectingName:
		return "collecting_name"
	case StateCollectingAge:
		return "collecting_age"
	case StateCollectingContact:
		return "collecting_contact"
	case StateCollectingExperience:
		return "collecting_experience"
	default:
		return "unknown"
	}
}

// MinimumAge is the admission bar; younger applicants are rejected
// terminally rather than re-prompted.
const MinimumAge = 18

// Summary is the completed application in fixed field order.
type Summary struct {
	Name       string
	Age        int
	Contact    string
	Experience string
}

type Outcome int

const (
	// OutcomeIgnored: no application is active, the input was not consumed.
	OutcomeIgnored Outcome = iota
	// OutcomeAdvanced: the field was accepted, prompt for the new state.
	OutcomeAdvanced
	// OutcomeRetry: validation failed, re-prompt without changing state.
	OutcomeRetry
	// OutcomeRejected: the age gate fired, the application is over.
	OutcomeRejected
	// OutcomeCompleted: the final field was accepted; Summary is set.
	OutcomeCompleted
)

type Result struct {
	Outcome Outcome
	State   State
	Summary *Summary
}

// Session is one user's position in the form. It is not safe for concurrent
// use; the caller serializes access per user.
type Session struct {
	state State
	draft Summary
}

func NewSession() *Session {
	return &Session{state: StateIdle}
}

func (s *Session) State() State {
	return s.state
}

// Fields returns the values collected so far, keyed by field name. Only
// fields belonging to states already passed are present.
func (s *Session) Fields() map[string]any {
	fields := make(map[string]any)
	switch s.state {
	case StateCollectingAge:
		fields["name"] = s.draft.Name
	case StateCollectingContact:
		fields["name"] = s.draft.Name
		fields["age"] = s.draft.Age
	case StateCollectingExperience:
		fields["name"] = s.draft.Name
		fields["age"] = s.draft.Age
		fields["contact"] = s.draft.Contact
	}
	return fields
}

// Start begins the form, or restarts it from the first field when one is
// already in progress. Partially collected fields are discarded either way.
func (s *Session) Start() {
	s.draft = Summary{}
	s.state = StateCollectingName
}

// Reset aborts any in-progress application.
func (s *Session) Reset() {
	s.draft = Summary{}
	s.state = StateIdle
}

// Input feeds the next raw text into the form. Empty input (after trimming)
// re-prompts for the current field.
func (s *Session) Input(text string) Result {
	text = strings.TrimSpace(text)

	switch s.state {
	case StateIdle:
		return Result{Outcome: OutcomeIgnored, State: s.state}

	case StateCollectingName:
		if text == "" {
			return Result{Outcome: OutcomeRetry, State: s.state}
		}
		s.draft.Name = text
		s.state = StateCollectingAge
		return Result{Outcome: OutcomeAdvanced, State: s.state}

	case StateCollectingAge:
		if !isDigits(text) {
			return Result{Outcome: OutcomeRetry, State: s.state}
		}
		age, err := strconv.Atoi(text)
		if err != nil {
			return Result{Outcome: OutcomeRetry, State: s.state}
		}
		if age < MinimumAge {
			s.Reset()
			return Result{Outcome: OutcomeRejected, State: s.state}
		}
		s.draft.Age = age
		s.state = StateCollectingContact
		return Result{Outcome: OutcomeAdvanced, State: s.state}

	case StateCollectingContact:
		if text == "" {
			return Result{Outcome: OutcomeRetry, State: s.state}
		}
		s.draft.Contact = text
		s.state = StateCollectingExperience
		return Result{Outcome: OutcomeAdvanced, State: s.state}

	case StateCollectingExperience:
		if text == "" {
			return Result{Outcome: OutcomeRetry, State: s.state}
		}
		s.draft.Experience = text
		summary := s.draft
		s.Reset()
		return Result{Outcome: OutcomeCompleted, State: s.state, Summary: &summary}

	default:
		return Result{Outcome: OutcomeIgnored, State: s.state}
	}
}

func isDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
