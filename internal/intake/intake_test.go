package intake

import "testing"

func TestHappyPath(t *testing.T) {
	s := NewSession()
	s.Start()
	if s.State() != StateCollectingName {
		t.Fatalf("Start() state = %v", s.State())
	}

	if res := s.Input("Ivan Petrov"); res.Outcome != OutcomeAdvanced || res.State != StateCollectingAge {
		t.Fatalf("name input: %+v", res)
	}
	if res := s.Input("25"); res.Outcome != OutcomeAdvanced || res.State != StateCollectingContact {
		t.Fatalf("age input: %+v", res)
	}
	if res := s.Input("@ivan"); res.Outcome != OutcomeAdvanced || res.State != StateCollectingExperience {
		t.Fatalf("contact input: %+v", res)
	}

	res := s.Input("none")
	if res.Outcome != OutcomeCompleted {
		t.Fatalf("experience input: %+v", res)
	}
	if res.Summary == nil {
		t.Fatalf("completed without summary")
	}
	want := Summary{Name: "Ivan Petrov", Age: 25, Contact: "@ivan", Experience: "none"}
	if *res.Summary != want {
		t.Fatalf("summary = %+v, want %+v", *res.Summary, want)
	}
	if s.State() != StateIdle {
		t.Fatalf("state after completion = %v, want idle", s.State())
	}
	if len(s.Fields()) != 0 {
		t.Fatalf("fields after completion = %v, want empty", s.Fields())
	}
}

func TestAgeValidation(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		outcome Outcome
		state   State
	}{
		{name: "letters", input: "twenty", outcome: OutcomeRetry, state: StateCollectingAge},
		{name: "mixed", input: "18+", outcome: OutcomeRetry, state: StateCollectingAge},
		{name: "negative", input: "-5", outcome: OutcomeRetry, state: StateCollectingAge},
		{name: "empty", input: "   ", outcome: OutcomeRetry, state: StateCollectingAge},
		{name: "underage", input: "17", outcome: OutcomeRejected, state: StateIdle},
		{name: "boundary", input: "18", outcome: OutcomeAdvanced, state: StateCollectingContact},
		{name: "adult", input: "44", outcome: OutcomeAdvanced, state: StateCollectingContact},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession()
			s.Start()
			s.Input("Ivan Petrov")

			res := s.Input(tc.input)
			if res.Outcome != tc.outcome {
				t.Fatalf("outcome = %v, want %v", res.Outcome, tc.outcome)
			}
			if s.State() != tc.state {
				t.Fatalf("state = %v, want %v", s.State(), tc.state)
			}
		})
	}
}

func TestRetryDoesNotWriteFields(t *testing.T) {
	s := NewSession()
	s.Start()
	s.Input("Ivan Petrov")

	before := s.Fields()
	s.Input("not a number")
	after := s.Fields()

	if len(after) != len(before) {
		t.Fatalf("fields changed on retry: %v -> %v", before, after)
	}
	if _, ok := after["age"]; ok {
		t.Fatalf("age written on retry: %v", after)
	}
}

func TestUnderageClearsFields(t *testing.T) {
	s := NewSession()
	s.Start()
	s.Input("Ivan Petrov")
	s.Input("17")

	if s.State() != StateIdle {
		t.Fatalf("state = %v, want idle", s.State())
	}
	if len(s.Fields()) != 0 {
		t.Fatalf("fields = %v, want empty after rejection", s.Fields())
	}
}

func TestFieldsOnlyCoverPassedStates(t *testing.T) {
	s := NewSession()
	s.Start()
	if len(s.Fields()) != 0 {
		t.Fatalf("fields before any input = %v", s.Fields())
	}

	s.Input("Ivan Petrov")
	fields := s.Fields()
	if fields["name"] != "Ivan Petrov" {
		t.Fatalf("fields after name = %v", fields)
	}
	if _, ok := fields["age"]; ok {
		t.Fatalf("future field present: %v", fields)
	}

	s.Input("25")
	fields = s.Fields()
	if fields["age"] != 25 {
		t.Fatalf("fields after age = %v", fields)
	}
	if _, ok := fields["contact"]; ok {
		t.Fatalf("future field present: %v", fields)
	}
}

func TestRestartDiscardsProgress(t *testing.T) {
	s := NewSession()
	s.Start()
	s.Input("Ivan Petrov")
	s.Input("25")

	s.Start()
	if s.State() != StateCollectingName {
		t.Fatalf("state after restart = %v", s.State())
	}
	if len(s.Fields()) != 0 {
		t.Fatalf("fields after restart = %v, want empty", s.Fields())
	}
}

func TestInputWhileIdleIsIgnored(t *testing.T) {
	s := NewSession()
	if res := s.Input("hello"); res.Outcome != OutcomeIgnored {
		t.Fatalf("idle input: %+v", res)
	}
	if s.State() != StateIdle {
		t.Fatalf("state = %v, want idle", s.State())
	}
}

func TestNameAcceptsAnyNonEmptyText(t *testing.T) {
	s := NewSession()
	s.Start()
	if res := s.Input("  X Æ A-12  "); res.Outcome != OutcomeAdvanced {
		t.Fatalf("name input: %+v", res)
	}
	if s.Fields()["name"] != "X Æ A-12" {
		t.Fatalf("name not trimmed/stored: %v", s.Fields())
	}
}
