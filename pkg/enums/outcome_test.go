package enums

import "testing"

func TestOutcomeSemantics(t *testing.T) {
	tests := []struct {
		outcome     Outcome
		terminal    bool
		countsSaved bool
	}{
		{OutcomeActive, false, false},
		{OutcomeKept, true, false},
		{OutcomeCancelled, true, true},
		{OutcomeExpired, true, true},
	}
	for _, tc := range tests {
		if got := tc.outcome.IsTerminal(); got != tc.terminal {
			t.Fatalf("%s: IsTerminal = %v, want %v", tc.outcome, got, tc.terminal)
		}
		if got := tc.outcome.CountsAsSaved(); got != tc.countsSaved {
			t.Fatalf("%s: CountsAsSaved = %v, want %v", tc.outcome, got, tc.countsSaved)
		}
	}
}

func TestParseOutcomeDefaultsEmptyToActive(t *testing.T) {
	outcome, err := ParseOutcome("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeActive {
		t.Fatalf("expected active, got %s", outcome)
	}
	if _, err := ParseOutcome("renewed"); err == nil {
		t.Fatal("expected error for unknown outcome")
	}
}

func TestParseBillingFrequencyDefaultsEmptyToMonthly(t *testing.T) {
	freq, err := ParseBillingFrequency("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if freq != BillingFrequencyMonthly {
		t.Fatalf("expected monthly, got %s", freq)
	}
	if _, err := ParseBillingFrequency("daily"); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
}

func TestParseDirectorySortDefaultsEmptyToScore(t *testing.T) {
	sort, err := ParseDirectorySort("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sort != DirectorySortScore {
		t.Fatalf("expected score, got %s", sort)
	}
	if _, err := ParseDirectorySort("price"); err == nil {
		t.Fatal("expected error for unknown sort")
	}
}
