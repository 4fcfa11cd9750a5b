package ladder

import (
	"testing"
	"time"
)

func TestShouldAct(t *testing.T) {
	tests := []struct {
		name        string
		highest     int
		matchedRank int
		want        bool
	}{
		{name: "dormant state acts on rank 1", highest: 0, matchedRank: 1, want: true},
		{name: "dormant state acts on any rank", highest: 0, matchedRank: 3, want: true},
		{name: "same rank never re-fires", highest: 2, matchedRank: 2, want: false},
		{name: "lower rank never re-fires", highest: 3, matchedRank: 1, want: false},
		{name: "next rank fires", highest: 2, matchedRank: 3, want: true},
		{name: "rank skip fires", highest: 1, matchedRank: 3, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := State{RuleID: "RULE-001", EntityID: "MS-001", HighestRank: tt.highest}
			if got := ShouldAct(st, tt.matchedRank); got != tt.want {
				t.Errorf("ShouldAct(highest=%d, matched=%d) = %v, want %v",
					tt.highest, tt.matchedRank, got, tt.want)
			}
		})
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		highest     int
		matched     bool
		matchedRank int
		want        Transition
	}{
		{name: "dormant no match stays dormant", highest: 0, matched: false, want: TransitionNone},
		{name: "dormant first match escalates", highest: 0, matched: true, matchedRank: 1, want: TransitionEscalate},
		{name: "repeat match at same rank is a no-op", highest: 2, matched: true, matchedRank: 2, want: TransitionNone},
		{name: "higher rank escalates", highest: 1, matched: true, matchedRank: 2, want: TransitionEscalate},
		{name: "condition cleared resets", highest: 2, matched: false, want: TransitionReset},
		{name: "match below high-water mark resets", highest: 3, matched: true, matchedRank: 1, want: TransitionReset},
		{name: "match one rank below resets", highest: 2, matched: true, matchedRank: 1, want: TransitionReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := State{HighestRank: tt.highest}
			if got := Decide(st, tt.matched, tt.matchedRank); got != tt.want {
				t.Errorf("Decide(highest=%d, matched=%v, rank=%d) = %v, want %v",
					tt.highest, tt.matched, tt.matchedRank, got, tt.want)
			}
		})
	}
}

func TestAdvanceRecordsProgressAndTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	st := State{RuleID: "RULE-001", EntityID: "MS-001"}

	st = Advance(st, "manager", 1, now)
	if st.HighestRank != 1 || st.HighestLevel != "manager" {
		t.Errorf("Advance() = rank %d level %q, want 1/manager", st.HighestRank, st.HighestLevel)
	}
	if !st.LastActionAt.Equal(now) || !st.LastEvaluatedAt.Equal(now) {
		t.Error("Advance() did not stamp action/evaluation times")
	}

	later := now.Add(48 * time.Hour)
	st = Advance(st, "admin", 3, later)
	if st.HighestRank != 3 || st.HighestLevel != "admin" {
		t.Errorf("Advance() = rank %d level %q, want 3/admin", st.HighestRank, st.HighestLevel)
	}
}

func TestResetClearsProgressionForRecurrence(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	st := State{RuleID: "RULE-001", EntityID: "MS-001", HighestRank: 3, HighestLevel: "admin"}

	st = Reset(st, now)
	if st.HighestRank != 0 || st.HighestLevel != "" {
		t.Errorf("Reset() = rank %d level %q, want dormant", st.HighestRank, st.HighestLevel)
	}

	// A recurrence after reset starts from the bottom again.
	if !ShouldAct(st, 1) {
		t.Error("ShouldAct(reset state, rank 1) = false, want true")
	}
}

func TestTouchOnlyUpdatesEvaluationTime(t *testing.T) {
	actioned := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	st := State{HighestRank: 2, HighestLevel: "director", LastActionAt: actioned}

	later := actioned.Add(time.Hour)
	st = Touch(st, later)
	if !st.LastEvaluatedAt.Equal(later) {
		t.Error("Touch() did not update LastEvaluatedAt")
	}
	if !st.LastActionAt.Equal(actioned) {
		t.Error("Touch() must not change LastActionAt")
	}
	if st.HighestRank != 2 {
		t.Error("Touch() must not change progression")
	}
}
