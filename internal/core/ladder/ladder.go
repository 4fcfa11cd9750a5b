// Package ladder tracks escalation progression per (rule, entity) pair.
// This is part of the Functional Core - no I/O, only pure functions.
package ladder

import "time"

// State is the per-(rule, entity) memory of how far escalation has
// progressed. A zero HighestRank means dormant: no level has been
// actioned since the last reset.
type State struct {
	RuleID          string
	EntityID        string
	HighestRank     int    // 1-based ladder position of the highest actioned level
	HighestLevel    string // tag of that level, for display and logging
	LastEvaluatedAt time.Time
	LastActionAt    time.Time
}

// Transition names what happened to the ladder state in one cycle.
type Transition string

const (
	// TransitionNone - matched level unchanged, or still dormant; a
	// pure idempotent no-op.
	TransitionNone Transition = "none"
	// TransitionEscalate - a level above the highest actioned one
	// matched; actions fire.
	TransitionEscalate Transition = "escalate"
	// TransitionReset - the condition cleared while state existed; the
	// ladder resets so a recurrence starts from the bottom.
	TransitionReset Transition = "reset"
)

// ShouldAct reports whether a matched level warrants new actions.
// Escalation is monotonic while the condition persists: a level at or
// below the highest already actioned never re-fires, which makes
// repeated evaluation cycles idempotent.
func ShouldAct(st State, matchedRank int) bool {
	return matchedRank > st.HighestRank
}

// Decide maps one evaluation outcome onto a ladder transition.
// The ladder resets whenever the condition no longer holds at the
// highest actioned level: no match at all, or a match below the
// high-water mark (a due date extension, a metric dropping back).
// This reset is a correctness requirement: a re-opened or re-occurring
// condition must escalate from the bottom again.
func Decide(st State, matched bool, matchedRank int) Transition {
	if !matched {
		if st.HighestRank > 0 {
			return TransitionReset
		}
		return TransitionNone
	}
	if matchedRank < st.HighestRank {
		return TransitionReset
	}
	if ShouldAct(st, matchedRank) {
		return TransitionEscalate
	}
	return TransitionNone
}

// Advance records that the matched level's actions were dispatched.
// Callers must persist the returned state before treating the
// escalation as done.
func Advance(st State, levelTag string, rank int, now time.Time) State {
	st.HighestRank = rank
	st.HighestLevel = levelTag
	st.LastEvaluatedAt = now
	st.LastActionAt = now
	return st
}

// Touch records an evaluation that produced no new action.
func Touch(st State, now time.Time) State {
	st.LastEvaluatedAt = now
	return st
}

// Reset clears progression so a future recurrence starts fresh.
func Reset(st State, now time.Time) State {
	st.HighestRank = 0
	st.HighestLevel = ""
	st.LastEvaluatedAt = now
	return st
}
