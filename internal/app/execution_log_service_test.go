package app

import (
	"context"
	"testing"

	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/ports/secondary"
)

func TestListEntries_NewestFirstWithFilters(t *testing.T) {
	logRepo := newMockExecutionLogRepository()
	svc := NewExecutionLogService(logRepo)
	ctx := context.Background()

	seed := []*secondary.ExecutionLogRecord{
		{RuleID: "RULE-001", EntityID: "MS-001", MatchedLevel: "manager", ActionsAttempted: []string{"notify_team"}, Status: secondary.ExecutionStatusSuccess},
		{RuleID: "RULE-001", EntityID: "MS-002", Status: secondary.ExecutionStatusSuccess},
		{RuleID: "RULE-002", EntityID: "MS-001", Status: secondary.ExecutionStatusError, ErrorMessage: "gateway down"},
	}
	for _, r := range seed {
		if err := logRepo.Append(ctx, r); err != nil {
			t.Fatalf("failed to seed log: %v", err)
		}
	}

	all, err := svc.ListEntries(ctx, primary.ExecutionLogFilters{})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("entries = %d, want 3", len(all))
	}
	if all[0].RuleID != "RULE-002" {
		t.Errorf("first entry = %s, want the newest", all[0].RuleID)
	}

	errored, err := svc.ListEntries(ctx, primary.ExecutionLogFilters{Status: secondary.ExecutionStatusError})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(errored) != 1 || errored[0].ErrorMessage != "gateway down" {
		t.Errorf("errored = %+v, want the failed entry with its message", errored)
	}

	limited, err := svc.ListEntries(ctx, primary.ExecutionLogFilters{Limit: 2})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited entries = %d, want 2", len(limited))
	}
}
