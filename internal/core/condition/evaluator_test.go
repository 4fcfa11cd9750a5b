package condition

import (
	"testing"

	"github.com/example/vigil/internal/core/rule"
)

func f(v float64) *float64 { return &v }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		op            rule.Operator
		value         float64
		threshold     float64
		thresholdMax  *float64
		wantTriggered bool
	}{
		// gt
		{name: "gt below", op: rule.OpGT, value: 4, threshold: 5, wantTriggered: false},
		{name: "gt at", op: rule.OpGT, value: 5, threshold: 5, wantTriggered: false},
		{name: "gt above", op: rule.OpGT, value: 6, threshold: 5, wantTriggered: true},

		// lt
		{name: "lt below", op: rule.OpLT, value: 4, threshold: 5, wantTriggered: true},
		{name: "lt at", op: rule.OpLT, value: 5, threshold: 5, wantTriggered: false},
		{name: "lt above", op: rule.OpLT, value: 6, threshold: 5, wantTriggered: false},

		// gte
		{name: "gte below", op: rule.OpGTE, value: 4, threshold: 5, wantTriggered: false},
		{name: "gte at", op: rule.OpGTE, value: 5, threshold: 5, wantTriggered: true},
		{name: "gte above", op: rule.OpGTE, value: 6, threshold: 5, wantTriggered: true},

		// lte
		{name: "lte below", op: rule.OpLTE, value: 4, threshold: 5, wantTriggered: true},
		{name: "lte at", op: rule.OpLTE, value: 5, threshold: 5, wantTriggered: true},
		{name: "lte above", op: rule.OpLTE, value: 6, threshold: 5, wantTriggered: false},

		// eq uses an epsilon tolerance
		{name: "eq exact", op: rule.OpEQ, value: 5, threshold: 5, wantTriggered: true},
		{name: "eq within epsilon", op: rule.OpEQ, value: 5 + 1e-10, threshold: 5, wantTriggered: true},
		{name: "eq outside epsilon", op: rule.OpEQ, value: 5.001, threshold: 5, wantTriggered: false},

		// between is inclusive on both bounds
		{name: "between below", op: rule.OpBetween, value: 1, threshold: 2, thresholdMax: f(8), wantTriggered: false},
		{name: "between at lower", op: rule.OpBetween, value: 2, threshold: 2, thresholdMax: f(8), wantTriggered: true},
		{name: "between inside", op: rule.OpBetween, value: 5, threshold: 2, thresholdMax: f(8), wantTriggered: true},
		{name: "between at upper", op: rule.OpBetween, value: 8, threshold: 2, thresholdMax: f(8), wantTriggered: true},
		{name: "between above", op: rule.OpBetween, value: 9, threshold: 2, thresholdMax: f(8), wantTriggered: false},

		// guarded failure modes
		{name: "between missing max", op: rule.OpBetween, value: 5, threshold: 2, wantTriggered: false},
		{name: "unknown operator", op: rule.Operator("approx"), value: 5, threshold: 5, wantTriggered: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.op, tt.value, tt.threshold, tt.thresholdMax)
			if got.Triggered != tt.wantTriggered {
				t.Errorf("Evaluate(%s, %v, %v) Triggered = %v, want %v",
					tt.op, tt.value, tt.threshold, got.Triggered, tt.wantTriggered)
			}
			if got.Reason == "" {
				t.Errorf("Evaluate(%s, %v, %v) returned empty Reason", tt.op, tt.value, tt.threshold)
			}
		})
	}
}
