// Package condition contains the pure comparison logic for metric
// conditions. This is part of the Functional Core - no I/O, only pure
// functions.
package condition

import (
	"fmt"
	"math"

	"github.com/example/vigil/internal/core/rule"
)

// epsilon bounds the tolerance for eq comparisons. Exact equality on
// real-valued metrics is rarely meaningful; all other operators compare
// directly.
const epsilon = 1e-9

// Result captures one condition evaluation.
type Result struct {
	Triggered bool
	Reason    string // human-readable explanation of the outcome
}

// Evaluate compares a measured value against an operator/threshold pair.
// thresholdMax is only consulted for between (inclusive on both bounds)
// and must have been checked at rule-validation time; a nil max here is
// a programming error surfaced as not-triggered with a reason.
func Evaluate(op rule.Operator, value, threshold float64, thresholdMax *float64) Result {
	switch op {
	case rule.OpGT:
		return result(value > threshold, "%v > %v", value, threshold)
	case rule.OpLT:
		return result(value < threshold, "%v < %v", value, threshold)
	case rule.OpGTE:
		return result(value >= threshold, "%v >= %v", value, threshold)
	case rule.OpLTE:
		return result(value <= threshold, "%v <= %v", value, threshold)
	case rule.OpEQ:
		return result(math.Abs(value-threshold) <= epsilon, "%v == %v", value, threshold)
	case rule.OpBetween:
		if thresholdMax == nil {
			return Result{Triggered: false, Reason: "between operator missing upper bound"}
		}
		triggered := value >= threshold && value <= *thresholdMax
		return Result{
			Triggered: triggered,
			Reason:    fmt.Sprintf("%v in [%v, %v] = %v", value, threshold, *thresholdMax, triggered),
		}
	default:
		return Result{Triggered: false, Reason: fmt.Sprintf("unknown operator %q", op)}
	}
}

func result(triggered bool, format string, value, threshold float64) Result {
	return Result{
		Triggered: triggered,
		Reason:    fmt.Sprintf(format+" = %v", value, threshold, triggered),
	}
}
