// Package message renders action message templates. Substitution is a
// fixed placeholder set - no arbitrary code execution.
package message

import (
	"strconv"
	"strings"
)

// Context carries the values available to message placeholders.
type Context struct {
	RuleName    string
	EntityID    string
	EntityName  string
	ProjectID   string
	Level       string
	DaysOverdue int
	Value       float64
	DueDate     string
}

// Render substitutes {placeholder} tokens in a template. Unknown
// tokens are left untouched.
func Render(template string, ctx Context) string {
	if template == "" {
		return ""
	}
	r := strings.NewReplacer(
		"{rule}", ctx.RuleName,
		"{entity}", ctx.EntityName,
		"{entity_id}", ctx.EntityID,
		"{project}", ctx.ProjectID,
		"{level}", ctx.Level,
		"{days_overdue}", strconv.Itoa(ctx.DaysOverdue),
		"{value}", strconv.FormatFloat(ctx.Value, 'f', -1, 64),
		"{due_date}", ctx.DueDate,
	)
	return r.Replace(template)
}
