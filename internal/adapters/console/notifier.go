// Package console delivers notifications to the terminal. It stands in
// for the design tool's real channels (team chat, email) so action
// dispatch has a concrete delivery target in a single-binary install.
package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/example/vigil/internal/ports/secondary"
)

// Notifier implements secondary.Notifier by writing to a terminal.
type Notifier struct {
	out io.Writer
}

// NewNotifier creates a console notifier writing to stdout.
func NewNotifier() *Notifier {
	return &Notifier{out: os.Stdout}
}

// NewNotifierTo creates a console notifier writing to w.
func NewNotifierTo(w io.Writer) *Notifier {
	return &Notifier{out: w}
}

// NotifyTeam delivers a message to a project's team channel.
func (n *Notifier) NotifyTeam(_ context.Context, projectID, message string) error {
	tag := color.New(color.FgHiCyan).Sprint("[notify]")
	_, err := fmt.Fprintf(n.out, "%s %s: %s\n", tag, projectID, message)
	if err != nil {
		return fmt.Errorf("failed to deliver team notification: %w", err)
	}
	return nil
}

// SendEmail delivers an email to explicit recipients.
func (n *Notifier) SendEmail(_ context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients for email %q", subject)
	}

	tag := color.New(color.FgHiYellow).Sprint("[email]")
	if _, err := fmt.Fprintf(n.out, "%s to: %v\n", tag, recipients); err != nil {
		return fmt.Errorf("failed to deliver email: %w", err)
	}
	if _, err := fmt.Fprintf(n.out, "%s subject: %s\n", tag, subject); err != nil {
		return fmt.Errorf("failed to deliver email: %w", err)
	}
	if body != "" {
		if _, err := fmt.Fprintf(n.out, "%s %s\n", tag, body); err != nil {
			return fmt.Errorf("failed to deliver email: %w", err)
		}
	}
	return nil
}

// Ensure Notifier implements the interface
var _ secondary.Notifier = (*Notifier)(nil)
