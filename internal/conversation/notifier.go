package conversation

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/platechef/internal/domain"
	"github.com/hammamikhairi/platechef/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bae6fd")).Bold(true)
	urgentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fca5a5")).Bold(true)
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes notifications to the terminal.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewCLINotifier creates a terminal notifier.
// If printFn is nil, lines go to stdout.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Debug("notify: %s", message)
	n.printFn("%s", noticeStyle.Render("  "+message))
	return nil
}

// NotifyUrgent prints an error or warning that needs the user's attention.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s", urgentStyle.Render("  ! "+message))
	return nil
}
