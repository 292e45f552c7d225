package notify

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/cleared-dev/splitbill/internal/config"
	"github.com/cleared-dev/splitbill/internal/model"
	"github.com/cleared-dev/splitbill/internal/money"
)

// ErrUnreconciled is returned when asked to announce a report whose owner
// totals do not match the statement.
var ErrUnreconciled = errors.New("report is not reconciled")

// Message is a composed email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Sender delivers a composed message.
type Sender interface {
	Send(msg Message) error
}

// Notifier composes household messages and hands them to a Sender.
type Notifier struct {
	cfg    config.NotifyConfig
	sender Sender
	now    func() time.Time
}

// New creates a Notifier.
func New(cfg config.NotifyConfig, sender Sender) *Notifier {
	return &Notifier{cfg: cfg, sender: sender, now: time.Now}
}

// Announce sends the per-owner amounts. Unreconciled reports are refused.
func (n *Notifier) Announce(report *model.Report) error {
	if !report.Reconciliation.OK {
		return fmt.Errorf("%w: difference %s", ErrUnreconciled, money.Format(report.Reconciliation.Difference))
	}
	if err := n.sender.Send(n.Compose(report)); err != nil {
		return fmt.Errorf("sending bill notice: %w", err)
	}
	return nil
}

// AnnounceFailure tells the household the bill could not be processed.
func (n *Notifier) AnnounceFailure(cause error) error {
	if err := n.sender.Send(n.ComposeFailure(cause)); err != nil {
		return fmt.Errorf("sending failure notice: %w", err)
	}
	return nil
}

// Compose builds the bill notice for a report.
func (n *Notifier) Compose(report *model.Report) Message {
	now := n.now()
	due := dueDate(now, n.cfg.DueDay)

	var b strings.Builder
	b.WriteString("Hi All,\n\n")
	fmt.Fprintf(&b, "Please check and pay the %s bill, due on %s.\n\n", n.carrier(), due.Format("Jan 2 2006"))
	b.WriteString(OwnerTable(report.Allocation.Owners))
	b.WriteString("\nNote: Generated through automation\n\n")
	b.WriteString("Regards,\n")
	b.WriteString(n.signature())
	b.WriteString("\n")

	return Message{
		From:    n.cfg.From,
		To:      n.cfg.To,
		Subject: fmt.Sprintf("Pay %s bill for %s", n.carrier(), now.Format("Jan 2006")),
		Body:    b.String(),
	}
}

// ComposeFailure builds the notice sent when a statement cannot be processed.
func (n *Notifier) ComposeFailure(cause error) Message {
	var b strings.Builder
	b.WriteString("Hi All,\n\n")
	fmt.Fprintf(&b, "Error in generation of %s bill details. %s is checking.\n\n", n.carrier(), n.signature())
	fmt.Fprintf(&b, "Reason: %v\n", cause)
	return Message{
		From:    n.cfg.From,
		To:      n.cfg.To,
		Subject: fmt.Sprintf("Pay %s bill: Error", n.carrier()),
		Body:    b.String(),
	}
}

// OwnerTable renders owners as a two-column text table.
func OwnerTable(owners []model.OwnerAllocation) string {
	var b strings.Builder
	table := tablewriter.NewWriter(&b)
	table.SetHeader([]string{"Person", "Individual amount"})
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, o := range owners {
		table.Append([]string{o.Owner, money.Format(o.Individual)})
	}
	table.Render()
	return b.String()
}

func (n *Notifier) carrier() string {
	if n.cfg.Carrier == "" {
		return "phone"
	}
	return n.cfg.Carrier
}

func (n *Notifier) signature() string {
	if n.cfg.SenderName != "" {
		return n.cfg.SenderName
	}
	if n.cfg.From != "" {
		return n.cfg.From
	}
	return "splitbill"
}

// dueDate is day dueDay of now's month, clamped to the month's length.
func dueDate(now time.Time, dueDay int) time.Time {
	if dueDay < 1 {
		dueDay = 1
	}
	last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	if dueDay > last {
		dueDay = last
	}
	return time.Date(now.Year(), now.Month(), dueDay, 0, 0, 0, 0, now.Location())
}
