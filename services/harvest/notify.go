package harvest

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"

	"gradharvest/lib/timezone"
)

type SmtpConfig struct {
	Host     string   `json:"host"`
	Port     int      `json:"port"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	From     string   `json:"from"`
	To       []string `json:"to"`
}

// Notifier emails a short digest after each run.
type Notifier struct {
	config SmtpConfig
}

func NewNotifier(config SmtpConfig) *Notifier {
	return &Notifier{config: config}
}

func (n *Notifier) RunCompleted(ctx context.Context, summary Summary) error {
	_, span := tracer.Start(ctx, "notifier:RunCompleted")
	defer span.End()

	msg := summaryEmail(n.config.From, n.config.To, summary)
	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)

	var auth smtp.Auth
	if n.config.Username != "" {
		auth = smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	}

	err := msg.Send(addr, auth)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send summary email")
		return err
	}
	return nil
}

func summaryEmail(from string, to []string, summary Summary) *email.Email {
	msg := email.NewEmail()
	msg.From = from
	msg.To = to
	msg.Subject = fmt.Sprintf(
		"harvest run %s: %d new records",
		summary.RunId, summary.NewRecords,
	)
	msg.Text = []byte(fmt.Sprintf(
		`query: %s
pages fetched: %d
pages failed: %d
new records: %d
total records: %d
duration: %s
finished: %s
`,
		summary.Query,
		summary.PagesFetched,
		summary.PagesFailed,
		summary.NewRecords,
		summary.TotalRecords,
		summary.Duration.Round(time.Millisecond),
		timezone.Now().Format(time.RFC1123),
	))
	return msg
}
