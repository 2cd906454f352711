package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/donaldgifford/shopify-price-alerts/internal/metrics"
)

// EmailSubject is the subject line of every price alert email.
const EmailSubject = "Product Price Alert"

const smtpsPort = 465

var emailHTML = template.Must(template.New("alert").Parse(`<h1>Price Alert for {{.Title}}</h1>
<p>The price has decreased by more than {{.Threshold}}%.</p>
<ul>
  <li>Old Price: ${{.OldPrice}}</li>
  <li>New Price: ${{.NewPrice}}</li>
  <li>Percentage Decrease: {{.Decrease}}%</li>
</ul>
{{- if .AdminURL}}
<p><a href="{{.AdminURL}}">View product in Shopify admin</a></p>
{{- end}}
`))

// MailSender delivers messages. *mail.Client satisfies it.
type MailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Timeout  time.Duration
}

// EmailNotifier implements Notifier via SMTP.
type EmailNotifier struct {
	from   string
	to     []string
	sender MailSender
}

// EmailOption configures an EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithMailSender replaces the SMTP client, typically with a test double.
func WithMailSender(s MailSender) EmailOption {
	return func(e *EmailNotifier) {
		e.sender = s
	}
}

// NewEmailNotifier creates an EmailNotifier. Authentication is enabled only
// when a username is configured; STARTTLS is used when the server offers it.
func NewEmailNotifier(cfg EmailConfig, opts ...EmailOption) (*EmailNotifier, error) {
	if cfg.From == "" {
		return nil, errors.New("email sender address is required")
	}
	if len(cfg.To) == 0 {
		return nil, errors.New("at least one email recipient is required")
	}

	e := &EmailNotifier{from: cfg.From, to: cfg.To}
	for _, opt := range opts {
		opt(e)
	}
	if e.sender != nil {
		return e, nil
	}

	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Port == smtpsPort {
		clientOpts = append(clientOpts, mail.WithSSL())
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating SMTP client: %w", err)
	}
	e.sender = client
	return e, nil
}

// SendAlert renders and sends a single alert email.
func (e *EmailNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	start := time.Now()
	defer func() {
		metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	}()

	msg, err := e.buildMessage(alert)
	if err != nil {
		return err
	}

	if err := e.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending alert email: %w", err)
	}
	return nil
}

func (e *EmailNotifier) buildMessage(alert *AlertPayload) (*mail.Msg, error) {
	html, err := RenderEmailHTML(alert)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(e.from); err != nil {
		return nil, fmt.Errorf("setting sender %q: %w", e.from, err)
	}
	if err := msg.To(e.to...); err != nil {
		return nil, fmt.Errorf("setting recipients: %w", err)
	}
	msg.Subject(EmailSubject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, RenderEmailText(alert))
	msg.AddAlternativeString(mail.TypeTextHTML, html)
	return msg, nil
}

type emailView struct {
	Title     string
	OldPrice  string
	NewPrice  string
	Decrease  string
	Threshold string
	AdminURL  string
}

func newEmailView(a *AlertPayload) emailView {
	return emailView{
		Title:     a.Title,
		OldPrice:  a.OldPrice.StringFixed(2),
		NewPrice:  a.NewPrice.StringFixed(2),
		Decrease:  a.PercentageDecrease.StringFixed(2),
		Threshold: a.Threshold.String(),
		AdminURL:  a.AdminURL,
	}
}

// RenderEmailHTML renders the HTML body of an alert email. The product
// title is escaped.
func RenderEmailHTML(a *AlertPayload) (string, error) {
	var buf bytes.Buffer
	if err := emailHTML.Execute(&buf, newEmailView(a)); err != nil {
		return "", fmt.Errorf("rendering alert email: %w", err)
	}
	return buf.String(), nil
}

// RenderEmailText renders the plain-text alternative of an alert email.
func RenderEmailText(a *AlertPayload) string {
	v := newEmailView(a)
	s := fmt.Sprintf("Price Alert for %s\n\n"+
		"The price has decreased by more than %s%%.\n\n"+
		"Old Price: $%s\nNew Price: $%s\nPercentage Decrease: %s%%\n",
		v.Title, v.Threshold, v.OldPrice, v.NewPrice, v.Decrease)
	if v.AdminURL != "" {
		s += "\n" + v.AdminURL + "\n"
	}
	return s
}
