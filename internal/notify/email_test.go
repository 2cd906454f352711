package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeSender struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, msgs ...*mail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msgs...)
	return nil
}

func testEmailConfig() EmailConfig {
	return EmailConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "alerts@example.com",
		To:   []string{"ops@example.com", "buyer@example.com"},
	}
}

func TestEmailNotifier_SendAlert(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	e, err := NewEmailNotifier(testEmailConfig(), WithMailSender(sender))
	require.NoError(t, err)

	alert := testAlert("25")
	require.NoError(t, e.SendAlert(context.Background(), &alert))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]

	assert.Equal(t, []string{EmailSubject}, msg.GetGenHeader(mail.HeaderSubject))
	rcpts, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ops@example.com", "buyer@example.com"}, rcpts)
}

func TestEmailNotifier_SendFailure(t *testing.T) {
	t.Parallel()

	e, err := NewEmailNotifier(testEmailConfig(), WithMailSender(&fakeSender{err: errors.New("connection refused")}))
	require.NoError(t, err)

	alert := testAlert("25")
	err = e.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending alert email")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEmailNotifier_InvalidSender(t *testing.T) {
	t.Parallel()

	cfg := testEmailConfig()
	cfg.From = "not an address"
	e, err := NewEmailNotifier(cfg, WithMailSender(&fakeSender{}))
	require.NoError(t, err)

	alert := testAlert("25")
	err = e.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setting sender")
}

func TestNewEmailNotifier_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*EmailConfig)
		wantErr string
	}{
		{name: "missing from", mutate: func(c *EmailConfig) { c.From = "" }, wantErr: "sender address is required"},
		{name: "missing recipients", mutate: func(c *EmailConfig) { c.To = nil }, wantErr: "recipient is required"},
		{name: "missing host", mutate: func(c *EmailConfig) { c.Host = "" }, wantErr: "creating SMTP client"},
		{name: "valid with auth", mutate: func(c *EmailConfig) { c.Username, c.Password = "user", "pass" }},
		{name: "valid smtps port", mutate: func(c *EmailConfig) { c.Port = 465 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testEmailConfig()
			tt.mutate(&cfg)

			e, err := NewEmailNotifier(cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, e.sender)
		})
	}
}

func TestRenderEmailHTML(t *testing.T) {
	t.Parallel()

	alert := testAlert("25")
	html, err := RenderEmailHTML(&alert)
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Price Alert for Widget</h1>")
	assert.Contains(t, html, "Old Price: $100.00")
	assert.Contains(t, html, "New Price: $75.00")
	assert.Contains(t, html, "Percentage Decrease: 25.00%")
	assert.Contains(t, html, "more than 10%")
	assert.Contains(t, html, `href="https://example.myshopify.com/admin/products/123"`)
}

func TestRenderEmailHTML_EscapesTitle(t *testing.T) {
	t.Parallel()

	alert := testAlert("25")
	alert.Title = `<script>alert("x")</script>`
	alert.AdminURL = ""

	html, err := RenderEmailHTML(&alert)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "href=")
}

func TestRenderEmailText(t *testing.T) {
	t.Parallel()

	alert := testAlert("33.3333")
	text := RenderEmailText(&alert)

	assert.True(t, strings.HasPrefix(text, "Price Alert for Widget\n"))
	assert.Contains(t, text, "Percentage Decrease: 33.33%")
	assert.Contains(t, text, alert.AdminURL)
}
