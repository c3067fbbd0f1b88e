package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewSMTPMailerValidatesConfig(t *testing.T) {
	_, err := NewSMTPMailer(SMTPSettings{Enabled: true})
	require.ErrorContains(t, err, "host is required")

	_, err = NewSMTPMailer(SMTPSettings{Enabled: true, Host: "smtp.example.com"})
	require.ErrorContains(t, err, "port is required")

	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, mailer)
}

func TestSMTPMailerSendDisabled(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{
		To:      []string{"guest@example.com"},
		Subject: "Reset",
		Body:    "Hello",
	})
	require.ErrorIs(t, err, ErrSMTPDisabled)
}

func TestFormatMessage(t *testing.T) {
	sent := time.Date(2026, 6, 20, 15, 0, 0, 0, time.UTC)
	content := formatMessage("from@example.com", []string{"to@example.com"}, "Subject\r\nBreak", "Body", sent)

	require.Contains(t, content, "From: from@example.com")
	require.Contains(t, content, "Subject: Subject  Break")
	require.Contains(t, content, "Date: Sat, 20 Jun 2026 15:00:00 +0000")
	require.True(t, strings.HasSuffix(content, "Body"))
}

func TestSMTPMailerDefaultTimeout(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "no-reply@example.com",
		UseTLS:  true,
	})
	require.NoError(t, err)

	sm, ok := mailer.(*smtpMailer)
	require.True(t, ok)
	require.Equal(t, 10*time.Second, sm.cfg.Timeout)
}

func TestSMTPMailerSendRequiresRecipients(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: true, Host: "smtp.example.com", Port: 587, From: "no-reply@example.com"})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{To: []string{"   ", "\t"}})
	require.ErrorContains(t, err, "at least one recipient")
}

func TestSMTPMailerSendValidatesAddresses(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: true, Host: "smtp.example.com", Port: 587})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{From: "invalid-from", To: []string{"couple@example.com"}})
	require.ErrorContains(t, err, "invalid from address")

	err = mailer.Send(context.Background(), Message{From: "no-reply@example.com", To: []string{"couple@example.com", "bad-address"}})
	require.ErrorContains(t, err, "invalid recipient address")
}

type fakeClient struct {
	from  string
	rcpts []string
	body  bytes.Buffer
	quit  bool
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (f *fakeClient) Mail(from string) error          { f.from = from; return nil }
func (f *fakeClient) Rcpt(to string) error            { f.rcpts = append(f.rcpts, to); return nil }
func (f *fakeClient) Data() (io.WriteCloser, error)   { return nopWriteCloser{&f.body}, nil }
func (f *fakeClient) Quit() error                     { f.quit = true; return nil }
func (f *fakeClient) Close() error                    { return nil }
func (f *fakeClient) StartTLS(*tls.Config) error      { return nil }
func (f *fakeClient) Auth(smtp.Auth) error            { return nil }
func (f *fakeClient) Extension(string) (bool, string) { return false, "" }

func TestSMTPMailerSendDeliversWithDisplayName(t *testing.T) {
	client := &fakeClient{}
	server, peer := net.Pipe()
	t.Cleanup(func() { _ = peer.Close() })

	m := &smtpMailer{
		cfg: SMTPSettings{Enabled: true, Host: "smtp.example.com", Port: 25, From: "no-reply@example.com", FromName: "Wedding RSVP"},
		dialFn: func(context.Context, SMTPSettings) (net.Conn, smtpClient, error) {
			return server, client, nil
		},
		authFn: func(smtpClient, SMTPSettings) error { return nil },
		now:    time.Now,
	}

	err := m.Send(context.Background(), Message{To: []string{"couple@example.com", "couple@example.com"}, Subject: "Reset", Body: "link"})
	require.NoError(t, err)
	require.Equal(t, "no-reply@example.com", client.from)
	require.Equal(t, []string{"couple@example.com"}, client.rcpts)
	require.Contains(t, client.body.String(), `From: "Wedding RSVP" <no-reply@example.com>`)
	require.True(t, client.quit)
}

func TestLogMailerRecordsMessage(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	m := LogMailer{Logger: zap.New(core)}

	require.NoError(t, m.Send(context.Background(), Message{To: []string{"couple@example.com"}, Subject: "Reset your password", Body: "https://example.com/reset-password?token=abc"}))
	require.Equal(t, 1, recorded.Len())
	require.Equal(t, "Reset your password", recorded.All()[0].ContextMap()["subject"])

	require.Error(t, m.Send(context.Background(), Message{}))
}

func TestUniqueAddresses(t *testing.T) {
	result := uniqueAddresses([]string{"alice@example.com", "bob@example.com", " alice@example.com ", "", "bob@example.com"})
	require.Equal(t, []string{"alice@example.com", "bob@example.com"}, result)
}
