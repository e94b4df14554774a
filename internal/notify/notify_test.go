package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/irshad/hiring/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPNotifierBuildsMessage(t *testing.T) {
	n := NewSMTPNotifier(config.SMTP{Host: "smtp.example.com", Port: 587, From: "jobs@example.com"})

	var gotAddr string
	var gotTo []string
	var gotMsg string
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	err := n.Notify(context.Background(), Message{To: "ana@example.com", Subject: "Interview", Body: "See you at 10:00"})

	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"ana@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Interview\r\n")
	assert.Contains(t, gotMsg, "See you at 10:00")
}

func TestSMTPNotifierWrapsSendError(t *testing.T) {
	n := NewSMTPNotifier(config.SMTP{Host: "smtp.example.com", Port: 25})
	n.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection reset") }

	err := n.Notify(context.Background(), Message{To: "ana@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSMTPNotifierRequiresRecipient(t *testing.T) {
	n := NewSMTPNotifier(config.SMTP{Host: "smtp.example.com", Port: 25})
	assert.Error(t, n.Notify(context.Background(), Message{Subject: "x"}))
}

func TestNewFallsBackToLog(t *testing.T) {
	assert.IsType(t, LogNotifier{}, New(&config.Config{}))
	assert.IsType(t, &SMTPNotifier{}, New(&config.Config{SMTP: config.SMTP{Host: "smtp.example.com"}}))
}
