package email

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSenderWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, s.Send(context.Background(), Message{To: "ana@example.com", Subject: "Hello", Text: "Body"}))
	assert.Contains(t, buf.String(), `"to":"ana@example.com"`)
	assert.Contains(t, buf.String(), `"subject":"Hello"`)
}

func TestLogSenderRejectsEmptyRecipient(t *testing.T) {
	s := NewLogSender(slog.New(slog.DiscardHandler))
	assert.Error(t, s.Send(context.Background(), Message{Subject: "x"}))
}

func TestSMTPSenderRejectsBadAddress(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 2525, From: "shop@example.com"})
	err := s.Send(context.Background(), Message{To: "not an address", Subject: "x", Text: "y"})
	assert.ErrorContains(t, err, "set to")
}
