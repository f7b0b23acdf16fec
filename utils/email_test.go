package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventease/eventease-api/config"
)

func TestSendEmailSkippedWhenUnconfigured(t *testing.T) {
	err := SendEmail(config.EmailConfig{}, []string{"a@x.com"}, "subject", "body")
	assert.NoError(t, err)
}

func TestSendEmailNoRecipients(t *testing.T) {
	cfg := config.EmailConfig{Host: "smtp.example.com", Port: "587"}
	err := SendEmail(cfg, nil, "subject", "body")
	assert.Error(t, err)
}

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("noreply@x.com", []string{"a@x.com", "b@x.com"}, "Update for event: Gala", "Doors open at 7."))

	assert.Contains(t, msg, "From: noreply@x.com\r\n")
	assert.Contains(t, msg, "To: a@x.com, b@x.com\r\n")
	assert.Contains(t, msg, "Subject: Update for event: Gala\r\n")

	parts := strings.SplitN(msg, "\r\n\r\n", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "Doors open at 7.", parts[1])
}
