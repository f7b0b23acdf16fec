package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/eventease/eventease-api/config"
)

// SendEmail sends one plain-text message to the full recipient list
// over SMTP. When no mail host is configured the send is skipped and
// reported as success; mail is an optional transport here.
func SendEmail(cfg config.EmailConfig, to []string, subject, body string) error {
	if !cfg.Enabled() {
		log.Info().Strs("to", to).Str("subject", subject).Msg("mail transport not configured, skipping email")
		return nil
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	msg := BuildMessage(cfg.User, to, subject, body)

	addr := cfg.Host + ":" + cfg.Port
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, cfg.User, to, msg); err != nil {
		log.Error().Err(err).Str("host", cfg.Host).Msg("email send failed")
		return err
	}

	log.Info().Int("recipients", len(to)).Str("subject", subject).Msg("email sent")
	return nil
}

// BuildMessage assembles the RFC 5322 payload handed to the SMTP
// transport.
func BuildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
