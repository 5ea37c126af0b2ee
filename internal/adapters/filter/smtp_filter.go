package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/mail"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/mail-priority-sorter/internal/config"
	"github.com/mikey/mail-priority-sorter/internal/core"
	"github.com/mikey/mail-priority-sorter/internal/metrics"
	"github.com/mikey/mail-priority-sorter/internal/utils"
	"go.uber.org/zap"
)

const defaultSubjectPrefix = "[CRITICAL] "

// SMTPFilter implements a Postfix content filter that tags messages with
// their priority and relays them back
type SMTPFilter struct {
	service       *core.PrioritySorterService
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	cfg           config.ServerConfig
	server        *smtp.Server
}

// NewSMTPFilter creates a new SMTP content filter
func NewSMTPFilter(
	service *core.PrioritySorterService,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	cfg config.ServerConfig,
) *SMTPFilter {
	if cfg.SubjectPrefix == "" && cfg.ModifySubject {
		cfg.SubjectPrefix = defaultSubjectPrefix
	}

	return &SMTPFilter{
		service:       service,
		logger:        logger,
		textProcessor: textProcessor,
		cfg:           cfg,
	}
}

// Start starts the SMTP filter service
func (f *SMTPFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.cfg.ListenAddress
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP filter starting", zap.String("address", f.cfg.ListenAddress))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP filter service
func (f *SMTPFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail classifies a single record without any SMTP traffic
func (f *SMTPFilter) ProcessEmail(ctx context.Context, email *core.RawEmail) (*core.ClassifiedEmail, error) {
	return f.service.ClassifyEmail(ctx, *email)
}

// ProcessBatch classifies a list of records without any SMTP traffic
func (f *SMTPFilter) ProcessBatch(ctx context.Context, emails []core.RawEmail) (*core.BatchResult, error) {
	return f.service.ClassifyBatch(ctx, emails)
}

// classifyMessage parses raw message data and classifies it
func (f *SMTPFilter) classifyMessage(ctx context.Context, envelopeSender string, raw []byte) (*core.ClassifiedEmail, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	email, err := buildRawEmail(msg, envelopeSender, f.textProcessor, f.cfg.PreviewSize)
	if err != nil {
		return nil, fmt.Errorf("failed to extract message content: %w", err)
	}

	return f.service.ClassifyEmail(ctx, email)
}

// splitMessage separates the header lines from the body that follows the
// blank separator line and reports the line ending the message uses
func splitMessage(raw []byte) ([]string, []byte, string) {
	if idx := bytes.Index(raw, []byte("\r\n\r\n")); idx >= 0 {
		return strings.Split(string(raw[:idx]), "\r\n"), raw[idx+4:], "\r\n"
	}
	if idx := bytes.Index(raw, []byte("\n\n")); idx >= 0 {
		return strings.Split(string(raw[:idx]), "\n"), raw[idx+2:], "\n"
	}
	eol := "\n"
	if bytes.Contains(raw, []byte("\r\n")) || !bytes.Contains(raw, []byte("\n")) {
		eol = "\r\n"
	}
	return strings.Split(strings.TrimRight(string(raw), "\r\n"), eol), nil, eol
}

// replaceSubject swaps the Subject header, including folded continuation lines
func replaceSubject(lines []string, subject string) []string {
	out := make([]string, 0, len(lines)+1)
	replaced, skipping := false, false
	for _, line := range lines {
		if skipping && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			continue
		}
		skipping = false
		if !replaced && len(line) >= 8 && strings.EqualFold(line[:8], "subject:") {
			out = append(out, "Subject: "+subject)
			replaced, skipping = true, true
			continue
		}
		out = append(out, strings.TrimRight(line, "\r"))
	}
	if !replaced {
		out = append(out, "Subject: "+subject)
	}
	return out
}

// tagMessage prepends the classification headers to a raw message.
// The original headers keep their order, the body is left untouched and
// added lines use the message's own line ending.
func (f *SMTPFilter) tagMessage(raw []byte, result *core.ClassifiedEmail, analysisErr error) []byte {
	var tagged bytes.Buffer
	headers, body, eol := splitMessage(raw)

	if analysisErr != nil {
		fmt.Fprintf(&tagged, "X-Mail-Priority-Error: %s%s", mime.QEncoding.Encode("utf-8", analysisErr.Error()), eol)
		tagged.Write(raw)
		return tagged.Bytes()
	}

	fmt.Fprintf(&tagged, "%s: %s%s", f.cfg.Headers.Priority, result.Priority, eol)
	fmt.Fprintf(&tagged, "%s: %s%s", f.cfg.Headers.Score, strconv.Itoa(result.UrgencyScore), eol)
	fmt.Fprintf(&tagged, "%s: %s%s", f.cfg.Headers.Category, result.Category, eol)
	fmt.Fprintf(&tagged, "%s: %s%s", f.cfg.Headers.Reason, mime.QEncoding.Encode("utf-8", result.Reason), eol)

	if f.cfg.ModifySubject && result.Priority == core.PriorityCritical && !strings.HasPrefix(result.Subject, f.cfg.SubjectPrefix) {
		subject := mime.QEncoding.Encode("utf-8", f.cfg.SubjectPrefix+result.Subject)
		headers = replaceSubject(headers, subject)
	}
	for _, line := range headers {
		tagged.WriteString(strings.TrimRight(line, "\r"))
		tagged.WriteString(eol)
	}
	tagged.WriteString(eol)
	tagged.Write(body)
	return tagged.Bytes()
}

// sendToPostfix sends the processed email back to Postfix on the configured port
func (f *SMTPFilter) sendToPostfix(sender string, recipients []string, emailData []byte) error {
	postfixAddr := net.JoinHostPort(f.cfg.Postfix.Address, strconv.Itoa(f.cfg.Postfix.Port))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", postfixAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}

	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	if _, err := wc.Write(emailData); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// the message has already been accepted
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// handleMessage classifies, tags and relays one message
func (f *SMTPFilter) handleMessage(sender string, recipients []string, raw []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	outcome := "tagged"
	result, err := f.classifyMessage(ctx, sender, raw)
	var out []byte
	switch {
	case errors.Is(err, core.ErrSorterDisabled):
		outcome = "passthrough"
		out = raw
	case err != nil:
		outcome = "error"
		f.logger.Error("Failed to classify email", zap.Error(err), zap.String("sender", sender))
		out = f.tagMessage(raw, nil, err)
	default:
		out = f.tagMessage(raw, result, nil)
	}

	if f.cfg.Postfix.Enabled {
		if err := f.sendToPostfix(sender, recipients, out); err != nil {
			metrics.MessagesTagged.WithLabelValues("relay_failed").Inc()
			f.logger.Error("Failed to send email back to Postfix",
				zap.Error(err),
				zap.String("sender", sender))
			return err
		}
	} else {
		f.logger.Warn("Postfix forwarding disabled, this is likely a misconfiguration")
	}

	metrics.MessagesTagged.WithLabelValues(outcome).Inc()
	if result != nil {
		f.logger.Info("Processed email",
			zap.String("from", result.Sender),
			zap.String("priority", string(result.Priority)),
			zap.String("category", string(result.Category)),
			zap.Int("score", result.UrgencyScore))
	}
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *SMTPFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *SMTPFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data handles the email data
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}
	return s.filter.handleMessage(s.sender, s.recipients, raw)
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}
