package filter

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/mikey/mail-priority-sorter/internal/core"
	"github.com/mikey/mail-priority-sorter/internal/utils"
	"golang.org/x/text/encoding/htmlindex"
)

const maxMultipartDepth = 8

// headerGetter is satisfied by both mail.Header and textproto.MIMEHeader
type headerGetter interface {
	Get(key string) string
}

// messageContent is what the classifier needs from a message body
type messageContent struct {
	Text          string
	HasAttachment bool
}

// charsetReader wraps input so it yields UTF-8 for the named charset
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8", "us-ascii":
		return input, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

var wordDecoder = &mime.WordDecoder{CharsetReader: charsetReader}

// decodeEncodedHeader decodes RFC 2047 encoded words in a header value
func decodeEncodedHeader(value string) (string, error) {
	return wordDecoder.DecodeHeader(value)
}

// decodeHeader decodes a header value, falling back to the raw value
func decodeHeader(value string) string {
	decoded, err := decodeEncodedHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// transferDecoder undoes the Content-Transfer-Encoding of a part
func transferDecoder(encoding string, body io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, body)
	case "quoted-printable":
		return quotedprintable.NewReader(body)
	default:
		return body
	}
}

// isAttachment reports whether a part is an attachment rather than inline text
func isAttachment(h headerGetter, mediaType string) bool {
	if disposition, params, err := mime.ParseMediaType(h.Get("Content-Disposition")); err == nil {
		if disposition == "attachment" || params["filename"] != "" {
			return true
		}
	}
	if strings.HasPrefix(mediaType, "text/") || strings.HasPrefix(mediaType, "multipart/") {
		return false
	}
	return mediaType != "message/rfc822"
}

// walkPart collects text/plain content and notes attachments, recursing into
// nested multiparts
func walkPart(h headerGetter, body io.Reader, content *messageContent, text *bytes.Buffer, depth int) error {
	contentType := h.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, params = "text/plain", map[string]string{}
	}

	if isAttachment(h, mediaType) {
		content.HasAttachment = true
		return nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" || depth >= maxMultipartDepth {
			return nil
		}
		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				// keep whatever was collected before the broken part
				if text.Len() > 0 || content.HasAttachment {
					return nil
				}
				return fmt.Errorf("failed to read multipart body: %w", err)
			}
			if err := walkPart(part.Header, part, content, text, depth+1); err != nil {
				return err
			}
		}
	}

	if mediaType != "text/plain" {
		return nil
	}

	decoded, err := charsetReader(params["charset"], transferDecoder(h.Get("Content-Transfer-Encoding"), body))
	if err != nil {
		decoded = body
	}
	partBytes, err := io.ReadAll(decoded)
	if err != nil {
		return fmt.Errorf("failed to read text part: %w", err)
	}
	if text.Len() > 0 {
		text.WriteString("\n")
	}
	text.Write(partBytes)
	return nil
}

// extractContent extracts the text content and attachment flag from a message
func extractContent(msg *mail.Message) (*messageContent, error) {
	content := &messageContent{}
	var text bytes.Buffer
	if err := walkPart(msg.Header, msg.Body, content, &text, 0); err != nil {
		return nil, err
	}
	content.Text = text.String()
	return content, nil
}

// isFlaggedMessage reports whether the sender marked the message as important
func isFlaggedMessage(h headerGetter) bool {
	if p := strings.TrimSpace(h.Get("X-Priority")); strings.HasPrefix(p, "1") || strings.HasPrefix(p, "2") {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(h.Get("Importance")), "high") {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(h.Get("Priority")), "urgent") {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(h.Get("X-MSMail-Priority")), "high")
}

// buildRawEmail turns a parsed message into a classifier record
func buildRawEmail(msg *mail.Message, envelopeSender string, tp *utils.TextProcessor, previewSize int) (core.RawEmail, error) {
	content, err := extractContent(msg)
	if err != nil {
		return core.RawEmail{}, err
	}

	sender := decodeHeader(msg.Header.Get("From"))
	if sender == "" {
		sender = envelopeSender
	}

	return core.RawEmail{
		ElementID:     strings.Trim(msg.Header.Get("Message-Id"), "<> "),
		Sender:        tp.SanitizeUTF8(sender),
		Subject:       tp.SanitizeUTF8(decodeHeader(msg.Header.Get("Subject"))),
		Snippet:       tp.Preview(content.Text, previewSize),
		ReceivedLabel: msg.Header.Get("Date"),
		IsUnread:      true,
		HasAttachment: content.HasAttachment,
		IsFlagged:     isFlaggedMessage(msg.Header),
	}, nil
}
