package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// cut shortens text to at most maxSize bytes without splitting a rune
func cut(text string, maxSize int) string {
	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated
}

// TruncateText safely truncates text to the specified maximum size,
// marking the cut with an ellipsis
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}
	return cut(text, maxSize) + "..."
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")
	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// Preview collapses whitespace and truncates text for use as a body preview
func (tp *TextProcessor) Preview(text string, maxSize int) string {
	preview := strings.Join(strings.Fields(tp.SanitizeUTF8(text)), " ")
	if maxSize <= 0 || len(preview) <= maxSize {
		return preview
	}

	tp.logger.Debug("Preview truncated",
		zap.Int("original_size", len(preview)),
		zap.Int("max_size", maxSize))

	return cut(preview, maxSize)
}

// ProcessText sanitizes and truncates text in one operation
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	return tp.TruncateText(tp.SanitizeUTF8(text), maxSize)
}
