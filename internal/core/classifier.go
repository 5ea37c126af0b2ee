package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mikey/mail-priority-sorter/internal/senderlist"
	"github.com/mikey/mail-priority-sorter/internal/utils"
)

// combinedText is the subject and snippet joined by a single space
func combinedText(email RawEmail) string {
	return email.Subject + " " + email.Snippet
}

// containsKeyword reports whether any keyword occurs in the text, ignoring case
func containsKeyword(text string, keywords []string) bool {
	folded := utils.Fold(text)
	for _, keyword := range keywords {
		if strings.Contains(folded, keyword) {
			return true
		}
	}
	return false
}

// countKeywords counts how many distinct keywords occur in the text
func countKeywords(text string, keywords []string) int {
	folded := utils.Fold(text)
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(folded, keyword) {
			count++
		}
	}
	return count
}

// IsLowPrioritySender reports whether the identity looks like automated or bulk mail
func IsLowPrioritySender(identity string) bool {
	for _, pattern := range LowPrioritySenderPatterns {
		if pattern.MatchString(identity) {
			return true
		}
	}
	return false
}

// Categorize assigns a category. The checks run in a fixed order and the
// first match wins.
func Categorize(email RawEmail) Category {
	text := combinedText(email)

	switch {
	case containsKeyword(text, UrgentKeywords):
		return CategoryUrgent
	case containsKeyword(text, MeetingKeywords):
		return CategoryMeeting
	case containsKeyword(text, ActionKeywords):
		return CategoryAction
	case containsKeyword(email.Sender, SocialKeywords) || containsKeyword(email.Subject, SocialKeywords):
		return CategorySocial
	case containsKeyword(text, PromotionKeywords):
		return CategoryPromotion
	case containsKeyword(text, NewsletterKeywords) || IsLowPrioritySender(email.Sender):
		return CategoryNewsletter
	default:
		return CategoryOther
	}
}

// RawScore sums every score contribution without clamping
func RawScore(email RawEmail, category Category, cfg UserConfig) int {
	text := combinedText(email)

	score := BaseScore
	score += CategoryScoreAdjustments[category]
	score += countKeywords(text, UrgentKeywords) * UrgentKeywordWeight
	score += countKeywords(text, ActionKeywords) * ActionKeywordWeight

	if email.IsUnread {
		score += UnreadBonus
	}
	if email.IsFlagged {
		score += FlaggedBonus
	}
	if email.HasAttachment {
		score += AttachmentBonus
	}

	if senderlist.New(cfg.VIPIdentities).Contains(email.Sender) {
		score += VIPBonus
	}
	if senderlist.New(cfg.IgnoredIdentities).Contains(email.Sender) {
		score += IgnoredPenalty
	}
	if IsLowPrioritySender(email.Sender) {
		score += LowPrioritySenderPenalty
	}

	for _, rule := range MatchingRules(email, cfg.CustomRules) {
		score += rule.ScoreDelta
	}

	return score
}

// Score returns the urgency score clamped to [MinScore, MaxScore]
func Score(email RawEmail, category Category, cfg UserConfig) int {
	return ClampScore(RawScore(email, category, cfg))
}

// ClampScore limits a raw score to the valid range
func ClampScore(raw int) int {
	return max(MinScore, min(MaxScore, raw))
}

// MapPriority converts a score to its priority band
func MapPriority(score int) Priority {
	switch {
	case score >= CriticalThreshold:
		return PriorityCritical
	case score >= HighThreshold:
		return PriorityHigh
	case score >= MediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Explain lists the signals behind a classification, joined by ReasonText.Separator
func Explain(email RawEmail, category Category, score int, cfg UserConfig) string {
	var reasons []string

	if vip, ok := senderlist.New(cfg.VIPIdentities).Match(email.Sender); ok {
		reasons = append(reasons, fmt.Sprintf(ReasonText.VIP, vip))
	}

	switch category {
	case CategoryUrgent:
		// category alone is not enough, a keyword must be present
		if containsKeyword(combinedText(email), UrgentKeywords) {
			reasons = append(reasons, ReasonText.Urgent)
		}
	case CategoryMeeting:
		reasons = append(reasons, ReasonText.Meeting)
	case CategoryAction:
		reasons = append(reasons, ReasonText.Action)
	}

	if email.IsUnread {
		reasons = append(reasons, ReasonText.Unread)
	}
	if email.IsFlagged {
		reasons = append(reasons, ReasonText.Flagged)
	}
	if email.HasAttachment {
		reasons = append(reasons, ReasonText.Attachment)
	}

	if len(reasons) == 0 {
		return ReasonText.Standard
	}
	return strings.Join(reasons, ReasonText.Separator)
}

// Classify runs the full pipeline for one record
func Classify(email RawEmail, cfg UserConfig) ClassifiedEmail {
	category := Categorize(email)
	score := Score(email, category, cfg)

	return ClassifiedEmail{
		RawEmail:     email,
		Priority:     MapPriority(score),
		UrgencyScore: score,
		Category:     category,
		Reason:       Explain(email, category, score, cfg),
	}
}

// ClassifyAll classifies every record, keeping input order
func ClassifyAll(emails []RawEmail, cfg UserConfig) []ClassifiedEmail {
	classified := make([]ClassifiedEmail, len(emails))
	for i, email := range emails {
		classified[i] = Classify(email, cfg)
	}
	return classified
}

// SortByUrgency orders results by descending score. Ties keep their relative order.
func SortByUrgency(classified []ClassifiedEmail) {
	slices.SortStableFunc(classified, func(a, b ClassifiedEmail) int {
		return b.UrgencyScore - a.UrgencyScore
	})
}

// ClassifyAndSort classifies every record and orders the result by descending score
func ClassifyAndSort(emails []RawEmail, cfg UserConfig) []ClassifiedEmail {
	classified := ClassifyAll(emails, cfg)
	SortByUrgency(classified)
	return classified
}
