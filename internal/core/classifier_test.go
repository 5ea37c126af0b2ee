package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyUrgentJapaneseRequest(t *testing.T) {
	email := RawEmail{
		Sender:   "boss@company.com",
		Subject:  "至急: 確認してください",
		IsUnread: true,
	}

	category := Categorize(email)
	assert.Equal(t, CategoryUrgent, category)
	assert.Equal(t, 105, RawScore(email, category, UserConfig{}))

	result := Classify(email, UserConfig{})
	assert.Equal(t, CategoryUrgent, result.Category)
	assert.Equal(t, 100, result.UrgencyScore)
	assert.Equal(t, PriorityCritical, result.Priority)
	assert.Equal(t, "urgent keyword detected / unread", result.Reason)
	assert.Equal(t, email, result.RawEmail)
}

func TestClassifyPromotionFromNoReplySender(t *testing.T) {
	email := RawEmail{
		Sender:  "noreply@shop.example.com",
		Subject: "Summer Sale",
		Snippet: "50% off",
	}

	result := Classify(email, UserConfig{})
	assert.Equal(t, CategoryPromotion, result.Category)
	assert.Equal(t, 5, result.UrgencyScore)
	assert.Equal(t, PriorityLow, result.Priority)
	assert.Equal(t, ReasonText.Standard, result.Reason)
}

func TestClassifyVIPSender(t *testing.T) {
	email := RawEmail{Sender: "Alice <alice@partner.org>", Subject: "Lunch plans"}
	cfg := UserConfig{VIPIdentities: []string{"ALICE@partner.org"}}

	result := Classify(email, cfg)
	assert.Equal(t, CategoryOther, result.Category)
	assert.Equal(t, 80, result.UrgencyScore)
	assert.Equal(t, PriorityCritical, result.Priority)
	assert.Equal(t, "VIP sender: ALICE@partner.org", result.Reason)
}

func TestClassifyIgnoredSender(t *testing.T) {
	email := RawEmail{Sender: "chatty@example.org", Subject: "Lunch plans"}
	cfg := UserConfig{IgnoredIdentities: []string{"chatty@"}}

	result := Classify(email, cfg)
	assert.Equal(t, 10, result.UrgencyScore)
	assert.Equal(t, PriorityLow, result.Priority)
}

func TestClassifyBlankIdentitiesNeverMatch(t *testing.T) {
	email := RawEmail{Sender: "someone@example.org", Subject: "Lunch plans"}
	cfg := UserConfig{
		VIPIdentities:     []string{"", "  "},
		IgnoredIdentities: []string{""},
	}

	assert.Equal(t, BaseScore, Classify(email, cfg).UrgencyScore)
}

func TestClassifyIsIdempotent(t *testing.T) {
	email := RawEmail{
		Sender:        "pm@company.com",
		Subject:       "Please review the deadline plan",
		Snippet:       "Feedback needed ASAP",
		IsUnread:      true,
		HasAttachment: true,
	}
	cfg := UserConfig{
		VIPIdentities: []string{"pm@"},
		CustomRules: []Rule{{
			ID:         "r1",
			Enabled:    true,
			Conditions: []Condition{{Field: FieldSubject, MatchMode: MatchContains, Pattern: "plan"}},
			ScoreDelta: -5,
		}},
	}

	assert.Equal(t, Classify(email, cfg), Classify(email, cfg))
}

func TestKeywordsCountOncePerEntry(t *testing.T) {
	email := RawEmail{Sender: "ops@example.org", Subject: "URGENT urgent Urgent"}

	category := Categorize(email)
	require.Equal(t, CategoryUrgent, category)
	// base + urgent category + a single urgent keyword
	assert.Equal(t, 90, RawScore(email, category, UserConfig{}))
}

func TestCustomRulesAccumulate(t *testing.T) {
	email := RawEmail{Sender: "bob@example.org", Subject: "Project notes"}
	base := Classify(email, UserConfig{})
	require.Equal(t, BaseScore, base.UrgencyScore)

	cfg := UserConfig{CustomRules: []Rule{
		{
			ID:         "plus-ten",
			Enabled:    true,
			Conditions: []Condition{{Field: FieldSubject, MatchMode: MatchContains, Pattern: "project"}},
			ScoreDelta: 10,
		},
		{
			ID:         "plus-fifteen",
			Enabled:    true,
			Conditions: []Condition{{Field: FieldSender, MatchMode: MatchEndsWith, Pattern: "@example.org"}},
			ScoreDelta: 15,
		},
		{
			ID:         "disabled",
			Enabled:    false,
			Conditions: []Condition{{Field: FieldSubject, MatchMode: MatchContains, Pattern: "project"}},
			ScoreDelta: 40,
		},
	}}

	result := Classify(email, cfg)
	assert.Equal(t, base.UrgencyScore+25, result.UrgencyScore)
	assert.Equal(t, PriorityHigh, result.Priority)
}

func TestInvalidRegexRuleDoesNotContribute(t *testing.T) {
	email := RawEmail{Sender: "bob@example.org", Subject: "Project notes"}
	cfg := UserConfig{CustomRules: []Rule{{
		ID:         "broken",
		Enabled:    true,
		Conditions: []Condition{{Field: FieldSubject, MatchMode: MatchRegex, Pattern: "(project"}},
		ScoreDelta: 30,
	}}}

	var result ClassifiedEmail
	require.NotPanics(t, func() { result = Classify(email, cfg) })
	assert.Equal(t, BaseScore, result.UrgencyScore)
}

func TestScoreIsClamped(t *testing.T) {
	tests := []struct {
		name  string
		email RawEmail
		cfg   UserConfig
		want  int
	}{
		{
			name:  "above maximum",
			email: RawEmail{Sender: "ceo@company.com", Subject: "URGENT deadline today", IsUnread: true, IsFlagged: true},
			cfg:   UserConfig{VIPIdentities: []string{"ceo@"}},
			want:  MaxScore,
		},
		{
			name:  "below minimum",
			email: RawEmail{Sender: "newsletter@shop.example.com", Subject: "Big sale coupon"},
			cfg:   UserConfig{IgnoredIdentities: []string{"shop.example.com"}},
			want:  MinScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.email, tt.cfg).UrgencyScore)
		})
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-35))
	assert.Equal(t, 0, ClampScore(0))
	assert.Equal(t, 42, ClampScore(42))
	assert.Equal(t, 100, ClampScore(100))
	assert.Equal(t, 100, ClampScore(135))
}

func TestMapPriorityBands(t *testing.T) {
	tests := []struct {
		score int
		want  Priority
	}{
		{0, PriorityLow},
		{39, PriorityLow},
		{40, PriorityMedium},
		{59, PriorityMedium},
		{60, PriorityHigh},
		{79, PriorityHigh},
		{80, PriorityCritical},
		{100, PriorityCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapPriority(tt.score), "score %d", tt.score)
	}
}

func TestCategorizeOrder(t *testing.T) {
	tests := []struct {
		name  string
		email RawEmail
		want  Category
	}{
		{"urgent beats meeting", RawEmail{Subject: "URGENT meeting"}, CategoryUrgent},
		{"meeting", RawEmail{Subject: "Meeting tomorrow"}, CategoryMeeting},
		{"meeting beats action", RawEmail{Subject: "Zoom invitation", Snippet: "please reply"}, CategoryMeeting},
		{"action", RawEmail{Subject: "Please review the doc"}, CategoryAction},
		{"social sender", RawEmail{Sender: "updates@linkedin.com", Subject: "You appeared in 3 searches"}, CategorySocial},
		{"social keyword in snippet only", RawEmail{Subject: "Hello", Snippet: "nice comment"}, CategoryOther},
		{"promotion", RawEmail{Subject: "Exclusive discount"}, CategoryPromotion},
		{"newsletter keyword", RawEmail{Subject: "Weekly digest"}, CategoryNewsletter},
		{"newsletter by sender", RawEmail{Sender: "notifications@service.io", Subject: "Your receipt"}, CategoryNewsletter},
		{"other", RawEmail{Sender: "friend@example.org", Subject: "Hello there"}, CategoryOther},
		{"japanese meeting", RawEmail{Subject: "来週の打ち合わせについて"}, CategoryMeeting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.email))
		})
	}
}

func TestIsLowPrioritySender(t *testing.T) {
	assert.True(t, IsLowPrioritySender("NoReply@example.com"))
	assert.True(t, IsLowPrioritySender("Shop <no-reply@shop.example.com>"))
	assert.True(t, IsLowPrioritySender("notification@service.io"))
	assert.True(t, IsLowPrioritySender("notifications@service.io"))
	assert.True(t, IsLowPrioritySender("info@company.com"))
	assert.False(t, IsLowPrioritySender("alice@partner.org"))
	assert.False(t, IsLowPrioritySender("noreply"))
}

func TestExplain(t *testing.T) {
	tests := []struct {
		name     string
		email    RawEmail
		category Category
		cfg      UserConfig
		want     string
	}{
		{
			name:     "nothing notable",
			email:    RawEmail{Subject: "Hello"},
			category: CategoryOther,
			want:     "standard classification",
		},
		{
			name:     "urgent category without keyword",
			email:    RawEmail{Subject: "Hello"},
			category: CategoryUrgent,
			want:     "standard classification",
		},
		{
			name:     "meeting with flags",
			email:    RawEmail{Subject: "Meeting", IsFlagged: true, HasAttachment: true},
			category: CategoryMeeting,
			want:     "meeting or schedule related / starred / has attachment",
		},
		{
			name:     "vip first",
			email:    RawEmail{Sender: "alice@partner.org", Subject: "Please review", IsUnread: true},
			category: CategoryAction,
			cfg:      UserConfig{VIPIdentities: []string{"bob@", "alice@"}},
			want:     "VIP sender: alice@ / action required / unread",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Explain(tt.email, tt.category, 0, tt.cfg))
		})
	}
}

func TestClassifyAndSortIsStable(t *testing.T) {
	emails := []RawEmail{
		{ElementID: "a", Sender: "one@example.org", Subject: "Hello"},
		{ElementID: "b", Sender: "two@example.org", Subject: "Hello"},
		{ElementID: "c", Sender: "three@example.org", Subject: "URGENT"},
		{ElementID: "d", Sender: "four@example.org", Subject: "Hello"},
		{ElementID: "e", Sender: "noreply@example.org", Subject: "Weekly digest"},
	}

	sorted := ClassifyAndSort(emails, UserConfig{})
	require.Len(t, sorted, len(emails))

	ids := make([]string, len(sorted))
	for i, c := range sorted {
		ids[i] = c.ElementID
	}
	assert.Equal(t, []string{"c", "a", "b", "d", "e"}, ids)

	for i := 1; i < len(sorted); i++ {
		assert.GreaterOrEqual(t, sorted[i-1].UrgencyScore, sorted[i].UrgencyScore)
	}
}

func TestClassifyAllKeepsOrder(t *testing.T) {
	emails := []RawEmail{
		{ElementID: "low", Subject: "Weekly digest"},
		{ElementID: "high", Subject: "URGENT"},
	}

	classified := ClassifyAll(emails, UserConfig{})
	require.Len(t, classified, 2)
	assert.Equal(t, "low", classified[0].ElementID)
	assert.Equal(t, "high", classified[1].ElementID)
}

func TestClassifyAndSortEmpty(t *testing.T) {
	assert.Empty(t, ClassifyAndSort(nil, UserConfig{}))
}
