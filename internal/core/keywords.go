package core

import "regexp"

// Keyword tables are stored case-folded and without duplicates. Matching is
// substring containment against case-folded text, so each entry counts once.

// UrgentKeywords mark deadline and ASAP language
var UrgentKeywords = []string{
	"緊急", "至急", "急ぎ", "urgent", "asap",
	"今日中", "本日中", "即日", "直ちに", "immediately",
	"重要", "要対応", "要返信", "要確認", "期限",
	"deadline", "締切", "締め切り",
}

// MeetingKeywords mark meetings, scheduling and video calls
var MeetingKeywords = []string{
	"会議", "ミーティング", "meeting", "mtg",
	"打ち合わせ", "打合せ", "予定", "スケジュール", "schedule",
	"calendar", "招待", "invitation",
	"zoom", "teams", "google meet", "webex",
}

// ActionKeywords mark requests for a reply, review or approval
var ActionKeywords = []string{
	"確認してください", "ご確認", "お願いします", "お願い致します",
	"返信", "reply", "response",
	"承認", "申請", "approval", "request",
	"レビュー", "review", "feedback",
}

// SocialKeywords mark social network notifications
var SocialKeywords = []string{
	"twitter", "x.com", "facebook", "linkedin", "instagram",
	"いいね", "like", "コメント", "comment",
	"フォロー", "follow", "メンション", "mention",
	"リツイート", "retweet", "share",
}

// PromotionKeywords mark sales and marketing campaigns
var PromotionKeywords = []string{
	"セール", "sale", "割引", "discount",
	"クーポン", "coupon", "キャンペーン", "campaign",
	"限定", "特別", "special", "offer",
	"無料", "free", "お得", "ポイント",
}

// NewsletterKeywords mark newsletters and digests
var NewsletterKeywords = []string{
	"ニュースレター", "newsletter",
	"配信", "お知らせ", "最新情報", "update",
	"digest", "weekly", "monthly",
}

// CategoryKeywords groups the keyword tables by the category they detect
var CategoryKeywords = map[Category][]string{
	CategoryUrgent:     UrgentKeywords,
	CategoryMeeting:    MeetingKeywords,
	CategoryAction:     ActionKeywords,
	CategorySocial:     SocialKeywords,
	CategoryPromotion:  PromotionKeywords,
	CategoryNewsletter: NewsletterKeywords,
}

// LowPrioritySenderPatterns match automated and bulk mail addresses
var LowPrioritySenderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)noreply@`),
	regexp.MustCompile(`(?i)no-reply@`),
	regexp.MustCompile(`(?i)donotreply@`),
	regexp.MustCompile(`(?i)notifications?@`),
	regexp.MustCompile(`(?i)newsletter@`),
	regexp.MustCompile(`(?i)marketing@`),
	regexp.MustCompile(`(?i)info@`),
	regexp.MustCompile(`(?i)support@`),
	regexp.MustCompile(`(?i)mailer@`),
}

// CategoryScoreAdjustments is the score offset applied per category
var CategoryScoreAdjustments = map[Category]int{
	CategoryUrgent:     30,
	CategoryImportant:  20,
	CategoryMeeting:    15,
	CategoryAction:     15,
	CategoryFYI:        0,
	CategoryNewsletter: -20,
	CategoryPromotion:  -25,
	CategorySocial:     -15,
	CategoryOther:      0,
}

// Score weights
const (
	BaseScore                = 50
	UrgentKeywordWeight      = 10
	ActionKeywordWeight      = 5
	UnreadBonus              = 10
	FlaggedBonus             = 15
	AttachmentBonus          = 5
	VIPBonus                 = 30
	IgnoredPenalty           = -40
	LowPrioritySenderPenalty = -20
	MinScore                 = 0
	MaxScore                 = 100
)

// Priority band lower bounds, inclusive
const (
	CriticalThreshold = 80
	HighThreshold     = 60
	MediumThreshold   = 40
)

// ReasonText holds the clauses used when explaining a classification
var ReasonText = struct {
	VIP        string
	Urgent     string
	Meeting    string
	Action     string
	Unread     string
	Flagged    string
	Attachment string
	Standard   string
	Separator  string
}{
	VIP:        "VIP sender: %s",
	Urgent:     "urgent keyword detected",
	Meeting:    "meeting or schedule related",
	Action:     "action required",
	Unread:     "unread",
	Flagged:    "starred",
	Attachment: "has attachment",
	Standard:   "standard classification",
	Separator:  " / ",
}
