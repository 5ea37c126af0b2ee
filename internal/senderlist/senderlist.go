package senderlist

import (
	"strings"

	"github.com/mikey/mail-priority-sorter/internal/utils"
)

// List matches sender identities against a set of user-maintained substrings
type List struct {
	identities []string
	folded     []string
}

// New creates a list from raw identities, keeping their order.
// Blank entries are dropped since they would match every sender.
func New(identities []string) List {
	l := List{
		identities: make([]string, 0, len(identities)),
		folded:     make([]string, 0, len(identities)),
	}
	for _, identity := range identities {
		trimmed := strings.TrimSpace(identity)
		if trimmed == "" {
			continue
		}
		l.identities = append(l.identities, trimmed)
		l.folded = append(l.folded, utils.Fold(trimmed))
	}
	return l
}

// Match returns the first identity contained in the sender, ignoring case
func (l List) Match(sender string) (string, bool) {
	if len(l.folded) == 0 {
		return "", false
	}

	foldedSender := utils.Fold(sender)
	for i, identity := range l.folded {
		if strings.Contains(foldedSender, identity) {
			return l.identities[i], true
		}
	}
	return "", false
}

// Contains reports whether any identity is contained in the sender
func (l List) Contains(sender string) bool {
	_, ok := l.Match(sender)
	return ok
}

// Len returns the number of usable identities
func (l List) Len() int {
	return len(l.identities)
}
