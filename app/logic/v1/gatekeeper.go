package v1

import (
	"regexp"
	"strings"
	"sync/atomic"
	"unicode"
)

// Gatekeeper answers trivial messages from canned pools so they never reach
// a paid model. Matching is deliberately conservative: anything with real
// content must fall through to retrieval.
type Gatekeeper struct {
	emoji *gatekeeperRule
	rules []*gatekeeperRule
}

type gatekeeperRule struct {
	category string
	pattern  *regexp.Regexp
	replies  []string
	next     atomic.Uint64
}

// rotate returns replies in round-robin order so repeated small talk in one
// conversation doesn't read like a bot echoing itself.
func (r *gatekeeperRule) rotate() string {
	n := r.next.Add(1) - 1
	return r.replies[n%uint64(len(r.replies))]
}

const (
	GATE_CATEGORY_GREETING = "greeting"
	GATE_CATEGORY_FAREWELL = "farewell"
	GATE_CATEGORY_THANKS   = "thanks"
	GATE_CATEGORY_ACK      = "ack"
	GATE_CATEGORY_EMOJI    = "emoji"
)

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{
		emoji: &gatekeeperRule{
			category: GATE_CATEGORY_EMOJI,
			replies: []string{
				"🙌",
				"Thanks for the love! 🙏",
				"❤️",
			},
		},
		rules: []*gatekeeperRule{
			{
				category: GATE_CATEGORY_GREETING,
				pattern:  regexp.MustCompile(`(?i)^(hi|hii+|hey|heyy+|hello|yo|sup|what's up|good (morning|afternoon|evening))[\s!.,]*$`),
				replies: []string{
					"Hey there! How can I help you today?",
					"Hi! Great to hear from you.",
					"Hello! What can I do for you?",
				},
			},
			{
				category: GATE_CATEGORY_FAREWELL,
				pattern:  regexp.MustCompile(`(?i)^(bye|goodbye|see (ya|you)( later)?|later|take care|good ?night|cya)[\s!.,]*$`),
				replies: []string{
					"Take care! Feel free to reach out anytime.",
					"Bye! Have a great day.",
					"See you! We're always here if you need anything.",
				},
			},
			{
				category: GATE_CATEGORY_THANKS,
				pattern:  regexp.MustCompile(`(?i)^(thanks|thank you|thank u|thx|ty|tysm|much appreciated|appreciate it)[\s!.,]*$`),
				replies: []string{
					"You're welcome!",
					"Anytime! Happy to help.",
					"Glad I could help!",
				},
			},
			{
				category: GATE_CATEGORY_ACK,
				pattern:  regexp.MustCompile(`(?i)^(ok|okay|okk+|k|cool|great|nice|got it|sounds good|perfect|awesome|sure)[\s!.,]*$`),
				replies: []string{
					"Great! Let me know if you need anything else.",
					"Perfect. I'm here if anything comes up.",
				},
			},
		},
	}
}

// Evaluate returns a canned reply and its category when the message is
// trivial. handled=false means the message carries content and must go
// through retrieval.
func (g *Gatekeeper) Evaluate(text string) (reply, category string, handled bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", "", false
	}

	if isEmojiOnly(trimmed) {
		return g.emoji.rotate(), g.emoji.category, true
	}

	for _, rule := range g.rules {
		if rule.pattern.MatchString(trimmed) {
			return rule.rotate(), rule.category, true
		}
	}
	return "", "", false
}

// isEmojiOnly reports whether the text contains emoji and nothing but emoji,
// joiners and whitespace.
func isEmojiOnly(text string) bool {
	sawEmoji := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
		case r == 0x200D || r == 0xFE0F || r == 0xFE0E: // zwj, variation selectors
		case r >= 0x1F3FB && r <= 0x1F3FF: // skin tones
		case r >= 0x1F300 && r <= 0x1FAFF:
			sawEmoji = true
		case r >= 0x2600 && r <= 0x27BF:
			sawEmoji = true
		case r == 0x2B50 || r == 0x203C || r == 0x2049:
			sawEmoji = true
		default:
			return false
		}
	}
	return sawEmoji
}
