package classifier

import (
	"strings"

	"github.com/xaenox/router-bot/internal/models"
)

type Classifier interface {
	Classify(text string) models.Command
}

// rule matches either one of words exactly or, when prefix is set, the start of the text.
type rule struct {
	kind   models.CommandKind
	words  []string
	prefix string
}

// rules are checked in order, the first match wins
var rules = []rule{
	{kind: models.CommandGreeting, words: []string{"/start", "hi", "hello"}},
	{kind: models.CommandHelp, words: []string{"/help"}},
	{kind: models.CommandSearch, prefix: "search:"},
	{kind: models.CommandSolve, prefix: "solve:"},
	{kind: models.CommandJoke, words: []string{"joke"}},
	{kind: models.CommandChat, prefix: "chat:"},
}

// RuleClassifier maps message text onto a command using the fixed rule table.
type RuleClassifier struct{}

func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

func (c *RuleClassifier) Classify(text string) models.Command {
	return Classify(text)
}

// Classify never fails: text that matches no rule becomes an unknown command.
func Classify(text string) models.Command {
	text = strings.TrimSpace(text)

	for _, r := range rules {
		if r.prefix != "" {
			if hasPrefixFold(text, r.prefix) {
				return models.Command{
					Kind:    r.kind,
					Payload: strings.TrimSpace(text[len(r.prefix):]),
				}
			}
			continue
		}
		for _, w := range r.words {
			if strings.EqualFold(text, w) {
				return models.Command{Kind: r.kind}
			}
		}
	}

	return models.Command{Kind: models.CommandUnknown, Payload: text}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
