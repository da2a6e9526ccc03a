package delta

import (
	"regexp"
	"strings"

	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/shipcheck/internal/model"
)

// pullRequestPattern matches "(#123)" as appended by squash merges
const pullRequestPattern = `\(#([0-9]+)\)`

// Extractor splits commit messages into text, issue and pull request tokens
type Extractor struct {
	lexer *regexp.Regexp // group 1: issue key, group 2: pull request number
	issue *regexp.Regexp
}

// NewExtractor creates an extractor for issue keys of the given projects
func NewExtractor(projectKeys []string) (*Extractor, error) {
	quoted := make([]string, 0, len(projectKeys))
	for _, key := range projectKeys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(key))
	}
	if len(quoted) == 0 {
		return nil, errNoProjectKeys
	}

	issuePattern := `(?:` + strings.Join(quoted, "|") + `)-[0-9]+`

	lexer, err := regexp.Compile(`(` + issuePattern + `)|` + pullRequestPattern)
	if err != nil {
		return nil, erro.Wrap(err, "compile token pattern")
	}
	issue, err := regexp.Compile(issuePattern)
	if err != nil {
		return nil, erro.Wrap(err, "compile issue pattern")
	}

	return &Extractor{lexer: lexer, issue: issue}, nil
}

// Tokens splits message into tokens in message order.
// Joining Text of the result yields message.
func (e *Extractor) Tokens(message string) []model.Token {
	matches := e.lexer.FindAllStringSubmatchIndex(message, -1)
	tokens := make([]model.Token, 0, 2*len(matches)+1)

	last := 0
	for _, m := range matches {
		if m[0] > last {
			tokens = append(tokens, model.Token{Kind: model.TokenText, Text: message[last:m[0]]})
		}

		raw := message[m[0]:m[1]]
		if m[2] >= 0 {
			tokens = append(tokens, model.Token{Kind: model.TokenIssue, Text: raw, Value: raw})
		} else {
			tokens = append(tokens, model.Token{Kind: model.TokenPullRequest, Text: raw, Value: message[m[4]:m[5]]})
		}
		last = m[1]
	}

	if last < len(message) {
		tokens = append(tokens, model.Token{Kind: model.TokenText, Text: message[last:]})
	}

	return tokens
}

// FirstIssueKey returns the first issue key found in message
func (e *Extractor) FirstIssueKey(message string) (string, bool) {
	key := e.issue.FindString(message)
	return key, key != ""
}

// AllIssueKeys returns unique issue keys of all messages in first-seen order
func (e *Extractor) AllIssueKeys(messages []string) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, message := range messages {
		for _, key := range e.issue.FindAllString(message, -1) {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}

// PullRequestNumbers returns the numbers of pull requests referenced in message
func (e *Extractor) PullRequestNumbers(message string) []string {
	var numbers []string
	for _, token := range e.Tokens(message) {
		if token.Kind == model.TokenPullRequest {
			numbers = append(numbers, token.Value)
		}
	}
	return numbers
}

// JoinTokens concatenates raw text of tokens
func JoinTokens(tokens []model.Token) string {
	var b strings.Builder
	for _, token := range tokens {
		b.WriteString(token.Text)
	}
	return b.String()
}
