// Package matter matches a transcript against candidate legal matters.
// Matters are read-only records supplied by the caller; this package
// only scores them, it never mutates or persists them.
package matter

import (
	"regexp"
	"sort"
	"strings"
)

// Matter is a candidate legal-case record supplied by the caller.
type Matter struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ClientName string `json:"client_name"`
	Attorney   string `json:"attorney"`
	BriefType  string `json:"brief_type"`
}

// Match is a scored candidate matter.
type Match struct {
	Matter     Matter  `json:"matter"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	MatchedOn  string  `json:"matched_on"`
}

// Field weights for substring matching. Client name is the strongest
// signal in dictated time entries ("two hours on the Smith matter").
const (
	weightClientName = 0.4
	weightTitle      = 0.3
	weightAttorney   = 0.2
	weightBriefType  = 0.1
)

// minScore is the score below which a candidate is discarded.
const minScore = 0.25

// nameGuessPatterns extract a free-text client-name guess when no
// candidate list is available.
var nameGuessPatterns = []*regexp.Regexp{
	// Cue words are case-insensitive but the captured name must be
	// capitalized, so (?i) cannot span the whole pattern.
	regexp.MustCompile(`\b(?:[Ff]or|[Ww]ith|[Rr]egarding|[Rr]e)\s+(?:[Tt]he\s+)?([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)`),
	regexp.MustCompile(`\b([A-Z][a-zA-Z]+)\s+(?:versus|vs\.?|v\.?)\s+([A-Z][a-zA-Z]+)\b`),
}

// Matcher scores candidate matters against a transcript.
type Matcher struct{}

// NewMatcher creates a new Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Rank scores every candidate against the transcript and returns
// matches above the minimum score, best first.
func (m *Matcher) Rank(transcript string, candidates []Matter) []Match {
	text := strings.ToLower(transcript)

	var matches []Match
	for _, c := range candidates {
		score, matchedOn := scoreMatter(text, c)
		if score < minScore {
			continue
		}
		matches = append(matches, Match{
			Matter:     c,
			Score:      score,
			Confidence: scoreToConfidence(score),
			MatchedOn:  matchedOn,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// Best returns the top match, or nil if nothing scores above threshold.
func (m *Matcher) Best(transcript string, candidates []Matter) *Match {
	matches := m.Rank(transcript, candidates)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

// GuessClientName applies generic name-extraction patterns when no
// candidate list is supplied. Returns empty string if nothing matches.
func (m *Matcher) GuessClientName(transcript string) string {
	for _, re := range nameGuessPatterns {
		groups := re.FindStringSubmatch(transcript)
		if len(groups) > 1 {
			parts := make([]string, 0, len(groups)-1)
			for _, g := range groups[1:] {
				if g != "" {
					parts = append(parts, g)
				}
			}
			return strings.Join(parts, " v ")
		}
	}
	return ""
}

// scoreMatter computes the weighted substring score of one candidate.
func scoreMatter(text string, c Matter) (float64, string) {
	var score float64
	var matchedOn []string

	if containsField(text, c.ClientName) {
		score += weightClientName
		matchedOn = append(matchedOn, "client_name")
	}
	if containsField(text, c.Title) {
		score += weightTitle
		matchedOn = append(matchedOn, "title")
	}
	if containsField(text, c.Attorney) {
		score += weightAttorney
		matchedOn = append(matchedOn, "attorney")
	}
	if containsField(text, c.BriefType) {
		score += weightBriefType
		matchedOn = append(matchedOn, "brief_type")
	}

	return score, strings.Join(matchedOn, ",")
}

// containsField reports whether any significant word of the field value
// appears in the transcript. Short words ("de", "of") are skipped to
// avoid accidental hits.
func containsField(text, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false
	}
	if strings.Contains(text, value) {
		return true
	}
	for _, word := range strings.Fields(value) {
		if len(word) < 3 {
			continue
		}
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

// scoreToConfidence maps a weighted score onto [0,1]. A client-name hit
// alone (0.4) lands at 0.9, which keeps single-field matches usable.
func scoreToConfidence(score float64) float64 {
	conf := 0.5 + score
	if conf > 0.95 {
		conf = 0.95
	}
	return conf
}
