package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DurationRule is one tagged duration pattern. Rules are tried in
// order; the first rule whose parse yields an in-range value wins, so
// the default list is sorted by confidence descending.
type DurationRule struct {
	Name       string
	Pattern    *regexp.Regexp
	Confidence float64
	// Parse converts the submatch groups to total minutes. Returns
	// false when the groups do not form a usable value.
	Parse func(groups []string) (int, bool)
}

// DefaultDurationRules returns the built-in duration patterns,
// strongest first.
func DefaultDurationRules() []DurationRule {
	return []DurationRule{
		{
			Name:       "hours_and_minutes",
			Pattern:    regexp.MustCompile(`(?i)(\d{1,2})\s*(?:hours?|hrs?)\s*(?:and\s+)?(\d{1,2})\s*(?:minutes?|mins?)`),
			Confidence: 0.9,
			Parse: func(groups []string) (int, bool) {
				h, err1 := strconv.Atoi(groups[1])
				m, err2 := strconv.Atoi(groups[2])
				if err1 != nil || err2 != nil || m >= 60 {
					return 0, false
				}
				return h*60 + m, true
			},
		},
		{
			Name:       "decimal_hours",
			Pattern:    regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d+)?)\s*(?:hours?|hrs?)\b`),
			Confidence: 0.8,
			Parse: func(groups []string) (int, bool) {
				h, err := strconv.ParseFloat(groups[1], 64)
				if err != nil {
					return 0, false
				}
				return int(h*60 + 0.5), true
			},
		},
		{
			Name:       "minutes_only",
			Pattern:    regexp.MustCompile(`(?i)(\d{1,4})\s*(?:minutes?|mins?)\b`),
			Confidence: 0.7,
			Parse: func(groups []string) (int, bool) {
				m, err := strconv.Atoi(groups[1])
				if err != nil {
					return 0, false
				}
				return m, true
			},
		},
		{
			Name:       "clock_format",
			Pattern:    regexp.MustCompile(`\b(\d{1,2}):([0-5]\d)\b`),
			Confidence: 0.6,
			Parse: func(groups []string) (int, bool) {
				h, err1 := strconv.Atoi(groups[1])
				m, err2 := strconv.Atoi(groups[2])
				if err1 != nil || err2 != nil {
					return 0, false
				}
				return h*60 + m, true
			},
		},
	}
}

// DateRule is one tagged date pattern. Resolve turns the match into a
// concrete date relative to the injected clock.
type DateRule struct {
	Name       string
	Pattern    *regexp.Regexp
	Confidence float64
	Resolve    func(now time.Time, groups []string) (time.Time, bool)
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// DefaultDateRules returns the built-in date patterns, strongest first.
func DefaultDateRules() []DateRule {
	return []DateRule{
		{
			Name:       "today",
			Pattern:    regexp.MustCompile(`(?i)\btoday\b`),
			Confidence: 0.95,
			Resolve: func(now time.Time, _ []string) (time.Time, bool) {
				return now, true
			},
		},
		{
			Name:       "yesterday",
			Pattern:    regexp.MustCompile(`(?i)\byesterday\b`),
			Confidence: 0.9,
			Resolve: func(now time.Time, _ []string) (time.Time, bool) {
				return now.AddDate(0, 0, -1), true
			},
		},
		{
			Name:       "tomorrow",
			Pattern:    regexp.MustCompile(`(?i)\btomorrow\b`),
			Confidence: 0.8,
			Resolve: func(now time.Time, _ []string) (time.Time, bool) {
				return now.AddDate(0, 0, 1), true
			},
		},
		{
			Name:       "day_of_week",
			Pattern:    regexp.MustCompile(`(?i)\b(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`),
			Confidence: 0.7,
			Resolve: func(now time.Time, groups []string) (time.Time, bool) {
				target, ok := weekdays[strings.ToLower(groups[1])]
				if !ok {
					return time.Time{}, false
				}
				// Current occurrence within the week; today counts.
				offset := (int(target) - int(now.Weekday()) + 7) % 7
				return now.AddDate(0, 0, offset), true
			},
		},
		{
			Name:       "literal_dmy",
			Pattern:    regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
			Confidence: 0.85,
			Resolve: func(_ time.Time, groups []string) (time.Time, bool) {
				day, _ := strconv.Atoi(groups[1])
				month, _ := strconv.Atoi(groups[2])
				year, _ := strconv.Atoi(groups[3])
				if month < 1 || month > 12 || day < 1 || day > 31 {
					return time.Time{}, false
				}
				t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
				// Reject normalized overflows like 31/02.
				if t.Day() != day || int(t.Month()) != month {
					return time.Time{}, false
				}
				return t, true
			},
		},
	}
}

// WorkTypeKeywords maps a billing category to its trigger keywords.
type WorkTypeKeywords struct {
	Category WorkType
	Keywords []string
}

// DefaultWorkTypeKeywords returns the built-in keyword table used by
// the pattern extractor's category classifier.
func DefaultWorkTypeKeywords() []WorkTypeKeywords {
	return []WorkTypeKeywords{
		{WorkResearch, []string{"research", "investigate", "case law", "precedent", "authorities"}},
		{WorkDrafting, []string{"draft", "drafting", "drafted", "prepare", "heads of argument", "opinion", "pleadings"}},
		{WorkClientMeeting, []string{"meeting", "consultation", "consult", "client call", "conference"}},
		{WorkCourtAppearance, []string{"court", "hearing", "trial", "appearance", "argued", "motion court"}},
		{WorkDocumentReview, []string{"review", "reviewed", "bundle", "discovery", "documents"}},
		{WorkCorrespondence, []string{"email", "letter", "correspondence", "reply", "respond"}},
		{WorkNegotiation, []string{"negotiate", "negotiation", "settlement", "settle"}},
		{WorkTravel, []string{"travel", "travelled", "drive", "flight", "commute"}},
		{WorkAdministrative, []string{"admin", "administrative", "filing", "invoice", "billing"}},
	}
}
