package extraction

import (
	"strings"
	"time"
	"unicode"

	"github.com/lexohub/voicepipe/internal/matter"
)

// PatternConfig configures a PatternExtractor. Zero values select the
// built-in rule tables and the wall clock.
type PatternConfig struct {
	// Clock supplies "now" for relative date resolution. Tests pin it.
	Clock func() time.Time

	DurationRules []DurationRule
	DateRules     []DateRule
	WorkTypes     []WorkTypeKeywords
}

// PatternExtractor extracts time-entry fields with regex rules and
// keyword tables. It never fails and never touches the network, which
// makes it the fallback of last resort for the Coordinator.
type PatternExtractor struct {
	clock         func() time.Time
	durationRules []DurationRule
	dateRules     []DateRule
	workTypes     []WorkTypeKeywords
	matcher       *matter.Matcher
}

// NewPatternExtractor creates a pattern extractor, filling unset config
// fields with the defaults.
func NewPatternExtractor(cfg PatternConfig) *PatternExtractor {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.DurationRules == nil {
		cfg.DurationRules = DefaultDurationRules()
	}
	if cfg.DateRules == nil {
		cfg.DateRules = DefaultDateRules()
	}
	if cfg.WorkTypes == nil {
		cfg.WorkTypes = DefaultWorkTypeKeywords()
	}
	return &PatternExtractor{
		clock:         cfg.Clock,
		durationRules: cfg.DurationRules,
		dateRules:     cfg.DateRules,
		workTypes:     cfg.WorkTypes,
		matcher:       matter.NewMatcher(),
	}
}

// Extract produces a time-entry draft from the transcript. Pattern
// extraction is pure text processing and cannot fail; missing fields
// come back nil and defaulted fields carry a warning.
func (p *PatternExtractor) Extract(transcript string, candidates []matter.Matter) *TimeEntry {
	entry := &TimeEntry{Method: MethodTraditional}

	// consumed collects the transcript spans claimed by duration and
	// date rules so the description pass can strip them out.
	var consumed []string

	if f, span := p.extractDuration(transcript); f != nil {
		entry.Duration = f
		consumed = append(consumed, span)
	}

	if f, span, warn := p.extractDate(transcript); f != nil {
		entry.Date = f
		if span != "" {
			consumed = append(consumed, span)
		}
		if warn != "" {
			entry.Warnings = append(entry.Warnings, warn)
		}
	}

	entry.WorkType = p.extractWorkType(transcript)
	entry.Matter = p.extractMatter(transcript, candidates)
	entry.Description = p.buildDescription(transcript, consumed, entry.WorkType)

	entry.Confidence = overallConfidence(entry, len(transcript))
	return entry
}

func (p *PatternExtractor) extractDuration(transcript string) (*Field[int], string) {
	for _, rule := range p.durationRules {
		groups := rule.Pattern.FindStringSubmatch(transcript)
		if groups == nil {
			continue
		}
		minutes, ok := rule.Parse(groups)
		if !ok || minutes < MinDurationMinutes || minutes > MaxDurationMinutes {
			continue
		}
		return &Field[int]{
			Value:      minutes,
			Confidence: rule.Confidence,
			RawText:    groups[0],
		}, groups[0]
	}
	return nil, ""
}

func (p *PatternExtractor) extractDate(transcript string) (*Field[string], string, string) {
	now := p.clock()
	for _, rule := range p.dateRules {
		groups := rule.Pattern.FindStringSubmatch(transcript)
		if groups == nil {
			continue
		}
		resolved, ok := rule.Resolve(now, groups)
		if !ok {
			continue
		}
		return &Field[string]{
			Value:      resolved.Format("2006-01-02"),
			Confidence: rule.Confidence,
			RawText:    groups[0],
		}, groups[0], ""
	}
	// No date cue anywhere. Default to today at low confidence so the
	// draft stays usable, but flag it for the reviewer.
	return &Field[string]{
		Value:      now.Format("2006-01-02"),
		Confidence: 0.4,
	}, "", "no date mentioned, defaulted to today"
}

func (p *PatternExtractor) extractWorkType(transcript string) *Field[WorkType] {
	text := strings.ToLower(transcript)

	best := WorkGeneral
	bestHits := 0
	bestKeyword := ""
	for _, wt := range p.workTypes {
		hits := 0
		first := ""
		for _, kw := range wt.Keywords {
			if strings.Contains(text, kw) {
				hits++
				if first == "" {
					first = kw
				}
			}
		}
		if hits > bestHits {
			best = wt.Category
			bestHits = hits
			bestKeyword = first
		}
	}

	if bestHits == 0 {
		return &Field[WorkType]{Value: WorkGeneral, Confidence: 0.2}
	}

	conf := 0.5 + 0.25*float64(bestHits)
	if conf > 0.9 {
		conf = 0.9
	}
	return &Field[WorkType]{Value: best, Confidence: conf, RawText: bestKeyword}
}

func (p *PatternExtractor) extractMatter(transcript string, candidates []matter.Matter) *Field[string] {
	if len(candidates) > 0 {
		m := p.matcher.Best(transcript, candidates)
		if m == nil {
			return nil
		}
		return &Field[string]{
			Value:      m.Matter.ID,
			Confidence: m.Confidence,
			RawText:    m.MatchedOn,
		}
	}

	if guess := p.matcher.GuessClientName(transcript); guess != "" {
		return &Field[string]{Value: guess, Confidence: 0.5, RawText: guess}
	}
	return nil
}

// buildDescription strips the consumed duration/date spans out of the
// transcript and tidies the remainder into a billing narrative.
func (p *PatternExtractor) buildDescription(transcript string, consumed []string, workType *Field[WorkType]) *Field[string] {
	remainder := transcript
	for _, span := range consumed {
		remainder = strings.Replace(remainder, span, " ", 1)
	}
	remainder = strings.TrimSpace(strings.Join(strings.Fields(remainder), " "))
	remainder = strings.TrimLeft(remainder, ",.;:- ")

	if remainder == "" {
		return &Field[string]{
			Value:      capitalize(strings.TrimSpace(transcript)),
			Confidence: 0.5,
		}
	}

	desc := capitalize(remainder)
	conf := 0.7
	if len(remainder) < 12 && workType != nil && workType.Value != WorkGeneral {
		desc = string(workType.Value) + ": " + desc
		conf = 0.5
	}

	return &Field[string]{Value: desc, Confidence: conf, RawText: remainder}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
