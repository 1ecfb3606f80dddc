package extraction

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lexohub/voicepipe/internal/matter"
)

// fixedClock pins "now" to Monday 2025-03-10 for deterministic date
// resolution.
func fixedClock() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func newTestExtractor() *PatternExtractor {
	return NewPatternExtractor(PatternConfig{Clock: fixedClock})
}

func TestPatternExtractorDuration(t *testing.T) {
	tests := []struct {
		name        string
		transcript  string
		wantMinutes int
		wantConf    float64
	}{
		{
			name:        "hours and minutes",
			transcript:  "worked 2 hours and 15 minutes on research",
			wantMinutes: 135,
			wantConf:    0.9,
		},
		{
			name:        "decimal hours",
			transcript:  "spent 1.5 hours drafting the opinion",
			wantMinutes: 90,
			wantConf:    0.8,
		},
		{
			name:        "minutes only",
			transcript:  "45 minutes reviewing the bundle",
			wantMinutes: 45,
			wantConf:    0.7,
		},
		{
			name:        "clock format",
			transcript:  "logged 2:30 on the pleadings",
			wantMinutes: 150,
			wantConf:    0.6,
		},
	}

	p := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := p.Extract(tt.transcript, nil)
			if entry.Duration == nil {
				t.Fatalf("Extract(%q) duration = nil, want %d", tt.transcript, tt.wantMinutes)
			}
			if entry.Duration.Value != tt.wantMinutes {
				t.Errorf("duration = %d, want %d", entry.Duration.Value, tt.wantMinutes)
			}
			if entry.Duration.Confidence != tt.wantConf {
				t.Errorf("confidence = %v, want %v", entry.Duration.Confidence, tt.wantConf)
			}
		})
	}
}

func TestPatternExtractorDurationOutOfRange(t *testing.T) {
	p := newTestExtractor()

	entry := p.Extract("3 minutes on a quick email reply", nil)
	if entry.Duration != nil {
		t.Errorf("duration = %v, want nil for sub-minimum value", entry.Duration.Value)
	}

	entry = p.Extract("1441 minutes on the trial", nil)
	if entry.Duration != nil {
		t.Errorf("duration = %v, want nil for value above a full day", entry.Duration.Value)
	}
}

func TestPatternExtractorDate(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		wantDate   string
		wantConf   float64
	}{
		{"today", "reviewed documents today", "2025-03-10", 0.95},
		{"yesterday", "met the client yesterday", "2025-03-09", 0.9},
		{"day of week", "hearing set for friday", "2025-03-14", 0.7},
		{"same day of week resolves to today", "monday consultation", "2025-03-10", 0.7},
		{"literal date", "filed on 15/04/2025", "2025-04-15", 0.85},
	}

	p := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := p.Extract(tt.transcript, nil)
			if entry.Date == nil {
				t.Fatalf("Extract(%q) date = nil, want %s", tt.transcript, tt.wantDate)
			}
			if entry.Date.Value != tt.wantDate {
				t.Errorf("date = %s, want %s", entry.Date.Value, tt.wantDate)
			}
			if entry.Date.Confidence != tt.wantConf {
				t.Errorf("confidence = %v, want %v", entry.Date.Confidence, tt.wantConf)
			}
		})
	}
}

func TestPatternExtractorDateDefaultsToToday(t *testing.T) {
	p := newTestExtractor()
	entry := p.Extract("drafted heads of argument for the Smith matter", nil)

	if entry.Date == nil {
		t.Fatal("date = nil, want default")
	}
	if entry.Date.Value != "2025-03-10" {
		t.Errorf("date = %s, want 2025-03-10", entry.Date.Value)
	}
	if entry.Date.Confidence != 0.4 {
		t.Errorf("confidence = %v, want 0.4 for defaulted date", entry.Date.Confidence)
	}
	if len(entry.Warnings) == 0 {
		t.Error("expected a warning for defaulted date")
	}
}

func TestPatternExtractorInvalidLiteralDate(t *testing.T) {
	p := newTestExtractor()
	entry := p.Extract("filed on 31/02/2025 apparently", nil)

	// 31 February does not exist; the rule must reject it and the date
	// falls back to today.
	if entry.Date == nil {
		t.Fatal("date = nil, want default")
	}
	if entry.Date.Value != "2025-03-10" {
		t.Errorf("date = %s, want fallback to today", entry.Date.Value)
	}
}

func TestPatternExtractorWorkType(t *testing.T) {
	tests := []struct {
		transcript string
		want       WorkType
	}{
		{"researched case law on prescription", WorkResearch},
		{"drafted the opinion for counsel", WorkDrafting},
		{"consultation with the client", WorkClientMeeting},
		{"appeared in motion court", WorkCourtAppearance},
		{"reviewed the discovery bundle", WorkDocumentReview},
		{"sent a letter of demand", WorkCorrespondence},
		{"settlement negotiation with opposing counsel", WorkNegotiation},
		{"travelled to the Durban office", WorkTravel},
		{"invoice admin for the month", WorkAdministrative},
	}

	p := newTestExtractor()
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			entry := p.Extract(tt.transcript, nil)
			if entry.WorkType == nil {
				t.Fatalf("Extract(%q) work type = nil", tt.transcript)
			}
			if entry.WorkType.Value != tt.want {
				t.Errorf("work type = %s, want %s", entry.WorkType.Value, tt.want)
			}
		})
	}
}

func TestPatternExtractorWorkTypeDefaultsToGeneral(t *testing.T) {
	p := newTestExtractor()
	entry := p.Extract("spent some time on miscellaneous things", nil)

	if entry.WorkType == nil {
		t.Fatal("work type = nil, want General default")
	}
	if entry.WorkType.Value != WorkGeneral {
		t.Errorf("work type = %s, want General", entry.WorkType.Value)
	}
	if entry.WorkType.Confidence != 0.2 {
		t.Errorf("confidence = %v, want 0.2 for default", entry.WorkType.Confidence)
	}
}

func TestPatternExtractorMatterMatching(t *testing.T) {
	candidates := []matter.Matter{
		{ID: "m-001", Title: "Smith v Jones", ClientName: "Smith", Attorney: "Naidoo"},
		{ID: "m-002", Title: "Estate Botha", ClientName: "Botha", Attorney: "Pillay"},
	}

	p := newTestExtractor()
	entry := p.Extract("two hours on the Smith matter", candidates)

	if entry.Matter == nil {
		t.Fatal("matter = nil, want m-001")
	}
	if entry.Matter.Value != "m-001" {
		t.Errorf("matter = %s, want m-001", entry.Matter.Value)
	}
	if entry.Matter.Confidence < 0.7 {
		t.Errorf("confidence = %v, want >= 0.7 for a client-name hit", entry.Matter.Confidence)
	}
}

func TestPatternExtractorMatterGuess(t *testing.T) {
	p := newTestExtractor()
	entry := p.Extract("meeting with Johnson about the appeal", nil)

	if entry.Matter == nil {
		t.Fatal("matter = nil, want client-name guess")
	}
	if entry.Matter.Value != "Johnson" {
		t.Errorf("matter = %s, want Johnson", entry.Matter.Value)
	}
	if entry.Matter.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5 for a guess", entry.Matter.Confidence)
	}
}

func TestPatternExtractorRoundTrip(t *testing.T) {
	candidates := []matter.Matter{
		{ID: "m-001", Title: "Smith v Jones", ClientName: "Smith"},
	}

	p := newTestExtractor()
	entry := p.Extract("Spent 2 hours and 30 minutes in court today for the Smith hearing", candidates)

	if entry.Method != MethodTraditional {
		t.Errorf("method = %s, want traditional", entry.Method)
	}
	if entry.Duration == nil || entry.Duration.Value != 150 {
		t.Fatalf("duration = %+v, want 150", entry.Duration)
	}
	if entry.Date == nil || entry.Date.Value != "2025-03-10" {
		t.Fatalf("date = %+v, want 2025-03-10", entry.Date)
	}
	if entry.WorkType == nil || entry.WorkType.Value != WorkCourtAppearance {
		t.Fatalf("work type = %+v, want Court Appearance", entry.WorkType)
	}
	if entry.Matter == nil || entry.Matter.Value != "m-001" {
		t.Fatalf("matter = %+v, want m-001", entry.Matter)
	}
	if entry.Description == nil || entry.Description.Value == "" {
		t.Fatal("description is empty")
	}

	for name, conf := range map[string]float64{
		"duration":  entry.Duration.Confidence,
		"date":      entry.Date.Confidence,
		"work_type": entry.WorkType.Confidence,
		"matter":    entry.Matter.Confidence,
	} {
		if conf < 0.7 {
			t.Errorf("%s confidence = %v, want >= 0.7", name, conf)
		}
	}

	if entry.Confidence <= 0 || entry.Confidence > 1 {
		t.Errorf("overall confidence = %v, want in (0,1]", entry.Confidence)
	}
}

func TestPatternExtractorIdempotent(t *testing.T) {
	p := newTestExtractor()
	transcript := "1.5 hours drafting pleadings yesterday for Smith"

	first := p.Extract(transcript, nil)
	second := p.Extract(transcript, nil)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestPatternExtractorDescriptionStripsConsumedSpans(t *testing.T) {
	p := newTestExtractor()
	entry := p.Extract("2 hours reviewing the bundle today", nil)

	if entry.Description == nil {
		t.Fatal("description = nil")
	}
	desc := entry.Description.Value
	if desc == "" {
		t.Fatal("description is empty")
	}
	for _, fragment := range []string{"2 hours", "today"} {
		if strings.Contains(desc, fragment) {
			t.Errorf("description %q still contains consumed span %q", desc, fragment)
		}
	}
}

func TestOverallConfidenceBounds(t *testing.T) {
	if got := overallConfidence(&TimeEntry{}, 50); got != minOverallConfidence {
		t.Errorf("overallConfidence with no fields = %v, want %v", got, minOverallConfidence)
	}

	entry := &TimeEntry{
		Duration: &Field[int]{Value: 60, Confidence: 1.0},
		Date:     &Field[string]{Value: "2025-03-10", Confidence: 1.0},
	}
	if got := overallConfidence(entry, 50); got > 1 {
		t.Errorf("overallConfidence = %v, want <= 1", got)
	}
}

func TestLengthFactor(t *testing.T) {
	if lengthFactor(5) != 0.6 {
		t.Errorf("lengthFactor(5) = %v, want 0.6", lengthFactor(5))
	}
	if lengthFactor(15) != 0.8 {
		t.Errorf("lengthFactor(15) = %v, want 0.8", lengthFactor(15))
	}
	if lengthFactor(100) != 1.0 {
		t.Errorf("lengthFactor(100) = %v, want 1.0", lengthFactor(100))
	}
}
