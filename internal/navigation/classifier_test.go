package navigation

import (
	"context"
	"errors"
	"testing"
)

// stubLLM returns a fixed response or error.
type stubLLM struct {
	response string
	err      error
	calls    int
}

func (s *stubLLM) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubLLM) Available() bool { return true }

func keywordClassifier() *Classifier {
	return NewClassifier(nil, ClassifierConfig{}, nil)
}

func TestClassifyNavigationCommand(t *testing.T) {
	c := keywordClassifier()

	result := c.Classify(context.Background(), "open the dashboard")

	if !result.Recognized {
		t.Fatal("recognized = false, want true")
	}
	if result.FallbackToTimeEntry {
		t.Error("fallback = true, want false for a recognized command")
	}
	if len(result.Commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(result.Commands))
	}

	cmd := result.Commands[0]
	if cmd.Action != ActionNavigate {
		t.Errorf("action = %s, want navigate", cmd.Action)
	}
	if cmd.Target != "dashboard" {
		t.Errorf("target = %s, want dashboard", cmd.Target)
	}
	if cmd.Confidence < 0.8 {
		t.Errorf("confidence = %v, want >= 0.8 for verb plus alias", cmd.Confidence)
	}
	if cmd.ID == "" {
		t.Error("command ID is empty")
	}
}

func TestClassifyNavigationVerbs(t *testing.T) {
	tests := []struct {
		transcript string
		target     string
	}{
		{"go to matters", "matters"},
		{"show my invoices", "invoices"},
		{"switch to settings", "settings"},
		{"take me to the reports", "reports"},
		{"navigate to compliance", "compliance"},
	}

	c := keywordClassifier()
	for _, tt := range tests {
		t.Run(tt.transcript, func(t *testing.T) {
			result := c.Classify(context.Background(), tt.transcript)
			if !result.Recognized {
				t.Fatalf("Classify(%q) not recognized", tt.transcript)
			}
			if result.Commands[0].Target != tt.target {
				t.Errorf("target = %s, want %s", result.Commands[0].Target, tt.target)
			}
		})
	}
}

func TestClassifyQuickAction(t *testing.T) {
	c := keywordClassifier()

	result := c.Classify(context.Background(), "start the timer please")

	if !result.Recognized {
		t.Fatal("recognized = false, want true")
	}
	cmd := result.Commands[0]
	if cmd.Action != ActionQuickAction {
		t.Errorf("action = %s, want quick_action", cmd.Action)
	}
	if cmd.Target != "start_timer" {
		t.Errorf("target = %s, want start_timer", cmd.Target)
	}
}

func TestClassifySearchCommand(t *testing.T) {
	tests := []struct {
		transcript string
		query      string
	}{
		{"find smith contracts", "smith contracts"},
		{"search smith contracts", "smith contracts"},
		// The longer verb must win or the query keeps the preposition.
		{"search for smith", "smith"},
		{"look for the mokoena file", "the mokoena file"},
	}

	c := keywordClassifier()
	for _, tt := range tests {
		t.Run(tt.transcript, func(t *testing.T) {
			result := c.Classify(context.Background(), tt.transcript)
			if !result.Recognized {
				t.Fatalf("Classify(%q) not recognized", tt.transcript)
			}
			cmd := result.Commands[0]
			if cmd.Action != ActionSearch {
				t.Errorf("action = %s, want search", cmd.Action)
			}
			if cmd.Parameters["query"] != tt.query {
				t.Errorf("query = %q, want %q", cmd.Parameters["query"], tt.query)
			}
		})
	}
}

func TestClassifyBillingContentFallsThrough(t *testing.T) {
	c := keywordClassifier()

	result := c.Classify(context.Background(), "I worked 2 hours on the Smith appeal drafting heads of argument")

	if result.Recognized {
		t.Errorf("recognized = true with commands %+v, want false", result.Commands)
	}
	if !result.FallbackToTimeEntry {
		t.Error("fallback = false, want true for dictated billing content")
	}
}

func TestClassifyEmptyTranscript(t *testing.T) {
	c := keywordClassifier()

	result := c.Classify(context.Background(), "   ")

	if result.Recognized {
		t.Error("recognized = true for empty transcript")
	}
	if result.FallbackToTimeEntry {
		t.Error("fallback = true for empty transcript, want false")
	}
	if len(result.Diagnostics) == 0 {
		t.Error("expected a diagnostic for empty transcript")
	}
}

func TestClassifyRemote(t *testing.T) {
	stub := &stubLLM{response: `{"is_command": true, "commands": [{"action": "navigate", "target": "invoices", "confidence": 0.9}]}`}
	c := NewClassifier(stub, ClassifierConfig{}, nil)

	result := c.Classify(context.Background(), "bring up my bills")

	if !result.Recognized {
		t.Fatal("recognized = false, want true")
	}
	cmd := result.Commands[0]
	if cmd.Target != "invoices" {
		t.Errorf("target = %s, want invoices", cmd.Target)
	}
	if cmd.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9 for an exact target", cmd.Confidence)
	}
}

func TestClassifyRemoteFuzzyCorrection(t *testing.T) {
	stub := &stubLLM{response: `{"is_command": true, "commands": [{"action": "navigate", "target": "dashbord", "confidence": 0.9}]}`}
	c := NewClassifier(stub, ClassifierConfig{}, nil)

	result := c.Classify(context.Background(), "open the dash board")

	if !result.Recognized {
		t.Fatal("recognized = false, want true")
	}
	cmd := result.Commands[0]
	if cmd.Target != "dashboard" {
		t.Errorf("target = %s, want fuzzy-corrected dashboard", cmd.Target)
	}
	want := 0.9 * fuzzyPenalty
	if cmd.Confidence != want {
		t.Errorf("confidence = %v, want penalized %v", cmd.Confidence, want)
	}
	if len(result.Diagnostics) == 0 {
		t.Error("expected a correction diagnostic")
	}
}

func TestClassifyRemoteUnknownTargetDropped(t *testing.T) {
	stub := &stubLLM{response: `{"is_command": true, "commands": [{"action": "navigate", "target": "warp_drive", "confidence": 0.9}]}`}
	c := NewClassifier(stub, ClassifierConfig{}, nil)

	result := c.Classify(context.Background(), "engage the warp drive")

	if result.Recognized {
		t.Errorf("recognized = true with commands %+v, want keyword fallback to find nothing", result.Commands)
	}
	if !result.FallbackToTimeEntry {
		t.Error("fallback = false, want true when nothing valid remains")
	}
	if len(result.Diagnostics) == 0 {
		t.Error("expected a diagnostic for the dropped target")
	}
}

func TestClassifyRemoteErrorFallsBackToKeywords(t *testing.T) {
	stub := &stubLLM{err: errors.New("provider down")}
	c := NewClassifier(stub, ClassifierConfig{}, nil)

	result := c.Classify(context.Background(), "open the dashboard")

	if !result.Recognized {
		t.Fatal("recognized = false, want keyword fallback to succeed")
	}
	if result.Commands[0].Target != "dashboard" {
		t.Errorf("target = %s, want dashboard", result.Commands[0].Target)
	}
	if len(result.Diagnostics) == 0 {
		t.Error("expected the remote failure recorded in diagnostics")
	}
}

func TestClassifyRemoteNotACommand(t *testing.T) {
	stub := &stubLLM{response: `{"is_command": false, "commands": []}`}
	c := NewClassifier(stub, ClassifierConfig{}, nil)

	result := c.Classify(context.Background(), "I spent two hours drafting the Smith opinion")

	if result.Recognized {
		t.Error("recognized = true, want false for billing content")
	}
	if !result.FallbackToTimeEntry {
		t.Error("fallback = false, want true")
	}
}
