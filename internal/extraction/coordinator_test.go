package extraction

import (
	"context"
	"errors"
	"testing"
)

// stubRemote returns a fixed entry or error.
type stubRemote struct {
	entry  *TimeEntry
	err    error
	called bool
}

func (s *stubRemote) Extract(_ context.Context, _ Request) (*TimeEntry, error) {
	s.called = true
	return s.entry, s.err
}

func newTestCoordinator(remote Remote) *Coordinator {
	pattern := NewPatternExtractor(PatternConfig{Clock: fixedClock})
	return NewCoordinator(remote, pattern, nil)
}

func TestCoordinatorAcceptsRemoteResult(t *testing.T) {
	remote := &stubRemote{
		entry: &TimeEntry{
			Duration:   &Field[int]{Value: 90, Confidence: 0.9},
			Confidence: 0.85,
			Method:     MethodClaude,
		},
	}
	c := newTestCoordinator(remote)

	entry := c.Extract(context.Background(), Request{
		Transcript: "ninety minutes drafting",
		Options:    DefaultOptions(),
	})

	if entry.Method != MethodClaude {
		t.Errorf("method = %s, want claude", entry.Method)
	}
	if entry.Duration == nil || entry.Duration.Value != 90 {
		t.Errorf("duration = %+v, want remote value 90", entry.Duration)
	}
}

func TestCoordinatorFallsBackOnRemoteError(t *testing.T) {
	remote := &stubRemote{err: errors.New("provider down")}
	c := newTestCoordinator(remote)

	entry := c.Extract(context.Background(), Request{
		Transcript: "2 hours reviewing the bundle today",
		Options:    DefaultOptions(),
	})

	if entry.Method != MethodHybrid {
		t.Errorf("method = %s, want hybrid after remote failure", entry.Method)
	}
	if len(entry.Errors) == 0 {
		t.Error("expected remote failure recorded in Errors")
	}
	if entry.Duration == nil || entry.Duration.Value != 120 {
		t.Errorf("duration = %+v, want pattern value 120", entry.Duration)
	}
}

func TestCoordinatorFallsBackBelowThreshold(t *testing.T) {
	remote := &stubRemote{
		entry: &TimeEntry{Confidence: 0.3, Method: MethodClaude},
	}
	c := newTestCoordinator(remote)

	entry := c.Extract(context.Background(), Request{
		Transcript: "45 minutes on correspondence yesterday",
		Options:    DefaultOptions(),
	})

	if entry.Method != MethodHybrid {
		t.Errorf("method = %s, want hybrid for low-confidence remote result", entry.Method)
	}
	if len(entry.Warnings) == 0 {
		t.Error("expected a warning for the threshold fallback")
	}
}

func TestCoordinatorForceTraditional(t *testing.T) {
	remote := &stubRemote{
		entry: &TimeEntry{Confidence: 0.95, Method: MethodClaude},
	}
	c := newTestCoordinator(remote)

	opts := DefaultOptions()
	opts.ForceTraditional = true
	entry := c.Extract(context.Background(), Request{
		Transcript: "1.5 hours drafting pleadings",
		Options:    opts,
	})

	if remote.called {
		t.Error("remote extractor called despite ForceTraditional")
	}
	if entry.Method != MethodTraditional {
		t.Errorf("method = %s, want traditional", entry.Method)
	}
}

func TestCoordinatorNoRemoteConfigured(t *testing.T) {
	c := newTestCoordinator(nil)

	entry := c.Extract(context.Background(), Request{
		Transcript: "30 minutes on emails",
		Options:    DefaultOptions(),
	})

	if entry.Method != MethodTraditional {
		t.Errorf("method = %s, want traditional without a remote", entry.Method)
	}
	if entry.Duration == nil || entry.Duration.Value != 30 {
		t.Errorf("duration = %+v, want 30", entry.Duration)
	}
}

func TestCoordinatorFallbackDisabled(t *testing.T) {
	remote := &stubRemote{err: errors.New("provider down")}
	c := newTestCoordinator(remote)

	entry := c.Extract(context.Background(), Request{
		Transcript: "2 hours drafting",
		Options: Options{
			EnableFallback:      false,
			ConfidenceThreshold: 0.6,
		},
	})

	if entry.Method != MethodTraditional {
		t.Errorf("method = %s, want traditional", entry.Method)
	}
	if entry.Confidence != minOverallConfidence {
		t.Errorf("confidence = %v, want floor %v", entry.Confidence, minOverallConfidence)
	}
	if entry.Description == nil || entry.Description.Value != "2 hours drafting" {
		t.Errorf("description = %+v, want raw transcript preserved", entry.Description)
	}
	if len(entry.Errors) == 0 {
		t.Error("expected remote failure recorded in Errors")
	}
}

func TestCoordinatorNormalizesThreshold(t *testing.T) {
	remote := &stubRemote{
		entry: &TimeEntry{Confidence: 0.55, Method: MethodClaude},
	}
	c := newTestCoordinator(remote)

	// Zero threshold must normalize to the 0.6 default, so a 0.55
	// result still falls back.
	entry := c.Extract(context.Background(), Request{
		Transcript: "45 minutes on the bundle",
		Options:    Options{EnableFallback: true},
	})

	if entry.Method != MethodHybrid {
		t.Errorf("method = %s, want hybrid under the default threshold", entry.Method)
	}
}
