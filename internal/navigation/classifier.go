package navigation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lexohub/voicepipe/internal/llm"
)

// defaultMinConfidence is the command confidence below which the
// transcript is routed to time-entry extraction instead.
const defaultMinConfidence = 0.5

// fuzzyPenalty discounts commands whose target needed fuzzy correction.
const fuzzyPenalty = 0.8

// ClassifierConfig configures a Classifier. Zero values select the
// defaults.
type ClassifierConfig struct {
	MinConfidence float64 `koanf:"min_confidence"`
}

// Classifier decides whether a transcript is an app command or dictated
// billing content. A hosted model is consulted first when available;
// the keyword tables always back it up.
type Classifier struct {
	client        llm.Client
	minConfidence float64
	logger        *zap.Logger
}

// NewClassifier creates a classifier. client may be nil for keyword-only
// operation.
func NewClassifier(client llm.Client, cfg ClassifierConfig, logger *zap.Logger) *Classifier {
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = defaultMinConfidence
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		client:        client,
		minConfidence: cfg.MinConfidence,
		logger:        logger,
	}
}

// Classify examines the transcript and returns the recognized commands,
// or marks the transcript for time-entry extraction when no command
// clears the confidence floor. Classify never returns an error;
// problems are recorded as diagnostics on the result.
func (c *Classifier) Classify(ctx context.Context, transcript string) *Result {
	start := time.Now()
	result := &Result{OriginalText: transcript}
	defer func() { result.ProcessingTime = time.Since(start) }()

	text := strings.TrimSpace(transcript)
	if text == "" {
		result.Diagnostics = append(result.Diagnostics, "empty transcript")
		return result
	}

	if c.client != nil && c.client.Available() {
		commands, err := c.classifyRemote(ctx, text, result)
		if err != nil {
			c.logger.Warn("remote classification failed, using keywords",
				zap.Error(err))
			result.Diagnostics = append(result.Diagnostics,
				"remote classification failed: "+err.Error())
		} else if len(commands) > 0 {
			c.finish(result, commands)
			return result
		}
	}

	c.finish(result, c.classifyKeywords(text))
	return result
}

// finish applies the recognition and fallback rules to the command set.
func (c *Classifier) finish(result *Result, commands []Command) {
	result.Commands = commands
	result.Recognized = len(commands) > 0

	for _, cmd := range commands {
		if cmd.Confidence >= c.minConfidence {
			return
		}
	}
	result.FallbackToTimeEntry = true
}

// remoteClassification is the wire shape the model is asked to produce.
type remoteClassification struct {
	IsCommand bool `json:"is_command"`
	Commands  []struct {
		Action     string  `json:"action"`
		Target     string  `json:"target"`
		Query      string  `json:"query,omitempty"`
		Confidence float64 `json:"confidence"`
	} `json:"commands"`
}

func (c *Classifier) classifyRemote(ctx context.Context, text string, result *Result) ([]Command, error) {
	raw, err := c.client.Complete(ctx, buildClassificationPrompt(text))
	if err != nil {
		return nil, err
	}

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var rc remoteClassification
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &rc); err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}
	if !rc.IsCommand {
		return nil, nil
	}

	var commands []Command
	for _, rcmd := range rc.Commands {
		action := Action(rcmd.Action)
		confidence := clamp01(rcmd.Confidence)

		var vocab []string
		switch action {
		case ActionNavigate:
			vocab = pageTargets()
		case ActionQuickAction:
			vocab = quickActionTargets()
		case ActionSearch:
			cmd := newCommand(ActionSearch, "search", text, confidence)
			if rcmd.Query != "" {
				cmd.Parameters = map[string]string{"query": rcmd.Query}
			}
			commands = append(commands, cmd)
			continue
		default:
			result.Diagnostics = append(result.Diagnostics,
				fmt.Sprintf("model returned unknown action %q, dropped", rcmd.Action))
			continue
		}

		target := rcmd.Target
		if !containsString(vocab, target) {
			corrected, ok := fuzzyCorrect(target, vocab, defaultSimilarityThreshold)
			if !ok {
				result.Diagnostics = append(result.Diagnostics,
					fmt.Sprintf("model returned unknown target %q, dropped", rcmd.Target))
				continue
			}
			result.Diagnostics = append(result.Diagnostics,
				fmt.Sprintf("corrected target %q to %q", target, corrected))
			target = corrected
			confidence *= fuzzyPenalty
		}

		commands = append(commands, newCommand(action, target, text, confidence))
	}

	return commands, nil
}

func buildClassificationPrompt(text string) string {
	var b strings.Builder
	b.WriteString(`You classify what a lawyer said into their practice-management app.

Respond with ONLY a JSON object:
{
  "is_command": <true if the text is an app command, false if it is dictated billing content>,
  "commands": [
    {"action": "<navigate|search|quick_action>", "target": "<slug>", "query": "<search terms, search only>", "confidence": <0.0 to 1.0>}
  ]
}

Valid navigate targets: `)
	b.WriteString(strings.Join(pageTargets(), ", "))
	b.WriteString("\nValid quick_action targets: ")
	b.WriteString(strings.Join(quickActionTargets(), ", "))
	b.WriteString("\n\nText:\n")
	b.WriteString(text)
	return b.String()
}

// classifyKeywords runs the deterministic keyword tables. It works on
// lowercased text and recognizes at most one command per category.
func (c *Classifier) classifyKeywords(text string) []Command {
	lowered := strings.ToLower(text)
	var commands []Command

	// Quick actions first: "start timer" must not parse as navigation.
	for _, qa := range QuickActions() {
		for _, phrase := range qa.Phrases {
			if strings.Contains(lowered, phrase) {
				commands = append(commands, newCommand(ActionQuickAction, qa.Target, text, 0.7))
				break
			}
		}
	}
	if len(commands) > 0 {
		return commands
	}

	for _, page := range Pages() {
		for _, alias := range page.Aliases {
			if verbed(lowered, navigationVerbs, alias) {
				commands = append(commands, newCommand(ActionNavigate, page.Target, text, 0.8))
			} else if strings.HasPrefix(lowered, alias) {
				commands = append(commands, newCommand(ActionNavigate, page.Target, text, 0.6))
			} else {
				continue
			}
			break
		}
	}
	if len(commands) > 0 {
		return commands
	}

	// Longest matching verb wins so "search for" beats "search" and the
	// query does not keep the trailing preposition.
	var searchVerb string
	for _, verb := range searchVerbs {
		if strings.HasPrefix(lowered, verb+" ") && len(verb) > len(searchVerb) {
			searchVerb = verb
		}
	}
	if searchVerb != "" {
		query := strings.TrimSpace(text[len(searchVerb):])
		cmd := newCommand(ActionSearch, "search", text, 0.6)
		if query != "" {
			cmd.Parameters = map[string]string{"query": query}
		}
		commands = append(commands, cmd)
	}

	return commands
}

// verbed reports whether the text contains a navigation verb followed by
// the alias, with at most an article in between.
func verbed(lowered string, verbs []string, alias string) bool {
	idx := strings.Index(lowered, alias)
	if idx < 0 {
		return false
	}
	prefix := strings.TrimSpace(lowered[:idx])
	prefix = strings.TrimSuffix(prefix, " the")
	prefix = strings.TrimSuffix(prefix, " my")
	for _, verb := range verbs {
		if prefix == verb || strings.HasSuffix(prefix, " "+verb) {
			return true
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
