// Package docclass classifies uploaded legal documents and routes each
// one to a processing tier. Cheap signals run first (filename, header
// keywords, known templates) so only genuinely hard documents reach the
// expensive tiers.
package docclass

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// DocType is a recognized legal document category.
type DocType string

const (
	DocInvoice        DocType = "invoice"
	DocContract       DocType = "contract"
	DocCourtFiling    DocType = "court_filing"
	DocCorrespondence DocType = "correspondence"
	DocPleading       DocType = "pleading"
	DocUnknown        DocType = "unknown"
)

// Tier selects the processing pipeline for a document. Higher tiers
// cost more per page.
type Tier int

const (
	// TierTemplate means a known template was matched and fields can be
	// lifted straight from cached coordinates.
	TierTemplate Tier = 0
	// TierText is plain text extraction for short documents without
	// structure.
	TierText Tier = 1
	// TierStructured adds table and form analysis.
	TierStructured Tier = 2
	// TierFull is the complete analysis path for long or ambiguous
	// documents.
	TierFull Tier = 3
)

// Document carries the signals available before any heavy processing.
type Document struct {
	Filename      string `json:"filename"`
	FirstPageText string `json:"first_page_text,omitempty"`
	PageCount     int    `json:"page_count"`
	HasTables     bool   `json:"has_tables"`
	HasForms      bool   `json:"has_forms"`
}

// Classification is the routing decision for one document.
type Classification struct {
	Type       DocType  `json:"type"`
	Tier       Tier     `json:"tier"`
	Confidence float64  `json:"confidence"`
	TemplateID string   `json:"template_id,omitempty"`
	Signals    []string `json:"signals,omitempty"`
}

// TemplateMatch is a cached template the document resembles.
type TemplateMatch struct {
	TemplateID string
	Type       DocType
	Confidence float64
}

// TemplateCache looks up known document templates by structural hash.
// A nil match means no template is known for the hash.
type TemplateCache interface {
	Lookup(ctx context.Context, structuralHash string) (*TemplateMatch, error)
}

// filenamePatterns map filename shapes to document types. Filenames
// are matched after separator normalization (see classifyFilename) and
// are a weak but free signal.
var filenamePatterns = []struct {
	re      *regexp.Regexp
	docType DocType
	conf    float64
}{
	{regexp.MustCompile(`\b(?:inv|invoice)\b`), DocInvoice, 0.7},
	{regexp.MustCompile(`\b(?:contract|agreement|sla|mou)\b`), DocContract, 0.65},
	{regexp.MustCompile(`\b(?:notice of motion|court order|judgment|subpoena)\b`), DocCourtFiling, 0.7},
	{regexp.MustCompile(`\b(?:letter|correspondence|memo)\b`), DocCorrespondence, 0.6},
	{regexp.MustCompile(`\b(?:plea|pleading|particulars of claim|affidavit)\b`), DocPleading, 0.7},
}

// headerCues map first-page phrases to document types. These outrank
// filename hits.
var headerCues = []struct {
	phrase  string
	docType DocType
	conf    float64
}{
	{"tax invoice", DocInvoice, 0.8},
	{"invoice number", DocInvoice, 0.75},
	{"amount due", DocInvoice, 0.6},
	{"memorandum of agreement", DocContract, 0.8},
	{"this agreement is entered into", DocContract, 0.75},
	{"terms and conditions", DocContract, 0.6},
	{"in the high court", DocCourtFiling, 0.8},
	{"in the magistrates' court", DocCourtFiling, 0.8},
	{"case number", DocCourtFiling, 0.6},
	{"notice of motion", DocCourtFiling, 0.75},
	{"dear sir", DocCorrespondence, 0.6},
	{"dear madam", DocCorrespondence, 0.6},
	{"yours faithfully", DocCorrespondence, 0.65},
	{"particulars of claim", DocPleading, 0.8},
	{"plaintiff", DocPleading, 0.55},
	{"affidavit", DocPleading, 0.7},
}

// templateConfidenceFloor is the cache confidence above which a
// document skips straight to the template tier.
const templateConfidenceFloor = 0.85

// Classifier routes documents to processing tiers.
type Classifier struct {
	templates TemplateCache
	logger    *zap.Logger
}

// NewClassifier creates a classifier. templates may be nil, disabling
// the template tier.
func NewClassifier(templates TemplateCache, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{templates: templates, logger: logger}
}

// Classify determines the document type and processing tier.
func (c *Classifier) Classify(ctx context.Context, doc Document) Classification {
	result := Classification{Type: DocUnknown}

	if match := c.lookupTemplate(ctx, doc); match != nil && match.Confidence > templateConfidenceFloor {
		result.Type = match.Type
		result.Tier = TierTemplate
		result.Confidence = match.Confidence
		result.TemplateID = match.TemplateID
		result.Signals = append(result.Signals, "template_cache")
		return result
	}

	if t, conf := classifyHeader(doc.FirstPageText); t != DocUnknown {
		result.Type = t
		result.Confidence = conf
		result.Signals = append(result.Signals, "header_keywords")
	} else if t, conf := classifyFilename(doc.Filename); t != DocUnknown {
		result.Type = t
		result.Confidence = conf
		result.Signals = append(result.Signals, "filename_pattern")
	}

	result.Tier = selectTier(doc, result.Confidence)
	return result
}

func (c *Classifier) lookupTemplate(ctx context.Context, doc Document) *TemplateMatch {
	if c.templates == nil || doc.FirstPageText == "" {
		return nil
	}
	match, err := c.templates.Lookup(ctx, StructuralHash(doc))
	if err != nil {
		c.logger.Warn("template cache lookup failed", zap.Error(err))
		return nil
	}
	return match
}

// StructuralHash fingerprints a document's layout for template lookup.
// It hashes a normalized prefix of the first page plus the page count
// so re-issued documents from the same template collide.
func StructuralHash(doc Document) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(doc.FirstPageText), " "))
	if len(normalized) > 512 {
		normalized = normalized[:512]
	}
	h := sha256.New()
	h.Write([]byte(normalized))
	h.Write([]byte{byte(doc.PageCount >> 8), byte(doc.PageCount)})
	return hex.EncodeToString(h.Sum(nil))
}

func classifyHeader(firstPage string) (DocType, float64) {
	text := strings.ToLower(firstPage)
	best := DocUnknown
	bestConf := 0.0
	for _, cue := range headerCues {
		if strings.Contains(text, cue.phrase) && cue.conf > bestConf {
			best = cue.docType
			bestConf = cue.conf
		}
	}
	return best, bestConf
}

func classifyFilename(filename string) (DocType, float64) {
	// Underscores count as word characters, so "notice_of_motion"
	// defeats \b matching. Normalize separators to spaces first.
	normalized := strings.ToLower(filename)
	normalized = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(normalized)

	for _, p := range filenamePatterns {
		if p.re.MatchString(normalized) {
			return p.docType, p.conf
		}
	}
	return DocUnknown, 0
}

// selectTier applies the routing rules in order, cheapest adequate
// tier first. Short unstructured documents never escalate past text
// extraction, and tables or forms take precedence over length.
func selectTier(doc Document, confidence float64) Tier {
	if doc.PageCount <= 3 && !doc.HasTables && !doc.HasForms {
		return TierText
	}
	if doc.HasTables || doc.HasForms {
		return TierStructured
	}
	if doc.PageCount > 10 || confidence < 0.5 {
		return TierFull
	}
	return TierStructured
}
