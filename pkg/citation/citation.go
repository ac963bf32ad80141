// Package citation implements a rule-driven parser, reference resolver, and
// validator for US-style legal citations (Bluebook conventions):
//   - Cases: "Brown v. Board of Education, 347 U.S. 483 (1954)"
//   - Statutes: "42 U.S.C. § 1983"
//   - Regulations: "45 C.F.R. § 164.502"
//   - Court rules: "Fed. R. Civ. P. 12(b)(6)"
//   - Constitutions: "U.S. Const. amend. XIV, § 1"
//   - Books and law review articles
//
// Parsing is best-effort extraction over free text: spans that match no rule
// are skipped silently, and malformed citations surface as validation errors
// on the record rather than as parse failures.
package citation

// CitationType classifies the kind of legal citation.
type CitationType string

const (
	CitationTypeCase         CitationType = "case"
	CitationTypeStatute      CitationType = "statute"
	CitationTypeRegulation   CitationType = "regulation"
	CitationTypeRule         CitationType = "rule"
	CitationTypeConstitution CitationType = "constitution"
	CitationTypeBook         CitationType = "book"
	CitationTypeArticle      CitationType = "article"
	CitationTypeUnknown      CitationType = "unknown"
)

// String returns the type as a plain string.
func (t CitationType) String() string {
	return string(t)
}

// ComponentType identifies one extractable part of a citation.
type ComponentType string

const (
	ComponentParty         ComponentType = "party"
	ComponentVolume        ComponentType = "volume"
	ComponentReporter      ComponentType = "reporter"
	ComponentPage          ComponentType = "page"
	ComponentYear          ComponentType = "year"
	ComponentCourt         ComponentType = "court"
	ComponentTitle         ComponentType = "title"
	ComponentCode          ComponentType = "code"
	ComponentSection       ComponentType = "section"
	ComponentRuleNumber    ComponentType = "rule_number"
	ComponentAuthor        ComponentType = "author"
	ComponentPublisher     ComponentType = "publisher"
	ComponentEdition       ComponentType = "edition"
	ComponentPinCite       ComponentType = "pin_cite"
	ComponentSignal        ComponentType = "signal"
	ComponentParenthetical ComponentType = "parenthetical"
)

// Severity grades a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationError describes one problem found in a citation.
type ValidationError struct {
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	Component  ComponentType `json:"component,omitempty"`
	Severity   Severity      `json:"severity"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// ValidationResult is the outcome of validating a single citation.
// IsValid is true iff no entry in Errors has error severity.
type ValidationResult struct {
	IsValid     bool              `json:"is_valid"`
	Errors      []ValidationError `json:"errors"`
	Warnings    []ValidationError `json:"warnings,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

// ParsedCitation is the central record produced by the parser, enriched by
// the reference resolver, and annotated by the validator. It is treated as
// read-only once formatting begins.
type ParsedCitation struct {
	Type         CitationType `json:"type"`
	FullCitation string       `json:"full_citation"`

	// Set by the reference resolver when this record was a short form or
	// "Id." reference: holds the original abbreviated text.
	ShortForm string `json:"short_form,omitempty"`

	PinCite       string   `json:"pin_cite,omitempty"`
	Parenthetical string   `json:"parenthetical,omitempty"`
	Signal        string   `json:"signal,omitempty"`
	Title         string   `json:"title,omitempty"`
	Reporter      string   `json:"reporter,omitempty"`
	Volume        string   `json:"volume,omitempty"`
	Page          string   `json:"page,omitempty"`
	Year          string   `json:"year,omitempty"`
	Court         string   `json:"court,omitempty"`
	Jurisdiction  string   `json:"jurisdiction,omitempty"`
	PartyNames    []string `json:"party_names,omitempty"`
	Code          string   `json:"code,omitempty"`
	Section       string   `json:"section,omitempty"`
	RuleNumber    string   `json:"rule_number,omitempty"`
	Author        string   `json:"author,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	Edition       string   `json:"edition,omitempty"`

	// Validation state. Only meaningful after the validator has run;
	// unvalidated records default to IsValid=true with no errors.
	IsValid     bool              `json:"is_valid"`
	Errors      []ValidationError `json:"errors"`
	Suggestions []string          `json:"suggestions,omitempty"`

	// Byte offsets of the match in the source text.
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`

	// Components the owning rule marked required but the match did not
	// capture. Surfaced by the validator, never as a parse failure.
	MissingComponents []ComponentType `json:"missing_components,omitempty"`

	// Set by the resolver on records classified as "Id." or short-form
	// references. Abbreviated records never serve as antecedents.
	abbreviated bool
}

// FirstParty returns the leading party name, or "" for non-case citations.
func (c *ParsedCitation) FirstParty() string {
	if len(c.PartyNames) == 0 {
		return ""
	}
	return c.PartyNames[0]
}

// Component returns the string value of a single component, with party
// names joined as "A v. B".
func (c *ParsedCitation) Component(componentType ComponentType) string {
	switch componentType {
	case ComponentParty:
		return joinParties(c.PartyNames)
	case ComponentVolume:
		return c.Volume
	case ComponentReporter:
		return c.Reporter
	case ComponentPage:
		return c.Page
	case ComponentYear:
		return c.Year
	case ComponentCourt:
		return c.Court
	case ComponentTitle:
		return c.Title
	case ComponentCode:
		return c.Code
	case ComponentSection:
		return c.Section
	case ComponentRuleNumber:
		return c.RuleNumber
	case ComponentAuthor:
		return c.Author
	case ComponentPublisher:
		return c.Publisher
	case ComponentEdition:
		return c.Edition
	case ComponentPinCite:
		return c.PinCite
	case ComponentSignal:
		return c.Signal
	case ComponentParenthetical:
		return c.Parenthetical
	default:
		return ""
	}
}

// IdentityKey returns the minimal key that distinguishes this citation from
// others of the same type, used for deduplication and short-form selection:
// cases key on volume/reporter/page, statutes on code/section, court rules
// on code/rule number, and everything else on the full citation text.
// Records missing their key fields fall back to the full citation text.
func (c *ParsedCitation) IdentityKey() string {
	switch c.Type {
	case CitationTypeCase:
		if c.Volume != "" && c.Reporter != "" && c.Page != "" {
			return "case|" + c.Volume + "|" + c.Reporter + "|" + c.Page
		}
	case CitationTypeStatute:
		if c.Section != "" && (c.Code != "" || c.Title != "") {
			return "statute|" + c.Code + c.Title + "|" + c.Section
		}
	case CitationTypeRule:
		if c.Code != "" && c.RuleNumber != "" {
			return "rule|" + c.Code + "|" + c.RuleNumber
		}
	}
	return string(c.Type) + "|" + c.FullCitation
}

func joinParties(parties []string) string {
	switch len(parties) {
	case 0:
		return ""
	case 1:
		return parties[0]
	default:
		return parties[0] + " v. " + parties[1]
	}
}
