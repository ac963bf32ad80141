package citation

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Validation error codes.
const (
	CodeMissingComponent    = "missing_component"
	CodeUnknownReporter     = "unknown_reporter"
	CodeUnknownCourt        = "unknown_court"
	CodeInvalidYear         = "invalid_year"
	CodeInvalidPage         = "invalid_page"
	CodeInvalidPinCite      = "invalid_pin_cite"
	CodeUnresolvedReference = "unresolved_reference"
)

// minYear is the earliest year accepted for any citation. Case citations
// are bounded tighter: the earliest reported American decisions appear in
// 1 U.S. (1 Dall.), which begins in 1754.
const (
	minYear     = 1600
	minCaseYear = 1754
)

var (
	allDigitsRe = regexp.MustCompile(`^\d+$`)
	pinShapeRe  = regexp.MustCompile(`^\d+(?:[-–]\d+)?$`)
)

// suggestionByCode maps distinct error codes to human-readable hints.
var suggestionByCode = map[string]string{
	CodeMissingComponent:    "Ensure all required components are included for this citation type.",
	CodeUnknownReporter:     "Check the reporter abbreviation against the standard reporter table.",
	CodeUnknownCourt:        "Check the court abbreviation against the standard court table.",
	CodeInvalidYear:         "Year should be a four-digit value within the plausible range for this citation type.",
	CodeInvalidPage:         "Page numbers should contain only digits.",
	CodeInvalidPinCite:      "Pin cites should be a page or page range (e.g., 484 or 484-85).",
	CodeUnresolvedReference: "Short-form citation could not be matched to an earlier full citation.",
}

// ValidationContext carries caller-supplied settings for validation.
type ValidationContext struct {
	// CurrentYear overrides the wall-clock year for the upper year
	// bound. Zero means time.Now().
	CurrentYear int
}

// Validator checks parsed citations against per-type required-field
// checklists and the rule table's reporter and court lookups. Per-citation
// problems are always returned as data, never as errors.
type Validator struct {
	table *RuleTable
}

// NewValidator creates a validator backed by the given rule table.
func NewValidator(table *RuleTable) *Validator {
	return &Validator{table: table}
}

// Validate checks a single citation. Missing required fields and malformed
// numeric values are error severity; unknown reporter or court abbreviations
// are warnings only, since unusual abbreviations are common and must not
// hard-fail validation.
func (v *Validator) Validate(cite *ParsedCitation, ctx *ValidationContext) *ValidationResult {
	result := &ValidationResult{IsValid: true, Errors: []ValidationError{}}

	missing := map[ComponentType]bool{}
	for _, component := range cite.MissingComponents {
		missing[component] = true
	}

	switch cite.Type {
	case CitationTypeCase:
		if len(cite.PartyNames) < 2 {
			missing[ComponentParty] = true
		}
		requireAll(missing, map[ComponentType]string{
			ComponentVolume:   cite.Volume,
			ComponentReporter: cite.Reporter,
			ComponentPage:     cite.Page,
			ComponentYear:     cite.Year,
		})
		v.checkCaseCourt(cite, missing)
	case CitationTypeStatute, CitationTypeRegulation:
		if cite.Code == "" && cite.Title == "" {
			missing[ComponentCode] = true
		}
		requireAll(missing, map[ComponentType]string{ComponentSection: cite.Section})
	case CitationTypeRule:
		requireAll(missing, map[ComponentType]string{
			ComponentCode:       cite.Code,
			ComponentRuleNumber: cite.RuleNumber,
		})
	case CitationTypeConstitution:
		requireAll(missing, map[ComponentType]string{
			ComponentTitle:   cite.Title,
			ComponentSection: cite.Section,
		})
	case CitationTypeBook:
		requireAll(missing, map[ComponentType]string{
			ComponentAuthor: cite.Author,
			ComponentTitle:  cite.Title,
		})
	case CitationTypeArticle:
		requireAll(missing, map[ComponentType]string{
			ComponentAuthor:   cite.Author,
			ComponentTitle:    cite.Title,
			ComponentVolume:   cite.Volume,
			ComponentReporter: cite.Reporter,
			ComponentPage:     cite.Page,
		})
	case CitationTypeUnknown:
		result.Errors = append(result.Errors, ValidationError{
			Code:     CodeUnresolvedReference,
			Message:  fmt.Sprintf("citation %q could not be resolved to an earlier full citation", cite.FullCitation),
			Severity: SeverityError,
		})
	}

	for _, component := range orderedComponents(missing) {
		result.Errors = append(result.Errors, ValidationError{
			Code:      CodeMissingComponent,
			Message:   fmt.Sprintf("missing required component %q for %s citation", component, cite.Type),
			Component: component,
			Severity:  SeverityError,
		})
	}

	v.checkLookups(cite, result)
	v.checkNumeric(cite, ctx, result)

	for _, err := range result.Errors {
		if err.Severity == SeverityError {
			result.IsValid = false
			break
		}
	}
	result.Suggestions = deriveSuggestions(result)
	return result
}

// ValidateMultiple validates each citation independently.
func (v *Validator) ValidateMultiple(citations []*ParsedCitation) []*ValidationResult {
	results := make([]*ValidationResult, len(citations))
	for i, cite := range citations {
		results[i] = v.Validate(cite, nil)
	}
	return results
}

// Annotate validates a citation and writes the outcome onto the record:
// IsValid, Errors (error and warning severities), and Suggestions.
func (v *Validator) Annotate(cite *ParsedCitation, ctx *ValidationContext) *ValidationResult {
	result := v.Validate(cite, ctx)
	cite.IsValid = result.IsValid
	cite.Errors = append(append([]ValidationError{}, result.Errors...), result.Warnings...)
	cite.Suggestions = result.Suggestions
	return result
}

// checkCaseCourt requires a court whenever the reporter does not itself
// identify the court (e.g. a regional or federal supplement reporter).
// Unknown reporters impose no court requirement.
func (v *Validator) checkCaseCourt(cite *ParsedCitation, missing map[ComponentType]bool) {
	if cite.Court != "" || cite.Reporter == "" {
		return
	}
	info, known := v.table.ReporterInfo(cite.Reporter)
	if known && !info.CourtImplied {
		missing[ComponentCourt] = true
	}
}

// checkLookups cross-checks reporter and court values against the static
// tables, producing warnings for unknown abbreviations.
func (v *Validator) checkLookups(cite *ParsedCitation, result *ValidationResult) {
	if cite.Reporter != "" {
		if _, known := v.table.ReporterInfo(cite.Reporter); !known {
			result.Warnings = append(result.Warnings, ValidationError{
				Code:       CodeUnknownReporter,
				Message:    fmt.Sprintf("reporter %q is not in the standard reporter table", cite.Reporter),
				Component:  ComponentReporter,
				Severity:   SeverityWarning,
				Suggestion: "verify the reporter abbreviation manually",
			})
		}
	}
	if cite.Court != "" {
		if _, known := v.table.CourtInfo(cite.Court); !known {
			result.Warnings = append(result.Warnings, ValidationError{
				Code:       CodeUnknownCourt,
				Message:    fmt.Sprintf("court %q is not in the standard court table", cite.Court),
				Component:  ComponentCourt,
				Severity:   SeverityWarning,
				Suggestion: "verify the court abbreviation manually",
			})
		}
	}
}

// checkNumeric validates year range, page shape, and pin-cite shape.
func (v *Validator) checkNumeric(cite *ParsedCitation, ctx *ValidationContext, result *ValidationResult) {
	currentYear := time.Now().Year()
	if ctx != nil && ctx.CurrentYear != 0 {
		currentYear = ctx.CurrentYear
	}

	if cite.Year != "" {
		lower := minYear
		if cite.Type == CitationTypeCase {
			lower = minCaseYear
		}
		year, err := strconv.Atoi(cite.Year)
		if err != nil || year < lower || year > currentYear+1 {
			result.Errors = append(result.Errors, ValidationError{
				Code:      CodeInvalidYear,
				Message:   fmt.Sprintf("year %q is outside the range %d-%d", cite.Year, lower, currentYear+1),
				Component: ComponentYear,
				Severity:  SeverityError,
			})
		}
	}
	if cite.Page != "" && !allDigitsRe.MatchString(cite.Page) {
		result.Errors = append(result.Errors, ValidationError{
			Code:      CodeInvalidPage,
			Message:   fmt.Sprintf("page %q must contain only digits", cite.Page),
			Component: ComponentPage,
			Severity:  SeverityError,
		})
	}
	if cite.PinCite != "" && !pinShapeRe.MatchString(cite.PinCite) {
		result.Errors = append(result.Errors, ValidationError{
			Code:      CodeInvalidPinCite,
			Message:   fmt.Sprintf("pin cite %q must be digits or a digit range", cite.PinCite),
			Component: ComponentPinCite,
			Severity:  SeverityError,
		})
	}
}

func requireAll(missing map[ComponentType]bool, fields map[ComponentType]string) {
	for component, value := range fields {
		if value == "" {
			missing[component] = true
		}
	}
}

// orderedComponents returns the missing set in a stable, readable order.
func orderedComponents(missing map[ComponentType]bool) []ComponentType {
	order := []ComponentType{
		ComponentParty, ComponentVolume, ComponentReporter, ComponentPage,
		ComponentYear, ComponentCourt, ComponentTitle, ComponentCode,
		ComponentSection, ComponentRuleNumber, ComponentAuthor,
		ComponentPublisher, ComponentEdition, ComponentPinCite,
	}
	var components []ComponentType
	for _, component := range order {
		if missing[component] {
			components = append(components, component)
		}
	}
	return components
}

// deriveSuggestions builds the hint list from the distinct codes present
// across errors and warnings.
func deriveSuggestions(result *ValidationResult) []string {
	seen := map[string]bool{}
	var suggestions []string
	for _, finding := range append(append([]ValidationError{}, result.Errors...), result.Warnings...) {
		if seen[finding.Code] {
			continue
		}
		seen[finding.Code] = true
		if hint, ok := suggestionByCode[finding.Code]; ok {
			suggestions = append(suggestions, hint)
		}
	}
	return suggestions
}
