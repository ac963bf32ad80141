// Package engine wires the citation rule table, parser, resolver,
// validator, formatter, and table-of-authorities aggregator into one
// facade. An Engine is immutable after construction and safe for
// concurrent use on independent inputs.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coolbeans/lexcite/pkg/authorities"
	"github.com/coolbeans/lexcite/pkg/citation"
	"github.com/coolbeans/lexcite/pkg/style"
)

// Engine is the citation-processing facade.
type Engine struct {
	table     *citation.RuleTable
	parser    *citation.Parser
	validator *citation.Validator
	styles    *style.Registry
	formatter *style.Formatter
}

// New builds an engine over the default rule table and the built-in style
// registry. A malformed rule table is a configuration error returned here;
// per-citation problems later are always returned as data on the records.
func New() (*Engine, error) {
	return NewWithStyles(style.NewDefaultRegistry())
}

// NewWithStyles builds an engine with a caller-supplied style registry.
func NewWithStyles(registry *style.Registry) (*Engine, error) {
	table, err := citation.NewRuleTable()
	if err != nil {
		return nil, fmt.Errorf("building rule table: %w", err)
	}
	return &Engine{
		table:     table,
		parser:    citation.NewParser(table),
		validator: citation.NewValidator(table),
		styles:    registry,
		formatter: style.NewFormatter(registry),
	}, nil
}

// Styles exposes the style registry, for loading custom style directories.
func (e *Engine) Styles() *style.Registry {
	return e.styles
}

// Parse extracts citations from text and resolves short forms and "Id."
// references against their antecedents. Records are unvalidated.
func (e *Engine) Parse(text string) []*citation.ParsedCitation {
	citations := e.parser.Parse(text)
	citation.ResolveReferences(citations)
	return citations
}

// ParseAndValidate parses, resolves, and annotates every record with its
// validation outcome.
func (e *Engine) ParseAndValidate(text string, ctx *citation.ValidationContext) []*citation.ParsedCitation {
	citations := e.Parse(text)
	for _, cite := range citations {
		e.validator.Annotate(cite, ctx)
	}
	return citations
}

// Validate checks a single citation.
func (e *Engine) Validate(cite *citation.ParsedCitation, ctx *citation.ValidationContext) *citation.ValidationResult {
	return e.validator.Validate(cite, ctx)
}

// ValidateMultiple checks each citation independently.
func (e *Engine) ValidateMultiple(citations []*citation.ParsedCitation) []*citation.ValidationResult {
	return e.validator.ValidateMultiple(citations)
}

// Format renders the full form of a citation in a style.
func (e *Engine) Format(cite *citation.ParsedCitation, s style.Style, opts *style.Options) string {
	return e.formatter.Format(cite, s, opts)
}

// GenerateShortForm renders the short form when the citation's identity has
// already appeared among priorCitations, and the full form otherwise.
func (e *Engine) GenerateShortForm(cite *citation.ParsedCitation, priorCitations []*citation.ParsedCitation, s style.Style) string {
	return e.formatter.GenerateShortForm(cite, priorCitations, s)
}

// GenerateTableOfAuthorities buckets, deduplicates, and sorts citations.
func (e *Engine) GenerateTableOfAuthorities(citations []*citation.ParsedCitation) *authorities.TableOfAuthorities {
	return authorities.Generate(citations)
}

// RenderTableOfAuthorities formats each bucket entry in the given style,
// with leading signals stripped.
func (e *Engine) RenderTableOfAuthorities(table *authorities.TableOfAuthorities, s style.Style) map[authorities.Category][]string {
	rendered := make(map[authorities.Category][]string)
	for _, category := range authorities.Categories {
		entries := table.Bucket(category)
		if len(entries) == 0 {
			continue
		}
		lines := make([]string, 0, len(entries))
		for _, cite := range entries {
			lines = append(lines, e.formatter.FormatForTOA(cite, s))
		}
		rendered[category] = lines
	}
	return rendered
}

// ExportCitations serializes citations as "json", "csv", or "bibtex-like".
func (e *Engine) ExportCitations(citations []*citation.ParsedCitation, format authorities.ExportFormat) (string, error) {
	return authorities.Export(citations, format)
}

// ProcessOptions tunes ProcessDocument.
type ProcessOptions struct {
	// Style selects the formatting rules. Defaults to Bluebook.
	Style style.Style

	// Validation overrides validator settings.
	Validation *citation.ValidationContext
}

// ProcessResult is the full outcome of processing one document.
type ProcessResult struct {
	ProcessedText      string                          `json:"processed_text"`
	Citations          []*citation.ParsedCitation      `json:"citations"`
	TableOfAuthorities *authorities.TableOfAuthorities `json:"table_of_authorities"`
	ValidationResults  []*citation.ValidationResult    `json:"validation_results"`
}

// ProcessDocument parses, resolves, and validates a document, builds its
// table of authorities, and rewrites repeat occurrences of each authority
// to their short form. Replacement offsets come from the original,
// unmodified string, so multiple replacements cannot compound drift.
func (e *Engine) ProcessDocument(text string, opts *ProcessOptions) *ProcessResult {
	styleName := style.StyleBluebook
	var validationCtx *citation.ValidationContext
	if opts != nil {
		if opts.Style != "" {
			styleName = opts.Style
		}
		validationCtx = opts.Validation
	}

	citations := e.Parse(text)
	results := make([]*citation.ValidationResult, len(citations))
	for i, cite := range citations {
		results[i] = e.validator.Annotate(cite, validationCtx)
	}

	return &ProcessResult{
		ProcessedText:      e.rewriteRepeats(text, citations, styleName),
		Citations:          citations,
		TableOfAuthorities: authorities.Generate(citations),
		ValidationResults:  results,
	}
}

type replacement struct {
	start, end int
	text       string
}

// rewriteRepeats replaces the second and later occurrence of each identity
// with its generated short form, splicing at the original byte offsets.
func (e *Engine) rewriteRepeats(text string, citations []*citation.ParsedCitation, s style.Style) string {
	var replacements []replacement
	var priors []*citation.ParsedCitation
	seen := make(map[string]bool)

	for _, cite := range citations {
		key := cite.IdentityKey()
		if seen[key] {
			short := e.formatter.GenerateShortForm(cite, priors, s)
			if cite.Signal != "" {
				short = cite.Signal + " " + short
			}
			if short != text[cite.StartIndex:cite.EndIndex] {
				replacements = append(replacements, replacement{
					start: cite.StartIndex,
					end:   cite.EndIndex,
					text:  short,
				})
			}
		}
		seen[key] = true
		priors = append(priors, cite)
	}

	if len(replacements) == 0 {
		return text
	}
	sort.Slice(replacements, func(i, j int) bool {
		return replacements[i].start < replacements[j].start
	})

	var b strings.Builder
	last := 0
	for _, r := range replacements {
		b.WriteString(text[last:r.start])
		b.WriteString(r.text)
		last = r.end
	}
	b.WriteString(text[last:])
	return b.String()
}
