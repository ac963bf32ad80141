package citation

import (
	"regexp"
	"sort"
	"strings"
)

// Parser scans free text against the rule table's ordered grammar and
// produces unvalidated ParsedCitation records. Safe for concurrent use:
// all state is per-call except the immutable rule table.
type Parser struct {
	table *RuleTable
}

// NewParser creates a parser over the given rule table.
func NewParser(table *RuleTable) *Parser {
	return &Parser{table: table}
}

// signalTokens are introductory signals recognized at the head of a
// citation. Ordered longest-first so "See also" wins over "See".
var signalTokens = []string{
	"See generally",
	"See also",
	"But see",
	"But cf.",
	"Compare",
	"Accord",
	"Contra",
	"E.g.",
	"Cf.",
	"See",
}

var (
	trailingParenRe = regexp.MustCompile(`\s*\(([^)]*)\)\s*$`)
	fourDigitYearRe = regexp.MustCompile(`^\d{4}$`)
	courtYearRe     = regexp.MustCompile(`^(.*\S)\s+(\d{4})$`)

	pinAtRe        = regexp.MustCompile(`\bat\s+(\d+(?:[-–]\d+)?)\s*$`)
	pinParagraphRe = regexp.MustCompile(`¶\s*(\d+(?:[-–]\d+)?)\s*$`)
	pinCommaRe     = regexp.MustCompile(`,\s*(\d+(?:[-–]\d+)?)\s*$`)
)

// Parse extracts every citation from the text, in document order. Rules are
// evaluated in table order and the first rule to match a span owns it; later
// rules never see claimed spans. Empty input yields an empty, non-nil slice.
// Spans that match no rule are skipped silently.
func (p *Parser) Parse(text string) []*ParsedCitation {
	citations := []*ParsedCitation{}
	if text == "" {
		return citations
	}

	var claimed []span
	for _, rule := range p.table.Rules() {
		for _, matchIndices := range rule.Pattern.FindAllStringSubmatchIndex(text, -1) {
			if overlapsAny(claimed, matchIndices[0], matchIndices[1]) {
				continue
			}
			cite := p.buildCitation(rule, text, matchIndices)
			claimed = append(claimed, span{start: cite.StartIndex, end: cite.EndIndex})
			citations = append(citations, cite)
		}
	}

	sort.Slice(citations, func(i, j int) bool {
		if citations[i].StartIndex != citations[j].StartIndex {
			return citations[i].StartIndex < citations[j].StartIndex
		}
		return citations[i].EndIndex < citations[j].EndIndex
	})
	return citations
}

type span struct {
	start, end int
}

func overlapsAny(claimed []span, start, end int) bool {
	for _, s := range claimed {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// buildCitation maps a raw regex match to a ParsedCitation: declared capture
// groups become components, then the leading signal, trailing parentheticals,
// and trailing pin cite are extracted from the matched text.
func (p *Parser) buildCitation(rule *CitationRule, text string, matchIndices []int) *ParsedCitation {
	start, end := matchIndices[0], matchIndices[1]

	cite := &ParsedCitation{
		Type:    rule.Type,
		IsValid: true,
		Errors:  []ValidationError{},
	}

	for _, component := range rule.Components {
		groupStart := matchIndices[2*component.Position]
		groupEnd := matchIndices[2*component.Position+1]
		value := ""
		if groupStart != -1 {
			value = strings.TrimSpace(text[groupStart:groupEnd])
		}
		if value == "" {
			if component.Required {
				cite.MissingComponents = append(cite.MissingComponents, component.Component)
			}
			continue
		}
		setComponent(cite, component.Component, value)
	}

	// Rules whose leading component is a bare name capture the signal in
	// the pattern itself; for everything else, extend the span backwards
	// over an introductory signal so the raw text retains it. Signals are
	// stripped only when formatting for a table of authorities.
	if cite.Signal == "" {
		if signal, signalStart := leadingSignal(text, start); signal != "" {
			cite.Signal = signal
			start = signalStart
		}
	}

	cite.FullCitation = text[start:end]
	cite.StartIndex = start
	cite.EndIndex = end

	remainder := p.extractTrailingParens(cite, rule)
	p.extractPinCite(cite, remainder)
	return cite
}

func setComponent(cite *ParsedCitation, componentType ComponentType, value string) {
	switch componentType {
	case ComponentParty:
		cite.PartyNames = append(cite.PartyNames, value)
	case ComponentVolume:
		cite.Volume = value
	case ComponentReporter:
		cite.Reporter = value
	case ComponentPage:
		cite.Page = value
	case ComponentYear:
		cite.Year = value
	case ComponentCourt:
		cite.Court = value
	case ComponentTitle:
		cite.Title = value
	case ComponentCode:
		cite.Code = value
	case ComponentSection:
		cite.Section = value
	case ComponentRuleNumber:
		cite.RuleNumber = value
	case ComponentAuthor:
		cite.Author = value
	case ComponentPublisher:
		cite.Publisher = value
	case ComponentEdition:
		cite.Edition = value
	case ComponentPinCite:
		cite.PinCite = value
	case ComponentSignal:
		cite.Signal = value
	case ComponentParenthetical:
		cite.Parenthetical = value
	}
}

// leadingSignal reports a signal token immediately preceding position start,
// returning the token as written in the text and its start offset.
func leadingSignal(text string, start int) (string, int) {
	prefix := strings.TrimRight(text[:start], " \t,")
	lowerPrefix := strings.ToLower(prefix)
	for _, token := range signalTokens {
		lowerToken := strings.ToLower(token)
		if !strings.HasSuffix(lowerPrefix, lowerToken) {
			continue
		}
		tokenStart := len(prefix) - len(token)
		// Token must begin at the text start or after a non-letter.
		if tokenStart > 0 {
			before := prefix[tokenStart-1]
			if before != ' ' && before != '\t' && before != '\n' && before != '(' && before != ';' {
				continue
			}
		}
		return prefix[tokenStart:], tokenStart
	}
	return "", start
}

// extractTrailingParens classifies up to two trailing parenthesized groups:
// a group of exactly four digits is the year, a case-type group ending in
// four digits splits into court and year, and anything else is an
// explanatory parenthetical. Returns the citation text with the trailing
// groups removed, for the pin-cite pass.
func (p *Parser) extractTrailingParens(cite *ParsedCitation, rule *CitationRule) string {
	work := cite.FullCitation
	yearCaptured := ruleHasComponent(rule, ComponentYear) || ruleHasComponent(rule, ComponentEdition)

	for range [2]struct{}{} {
		loc := trailingParenRe.FindStringSubmatchIndex(work)
		if loc == nil {
			break
		}
		content := strings.TrimSpace(work[loc[2]:loc[3]])
		switch {
		case fourDigitYearRe.MatchString(content):
			if cite.Year == "" {
				cite.Year = content
			}
		case yearCaptured:
			// The rule already pulled year/edition out of this
			// group (books, articles); nothing left to classify.
		case cite.Type == CitationTypeCase && courtYearRe.MatchString(content):
			parts := courtYearRe.FindStringSubmatch(content)
			if cite.Court == "" {
				cite.Court = strings.TrimSpace(parts[1])
			}
			if cite.Year == "" {
				cite.Year = parts[2]
			}
		default:
			if cite.Parenthetical == "" {
				cite.Parenthetical = content
			}
		}
		work = work[:loc[0]]
	}
	return work
}

// extractPinCite applies the trailing-suffix pin-cite pass against three
// shapes: "at N[-M]", "¶ N[-M]", and ", N[-M]".
func (p *Parser) extractPinCite(cite *ParsedCitation, remainder string) {
	if cite.PinCite != "" {
		return
	}
	for _, re := range []*regexp.Regexp{pinAtRe, pinParagraphRe, pinCommaRe} {
		if m := re.FindStringSubmatch(remainder); m != nil {
			cite.PinCite = m[1]
			return
		}
	}
}

func ruleHasComponent(rule *CitationRule, componentType ComponentType) bool {
	for _, component := range rule.Components {
		if component.Component == componentType {
			return true
		}
	}
	return false
}
