package style

import (
	"regexp"
	"strings"

	"github.com/coolbeans/lexcite/pkg/citation"
)

// Options tunes formatting output.
type Options struct {
	// EmphasisMarker wraps italicized spans. Defaults to "*".
	EmphasisMarker string
}

func (o *Options) marker() string {
	if o == nil || o.EmphasisMarker == "" {
		return "*"
	}
	return o.EmphasisMarker
}

// Formatter renders citations through the registry's (style, type) rules.
// A citation whose pair has no registered rule renders as its raw full
// citation, unchanged.
type Formatter struct {
	registry *Registry
}

// NewFormatter creates a formatter over a rule registry.
func NewFormatter(registry *Registry) *Formatter {
	return &Formatter{registry: registry}
}

var (
	placeholderRe    = regexp.MustCompile(`\{([a-z_]+)\}`)
	whitespaceRunRe  = regexp.MustCompile(`\s+`)
	openParenSpaceRe = regexp.MustCompile(`\(\s+`)
	spaceCloseParenRe = regexp.MustCompile(`\s+\)`)
	spaceBeforePunctRe = regexp.MustCompile(`\s+([,.;:])`)
	emptyParensRe    = regexp.MustCompile(`\(\)`)
)

// Format renders the full form of a citation in the given style. A leading
// signal is retained ahead of the rendered form.
func (f *Formatter) Format(cite *citation.ParsedCitation, s Style, opts *Options) string {
	rule, ok := f.registry.Get(s, cite.Type)
	if !ok {
		return cite.FullCitation
	}
	out := f.render(cite, rule.Template, rule, opts)
	if cite.Signal != "" && !strings.Contains(rule.Template, "{signal}") {
		out = cite.Signal + " " + out
	}
	return out
}

// GenerateShortForm renders the short form of a citation when its identity
// has already appeared in priorCitations, and the full form otherwise.
// Types with no short-form template always render in full.
func (f *Formatter) GenerateShortForm(cite *citation.ParsedCitation, priorCitations []*citation.ParsedCitation, s Style) string {
	rule, ok := f.registry.Get(s, cite.Type)
	if !ok {
		return cite.FullCitation
	}

	key := cite.IdentityKey()
	seen := false
	for _, prior := range priorCitations {
		if prior.IdentityKey() == key {
			seen = true
			break
		}
	}
	if seen && rule.ShortFormTemplate != "" {
		return f.render(cite, rule.ShortFormTemplate, rule, nil)
	}
	return f.Format(cite, s, nil)
}

// FormatForTOA renders the full form with any leading signal stripped, for
// table-of-authorities entries.
func (f *Formatter) FormatForTOA(cite *citation.ParsedCitation, s Style) string {
	stripped := *cite
	if stripped.Signal != "" {
		if rest, ok := strings.CutPrefix(stripped.FullCitation, stripped.Signal); ok {
			stripped.FullCitation = strings.TrimLeft(rest, " ,")
		}
		stripped.Signal = ""
	}
	return f.Format(&stripped, s, nil)
}

// render substitutes every placeholder, runs the cleanup pipeline, and
// marks italic spans.
func (f *Formatter) render(cite *citation.ParsedCitation, template string, rule *FormattingRule, opts *Options) string {
	out := placeholderRe.ReplaceAllStringFunc(template, func(placeholder string) string {
		name := strings.Trim(placeholder, "{}")
		return placeholderValue(cite, name)
	})
	out = cleanup(out)
	return italicize(out, cite, rule.Italicize, opts.marker())
}

// placeholderValue normalizes one component for substitution: the party
// pair joins as "A v. B", pin cites take a ", N" prefix for cases and stay
// bare for other types, statute and regulation years are parenthesized,
// parentheticals are wrapped, and editions gain the "ed." suffix.
func placeholderValue(cite *citation.ParsedCitation, name string) string {
	switch name {
	case "party":
		return cite.Component(citation.ComponentParty)
	case "first_party":
		return cite.FirstParty()
	case "pin_cite":
		if cite.PinCite == "" {
			return ""
		}
		if cite.Type == citation.CitationTypeCase {
			return ", " + cite.PinCite
		}
		return cite.PinCite
	case "pin_or_page":
		if cite.PinCite != "" {
			return cite.PinCite
		}
		return cite.Page
	case "year":
		if cite.Year == "" {
			return ""
		}
		if cite.Type == citation.CitationTypeStatute || cite.Type == citation.CitationTypeRegulation {
			return "(" + cite.Year + ")"
		}
		return cite.Year
	case "parenthetical":
		if cite.Parenthetical == "" {
			return ""
		}
		return "(" + cite.Parenthetical + ")"
	case "edition":
		if cite.Edition == "" {
			return ""
		}
		return cite.Edition + " ed."
	case "signal":
		return cite.Signal
	default:
		return cite.Component(citation.ComponentType(name))
	}
}

// cleanup applies the post-substitution pipeline, in order: collapse
// whitespace runs, drop whitespace inside paren edges and before
// punctuation, remove empty parens, and trim trailing comma and space.
func cleanup(s string) string {
	s = whitespaceRunRe.ReplaceAllString(s, " ")
	s = openParenSpaceRe.ReplaceAllString(s, "(")
	s = spaceCloseParenRe.ReplaceAllString(s, ")")
	s = spaceBeforePunctRe.ReplaceAllString(s, "$1")
	s = emptyParensRe.ReplaceAllString(s, "")
	s = whitespaceRunRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return strings.TrimRight(s, ", ")
}

// italicize wraps the literal substring of each listed component with the
// emphasis marker, leaving every other character untouched.
func italicize(out string, cite *citation.ParsedCitation, components []citation.ComponentType, marker string) string {
	for _, component := range components {
		value := strings.TrimSpace(whitespaceRunRe.ReplaceAllString(cite.Component(component), " "))
		if value == "" {
			continue
		}
		index := strings.Index(out, value)
		if index < 0 {
			continue
		}
		out = out[:index] + marker + value + marker + out[index+len(value):]
	}
	return out
}
