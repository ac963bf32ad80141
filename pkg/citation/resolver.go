package citation

import (
	"regexp"
	"strings"
)

// shortFormMaxLen bounds the length of a span that can be classified as a
// short-form reference.
const shortFormMaxLen = 60

var idCiteRe = regexp.MustCompile(`(?i)^id\.(?:\s+at\s+\d+(?:[-–]\d+)?)?$`)

// ResolveReferences resolves "Id." citations and case short forms against
// their antecedents in a single forward pass over the parsed list, mutating
// records in place. Resolution is backward-only and first-prior-match-wins:
// a short form that textually precedes its full citation stays unresolved
// and is left for the validator to flag.
func ResolveReferences(citations []*ParsedCitation) {
	for i, cite := range citations {
		text := strings.TrimSpace(cite.FullCitation)
		if idCiteRe.MatchString(text) {
			cite.abbreviated = true
			resolveID(citations, i)
			continue
		}
		if isShortFormCandidate(cite, text) {
			cite.abbreviated = true
			resolveShortForm(citations, i, text)
		}
	}
}

// isShortFormCandidate applies the short-form heuristic: a span the grammar
// could not type concretely that is short, has no " v. " or section symbol,
// and contains at least one digit.
func isShortFormCandidate(cite *ParsedCitation, text string) bool {
	if cite.Type != CitationTypeUnknown {
		return false
	}
	if len(text) >= shortFormMaxLen {
		return false
	}
	if strings.Contains(text, " v. ") || strings.Contains(text, "§") {
		return false
	}
	return strings.ContainsAny(text, "0123456789")
}

// resolveID copies identity from the nearest preceding record that is
// itself neither an "Id." citation nor a short form.
func resolveID(citations []*ParsedCitation, index int) {
	cite := citations[index]
	for j := index - 1; j >= 0; j-- {
		antecedent := citations[j]
		if antecedent.abbreviated {
			continue
		}
		adoptAntecedent(cite, antecedent)
		return
	}
}

// resolveShortForm searches backward through already-seen case records for
// the first whose leading party name is a literal substring of the
// short-form text. No match leaves the record as a standalone, sparsely
// populated citation for the validator to flag.
func resolveShortForm(citations []*ParsedCitation, index int, text string) {
	cite := citations[index]
	for j := index - 1; j >= 0; j-- {
		antecedent := citations[j]
		if antecedent.abbreviated || antecedent.Type != CitationTypeCase {
			continue
		}
		leadingParty := antecedent.FirstParty()
		if leadingParty == "" || !strings.Contains(text, leadingParty) {
			continue
		}
		adoptAntecedent(cite, antecedent)
		return
	}
}

// adoptAntecedent rewrites an abbreviated record to point at its antecedent:
// the original text becomes the short form and the antecedent's type, full
// citation, and identity fields are copied over. Pin cite, signal, and
// parenthetical stay with the abbreviated record.
func adoptAntecedent(cite, antecedent *ParsedCitation) {
	cite.ShortForm = cite.FullCitation
	cite.Type = antecedent.Type
	full := antecedent.FullCitation
	if antecedent.Signal != "" {
		if rest, ok := strings.CutPrefix(full, antecedent.Signal); ok {
			full = strings.TrimLeft(rest, " ,")
		}
	}
	cite.FullCitation = full
	cite.Title = antecedent.Title
	cite.Volume = antecedent.Volume
	cite.Reporter = antecedent.Reporter
	cite.Page = antecedent.Page
	cite.Year = antecedent.Year
	cite.Court = antecedent.Court
	cite.Code = antecedent.Code
	cite.Section = antecedent.Section
	cite.RuleNumber = antecedent.RuleNumber
	cite.Author = antecedent.Author
	if len(antecedent.PartyNames) > 0 {
		cite.PartyNames = append([]string(nil), antecedent.PartyNames...)
	}
	cite.MissingComponents = nil
}
