package style

import "github.com/coolbeans/lexcite/pkg/citation"

// builtinRules returns the compiled-in Bluebook and ALWD rule sets. The two
// styles agree on most forms; ALWD spells out the publisher in book
// citations and drops the explanatory parenthetical from the full case form.
func builtinRules() []*FormattingRule {
	bluebook := []*FormattingRule{
		{
			Style:             StyleBluebook,
			Type:              citation.CitationTypeCase,
			Template:          "{party}, {volume} {reporter} {page}{pin_cite} ({court} {year}) {parenthetical}",
			ShortFormTemplate: "{first_party}, {volume} {reporter} at {pin_or_page}",
			Italicize:         []citation.ComponentType{citation.ComponentParty},
		},
		{
			Style:             StyleBluebook,
			Type:              citation.CitationTypeStatute,
			Template:          "{title} {code} § {section} {year}",
			ShortFormTemplate: "§ {section}",
		},
		{
			Style:             StyleBluebook,
			Type:              citation.CitationTypeRegulation,
			Template:          "{title} {code} § {section} {year}",
			ShortFormTemplate: "§ {section}",
		},
		{
			Style:             StyleBluebook,
			Type:              citation.CitationTypeRule,
			Template:          "{code} {rule_number}",
			ShortFormTemplate: "{code} {rule_number}",
		},
		{
			Style:    StyleBluebook,
			Type:     citation.CitationTypeConstitution,
			Template: "{title} {section}",
		},
		{
			Style:             StyleBluebook,
			Type:              citation.CitationTypeBook,
			Template:          "{author}, {title} ({edition} {year})",
			ShortFormTemplate: "{author}, supra",
			Italicize:         []citation.ComponentType{citation.ComponentTitle},
		},
		{
			Style:             StyleBluebook,
			Type:              citation.CitationTypeArticle,
			Template:          "{author}, {title}, {volume} {reporter} {page} ({year})",
			ShortFormTemplate: "{author}, supra",
			Italicize:         []citation.ComponentType{citation.ComponentTitle},
		},
	}

	alwd := []*FormattingRule{
		{
			Style:             StyleALWD,
			Type:              citation.CitationTypeCase,
			Template:          "{party}, {volume} {reporter} {page}{pin_cite} ({court} {year})",
			ShortFormTemplate: "{first_party}, {volume} {reporter} at {pin_or_page}",
			Italicize:         []citation.ComponentType{citation.ComponentParty},
		},
		{
			Style:             StyleALWD,
			Type:              citation.CitationTypeStatute,
			Template:          "{title} {code} § {section} {year}",
			ShortFormTemplate: "§ {section}",
		},
		{
			Style:             StyleALWD,
			Type:              citation.CitationTypeRegulation,
			Template:          "{title} {code} § {section} {year}",
			ShortFormTemplate: "§ {section}",
		},
		{
			Style:             StyleALWD,
			Type:              citation.CitationTypeRule,
			Template:          "{code} {rule_number}",
			ShortFormTemplate: "{code} {rule_number}",
		},
		{
			Style:    StyleALWD,
			Type:     citation.CitationTypeConstitution,
			Template: "{title} {section}",
		},
		{
			Style:             StyleALWD,
			Type:              citation.CitationTypeBook,
			Template:          "{author}, {title} ({publisher} {edition} {year})",
			ShortFormTemplate: "{author}, supra",
			Italicize:         []citation.ComponentType{citation.ComponentTitle},
		},
		{
			Style:             StyleALWD,
			Type:              citation.CitationTypeArticle,
			Template:          "{author}, {title}, {volume} {reporter} {page} ({year})",
			ShortFormTemplate: "{author}, supra",
			Italicize:         []citation.ComponentType{citation.ComponentTitle},
		},
	}

	return append(bluebook, alwd...)
}
