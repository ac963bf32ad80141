package style

import (
	"testing"

	"github.com/coolbeans/lexcite/pkg/citation"
)

func brownCitation() *citation.ParsedCitation {
	return &citation.ParsedCitation{
		Type:         citation.CitationTypeCase,
		FullCitation: "Brown v. Board of Education, 347 U.S. 483 (1954)",
		PartyNames:   []string{"Brown", "Board of Education"},
		Volume:       "347",
		Reporter:     "U.S.",
		Page:         "483",
		Year:         "1954",
	}
}

func TestFormatCase(t *testing.T) {
	formatter := NewFormatter(NewDefaultRegistry())

	cases := []struct {
		name     string
		cite     *citation.ParsedCitation
		style    Style
		expected string
	}{
		{
			name:     "supreme_court_no_court_parenthetical",
			cite:     brownCitation(),
			style:    StyleBluebook,
			expected: "*Brown v. Board of Education*, 347 U.S. 483 (1954)",
		},
		{
			name: "court_pin_cite_and_year",
			cite: &citation.ParsedCitation{
				Type:       citation.CitationTypeCase,
				PartyNames: []string{"Smith", "Jones"},
				Volume:     "12", Reporter: "F.3d", Page: "345",
				PinCite: "347", Court: "9th Cir.", Year: "1994",
			},
			style:    StyleBluebook,
			expected: "*Smith v. Jones*, 12 F.3d 345, 347 (9th Cir. 1994)",
		},
		{
			name: "bluebook_keeps_parenthetical",
			cite: func() *citation.ParsedCitation {
				c := brownCitation()
				c.Parenthetical = "holding segregation unconstitutional"
				return c
			}(),
			style:    StyleBluebook,
			expected: "*Brown v. Board of Education*, 347 U.S. 483 (1954) (holding segregation unconstitutional)",
		},
		{
			name: "alwd_drops_parenthetical",
			cite: func() *citation.ParsedCitation {
				c := brownCitation()
				c.Parenthetical = "holding segregation unconstitutional"
				return c
			}(),
			style:    StyleALWD,
			expected: "*Brown v. Board of Education*, 347 U.S. 483 (1954)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatter.Format(tc.cite, tc.style, nil); got != tc.expected {
				t.Errorf("Format:\n  got  %q\n  want %q", got, tc.expected)
			}
		})
	}
}

func TestFormatEmphasisMarkerOption(t *testing.T) {
	formatter := NewFormatter(NewDefaultRegistry())
	opts := &Options{EmphasisMarker: "_"}

	got := formatter.Format(brownCitation(), StyleBluebook, opts)
	expected := "_Brown v. Board of Education_, 347 U.S. 483 (1954)"
	if got != expected {
		t.Errorf("Format: got %q, want %q", got, expected)
	}
}

func TestFormatStatute(t *testing.T) {
	formatter := NewFormatter(NewDefaultRegistry())

	cases := []struct {
		name     string
		cite     *citation.ParsedCitation
		expected string
	}{
		{
			name: "no_year",
			cite: &citation.ParsedCitation{
				Type: citation.CitationTypeStatute, Title: "42", Code: "U.S.C.", Section: "1983",
			},
			expected: "42 U.S.C. § 1983",
		},
		{
			name: "year_is_parenthesized",
			cite: &citation.ParsedCitation{
				Type: citation.CitationTypeStatute, Title: "42", Code: "U.S.C.",
				Section: "1983", Year: "2018",
			},
			expected: "42 U.S.C. § 1983 (2018)",
		},
		{
			name: "state_code_without_title",
			cite: &citation.ParsedCitation{
				Type: citation.CitationTypeStatute, Code: "Cal. Civ. Code", Section: "1798.100",
			},
			expected: "Cal. Civ. Code § 1798.100",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatter.Format(tc.cite, StyleBluebook, nil); got != tc.expected {
				t.Errorf("Format: got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestFormatOtherTypes(t *testing.T) {
	formatter := NewFormatter(NewDefaultRegistry())

	cases := []struct {
		name     string
		cite     *citation.ParsedCitation
		expected string
	}{
		{
			name: "regulation",
			cite: &citation.ParsedCitation{
				Type: citation.CitationTypeRegulation, Title: "45", Code: "C.F.R.", Section: "164.502",
			},
			expected: "45 C.F.R. § 164.502",
		},
		{
			name: "court_rule",
			cite: &citation.ParsedCitation{
				Type: citation.CitationTypeRule, Code: "Fed. R. Civ. P.", RuleNumber: "12(b)(6)",
			},
			expected: "Fed. R. Civ. P. 12(b)(6)",
		},
		{
			name: "constitution",
			cite: &citation.ParsedCitation{
				Type: citation.CitationTypeConstitution, Title: "U.S. Const.", Section: "amend. XIV, § 1",
			},
			expected: "U.S. Const. amend. XIV, § 1",
		},
		{
			name: "book_with_edition",
			cite: &citation.ParsedCitation{
				Type:   citation.CitationTypeBook,
				Author: "Charles Alan Wright & Arthur R. Miller",
				Title:  "Federal Practice and Procedure",
				Edition: "3d", Year: "2004",
			},
			expected: "Charles Alan Wright & Arthur R. Miller, *Federal Practice and Procedure* (3d ed. 2004)",
		},
		{
			name: "book_without_edition_or_year_drops_parens",
			cite: &citation.ParsedCitation{
				Type:   citation.CitationTypeBook,
				Author: "Charles Alan Wright",
				Title:  "Federal Practice and Procedure",
			},
			expected: "Charles Alan Wright, *Federal Practice and Procedure*",
		},
		{
			name: "article",
			cite: &citation.ParsedCitation{
				Type:   citation.CitationTypeArticle,
				Author: "John Hart Ely",
				Title:  "The Wages of Crying Wolf",
				Volume: "82", Reporter: "Yale L.J.", Page: "920", Year: "1973",
			},
			expected: "John Hart Ely, *The Wages of Crying Wolf*, 82 Yale L.J. 920 (1973)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatter.Format(tc.cite, StyleBluebook, nil); got != tc.expected {
				t.Errorf("Format:\n  got  %q\n  want %q", got, tc.expected)
			}
		})
	}
}

func TestFormatFallsBackToRawText(t *testing.T) {
	formatter := NewFormatter(NewDefaultRegistry())
	cite := &citation.ParsedCitation{
		Type:         citation.CitationTypeUnknown,
		FullCitation: "Brown, 347 U.S. at 484",
	}

	if got := formatter.Format(cite, StyleBluebook, nil); got != cite.FullCitation {
		t.Errorf("Expected raw fallback %q, got %q", cite.FullCitation, got)
	}
}

func TestFormatRetainsSignal(t *testing.T) {
	formatter := NewFormatter(NewDefaultRegistry())
	cite := brownCitation()
	cite.Signal = "See"
	cite.FullCitation = "See " + cite.FullCitation

	got := formatter.Format(cite, StyleBluebook, nil)
	expected := "See *Brown v. Board of Education*, 347 U.S. 483 (1954)"
	if got != expected {
		t.Errorf("Format: got %q, want %q", got, expected)
	}
}

func TestGenerateShortForm(t *testing.T) {
	formatter := NewFormatter(NewDefaultRegistry())

	t.Run("first_occurrence_renders_in_full", func(t *testing.T) {
		got := formatter.GenerateShortForm(brownCitation(), nil, StyleBluebook)
		expected := "*Brown v. Board of Education*, 347 U.S. 483 (1954)"
		if got != expected {
			t.Errorf("GenerateShortForm: got %q, want %q", got, expected)
		}
	})

	t.Run("repeat_case_uses_page", func(t *testing.T) {
		got := formatter.GenerateShortForm(brownCitation(), []*citation.ParsedCitation{brownCitation()}, StyleBluebook)
		if got != "Brown, 347 U.S. at 483" {
			t.Errorf("GenerateShortForm: got %q, want 'Brown, 347 U.S. at 483'", got)
		}
	})

	t.Run("repeat_case_prefers_pin_cite", func(t *testing.T) {
		cite := brownCitation()
		cite.PinCite = "484"
		got := formatter.GenerateShortForm(cite, []*citation.ParsedCitation{brownCitation()}, StyleBluebook)
		if got != "Brown, 347 U.S. at 484" {
			t.Errorf("GenerateShortForm: got %q, want 'Brown, 347 U.S. at 484'", got)
		}
	})

	t.Run("repeat_statute", func(t *testing.T) {
		statute := &citation.ParsedCitation{
			Type: citation.CitationTypeStatute, Title: "42", Code: "U.S.C.", Section: "1983",
		}
		got := formatter.GenerateShortForm(statute, []*citation.ParsedCitation{statute}, StyleBluebook)
		if got != "§ 1983" {
			t.Errorf("GenerateShortForm: got %q, want '§ 1983'", got)
		}
	})

	t.Run("different_identity_renders_in_full", func(t *testing.T) {
		miranda := &citation.ParsedCitation{
			Type:       citation.CitationTypeCase,
			PartyNames: []string{"Miranda", "Arizona"},
			Volume:     "384", Reporter: "U.S.", Page: "436", Year: "1966",
		}
		got := formatter.GenerateShortForm(miranda, []*citation.ParsedCitation{brownCitation()}, StyleBluebook)
		expected := "*Miranda v. Arizona*, 384 U.S. 436 (1966)"
		if got != expected {
			t.Errorf("GenerateShortForm: got %q, want %q", got, expected)
		}
	})

	t.Run("type_without_short_template_renders_in_full", func(t *testing.T) {
		constitution := &citation.ParsedCitation{
			Type: citation.CitationTypeConstitution, Title: "U.S. Const.", Section: "amend. XIV, § 1",
		}
		got := formatter.GenerateShortForm(constitution, []*citation.ParsedCitation{constitution}, StyleBluebook)
		if got != "U.S. Const. amend. XIV, § 1" {
			t.Errorf("GenerateShortForm: got %q", got)
		}
	})
}

func TestFormatForTOAStripsSignal(t *testing.T) {
	formatter := NewFormatter(NewDefaultRegistry())
	cite := brownCitation()
	cite.Signal = "See"
	cite.FullCitation = "See " + cite.FullCitation

	got := formatter.FormatForTOA(cite, StyleBluebook)
	expected := "*Brown v. Board of Education*, 347 U.S. 483 (1954)"
	if got != expected {
		t.Errorf("FormatForTOA: got %q, want %q", got, expected)
	}

	// The citation itself must keep its signal for in-document uses.
	if cite.Signal != "See" {
		t.Errorf("Signal mutated: got %q", cite.Signal)
	}
}

func TestFormatForTOAStripsSignalFromRawFallback(t *testing.T) {
	formatter := NewFormatter(NewDefaultRegistry())
	cite := &citation.ParsedCitation{
		Type:         citation.CitationTypeUnknown,
		Signal:       "See",
		FullCitation: "See Brown, 347 U.S. at 484",
	}

	if got := formatter.FormatForTOA(cite, StyleBluebook); got != "Brown, 347 U.S. at 484" {
		t.Errorf("FormatForTOA: got %q, want 'Brown, 347 U.S. at 484'", got)
	}
}

func TestCleanup(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "collapses_whitespace", input: "a  b   c", expected: "a b c"},
		{name: "paren_edges", input: "( 1954 )", expected: "(1954)"},
		{name: "space_before_punctuation", input: "Brown , 347", expected: "Brown, 347"},
		{name: "empty_parens_removed", input: "title ()", expected: "title"},
		{name: "trailing_comma_trimmed", input: "Brown, 347, ", expected: "Brown, 347"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanup(tc.input); got != tc.expected {
				t.Errorf("cleanup(%q): got %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}
