package citation

import "testing"

func TestCitationTypeString(t *testing.T) {
	if CitationTypeCase.String() != "case" {
		t.Errorf("Expected 'case', got %q", CitationTypeCase.String())
	}
}

func TestFirstParty(t *testing.T) {
	cases := []struct {
		name     string
		parties  []string
		expected string
	}{
		{name: "two_parties", parties: []string{"Brown", "Board of Education"}, expected: "Brown"},
		{name: "one_party", parties: []string{"Brown"}, expected: "Brown"},
		{name: "no_parties", parties: nil, expected: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cite := &ParsedCitation{PartyNames: tc.parties}
			if got := cite.FirstParty(); got != tc.expected {
				t.Errorf("FirstParty: got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestComponentPartyJoin(t *testing.T) {
	cite := &ParsedCitation{PartyNames: []string{"Smith", "Jones"}}
	if got := cite.Component(ComponentParty); got != "Smith v. Jones" {
		t.Errorf("Expected 'Smith v. Jones', got %q", got)
	}
}

func TestIdentityKey(t *testing.T) {
	cases := []struct {
		name     string
		cite     *ParsedCitation
		expected string
	}{
		{
			name: "case_keys_on_volume_reporter_page",
			cite: &ParsedCitation{
				Type: CitationTypeCase, Volume: "347", Reporter: "U.S.", Page: "483",
				FullCitation: "Brown v. Board of Education, 347 U.S. 483 (1954)",
			},
			expected: "case|347|U.S.|483",
		},
		{
			name: "statute_keys_on_code_section",
			cite: &ParsedCitation{
				Type: CitationTypeStatute, Title: "42", Code: "U.S.C.", Section: "1983",
			},
			expected: "statute|U.S.C.42|1983",
		},
		{
			name: "rule_keys_on_code_rule_number",
			cite: &ParsedCitation{
				Type: CitationTypeRule, Code: "Fed. R. Civ. P.", RuleNumber: "12(b)(6)",
			},
			expected: "rule|Fed. R. Civ. P.|12(b)(6)",
		},
		{
			name: "incomplete_case_falls_back_to_text",
			cite: &ParsedCitation{
				Type: CitationTypeCase, Volume: "347",
				FullCitation: "Brown, 347",
			},
			expected: "case|Brown, 347",
		},
		{
			name: "constitution_falls_back_to_text",
			cite: &ParsedCitation{
				Type:         CitationTypeConstitution,
				FullCitation: "U.S. Const. amend. XIV, § 1",
			},
			expected: "constitution|U.S. Const. amend. XIV, § 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cite.IdentityKey(); got != tc.expected {
				t.Errorf("IdentityKey: got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestIdentityKeyDistinguishesShortFormFromAntecedent(t *testing.T) {
	full := &ParsedCitation{
		Type: CitationTypeCase, Volume: "347", Reporter: "U.S.", Page: "483",
		FullCitation: "Brown v. Board of Education, 347 U.S. 483 (1954)",
	}
	short := &ParsedCitation{
		Type: CitationTypeCase, Volume: "347", Reporter: "U.S.", Page: "483",
		FullCitation: full.FullCitation,
		ShortForm:    "Brown, 347 U.S. at 484",
	}
	if full.IdentityKey() != short.IdentityKey() {
		t.Errorf("Expected resolved short form to share identity with antecedent: %q vs %q",
			full.IdentityKey(), short.IdentityKey())
	}
}
