package citation

import (
	"fmt"
	"regexp"
)

// ComponentRule maps one capture group of a citation pattern to a component.
type ComponentRule struct {
	Component ComponentType `json:"component"`
	Position  int           `json:"position"` // capture group index, 1-based
	Required  bool          `json:"required"`
}

// CitationRule is one grammar alternative for a citation type. Rule order in
// the table is significant: the first rule whose pattern matches a span of
// text owns that span, and later rules never see it.
type CitationRule struct {
	Type       CitationType    `json:"type"`
	Name       string          `json:"name"`
	Pattern    *regexp.Regexp  `json:"-"`
	Components []ComponentRule `json:"components"`
	Examples   []string        `json:"examples,omitempty"`
}

// ReporterInfo describes a known reporter series. CourtImplied is true when
// the reporter alone identifies the court (e.g. "U.S." is always the Supreme
// Court), so a case citation in that reporter needs no court parenthetical.
type ReporterInfo struct {
	Abbrev       string `json:"abbrev"`
	Name         string `json:"name"`
	CourtImplied bool   `json:"court_implied"`
}

// CourtInfo describes a known court abbreviation.
type CourtInfo struct {
	Abbrev string `json:"abbrev"`
	Name   string `json:"name"`
}

// RuleTable is the static, ordered registry of citation grammars plus the
// reporter and court lookup tables. It is built once at process start and
// read-only afterwards, so it is safe to share across goroutines.
type RuleTable struct {
	rules     []*CitationRule
	reporters map[string]ReporterInfo
	courts    map[string]CourtInfo
}

// reporterToken matches a dotted reporter abbreviation with an optional
// series suffix: "U.S.", "S. Ct.", "F.3d", "F. Supp. 2d", "So. 2d".
const reporterToken = `(?:[A-Z][a-z]*\.\s*)+(?:[23]d|4th)?`

// signalPrefix is the optional introductory-signal group at the head of
// rules whose leading component is a bare name. Without it the name group
// would swallow the signal word ("See Brown" as a party). Longest
// alternatives come first.
const signalPrefix = `(?:\b((?i:see generally|see also|but see|but cf\.|compare|accord|contra|e\.g\.|cf\.|see)),?\s+)?`

// partyToken matches one word of a case caption after the first: a
// capitalized word or a caption connector. Plain lowercase prose words are
// excluded so the party group cannot extend across surrounding sentence
// text.
const partyToken = `(?:[A-Z&][A-Za-z0-9'’.&\-]*|of|the|and|for|ex|rel\.|van|von|de|la)`

// NewRuleTable builds the default rule table. A malformed rule (duplicate
// extraction positions, missing pattern, position outside the pattern's
// capture groups) is a configuration error returned here, never per call.
func NewRuleTable() (*RuleTable, error) {
	table := &RuleTable{
		rules:     defaultRules(),
		reporters: defaultReporters(),
		courts:    defaultCourts(),
	}
	for _, rule := range table.rules {
		if err := checkRule(rule); err != nil {
			return nil, fmt.Errorf("citation rule %q: %w", rule.Name, err)
		}
	}
	return table, nil
}

// Rules returns the grammar rules in evaluation order.
func (t *RuleTable) Rules() []*CitationRule {
	return t.rules
}

// RulesFor returns the rules that produce the given citation type, in
// evaluation order.
func (t *RuleTable) RulesFor(citationType CitationType) []*CitationRule {
	var matching []*CitationRule
	for _, rule := range t.rules {
		if rule.Type == citationType {
			matching = append(matching, rule)
		}
	}
	return matching
}

// ReporterInfo looks up a reporter abbreviation.
func (t *RuleTable) ReporterInfo(abbrev string) (ReporterInfo, bool) {
	info, ok := t.reporters[abbrev]
	return info, ok
}

// CourtInfo looks up a court abbreviation.
func (t *RuleTable) CourtInfo(abbrev string) (CourtInfo, bool) {
	info, ok := t.courts[abbrev]
	return info, ok
}

func checkRule(rule *CitationRule) error {
	if rule.Pattern == nil {
		return fmt.Errorf("missing pattern")
	}
	if rule.Type == "" {
		return fmt.Errorf("missing citation type")
	}
	groupCount := rule.Pattern.NumSubexp()
	seenPositions := make(map[int]bool)
	for _, component := range rule.Components {
		if component.Position < 1 || component.Position > groupCount {
			return fmt.Errorf("component %s: position %d outside capture groups 1..%d",
				component.Component, component.Position, groupCount)
		}
		if seenPositions[component.Position] {
			return fmt.Errorf("component %s: duplicate extraction position %d",
				component.Component, component.Position)
		}
		seenPositions[component.Position] = true
	}
	return nil
}

// defaultRules returns the built-in grammar in evaluation order. Specific
// shapes come before permissive ones: articles and books (which require
// multiple commas or an edition parenthetical) precede cases, and the bare
// section-symbol rule comes last so it only claims spans no statute or
// regulation rule wanted.
func defaultRules() []*CitationRule {
	return []*CitationRule{
		{
			Type:    CitationTypeArticle,
			Name:    "law-review-article",
			Pattern: regexp.MustCompile(signalPrefix + `((?:[A-Z][\w'’.\-]*\s+){1,4}[A-Z][\w'’.\-]*),\s+([A-Z][^,(\n§]+?),\s+(\d+)\s+([A-Z][A-Za-z.]*(?:\s+[A-Z&][A-Za-z.&]*)*?)\s+(\d+)(?:,\s*\d+(?:[-–]\d+)?)?\s*\((\d{4})\)`),
			Components: []ComponentRule{
				{Component: ComponentSignal, Position: 1, Required: false},
				{Component: ComponentAuthor, Position: 2, Required: true},
				{Component: ComponentTitle, Position: 3, Required: true},
				{Component: ComponentVolume, Position: 4, Required: true},
				{Component: ComponentReporter, Position: 5, Required: true},
				{Component: ComponentPage, Position: 6, Required: true},
				{Component: ComponentYear, Position: 7, Required: false},
			},
			Examples: []string{"John Hart Ely, The Wages of Crying Wolf, 82 Yale L.J. 920 (1973)"},
		},
		{
			Type:    CitationTypeBook,
			Name:    "book",
			Pattern: regexp.MustCompile(signalPrefix + `((?:[A-Z][\w'’.\-]*\s+){1,4}[A-Z][\w'’.\-]*(?:\s+&\s+(?:[A-Z][\w'’.\-]*\s+){1,4}[A-Z][\w'’.\-]*)?),\s+([A-Z][^,(\n§]+?)\s*\(\s*(?:([A-Z][\w.&\- ]*?)\s+)?(?:(\d+(?:st|nd|rd|th|d))\s+)?ed\.\s*(\d{4})\)`),
			Components: []ComponentRule{
				{Component: ComponentSignal, Position: 1, Required: false},
				{Component: ComponentAuthor, Position: 2, Required: true},
				{Component: ComponentTitle, Position: 3, Required: true},
				{Component: ComponentPublisher, Position: 4, Required: false},
				{Component: ComponentEdition, Position: 5, Required: false},
				{Component: ComponentYear, Position: 6, Required: false},
			},
			Examples: []string{"Charles Alan Wright & Arthur R. Miller, Federal Practice and Procedure (3d ed. 2004)"},
		},
		{
			Type:    CitationTypeCase,
			Name:    "case-full",
			Pattern: regexp.MustCompile(signalPrefix + `([A-Z][A-Za-z0-9'’.&\-]*(?:\s+` + partyToken + `)*?)\s+v\.\s+([A-Z][A-Za-z0-9'’.&\-]*(?:\s+` + partyToken + `)*?),\s+(\d+)\s+(` + reporterToken + `)\s*(\d+)(?:,\s*\d+(?:[-–]\d+)?)?(?:\s*\([^)]*\))*`),
			Components: []ComponentRule{
				{Component: ComponentSignal, Position: 1, Required: false},
				{Component: ComponentParty, Position: 2, Required: true},
				{Component: ComponentParty, Position: 3, Required: true},
				{Component: ComponentVolume, Position: 4, Required: true},
				{Component: ComponentReporter, Position: 5, Required: true},
				{Component: ComponentPage, Position: 6, Required: true},
			},
			Examples: []string{
				"Brown v. Board of Education, 347 U.S. 483 (1954)",
				"Smith v. Jones, 12 F.3d 345, 347 (9th Cir. 1994)",
			},
		},
		{
			Type:    CitationTypeUnknown,
			Name:    "case-short",
			Pattern: regexp.MustCompile(`([A-Z][A-Za-z'’\-]+),\s+(\d+)\s+(` + reporterToken + `)\s*at\s+\d+(?:[-–]\d+)?`),
			Components: []ComponentRule{
				{Component: ComponentParty, Position: 1, Required: false},
				{Component: ComponentVolume, Position: 2, Required: false},
				{Component: ComponentReporter, Position: 3, Required: false},
			},
			Examples: []string{"Brown, 347 U.S. at 484"},
		},
		{
			Type:    CitationTypeStatute,
			Name:    "usc",
			Pattern: regexp.MustCompile(`(\d+)\s+(U\.S\.C\.(?:A\.)?)\s*§§?\s*(\d+(?:[A-Za-z0-9.\-]*[A-Za-z0-9])?(?:\([A-Za-z0-9]+\))*)(?:\s+et\s+seq\.)?`),
			Components: []ComponentRule{
				{Component: ComponentTitle, Position: 1, Required: true},
				{Component: ComponentCode, Position: 2, Required: true},
				{Component: ComponentSection, Position: 3, Required: true},
			},
			Examples: []string{"42 U.S.C. § 1983", "15 U.S.C. § 1681 et seq."},
		},
		{
			Type:    CitationTypeStatute,
			Name:    "state-code",
			Pattern: regexp.MustCompile(`([A-Z][a-z]{0,4}\.(?:\s+[A-Z][A-Za-z&.]*\.?)*?\s+(?:Code|Law|Stat\.)(?:\s+Ann\.)?)\s*§§?\s*([A-Za-z0-9]+(?:[.\-][A-Za-z0-9]+)*)`),
			Components: []ComponentRule{
				{Component: ComponentCode, Position: 1, Required: true},
				{Component: ComponentSection, Position: 2, Required: true},
			},
			Examples: []string{"Cal. Civ. Code § 1798.100", "Wis. Stat. § 100.18"},
		},
		{
			Type:    CitationTypeRegulation,
			Name:    "cfr",
			Pattern: regexp.MustCompile(`(\d+)\s+(C\.F\.R\.)\s*(?:§§?|[Pp]arts?)\s*(\d+(?:\.\d+)*)`),
			Components: []ComponentRule{
				{Component: ComponentTitle, Position: 1, Required: true},
				{Component: ComponentCode, Position: 2, Required: true},
				{Component: ComponentSection, Position: 3, Required: true},
			},
			Examples: []string{"45 C.F.R. § 164.502", "45 C.F.R. Part 164"},
		},
		{
			Type:    CitationTypeRule,
			Name:    "federal-rule",
			Pattern: regexp.MustCompile(`(Fed\.\s?R\.\s?(?:Civ\.\s?P\.|Crim\.\s?P\.|App\.\s?P\.|Bankr\.\s?P\.|Evid\.))\s*(\d+(?:\.\d+)?(?:\([a-zA-Z0-9]+\))*)`),
			Components: []ComponentRule{
				{Component: ComponentCode, Position: 1, Required: true},
				{Component: ComponentRuleNumber, Position: 2, Required: true},
			},
			Examples: []string{"Fed. R. Civ. P. 12(b)(6)", "Fed. R. Evid. 403"},
		},
		{
			Type:    CitationTypeConstitution,
			Name:    "constitution",
			Pattern: regexp.MustCompile(`((?:U\.S\.|[A-Z][a-z]+\.?)\s+Const\.)\s+((?:[Aa]rt\.|[Aa]mend\.|pmbl\.)\s*[IVXLCDM\d]+(?:,\s*§\s*\d+(?:,\s*cl\.\s*\d+)?)?)`),
			Components: []ComponentRule{
				{Component: ComponentTitle, Position: 1, Required: true},
				{Component: ComponentSection, Position: 2, Required: true},
			},
			Examples: []string{"U.S. Const. amend. XIV, § 1", "U.S. Const. art. III, § 2"},
		},
		{
			Type:       CitationTypeUnknown,
			Name:       "id",
			Pattern:    regexp.MustCompile(`\b[Ii]d\.(?:\s+at\s+\d+(?:[-–]\d+)?)?`),
			Components: nil,
			Examples:   []string{"Id.", "Id. at 485"},
		},
		{
			Type:    CitationTypeStatute,
			Name:    "bare-section",
			Pattern: regexp.MustCompile(`§§?\s*(\d+(?:\.\d+)*[a-z]?(?:\([A-Za-z0-9]+\))*)`),
			Components: []ComponentRule{
				{Component: ComponentSection, Position: 1, Required: true},
			},
			Examples: []string{"§ 1983"},
		},
	}
}

func defaultReporters() map[string]ReporterInfo {
	return map[string]ReporterInfo{
		"U.S.":          {Abbrev: "U.S.", Name: "United States Reports", CourtImplied: true},
		"S. Ct.":        {Abbrev: "S. Ct.", Name: "Supreme Court Reporter", CourtImplied: true},
		"L. Ed.":        {Abbrev: "L. Ed.", Name: "Lawyers' Edition", CourtImplied: true},
		"L. Ed. 2d":     {Abbrev: "L. Ed. 2d", Name: "Lawyers' Edition, Second Series", CourtImplied: true},
		"F.":            {Abbrev: "F.", Name: "Federal Reporter"},
		"F.2d":          {Abbrev: "F.2d", Name: "Federal Reporter, Second Series"},
		"F.3d":          {Abbrev: "F.3d", Name: "Federal Reporter, Third Series"},
		"F.4th":         {Abbrev: "F.4th", Name: "Federal Reporter, Fourth Series"},
		"F. Supp.":      {Abbrev: "F. Supp.", Name: "Federal Supplement"},
		"F. Supp. 2d":   {Abbrev: "F. Supp. 2d", Name: "Federal Supplement, Second Series"},
		"F. Supp. 3d":   {Abbrev: "F. Supp. 3d", Name: "Federal Supplement, Third Series"},
		"B.R.":          {Abbrev: "B.R.", Name: "Bankruptcy Reporter"},
		"Fed. Cl.":      {Abbrev: "Fed. Cl.", Name: "Federal Claims Reporter"},
		"A.":            {Abbrev: "A.", Name: "Atlantic Reporter"},
		"A.2d":          {Abbrev: "A.2d", Name: "Atlantic Reporter, Second Series"},
		"A.3d":          {Abbrev: "A.3d", Name: "Atlantic Reporter, Third Series"},
		"P.":            {Abbrev: "P.", Name: "Pacific Reporter"},
		"P.2d":          {Abbrev: "P.2d", Name: "Pacific Reporter, Second Series"},
		"P.3d":          {Abbrev: "P.3d", Name: "Pacific Reporter, Third Series"},
		"N.E.":          {Abbrev: "N.E.", Name: "North Eastern Reporter"},
		"N.E.2d":        {Abbrev: "N.E.2d", Name: "North Eastern Reporter, Second Series"},
		"N.E.3d":        {Abbrev: "N.E.3d", Name: "North Eastern Reporter, Third Series"},
		"N.W.":          {Abbrev: "N.W.", Name: "North Western Reporter"},
		"N.W.2d":        {Abbrev: "N.W.2d", Name: "North Western Reporter, Second Series"},
		"S.E.":          {Abbrev: "S.E.", Name: "South Eastern Reporter"},
		"S.E.2d":        {Abbrev: "S.E.2d", Name: "South Eastern Reporter, Second Series"},
		"S.W.":          {Abbrev: "S.W.", Name: "South Western Reporter"},
		"S.W.2d":        {Abbrev: "S.W.2d", Name: "South Western Reporter, Second Series"},
		"S.W.3d":        {Abbrev: "S.W.3d", Name: "South Western Reporter, Third Series"},
		"So.":           {Abbrev: "So.", Name: "Southern Reporter"},
		"So. 2d":        {Abbrev: "So. 2d", Name: "Southern Reporter, Second Series"},
		"So. 3d":        {Abbrev: "So. 3d", Name: "Southern Reporter, Third Series"},
		"Cal. Rptr.":    {Abbrev: "Cal. Rptr.", Name: "California Reporter"},
		"Cal. Rptr. 2d": {Abbrev: "Cal. Rptr. 2d", Name: "California Reporter, Second Series"},
		"Cal. Rptr. 3d": {Abbrev: "Cal. Rptr. 3d", Name: "California Reporter, Third Series"},
		"N.Y.S.":        {Abbrev: "N.Y.S.", Name: "New York Supplement"},
		"N.Y.S.2d":      {Abbrev: "N.Y.S.2d", Name: "New York Supplement, Second Series"},
	}
}

func defaultCourts() map[string]CourtInfo {
	courts := map[string]CourtInfo{
		"D.C. Cir.":     {Abbrev: "D.C. Cir.", Name: "Court of Appeals for the D.C. Circuit"},
		"Fed. Cir.":     {Abbrev: "Fed. Cir.", Name: "Court of Appeals for the Federal Circuit"},
		"S.D.N.Y.":      {Abbrev: "S.D.N.Y.", Name: "Southern District of New York"},
		"E.D.N.Y.":      {Abbrev: "E.D.N.Y.", Name: "Eastern District of New York"},
		"N.D. Cal.":     {Abbrev: "N.D. Cal.", Name: "Northern District of California"},
		"C.D. Cal.":     {Abbrev: "C.D. Cal.", Name: "Central District of California"},
		"E.D. Pa.":      {Abbrev: "E.D. Pa.", Name: "Eastern District of Pennsylvania"},
		"N.D. Ill.":     {Abbrev: "N.D. Ill.", Name: "Northern District of Illinois"},
		"D. Mass.":      {Abbrev: "D. Mass.", Name: "District of Massachusetts"},
		"D.D.C.":        {Abbrev: "D.D.C.", Name: "District of Columbia District Court"},
		"Cal.":          {Abbrev: "Cal.", Name: "Supreme Court of California"},
		"N.Y.":          {Abbrev: "N.Y.", Name: "New York Court of Appeals"},
		"Mass.":         {Abbrev: "Mass.", Name: "Supreme Judicial Court of Massachusetts"},
		"Tex.":          {Abbrev: "Tex.", Name: "Supreme Court of Texas"},
		"Fla.":          {Abbrev: "Fla.", Name: "Supreme Court of Florida"},
		"Cal. Ct. App.": {Abbrev: "Cal. Ct. App.", Name: "California Court of Appeal"},
		"N.Y. App. Div.": {Abbrev: "N.Y. App. Div.", Name: "New York Appellate Division"},
	}
	ordinals := []string{"1st", "2d", "3d", "4th", "5th", "6th", "7th", "8th", "9th", "10th", "11th"}
	for _, ordinal := range ordinals {
		abbrev := ordinal + " Cir."
		courts[abbrev] = CourtInfo{Abbrev: abbrev, Name: "Court of Appeals for the " + ordinal + " Circuit"}
	}
	return courts
}
