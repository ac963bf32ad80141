// Package style renders parsed citations back into styled text. Formatting
// is data-driven: each (style, type) pair has exactly one FormattingRule
// whose template is substituted from the citation's components, then run
// through a fixed cleanup pipeline. Built-in Bluebook and ALWD rule sets are
// compiled in; additional styles load from YAML files and can be hot
// reloaded from a watched directory.
package style

import (
	"fmt"

	"github.com/coolbeans/lexcite/pkg/citation"
)

// Style names a citation style (e.g. "Bluebook", "ALWD").
type Style string

const (
	StyleBluebook Style = "Bluebook"
	StyleALWD     Style = "ALWD"
)

// FormattingRule declares how one citation type renders in one style.
// Template placeholders are written as {component}: {party}, {first_party},
// {volume}, {reporter}, {page}, {pin_cite}, {pin_or_page}, {year}, {court},
// {parenthetical}, {title}, {author}, {publisher}, {edition}, {code},
// {section}, {rule_number}. Placeholders with no value substitute to the
// empty string and the cleanup pipeline removes the leftover punctuation.
type FormattingRule struct {
	Style             Style                    `yaml:"style" json:"style"`
	Type              citation.CitationType    `yaml:"type" json:"type"`
	Template          string                   `yaml:"template" json:"template"`
	ShortFormTemplate string                   `yaml:"short_form_template,omitempty" json:"short_form_template,omitempty"`
	Italicize         []citation.ComponentType `yaml:"italicize,omitempty" json:"italicize,omitempty"`
}

func (r *FormattingRule) validate() error {
	if r.Style == "" {
		return fmt.Errorf("missing style")
	}
	if r.Type == "" {
		return fmt.Errorf("missing citation type")
	}
	if r.Template == "" {
		return fmt.Errorf("missing template")
	}
	return nil
}

func ruleKey(s Style, t citation.CitationType) string {
	return string(s) + "|" + string(t)
}
