package style

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coolbeans/lexcite/pkg/citation"
)

func TestNewDefaultRegistry(t *testing.T) {
	registry := NewDefaultRegistry()

	if registry.Count() != 14 {
		t.Errorf("Expected 14 built-in rules, got %d", registry.Count())
	}

	styles := registry.Styles()
	if len(styles) != 2 || styles[0] != "ALWD" || styles[1] != "Bluebook" {
		t.Errorf("Expected [ALWD Bluebook], got %v", styles)
	}

	for _, citationType := range []citation.CitationType{
		citation.CitationTypeCase, citation.CitationTypeStatute,
		citation.CitationTypeRegulation, citation.CitationTypeRule,
		citation.CitationTypeConstitution, citation.CitationTypeBook,
		citation.CitationTypeArticle,
	} {
		if _, ok := registry.Get(StyleBluebook, citationType); !ok {
			t.Errorf("Expected Bluebook rule for type %q", citationType)
		}
		if _, ok := registry.Get(StyleALWD, citationType); !ok {
			t.Errorf("Expected ALWD rule for type %q", citationType)
		}
	}
}

func TestRegistryGetUnknownPair(t *testing.T) {
	registry := NewDefaultRegistry()
	if _, ok := registry.Get(Style("Chicago"), citation.CitationTypeCase); ok {
		t.Error("Expected no rule for an unregistered style")
	}
	if _, ok := registry.Get(StyleBluebook, citation.CitationTypeUnknown); ok {
		t.Error("Expected no rule for the unknown citation type")
	}
}

func TestRegisterReplacesExistingRule(t *testing.T) {
	registry := NewDefaultRegistry()
	before := registry.Count()

	replacement := &FormattingRule{
		Style:    StyleBluebook,
		Type:     citation.CitationTypeCase,
		Template: "{party} ({year})",
	}
	if err := registry.Register(replacement); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if registry.Count() != before {
		t.Errorf("Expected count to stay %d, got %d", before, registry.Count())
	}
	rule, ok := registry.Get(StyleBluebook, citation.CitationTypeCase)
	if !ok {
		t.Fatal("Expected the replaced rule to be present")
	}
	if rule.Template != "{party} ({year})" {
		t.Errorf("Template: got %q, want the replacement", rule.Template)
	}
}

func TestRegisterRejectsInvalidRules(t *testing.T) {
	registry := NewRegistry()

	cases := []struct {
		name string
		rule *FormattingRule
	}{
		{name: "nil_rule", rule: nil},
		{name: "missing_style", rule: &FormattingRule{Type: citation.CitationTypeCase, Template: "{party}"}},
		{name: "missing_type", rule: &FormattingRule{Style: StyleBluebook, Template: "{party}"}},
		{name: "missing_template", rule: &FormattingRule{Style: StyleBluebook, Type: citation.CitationTypeCase}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := registry.Register(tc.rule); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chicago.yaml")
	content := `rules:
  - style: Chicago
    type: case
    template: "{party}, {volume} {reporter} {page} ({year})"
    short_form_template: "{first_party}, {volume} {reporter} at {pin_or_page}"
    italicize: [party]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	registry := NewDefaultRegistry()
	if err := registry.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	rule, ok := registry.Get(Style("Chicago"), citation.CitationTypeCase)
	if !ok {
		t.Fatal("Expected the loaded Chicago case rule")
	}
	if rule.ShortFormTemplate != "{first_party}, {volume} {reporter} at {pin_or_page}" {
		t.Errorf("ShortFormTemplate: got %q", rule.ShortFormTemplate)
	}
	if len(rule.Italicize) != 1 || rule.Italicize[0] != citation.ComponentParty {
		t.Errorf("Italicize: got %v", rule.Italicize)
	}

	styles := registry.Styles()
	if len(styles) != 3 || styles[2] != "Chicago" {
		t.Errorf("Expected Chicago in styles, got %v", styles)
	}
}

func TestLoadFileMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(path, []byte("rules: [this is: not: valid"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	registry := NewRegistry()
	if err := registry.LoadFile(path); err == nil {
		t.Error("Expected an error for malformed YAML")
	}
}

func TestLoadFileInvalidRule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid.yaml")
	content := `rules:
  - style: Chicago
    type: case
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	registry := NewRegistry()
	if err := registry.LoadFile(path); err == nil {
		t.Error("Expected an error for a rule without a template")
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	yamlContent := `rules:
  - style: Chicago
    type: statute
    template: "{title} {code} § {section}"
`
	if err := os.WriteFile(filepath.Join(dir, "chicago.yml"), []byte(yamlContent), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	// Non-YAML files are skipped.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a style"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	registry := NewRegistry()
	if err := registry.LoadDirectory(dir); err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if registry.Count() != 1 {
		t.Errorf("Expected 1 rule, got %d", registry.Count())
	}
}

func TestLoadDirectoryMissingIsNoOp(t *testing.T) {
	registry := NewDefaultRegistry()
	before := registry.Count()

	if err := registry.LoadDirectory(filepath.Join(t.TempDir(), "does-not-exist")); err != nil {
		t.Fatalf("Expected missing directory to load nothing, got %v", err)
	}
	if registry.Count() != before {
		t.Errorf("Expected count to stay %d, got %d", before, registry.Count())
	}
}

func TestReloadRequiresConfiguredDirectory(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Reload(); err == nil {
		t.Error("Expected an error when no directory is configured")
	}
	if err := registry.Watch(); err == nil {
		t.Error("Expected Watch to fail when no directory is configured")
	}
}

func TestReloadPicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	first := `rules:
  - style: Chicago
    type: case
    template: "{party} ({year})"
`
	if err := os.WriteFile(path, []byte(first), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	registry := NewRegistry()
	if err := registry.LoadDirectory(dir); err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}

	second := `rules:
  - style: Chicago
    type: case
    template: "{party}, {volume} {reporter} {page}"
`
	if err := os.WriteFile(path, []byte(second), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := registry.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	rule, ok := registry.Get(Style("Chicago"), citation.CitationTypeCase)
	if !ok {
		t.Fatal("Expected the reloaded rule")
	}
	if rule.Template != "{party}, {volume} {reporter} {page}" {
		t.Errorf("Template: got %q, want the reloaded version", rule.Template)
	}
}

func TestWatchPicksUpNewRuleFile(t *testing.T) {
	dir := t.TempDir()
	registry := NewRegistry()
	if err := registry.LoadDirectory(dir); err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if err := registry.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer registry.StopWatch()

	content := `rules:
  - style: Chicago
    type: case
    template: "{party} ({year})"
`
	if err := os.WriteFile(filepath.Join(dir, "chicago.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		rule, ok := registry.Get(Style("Chicago"), citation.CitationTypeCase)
		if ok {
			if rule.Template != "{party} ({year})" {
				t.Errorf("Template: got %q, want the watched file's rule", rule.Template)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("Expected the watcher to load the new rule file")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStopWatchDuringFileChurn(t *testing.T) {
	dir := t.TempDir()
	registry := NewRegistry()
	if err := registry.LoadDirectory(dir); err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if err := registry.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	content := []byte(`rules:
  - style: Chicago
    type: case
    template: "{party} ({year})"
`)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			name := fmt.Sprintf("churn-%d.yaml", i%5)
			if err := os.WriteFile(filepath.Join(dir, name), content, 0644); err != nil {
				return
			}
		}
	}()

	registry.StopWatch()
	<-done

	// Stopping an already-stopped watcher is a no-op.
	registry.StopWatch()
}
