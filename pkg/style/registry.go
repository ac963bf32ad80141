package style

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/lexcite/pkg/citation"
)

// Registry holds formatting rules keyed by (style, type). Exactly one rule
// per pair is consulted; registering a pair again replaces the earlier rule,
// which is what directory reloads rely on.
type Registry struct {
	mu       sync.RWMutex
	rules    map[string]*FormattingRule
	dir      string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]*FormattingRule)}
}

// NewDefaultRegistry creates a registry preloaded with the built-in
// Bluebook and ALWD rule sets.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rule := range builtinRules() {
		// Built-in rules are static and known-valid.
		_ = r.Register(rule)
	}
	return r
}

// Register adds or replaces the rule for the rule's (style, type) pair.
func (r *Registry) Register(rule *FormattingRule) error {
	if rule == nil {
		return fmt.Errorf("formatting rule cannot be nil")
	}
	if err := rule.validate(); err != nil {
		return fmt.Errorf("invalid formatting rule: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[ruleKey(rule.Style, rule.Type)] = rule
	return nil
}

// Get returns the rule for a (style, type) pair.
func (r *Registry) Get(s Style, t citation.CitationType) (*FormattingRule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[ruleKey(s, t)]
	return rule, ok
}

// Styles returns the distinct registered style names in sorted order.
func (r *Registry) Styles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	for _, rule := range r.rules {
		seen[string(rule.Style)] = true
	}
	styles := make([]string, 0, len(seen))
	for name := range seen {
		styles = append(styles, name)
	}
	sort.Strings(styles)
	return styles
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// styleFile is the YAML shape of a custom style file: a flat list of rules.
type styleFile struct {
	Rules []*FormattingRule `yaml:"rules"`
}

// LoadFile loads formatting rules from a single YAML file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var file styleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	for i, rule := range file.Rules {
		if err := r.Register(rule); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

// LoadDirectory loads every .yaml/.yml file in dir. A missing directory
// loads nothing; individual file failures are collected, not fatal to the
// rest of the directory.
func (r *Registry) LoadDirectory(dir string) error {
	r.mu.Lock()
	r.dir = dir
	r.mu.Unlock()

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var loadErrors []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		if err := r.LoadFile(filepath.Join(dir, name)); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", name, err))
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading styles: %s", strings.Join(loadErrors, "; "))
	}
	return nil
}

// Reload re-reads the configured style directory on top of the current
// rules.
func (r *Registry) Reload() error {
	r.mu.RLock()
	dir := r.dir
	r.mu.RUnlock()
	if dir == "" {
		return fmt.Errorf("no directory configured for reload")
	}
	return r.LoadDirectory(dir)
}

// Watch starts watching the style directory and reloads changed files. The
// watch goroutine owns the watcher and stop channel it was started with.
func (r *Registry) Watch() error {
	r.mu.RLock()
	dir := r.dir
	r.mu.RUnlock()
	if dir == "" {
		return fmt.Errorf("no directory configured for watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	stopChan := make(chan struct{})
	r.mu.Lock()
	r.watcher = watcher
	r.stopChan = stopChan
	r.mu.Unlock()

	go r.watchLoop(watcher, stopChan)
	return nil
}

// StopWatch stops the directory watcher. Safe to call more than once.
func (r *Registry) StopWatch() {
	r.mu.Lock()
	watcher, stopChan := r.watcher, r.stopChan
	r.watcher, r.stopChan = nil, nil
	r.mu.Unlock()

	if stopChan != nil {
		close(stopChan)
	}
	if watcher != nil {
		watcher.Close()
	}
}

func (r *Registry) watchLoop(watcher *fsnotify.Watcher, stopChan chan struct{}) {
	for {
		select {
		case <-stopChan:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".yaml") && !strings.HasSuffix(event.Name, ".yml") {
				continue
			}
			switch {
			case event.Op&fsnotify.Create == fsnotify.Create,
				event.Op&fsnotify.Write == fsnotify.Write:
				// Best effort: a malformed file leaves the previous
				// rules in place.
				_ = r.LoadFile(event.Name)
			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				_ = r.Reload()
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
