package safety

import (
	_ "embed"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed patterns.yaml
var defaultTable []byte

type Severity string

const (
	SeverityAdversarial Severity = "adversarial"
	SeverityToxicity    Severity = "toxicity"
	SeverityOffTopic    Severity = "off_topic"
)

// rank orders severities: lower runs first.
func (s Severity) rank() int {
	switch s {
	case SeverityAdversarial:
		return 0
	case SeverityToxicity:
		return 1
	case SeverityOffTopic:
		return 2
	default:
		return -1
	}
}

const (
	ScopeMessage      = "message"
	ScopeConversation = "conversation"
)

type Rule struct {
	Match  string `yaml:"match"`
	Unless string `yaml:"unless"`
}

type Group struct {
	Category string   `yaml:"category"`
	Severity Severity `yaml:"severity"`
	Priority int      `yaml:"priority"`
	Scope    string   `yaml:"scope"`
	Rules    []Rule   `yaml:"rules"`
}

// PatternTable is the declarative form of the Tier 1 policy.
type PatternTable struct {
	Version int     `yaml:"version"`
	Groups  []Group `yaml:"groups"`
}

// PatternError points at the table entry that failed to compile.
type PatternError struct {
	Category string
	Pattern  string
	Err      error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("safety pattern %q in %s: %v", e.Pattern, e.Category, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

func ParseTable(r io.Reader) (*PatternTable, error) {
	var t PatternTable
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode safety table: %w", err)
	}
	return &t, nil
}

// DefaultTable returns the table compiled into the binary.
func DefaultTable() (*PatternTable, error) {
	return ParseTable(strings.NewReader(string(defaultTable)))
}

type compiledRule struct {
	source string
	match  *regexp.Regexp
	unless *regexp.Regexp
}

type compiledGroup struct {
	category string
	severity Severity
	priority int
	scope    string
	rules    []compiledRule
}

// Registry is the compiled, read-only matcher built from a PatternTable.
type Registry struct {
	version int
	groups  []compiledGroup
}

// Match describes the rule that fired.
type Match struct {
	Category string
	Severity Severity
	Pattern  string
}

func compile(category, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, &PatternError{Category: category, Pattern: pattern, Err: err}
	}
	return re, nil
}

// Compile validates and compiles every rule, then orders the groups by
// severity and priority.
func Compile(t *PatternTable) (*Registry, error) {
	reg := &Registry{version: t.Version}

	for _, g := range t.Groups {
		if g.Severity.rank() < 0 {
			return nil, fmt.Errorf("safety group %s: unknown severity %q", g.Category, g.Severity)
		}
		scope := g.Scope
		if scope == "" {
			scope = ScopeMessage
		}
		if scope != ScopeMessage && scope != ScopeConversation {
			return nil, fmt.Errorf("safety group %s: unknown scope %q", g.Category, g.Scope)
		}

		cg := compiledGroup{category: g.Category, severity: g.Severity, priority: g.Priority, scope: scope}
		for _, r := range g.Rules {
			m, err := compile(g.Category, r.Match)
			if err != nil {
				return nil, err
			}
			cr := compiledRule{source: r.Match, match: m}
			if r.Unless != "" {
				if cr.unless, err = compile(g.Category, r.Unless); err != nil {
					return nil, err
				}
			}
			cg.rules = append(cg.rules, cr)
		}
		reg.groups = append(reg.groups, cg)
	}

	sort.SliceStable(reg.groups, func(i, j int) bool {
		a, b := reg.groups[i], reg.groups[j]
		if a.severity.rank() != b.severity.rank() {
			return a.severity.rank() < b.severity.rank()
		}
		return a.priority < b.priority
	})

	return reg, nil
}

// DefaultRegistry compiles the embedded table.
func DefaultRegistry() (*Registry, error) {
	t, err := DefaultTable()
	if err != nil {
		return nil, err
	}
	return Compile(t)
}

func (r *Registry) Version() int { return r.version }

// Categories lists group categories in evaluation order.
func (r *Registry) Categories() []string {
	out := make([]string, len(r.groups))
	for i, g := range r.groups {
		out[i] = g.category
	}
	return out
}

// fires reports whether any occurrence of the rule ends after minEnd and is not
// excused by its unless-pattern.
func (cr compiledRule) fires(text string, minEnd int) bool {
	for _, loc := range cr.match.FindAllStringIndex(text, -1) {
		if loc[1] <= minEnd {
			continue
		}
		if cr.unless != nil && cr.unless.MatchString(text[loc[1]:]) {
			continue
		}
		return true
	}
	return false
}

// Match runs the groups in order against text and returns the first rule that
// fires. previous is the prior user message, used by conversation-scoped groups.
func (r *Registry) Match(text, previous string) (Match, bool) {
	text = strings.TrimSpace(text)
	window := ""
	if previous = strings.TrimSpace(previous); previous != "" {
		window = previous + "\n" + text
	}

	for _, g := range r.groups {
		for _, rule := range g.rules {
			if rule.fires(text, -1) {
				return Match{Category: g.category, Severity: g.severity, Pattern: rule.source}, true
			}
			if g.scope == ScopeConversation && window != "" && rule.fires(window, len(previous)+1) {
				return Match{Category: g.category, Severity: g.severity, Pattern: rule.source}, true
			}
		}
	}
	return Match{}, false
}
