package plausibility

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

var ErrInvalidRules = errors.New("invalid plausibility rules")

const DefaultScore = 0.8

// Rule scores propositions about one subject by whether their value is known.
type Rule struct {
	Subject      string   `yaml:"subject"`
	Values       []string `yaml:"values"`
	KnownScore   *float64 `yaml:"known_score,omitempty"`
	KnownNote    string   `yaml:"known_note,omitempty"`
	UnknownScore *float64 `yaml:"unknown_score,omitempty"`
	UnknownNote  string   `yaml:"unknown_note,omitempty"`

	values map[string]struct{}
}

// RuleSet is a parsed rule file.
type RuleSet struct {
	DefaultScore *float64 `yaml:"default_score,omitempty"`
	Rules        []Rule   `yaml:"rules"`

	bySubject map[string]*Rule
}

// ParseRules decodes a YAML rule file. Unknown fields are rejected.
func ParseRules(data []byte) (*RuleSet, error) {
	var rs RuleSet
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	if err := rs.index(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// LoadRules reads a rule file from disk. An empty path yields the built-in rules.
func LoadRules(path string) (*RuleSet, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	return ParseRules(data)
}

// DefaultRules returns the built-in rule set.
func DefaultRules() *RuleSet {
	rs, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded plausibility rules: %v", err))
	}
	return rs
}

func (rs *RuleSet) index() error {
	if rs.DefaultScore != nil && !validScore(*rs.DefaultScore) {
		return fmt.Errorf("%w: default_score %v outside [0,1]", ErrInvalidRules, *rs.DefaultScore)
	}

	rs.bySubject = make(map[string]*Rule, len(rs.Rules))
	for i := range rs.Rules {
		r := &rs.Rules[i]
		r.Subject = normalize(r.Subject)
		if r.Subject == "" {
			return fmt.Errorf("%w: rule %d has no subject", ErrInvalidRules, i)
		}
		if _, dup := rs.bySubject[r.Subject]; dup {
			return fmt.Errorf("%w: duplicate rule for subject %q", ErrInvalidRules, r.Subject)
		}
		for _, s := range []*float64{r.KnownScore, r.UnknownScore} {
			if s != nil && !validScore(*s) {
				return fmt.Errorf("%w: subject %q score %v outside [0,1]", ErrInvalidRules, r.Subject, *s)
			}
		}

		r.values = make(map[string]struct{}, len(r.Values))
		for _, v := range r.Values {
			r.values[normalize(v)] = struct{}{}
		}
		rs.bySubject[r.Subject] = r
	}
	return nil
}

func (rs *RuleSet) defaultScore() float64 {
	if rs.DefaultScore != nil {
		return *rs.DefaultScore
	}
	return DefaultScore
}

// Len returns the number of subject rules.
func (rs *RuleSet) Len() int { return len(rs.Rules) }

func validScore(s float64) bool { return s >= 0 && s <= 1 }

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
