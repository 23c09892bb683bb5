package rewrite

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/coregx/coregex"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/splice/pkg/effect"
	"github.com/Sumatoshi-tech/splice/pkg/language"
	"github.com/Sumatoshi-tech/splice/pkg/rewrite/schema"
)

// Sentinel errors for rule loading.
var (
	ErrInvalidRules  = errors.New("invalid rule file")
	ErrInvalidTarget = errors.New("invalid rule target")
	errSchemaLoad    = errors.New("load rule schema")
)

// Action is what a rule does with its target.
type Action string

// Rule actions.
const (
	ActionRewrite Action = "rewrite"
	ActionInsert  Action = "insert"
)

// Kind maps the action onto an effect kind.
func (a Action) Kind() effect.Kind {
	if a == ActionInsert {
		return effect.Insert
	}

	return effect.Rewrite
}

// Constraint filters matches. Equivalent requires every listed capture to
// be equivalent to the first. Capture alone requires the capture to be
// truthy; with Equals or Matches its text is compared instead.
type Constraint struct {
	Equivalent []string `yaml:"equivalent,omitempty" json:"equivalent,omitempty"`
	Capture    string   `yaml:"capture,omitempty"    json:"capture,omitempty"`
	Equals     string   `yaml:"equals,omitempty"     json:"equals,omitempty"`
	Matches    string   `yaml:"matches,omitempty"    json:"matches,omitempty"`

	matcher *coregex.Regexp
}

// Rule is one query-driven rewrite.
type Rule struct {
	Name        string       `yaml:"name"                  json:"name"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Language    string       `yaml:"language"              json:"language"`
	Query       string       `yaml:"query"                 json:"query"`
	Target      string       `yaml:"target"                json:"target"`
	Action      Action       `yaml:"action"                json:"action"`
	Replacement string       `yaml:"replacement,omitempty" json:"replacement,omitempty"`
	Where       []Constraint `yaml:"where,omitempty"       json:"where,omitempty"`

	lang        *language.Language
	target      Reference
	replacement Template
}

// RuleSet is the document form of a rule file.
type RuleSet struct {
	Rules []*Rule `yaml:"rules" json:"rules"`
}

// Lang returns the resolved language of the rule.
func (r *Rule) Lang() *language.Language { return r.lang }

// AppliesTo reports whether the rule targets lang.
func (r *Rule) AppliesTo(lang *language.Language) bool {
	return r.lang != nil && lang != nil && r.lang.Name() == lang.Name()
}

// compile resolves the language and parses the target, template and
// constraints.
func (r *Rule) compile() error {
	lang, err := language.Lookup(r.Language)
	if err != nil {
		return fmt.Errorf("rule %s: %w", r.Name, err)
	}

	r.lang = lang

	target, ok := parseReference(r.Target)
	if !ok || target.Capture == fileNameCapture {
		return fmt.Errorf("rule %s: %w: %q", r.Name, ErrInvalidTarget, r.Target)
	}

	r.target = target

	tmpl, err := ParseTemplate(r.Replacement)
	if err != nil {
		return fmt.Errorf("rule %s: %w", r.Name, err)
	}

	r.replacement = tmpl

	for i := range r.Where {
		c := &r.Where[i]
		if c.Matches == "" {
			continue
		}

		re, reErr := coregex.Compile(c.Matches)
		if reErr != nil {
			return fmt.Errorf("rule %s: where[%d]: %w", r.Name, i, reErr)
		}

		c.matcher = re
	}

	return nil
}

var (
	schemaOnce   sync.Once
	schemaLoader gojsonschema.JSONLoader
	schemaErr    error
)

func rulesSchema() (gojsonschema.JSONLoader, error) {
	schemaOnce.Do(func() {
		data, err := schema.FS.ReadFile(schema.RulesFile)
		if err != nil {
			schemaErr = fmt.Errorf("%w: %w", errSchemaLoad, err)

			return
		}

		schemaLoader = gojsonschema.NewBytesLoader(data)
	})

	return schemaLoader, schemaErr
}

// ParseRules validates a YAML rule document against the rule schema and
// compiles every rule in it.
func ParseRules(data []byte) ([]*Rule, error) {
	var doc any

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}

	err = validateDocument(doc)
	if err != nil {
		return nil, err
	}

	var set RuleSet

	err = yaml.Unmarshal(data, &set)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}

	seen := make(map[string]bool, len(set.Rules))

	for _, r := range set.Rules {
		if seen[r.Name] {
			return nil, fmt.Errorf("%w: duplicate rule name %q", ErrInvalidRules, r.Name)
		}

		seen[r.Name] = true

		err = r.compile()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
		}
	}

	return set.Rules, nil
}

// LoadRules reads and parses a rule file.
func LoadRules(path string) ([]*Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rules, nil
}

func validateDocument(doc any) error {
	loader, err := rulesSchema()
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(loader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidRules, strings.Join(problems, "; "))
}
