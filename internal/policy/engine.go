package policy

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"

	"github.com/gatehouse-auth/gatehouse/internal/core"
)

var ErrNoRuleMatch = fmt.Errorf("no matching access rule for this principal")

// Match defines the criteria a principal must meet for a Rule to apply.
type Match struct {
	// Scheme restricts the rule to principals authenticated by the named
	// strategy. Empty means any scheme.
	Scheme string `yaml:"scheme,omitempty" json:"scheme,omitempty"`

	// Condition is an attribute check (possibly composed). Either provide
	// Condition OR Expr, not both.
	Condition *Condition `yaml:"condition,omitempty" json:"condition,omitempty"`

	// Expr is an expression for more complex matching logic, evaluated
	// over {principal, rule}.
	Expr string `yaml:"expr,omitempty" json:"expr,omitempty"`

	// AllowEmpty marks an intentionally unconditional rule. Without this,
	// a rule with neither Condition nor Expr fails validation so broad
	// access is never granted by accident.
	AllowEmpty bool `yaml:"allow_empty,omitempty" json:"allow_empty,omitempty"`

	// CompiledExpr holds the pre-compiled form of Expr.
	CompiledExpr *vm.Program `yaml:"-" json:"-"`
}

// Rule grants access to the protected surface when its Match applies.
type Rule struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Match       Match  `yaml:"match" json:"match"`
}

// Engine holds the loaded access rules and evaluates them.
// With no rules configured, any authenticated principal is allowed.
type Engine struct {
	rules []Rule
}

func New(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Evaluate returns the first rule matching the principal, or ErrNoRuleMatch.
// An engine with no rules matches every principal.
func (e *Engine) Evaluate(principal *core.Principal) (*Rule, error) {
	if len(e.rules) == 0 {
		return nil, nil
	}
	for _, rule := range e.rules {
		if matches(rule, principal) {
			r := rule
			return &r, nil
		}
	}
	return nil, ErrNoRuleMatch
}

func matches(rule Rule, principal *core.Principal) bool {
	if rule.Match.Scheme != "" && rule.Match.Scheme != principal.Scheme {
		return false
	}
	if rule.Match.Condition != nil && !rule.Match.Condition.Matches(attributeView(principal)) {
		return false
	}
	if rule.Match.CompiledExpr != nil {
		out, err := expr.Run(rule.Match.CompiledExpr, map[string]any{
			"rule":      rule,
			"principal": principal,
		})
		if err != nil {
			log.Warn().Err(err).Msgf("error evaluating expression for rule '%s'", rule.Name)
			return false
		}
		b, ok := out.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

// attributeView exposes the principal's identity alongside its attributes so
// conditions can address "subject" and "scheme" like any other key.
func attributeView(principal *core.Principal) map[string]any {
	attrs := make(map[string]any, len(principal.Attributes)+2)
	for k, v := range principal.Attributes {
		attrs[k] = v
	}
	attrs["subject"] = principal.Subject
	attrs["scheme"] = principal.Scheme
	return attrs
}

// ValidateRules checks rule well-formedness against the configured strategy
// names and compiles any expressions. It returns the rules ready for the
// engine.
func ValidateRules(rules []Rule, knownSchemes map[string]struct{}) ([]Rule, error) {
	seenNames := make(map[string]struct{})
	var validRules []Rule

	for i, rule := range rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("rule #%d missing name", i)
		}
		if _, exists := seenNames[rule.Name]; exists {
			return nil, fmt.Errorf("rule name '%s' is not unique", rule.Name)
		}
		seenNames[rule.Name] = struct{}{}

		if rule.Match.Scheme != "" {
			if _, known := knownSchemes[rule.Match.Scheme]; !known {
				return nil, fmt.Errorf("rule '%s' references unknown strategy '%s'", rule.Name, rule.Match.Scheme)
			}
		}

		if rule.Match.Condition != nil && rule.Match.Expr != "" {
			return nil, fmt.Errorf("rule '%s' has both match.condition and match.expr set", rule.Name)
		}
		if rule.Match.Condition == nil && rule.Match.Expr == "" && !rule.Match.AllowEmpty {
			return nil, fmt.Errorf("rule '%s' has neither match.condition nor match.expr set, and allow_empty is false", rule.Name)
		}
		if rule.Match.Expr != "" {
			out, err := expr.Compile(rule.Match.Expr, expr.AsBool())
			if err != nil {
				return nil, fmt.Errorf("compiling expr for rule '%s': %w", rule.Name, err)
			}
			rule.Match.CompiledExpr = out
		}
		if rule.Match.Condition != nil {
			if err := rule.Match.Condition.Validate(); err != nil {
				return nil, fmt.Errorf("validating condition for rule '%s': %w", rule.Name, err)
			}
		}

		validRules = append(validRules, rule)
	}

	return validRules, nil
}
