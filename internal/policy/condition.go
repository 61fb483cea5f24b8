// Package policy evaluates access rules against authenticated principals.
// Authentication decides who the caller is; policy decides whether that
// principal may reach the protected surface.
package policy

import (
	"fmt"
	"strings"
)

// Operator defines how to compare a principal attribute against a value.
type Operator string

const (
	OpEqual Operator = "equals"
	// OpContains: for strings, substring match; for lists, membership.
	OpContains Operator = "contains"
	// OpIn: the attribute value is one of the listed values.
	OpIn Operator = "in"
	// OpExists: the attribute is present, whatever its value.
	OpExists Operator = "exists"
)

func (op Operator) IsValid() bool {
	switch op {
	case OpEqual, OpContains, OpIn, OpExists:
		return true
	default:
		return false
	}
}

// Condition is a single check against a principal, or a composition of
// checks. Exactly one of the logic groups (All/Any/Not) or the leaf triple
// (Key/Operator/Value) may be set.
type Condition struct {
	All []Condition `yaml:"all,omitempty" json:"all,omitempty"`
	Any []Condition `yaml:"any,omitempty" json:"any,omitempty"`
	Not *Condition  `yaml:"not,omitempty" json:"not,omitempty"`

	// Key resolves against the principal: "subject" and "scheme" address
	// the identity itself, anything else looks up an attribute.
	Key      string   `yaml:"key,omitempty" json:"key,omitempty"`
	Operator Operator `yaml:"operator,omitempty" json:"operator,omitempty"`
	Value    any      `yaml:"value,omitempty" json:"value,omitempty"`
}

func (c *Condition) Validate() error {
	groups := 0
	if len(c.All) > 0 {
		groups++
	}
	if len(c.Any) > 0 {
		groups++
	}
	if c.Not != nil {
		groups++
	}
	isLeaf := c.Key != ""

	if groups == 0 && !isLeaf {
		return fmt.Errorf("condition is empty")
	}
	if groups > 1 || (groups == 1 && isLeaf) {
		return fmt.Errorf("condition must be a single group or a single key check")
	}

	if isLeaf {
		if c.Operator == "" {
			c.Operator = OpEqual
		}
		if !c.Operator.IsValid() {
			return fmt.Errorf("unknown operator %q", c.Operator)
		}
		if c.Operator != OpExists && c.Value == nil {
			return fmt.Errorf("operator %q requires a value", c.Operator)
		}
		return nil
	}

	for i := range c.All {
		if err := c.All[i].Validate(); err != nil {
			return fmt.Errorf("all[%d]: %w", i, err)
		}
	}
	for i := range c.Any {
		if err := c.Any[i].Validate(); err != nil {
			return fmt.Errorf("any[%d]: %w", i, err)
		}
	}
	if c.Not != nil {
		if err := c.Not.Validate(); err != nil {
			return fmt.Errorf("not: %w", err)
		}
	}
	return nil
}

// Matches evaluates the condition against a resolved attribute view.
func (c *Condition) Matches(attrs map[string]any) bool {
	switch {
	case len(c.All) > 0:
		for _, sub := range c.All {
			if !sub.Matches(attrs) {
				return false
			}
		}
		return true
	case len(c.Any) > 0:
		for _, sub := range c.Any {
			if sub.Matches(attrs) {
				return true
			}
		}
		return false
	case c.Not != nil:
		return !c.Not.Matches(attrs)
	}

	actual, ok := attrs[c.Key]
	switch c.Operator {
	case OpExists:
		return ok
	case OpEqual:
		return ok && fmt.Sprint(actual) == fmt.Sprint(c.Value)
	case OpContains:
		if !ok {
			return false
		}
		switch v := actual.(type) {
		case string:
			return strings.Contains(v, fmt.Sprint(c.Value))
		case []any:
			for _, item := range v {
				if fmt.Sprint(item) == fmt.Sprint(c.Value) {
					return true
				}
			}
			return false
		case []string:
			for _, item := range v {
				if item == fmt.Sprint(c.Value) {
					return true
				}
			}
			return false
		default:
			return false
		}
	case OpIn:
		if !ok {
			return false
		}
		list, isList := c.Value.([]any)
		if !isList {
			return false
		}
		for _, candidate := range list {
			if fmt.Sprint(actual) == fmt.Sprint(candidate) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
