// Package manifest extracts class declarations and relationship edges from
// Puppet manifest text.
//
// Extraction is lexical: a fixed table of regular expressions is matched
// against the raw text. It does not parse the Puppet grammar, so classes
// declared more than once per file, nested classes and unusually formatted
// multi-line calls may be missed. It never fails on malformed input.
package manifest

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/puppetlens/internal/depgraph"
)

// Default patterns for the Puppet dialect.
const (
	DefaultClassPattern     = `(?m)class\s+([a-z][a-z0-9_:]*)\s*(?:\(|\s*\{|\s*$)`
	DefaultIncludePattern   = `include\s+([a-z][a-z0-9_:]*)`
	DefaultRequirePattern   = `Require\s*\(\s*['"]?([a-z][a-z0-9_:]*)`
	DefaultContainPattern   = `Contain\s*\(\s*['"]?([a-z][a-z0-9_:]*)`
	DefaultNotifyPattern    = `Notify\s*\(\s*['"]?([a-z][a-z0-9_:]*)`
	DefaultSubscribePattern = `Subscribe\s*\(\s*['"]?([a-z][a-z0-9_:]*)`
	DefaultChainPattern     = `([a-z][a-z0-9_:]*)\s*(->|~>|<-|<~)\s*([a-z][a-z0-9_:]*)`
)

// Operator describes how a chain arrow maps to an edge.
type Operator struct {
	Kind depgraph.Kind
	// Reverse arrows attribute the edge from the right operand to the
	// declaring class instead of from the left operand to the right one.
	Reverse bool
}

// chainOperators is the fixed arrow table. The reverse entries do not mirror
// the forward ones; see Extractor.Extract.
var chainOperators = map[string]Operator{
	"->": {Kind: depgraph.KindRequire},
	"~>": {Kind: depgraph.KindNotify},
	"<-": {Kind: depgraph.KindRequire, Reverse: true},
	"<~": {Kind: depgraph.KindSubscribe, Reverse: true},
}

// relation pairs a relationship kind with the pattern that finds its targets.
type relation struct {
	kind    depgraph.Kind
	pattern *regexp.Regexp
}

// Syntax is an immutable set of extraction patterns.
// Build one with DefaultSyntax or DefaultSyntax().With(overrides).
type Syntax struct {
	class     *regexp.Regexp
	relations []relation
	chain     *regexp.Regexp
	operators map[string]Operator
}

// Overrides replaces individual default patterns. Empty fields keep the default.
// Class and relationship patterns need one capture group for the name; the
// chain pattern needs three (left operand, operator, right operand).
type Overrides struct {
	Class     string `koanf:"class" yaml:"class,omitempty" json:"class,omitempty"`
	Include   string `koanf:"include" yaml:"include,omitempty" json:"include,omitempty"`
	Require   string `koanf:"require" yaml:"require,omitempty" json:"require,omitempty"`
	Contain   string `koanf:"contain" yaml:"contain,omitempty" json:"contain,omitempty"`
	Notify    string `koanf:"notify" yaml:"notify,omitempty" json:"notify,omitempty"`
	Subscribe string `koanf:"subscribe" yaml:"subscribe,omitempty" json:"subscribe,omitempty"`
	Chain     string `koanf:"chain" yaml:"chain,omitempty" json:"chain,omitempty"`
}

// IsZero reports whether no pattern is overridden.
func (o Overrides) IsZero() bool {
	return o == Overrides{}
}

// DefaultSyntax returns the Puppet dialect.
func DefaultSyntax() *Syntax {
	return &Syntax{
		class: regexp.MustCompile(DefaultClassPattern),
		relations: []relation{
			{kind: depgraph.KindInclude, pattern: regexp.MustCompile(DefaultIncludePattern)},
			{kind: depgraph.KindRequire, pattern: regexp.MustCompile(DefaultRequirePattern)},
			{kind: depgraph.KindContain, pattern: regexp.MustCompile(DefaultContainPattern)},
			{kind: depgraph.KindNotify, pattern: regexp.MustCompile(DefaultNotifyPattern)},
			{kind: depgraph.KindSubscribe, pattern: regexp.MustCompile(DefaultSubscribePattern)},
		},
		chain:     regexp.MustCompile(DefaultChainPattern),
		operators: chainOperators,
	}
}

// With returns a copy of s with the non-empty overrides compiled in.
// The receiver is left unchanged.
func (s *Syntax) With(o Overrides) (*Syntax, error) {
	out := &Syntax{
		class:     s.class,
		relations: append([]relation(nil), s.relations...),
		chain:     s.chain,
		operators: s.operators,
	}

	var err error
	if out.class, err = compileOverride("class", o.Class, out.class, 1); err != nil {
		return nil, err
	}
	byKind := map[depgraph.Kind]string{
		depgraph.KindInclude:   o.Include,
		depgraph.KindRequire:   o.Require,
		depgraph.KindContain:   o.Contain,
		depgraph.KindNotify:    o.Notify,
		depgraph.KindSubscribe: o.Subscribe,
	}
	for i, rel := range out.relations {
		re, err := compileOverride(string(rel.kind), byKind[rel.kind], rel.pattern, 1)
		if err != nil {
			return nil, err
		}
		out.relations[i].pattern = re
	}
	if out.chain, err = compileOverride("chain", o.Chain, out.chain, 3); err != nil {
		return nil, err
	}
	return out, nil
}

// Operators returns a copy of the chain arrow table.
func (s *Syntax) Operators() map[string]Operator {
	ops := make(map[string]Operator, len(s.operators))
	for k, v := range s.operators {
		ops[k] = v
	}
	return ops
}

func compileOverride(name, expr string, fallback *regexp.Regexp, groups int) (*regexp.Regexp, error) {
	if expr == "" {
		return fallback, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Name: name, Pattern: expr, Message: err.Error()}
	}
	if re.NumSubexp() < groups {
		return nil, &PatternError{
			Name:    name,
			Pattern: expr,
			Message: fmt.Sprintf("needs %d capture group(s), has %d", groups, re.NumSubexp()),
		}
	}
	return re, nil
}

// PatternError reports an invalid pattern override.
type PatternError struct {
	Name    string
	Pattern string
	Message string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %s", e.Name, e.Pattern, e.Message)
}
