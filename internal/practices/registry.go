package practices

import (
	"sort"
	"sync"
)

// globalRegistry is the single global registry for practice rules.
var globalRegistry = &Registry{
	rules: make(map[string]RuleDef),
}

// Registry stores registered practice rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by ID
}

// RuleDef is a data-driven rule definition.
// Rules are stateless; all context comes via the Check parameters.
type RuleDef struct {
	ID          string   // Unique identifier, e.g., "PP01"
	Name        string   // Human-readable name, e.g., "class-naming"
	Group       string   // Category: "naming", "style", "parameters", "hiera", "ordering"
	Description string   // Human-readable description
	Severity    Severity // Default severity
	Check       Check    // The check function
	ConfigKeys  []string // Configuration keys this rule reads

	Rationale   string
	BadExample  string
	GoodExample string
	Fix         string
}

// Check is the function signature for rule checks. Returned issues carry
// the rule's default severity; the Checker applies overrides.
type Check func(f *File, opts Options) []Issue

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.ID] = rule
}

// GetAll returns all registered rules sorted by ID.
func GetAll() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// GetByID returns a rule by its ID.
func GetByID(id string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}

// GetByGroup returns the rules in a group sorted by ID.
func GetByGroup(group string) []RuleDef {
	var rules []RuleDef
	for _, rule := range GetAll() {
		if rule.Group == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}
