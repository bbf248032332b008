// Package catalog holds the read-only attack scenario definitions the
// simulation engine draws from. The catalog is built once at startup and
// never mutated; lookups go through the Category enum rather than
// duck-typed field access.
package catalog

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrUnknownScenarioType is returned when a scenario category is not one of
// the four supported values.
var ErrUnknownScenarioType = errors.New("unknown scenario type")

// Category identifies a scenario family.
type Category string

const (
	CategoryAPT         Category = "apt"
	CategoryRansomware  Category = "ransomware"
	CategoryInsider     Category = "insider"
	CategorySupplyChain Category = "supply_chain"
)

// Categories lists every supported category in a stable order.
func Categories() []Category {
	return []Category{CategoryAPT, CategoryRansomware, CategoryInsider, CategorySupplyChain}
}

// ParseCategory validates a raw scenario type string. An empty string
// defaults to apt.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case "":
		return CategoryAPT, nil
	case CategoryAPT, CategoryRansomware, CategoryInsider, CategorySupplyChain:
		return Category(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScenarioType, s)
	}
}

// HourRange is an inclusive duration range in hours.
type HourRange struct {
	Min int
	Max int
}

// DayRange is an inclusive duration range in days.
type DayRange struct {
	Min int
	Max int
}

// StageDef describes one stage of a scenario. A zero Duration means the
// engine applies its 2-48 hour fallback.
type StageDef struct {
	Name       string
	Tactic     string
	Techniques []string
	Duration   HourRange
	Objectives []string
}

// Scenario is a complete attack scenario definition. Actor is the uniform
// threat-actor name regardless of category (APT group, ransomware crew,
// insider persona, or implant operator).
type Scenario struct {
	ID       string
	Name     string
	Category Category
	Actor    string
	// Duration bounds the whole campaign in days; zero means the engine
	// applies its 7-60 day fallback.
	Duration DayRange
	Stages   []StageDef
}

// Catalog is an immutable scenario registry keyed by category.
type Catalog struct {
	byCategory map[Category][]Scenario
}

// New builds a catalog from an explicit scenario list. Mostly useful in
// tests; production code uses Default.
func New(scenarios ...Scenario) *Catalog {
	c := &Catalog{byCategory: make(map[Category][]Scenario)}
	for _, s := range scenarios {
		c.byCategory[s.Category] = append(c.byCategory[s.Category], s)
	}
	return c
}

// Default returns the built-in scenario catalog.
func Default() *Catalog {
	return New(builtinScenarios...)
}

// Select picks one scenario uniformly at random from the given category.
func (c *Catalog) Select(rng *rand.Rand, cat Category) (Scenario, error) {
	if _, err := ParseCategory(string(cat)); err != nil {
		return Scenario{}, err
	}
	candidates := c.byCategory[cat]
	if len(candidates) == 0 {
		return Scenario{}, fmt.Errorf("%w: no scenarios registered for %q", ErrUnknownScenarioType, cat)
	}
	return candidates[rng.Intn(len(candidates))], nil
}

// Scenarios returns the scenarios registered for a category.
func (c *Catalog) Scenarios(cat Category) []Scenario {
	return c.byCategory[cat]
}

// All returns every registered scenario in category order.
func (c *Catalog) All() []Scenario {
	var out []Scenario
	for _, cat := range Categories() {
		out = append(out, c.byCategory[cat]...)
	}
	return out
}
