package route

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// genKeyPrefix prefixes the argument keys generated for positional
// shortcut arguments.
const genKeyPrefix = "_genkey_"

// PredicateDefinition names a request predicate and its arguments.
type PredicateDefinition struct {
	Name string            `yaml:"name" json:"name"`
	Args map[string]string `yaml:"args,omitempty" json:"args,omitempty"`
}

// FilterDefinition names a filter applied to matched requests and its
// arguments.
type FilterDefinition struct {
	Name string            `yaml:"name" json:"name"`
	Args map[string]string `yaml:"args,omitempty" json:"args,omitempty"`
}

// Definition describes one routing rule.
type Definition struct {
	ID         string                `yaml:"id" json:"id"`
	URI        string                `yaml:"uri" json:"uri"`
	Predicates []PredicateDefinition `yaml:"predicates,omitempty" json:"predicates,omitempty"`
	Filters    []FilterDefinition    `yaml:"filters,omitempty" json:"filters,omitempty"`
	Order      int                   `yaml:"order,omitempty" json:"order,omitempty"`
	Metadata   map[string]string     `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// SameID reports whether both definitions share the same id.
func (d Definition) SameID(other Definition) bool {
	return d.ID == other.ID
}

// Clone returns a deep copy of the definition.
func (d Definition) Clone() Definition {
	out := d
	if d.Predicates != nil {
		out.Predicates = make([]PredicateDefinition, len(d.Predicates))
		for i, p := range d.Predicates {
			out.Predicates[i] = p.Clone()
		}
	}
	if d.Filters != nil {
		out.Filters = make([]FilterDefinition, len(d.Filters))
		for i, f := range d.Filters {
			out.Filters[i] = f.Clone()
		}
	}
	out.Metadata = maps.Clone(d.Metadata)
	return out
}

// String returns a human-readable representation for diagnostics.
func (d Definition) String() string {
	predicates := make([]string, len(d.Predicates))
	for i, p := range d.Predicates {
		predicates[i] = p.String()
	}
	filters := make([]string, len(d.Filters))
	for i, f := range d.Filters {
		filters[i] = f.String()
	}
	return fmt.Sprintf("RouteDefinition{id=%q, uri=%q, predicates=[%s], filters=[%s], order=%d}",
		d.ID, d.URI, strings.Join(predicates, ", "), strings.Join(filters, ", "), d.Order)
}

// Clone returns a deep copy of the predicate definition.
func (p PredicateDefinition) Clone() PredicateDefinition {
	return PredicateDefinition{Name: p.Name, Args: maps.Clone(p.Args)}
}

// String returns the predicate as Name{key=value, ...}.
func (p PredicateDefinition) String() string {
	return formatArgs(p.Name, p.Args)
}

// Clone returns a deep copy of the filter definition.
func (f FilterDefinition) Clone() FilterDefinition {
	return FilterDefinition{Name: f.Name, Args: maps.Clone(f.Args)}
}

// String returns the filter as Name{key=value, ...}.
func (f FilterDefinition) String() string {
	return formatArgs(f.Name, f.Args)
}

// GenerateKey returns the argument key used for the i-th positional
// shortcut argument.
func GenerateKey(i int) string {
	return genKeyPrefix + strconv.Itoa(i)
}

func formatArgs(name string, args map[string]string) string {
	if len(args) == 0 {
		return name
	}
	keys := slices.SortedFunc(maps.Keys(args), compareArgKeys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + args[k]
	}
	return name + "{" + strings.Join(parts, ", ") + "}"
}

// compareArgKeys orders generated keys by position and places them before
// named keys, which sort lexically.
func compareArgKeys(a, b string) int {
	ai, aGen := genKeyIndex(a)
	bi, bGen := genKeyIndex(b)
	switch {
	case aGen && bGen:
		return ai - bi
	case aGen:
		return -1
	case bGen:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func genKeyIndex(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, genKeyPrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return i, true
}
