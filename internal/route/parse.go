package route

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/routeregistry/internal/util"
)

// ParsePredicate parses the shortcut form "Name=arg0,arg1,...".
func ParsePredicate(text string) (PredicateDefinition, error) {
	name, args, err := parseShortcut("predicate", text)
	if err != nil {
		return PredicateDefinition{}, err
	}
	return PredicateDefinition{Name: name, Args: args}, nil
}

// ParseFilter parses the shortcut form "Name=arg0,arg1,...".
func ParseFilter(text string) (FilterDefinition, error) {
	name, args, err := parseShortcut("filter", text)
	if err != nil {
		return FilterDefinition{}, err
	}
	return FilterDefinition{Name: name, Args: args}, nil
}

// ParseDefinition parses the route shortcut form "id=uri,Predicate,...".
// The first token after the id is the target URI; every following token is
// a predicate in shortcut form.
func ParseDefinition(text string) (Definition, error) {
	id, rest, ok := strings.Cut(text, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return Definition{}, fmt.Errorf("unable to parse route definition text %q, must be of the form id=uri,predicates...: %w",
			text, util.ErrInvalidInput)
	}

	tokens := tokenize(rest)
	if len(tokens) == 0 {
		return Definition{}, fmt.Errorf("route definition text %q has no uri: %w", text, util.ErrInvalidInput)
	}

	def := Definition{ID: id, URI: tokens[0]}
	for _, token := range tokens[1:] {
		p, err := ParsePredicate(token)
		if err != nil {
			return Definition{}, fmt.Errorf("route %s: %w", id, err)
		}
		def.Predicates = append(def.Predicates, p)
	}
	return def, nil
}

func parseShortcut(kind, text string) (string, map[string]string, error) {
	name, rest, ok := strings.Cut(text, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("unable to parse %s text %q, must be of the form name=value: %w",
			kind, text, util.ErrInvalidInput)
	}

	tokens := tokenize(rest)
	if len(tokens) == 0 {
		return name, nil, nil
	}
	args := make(map[string]string, len(tokens))
	for i, token := range tokens {
		args[GenerateKey(i)] = token
	}
	return name, args, nil
}

// tokenize splits on commas, trims each token and drops empty ones.
func tokenize(s string) []string {
	var tokens []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
