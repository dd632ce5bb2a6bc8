package route

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts either the shortcut string or a {name, args} map.
func (p *PredicateDefinition) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := ParsePredicate(value.Value)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	type plain PredicateDefinition
	var out plain
	if err := value.Decode(&out); err != nil {
		return err
	}
	*p = PredicateDefinition(out)
	return nil
}

// UnmarshalYAML accepts either the shortcut string or a {name, args} map.
func (f *FilterDefinition) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := ParseFilter(value.Value)
		if err != nil {
			return err
		}
		*f = parsed
		return nil
	}

	type plain FilterDefinition
	var out plain
	if err := value.Decode(&out); err != nil {
		return err
	}
	*f = FilterDefinition(out)
	return nil
}

// UnmarshalYAML accepts either the route shortcut string or a full map.
func (d *Definition) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := ParseDefinition(value.Value)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}

	type plain Definition
	var out plain
	if err := value.Decode(&out); err != nil {
		return err
	}
	*d = Definition(out)
	return nil
}

// UnmarshalJSON accepts either the shortcut string or a {name, args} object.
func (p *PredicateDefinition) UnmarshalJSON(data []byte) error {
	if text, ok, err := jsonString(data); ok || err != nil {
		if err != nil {
			return err
		}
		parsed, err := ParsePredicate(text)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	type plain PredicateDefinition
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*p = PredicateDefinition(out)
	return nil
}

// UnmarshalJSON accepts either the shortcut string or a {name, args} object.
func (f *FilterDefinition) UnmarshalJSON(data []byte) error {
	if text, ok, err := jsonString(data); ok || err != nil {
		if err != nil {
			return err
		}
		parsed, err := ParseFilter(text)
		if err != nil {
			return err
		}
		*f = parsed
		return nil
	}

	type plain FilterDefinition
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*f = FilterDefinition(out)
	return nil
}

// jsonString decodes data as a JSON string when it is one.
func jsonString(data []byte) (string, bool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", true, err
	}
	return s, true, nil
}
