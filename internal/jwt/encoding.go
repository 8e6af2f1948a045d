package jwt

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// keyed is the object form of a Token: {"token": "<compact jwt>"}.
type keyed struct {
	Token *string `json:"token" yaml:"token"`
}

// UnmarshalJSON accepts two shapes, tried in order:
//
//  1. a bare JSON string, "header.payload.signature";
//  2. an object with a "token" field, {"token": "header.payload.signature"}.
//
// When the object form yields a value it replaces the bare-string result.
// null and objects without a token field leave the token absent.
func (t *Token) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	matched := false

	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		t.raw, t.present = bare, true
		matched = true
	}

	var obj keyed
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.Token != nil {
			t.raw, t.present = *obj.Token, true
		}
		matched = true
	}

	if !matched {
		return fmt.Errorf("jwt: cannot decode token from %s", data)
	}
	return nil
}

// MarshalJSON writes the object form, or {} for an absent token.
func (t Token) MarshalJSON() ([]byte, error) {
	if !t.present {
		return []byte("{}"), nil
	}
	raw := t.raw
	return json.Marshal(keyed{Token: &raw})
}

// UnmarshalYAML follows the same two-attempt sequence as UnmarshalJSON:
// a scalar string first, then a mapping with a token key.
func (t *Token) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	matched := false

	if node.Kind == yaml.ScalarNode {
		var bare string
		if err := node.Decode(&bare); err == nil {
			t.raw, t.present = bare, true
			matched = true
		}
	}

	if node.Kind == yaml.MappingNode {
		var obj keyed
		if err := node.Decode(&obj); err == nil {
			if obj.Token != nil {
				t.raw, t.present = *obj.Token, true
			}
			matched = true
		}
	}

	if !matched {
		return fmt.Errorf("jwt: cannot decode token from YAML node at line %d", node.Line)
	}
	return nil
}

// MarshalYAML writes the mapping form, or an empty mapping when absent.
func (t Token) MarshalYAML() (any, error) {
	if !t.present {
		return map[string]string{}, nil
	}
	return map[string]string{"token": t.raw}, nil
}
