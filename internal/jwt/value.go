package jwt

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind is the JSON type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "null"
}

// Value is a single JSON value taken from a decoded segment. The As*
// helpers report ok=false when the value has a different JSON type.
type Value struct {
	res gjson.Result
}

func (v Value) Kind() Kind {
	switch v.res.Type {
	case gjson.True, gjson.False:
		return KindBool
	case gjson.Number:
		return KindNumber
	case gjson.String:
		return KindString
	case gjson.JSON:
		if v.res.IsArray() {
			return KindArray
		}
		return KindObject
	}
	return KindNull
}

func (v Value) AsString() (string, bool) {
	if v.res.Type != gjson.String {
		return "", false
	}
	return v.res.Str, true
}

func (v Value) AsNumber() (float64, bool) {
	if v.res.Type != gjson.Number {
		return 0, false
	}
	return v.res.Num, true
}

func (v Value) AsBool() (bool, bool) {
	switch v.res.Type {
	case gjson.True:
		return true, true
	case gjson.False:
		return false, true
	}
	return false, false
}

func (v Value) AsArray() ([]Value, bool) {
	if !v.res.IsArray() {
		return nil, false
	}
	items := v.res.Array()
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = Value{res: item}
	}
	return out, true
}

func (v Value) AsObject() (Claims, bool) {
	if !v.res.IsObject() {
		return Claims{}, false
	}
	return Claims{obj: v.res}, true
}

// AsStrings returns the value as a string slice. Every array element must
// be a string.
func (v Value) AsStrings() ([]string, bool) {
	items, ok := v.AsArray()
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.AsString()
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Interface converts the value to the types encoding/json produces:
// float64, string, bool, nil, []any and map[string]any.
func (v Value) Interface() any {
	return v.res.Value()
}

// Raw returns the JSON text of the value as it appeared in the segment.
func (v Value) Raw() string {
	return v.res.Raw
}

// Claims is a decoded JSON object, either a token body or its header.
type Claims struct {
	obj gjson.Result
}

// DecodeClaims parses data as a JSON object.
func DecodeClaims(data []byte) (Claims, bool) {
	c, err := decodeClaims(data)
	return c, err == nil
}

func decodeClaims(data []byte) (Claims, error) {
	if !gjson.ValidBytes(data) {
		return Claims{}, ErrJSON
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return Claims{}, ErrJSON
	}
	return Claims{obj: res}, nil
}

// Get looks up a top-level key literally, so keys containing dots or
// wildcards are matched as-is. With duplicate keys the last one wins.
func (c Claims) Get(key string) (Value, bool) {
	var (
		found gjson.Result
		ok    bool
	)
	c.obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found, ok = v, true
		}
		return true
	})
	return Value{res: found}, ok
}

// Path evaluates a gjson path such as "https://api\.openai\.com/auth.chatgpt_plan_type".
func (c Claims) Path(path string) (Value, bool) {
	if !c.obj.Exists() {
		return Value{}, false
	}
	res := c.obj.Get(path)
	if !res.Exists() {
		return Value{}, false
	}
	return Value{res: res}, true
}

// Raw returns the JSON text of the object exactly as decoded.
func (c Claims) Raw() string {
	return c.obj.Raw
}

// Keys returns the top-level keys in sorted order.
func (c Claims) Keys() []string {
	seen := make(map[string]struct{})
	var keys []string
	c.obj.ForEach(func(k, _ gjson.Result) bool {
		if _, dup := seen[k.Str]; !dup {
			seen[k.Str] = struct{}{}
			keys = append(keys, k.Str)
		}
		return true
	})
	sort.Strings(keys)
	return keys
}

func (c Claims) Len() int {
	return len(c.Keys())
}

// Map converts the object to a map[string]any as encoding/json would.
func (c Claims) Map() map[string]any {
	m, ok := c.obj.Value().(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// JSON returns the canonical encoding: compact, keys sorted. Numbers keep
// their literal text so integers beyond float64 precision survive.
func (c Claims) JSON() ([]byte, error) {
	if !c.obj.IsObject() {
		return nil, ErrAbsent
	}
	return appendCanonical(nil, c.obj)
}

func appendCanonical(buf []byte, res gjson.Result) ([]byte, error) {
	switch {
	case res.IsObject():
		fields := map[string]gjson.Result{}
		res.ForEach(func(k, v gjson.Result) bool {
			fields[k.String()] = v
			return true
		})
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf = append(buf, '{')
		for i, k := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, key...)
			buf = append(buf, ':')
			if buf, err = appendCanonical(buf, fields[k]); err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	case res.IsArray():
		buf = append(buf, '[')
		var err error
		for i, v := range res.Array() {
			if i > 0 {
				buf = append(buf, ',')
			}
			if buf, err = appendCanonical(buf, v); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case res.Type == gjson.String:
		s, err := json.Marshal(res.Str)
		if err != nil {
			return nil, err
		}
		return append(buf, s...), nil
	case res.Type == gjson.Number:
		return append(buf, strings.TrimSpace(res.Raw)...), nil
	case res.Type == gjson.True:
		return append(buf, "true"...), nil
	case res.Type == gjson.False:
		return append(buf, "false"...), nil
	default:
		return append(buf, "null"...), nil
	}
}
