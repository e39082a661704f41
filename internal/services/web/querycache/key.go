package querycache

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Key identifies one cached query as an ordered list of segments. Keys form a
// hierarchy: invalidating a prefix reaches every key below it.
type Key []string

// NewKey builds a key from segments.
func NewKey(segments ...string) Key {
	return Key(slices.Clone(segments))
}

// Append returns a new key with segments added after k.
func (k Key) Append(segments ...string) Key {
	out := make(Key, 0, len(k)+len(segments))
	out = append(out, k...)
	return append(out, segments...)
}

// HasPrefix reports whether k starts with every segment of prefix. The empty
// prefix matches all keys.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	return slices.Equal(k[:len(prefix)], prefix)
}

// Equal reports whether both keys have the same segments.
func (k Key) Equal(other Key) bool {
	return slices.Equal(k, other)
}

// Scope returns the first segment, or "" for the empty key.
func (k Key) Scope() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// String encodes k as a JSON array, which is stable and unambiguous.
func (k Key) String() string {
	if k == nil {
		k = Key{}
	}
	data, err := json.Marshal([]string(k))
	if err != nil {
		return "[]"
	}
	return string(data)
}

// ParseKey decodes the String form of a key.
func ParseKey(value string) (Key, error) {
	var segments []string
	if err := json.Unmarshal([]byte(value), &segments); err != nil {
		return nil, fmt.Errorf("parse cache key %q: %w", value, err)
	}
	return Key(segments), nil
}
