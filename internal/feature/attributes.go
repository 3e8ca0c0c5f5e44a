package feature

import (
	"slices"
	"strings"
)

// Reserved attribute keys.
const (
	KeyID      = "ID"
	KeyParent  = "Parent"
	KeyUnnamed = "unnamed"
)

// Attributes is an ordered mapping from key to value. Bare tokens without a
// key are kept, in order, under KeyUnnamed.
type Attributes struct {
	keys   []string
	values map[string][]string
}

// NewAttributes returns an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string][]string)}
}

// ParseAttributes parses a GFF3 attribute column: segments separated by ';',
// each split on its first '='. Segments without '=' are collected under
// KeyUnnamed. Empty segments are skipped and repeated keys keep the last
// value.
func ParseAttributes(s string) *Attributes {
	a := NewAttributes()
	if s == "." {
		return a
	}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			a.add(KeyUnnamed, part)
			continue
		}
		a.Set(key, value)
	}
	return a
}

// ParseGTFAttributes parses a GTF attribute column.
// Format: key "value"; key "value"; ...
// Tokens without a value are collected under KeyUnnamed.
func ParseGTFAttributes(s string) *Attributes {
	a := NewAttributes()
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// Find the first space to separate key from value
		idx := strings.Index(part, " ")
		if idx == -1 {
			a.add(KeyUnnamed, part)
			continue
		}

		key := part[:idx]
		value := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"")
		a.Set(key, value)
	}
	return a
}

// Get returns the first value stored under key. A nil *Attributes reads as
// empty.
func (a *Attributes) Get(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	v := a.values[key]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Value returns the first value stored under key, or "".
func (a *Attributes) Value(key string) string {
	v, _ := a.Get(key)
	return v
}

// Values returns all values stored under key.
func (a *Attributes) Values(key string) []string {
	if a == nil {
		return nil
	}
	return slices.Clone(a.values[key])
}

// Unnamed returns the bare tokens in source order.
func (a *Attributes) Unnamed() []string {
	return a.Values(KeyUnnamed)
}

// Has reports whether key is present.
func (a *Attributes) Has(key string) bool {
	if a == nil {
		return false
	}
	_, ok := a.values[key]
	return ok
}

// Set overwrites key with a single value, keeping its original position.
func (a *Attributes) Set(key, value string) {
	if a.values == nil {
		a.values = make(map[string][]string)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = []string{value}
}

func (a *Attributes) add(key, value string) {
	if a.values == nil {
		a.values = make(map[string][]string)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = append(a.values[key], value)
}

// Delete removes key.
func (a *Attributes) Delete(key string) {
	if a == nil {
		return
	}
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	a.keys = slices.DeleteFunc(a.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	return slices.Clone(a.keys)
}

// Len returns the number of keys.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Clone returns a deep copy. Cloning nil yields an empty set.
func (a *Attributes) Clone() *Attributes {
	if a == nil {
		return NewAttributes()
	}
	c := &Attributes{
		keys:   slices.Clone(a.keys),
		values: make(map[string][]string, len(a.values)),
	}
	for k, v := range a.values {
		c.values[k] = slices.Clone(v)
	}
	return c
}

// String formats the attributes as a GFF3 column.
func (a *Attributes) String() string {
	if a.Len() == 0 {
		return "."
	}
	parts := make([]string, 0, len(a.keys))
	for _, k := range a.keys {
		if k == KeyUnnamed {
			parts = append(parts, a.values[k]...)
			continue
		}
		parts = append(parts, k+"="+a.values[k][0])
	}
	return strings.Join(parts, ";")
}

// GTFString formats the attributes as a GTF column.
func (a *Attributes) GTFString() string {
	if a.Len() == 0 {
		return ""
	}
	parts := make([]string, 0, len(a.keys))
	for _, k := range a.keys {
		if k == KeyUnnamed {
			for _, tok := range a.values[k] {
				parts = append(parts, tok+";")
			}
			continue
		}
		parts = append(parts, k+` "`+a.values[k][0]+`";`)
	}
	return strings.Join(parts, " ")
}
