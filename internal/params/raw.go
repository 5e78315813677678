package params

import (
	"net/url"
	"sort"
	"strings"
)

// Value is one raw query parameter: a single string or a list of strings.
type Value struct {
	Single string
	List   []string
	IsList bool
}

func String(s string) Value {
	return Value{Single: s}
}

func List(items ...string) Value {
	return Value{List: append([]string{}, items...), IsList: true}
}

// Blank reports whether the value carries no non-whitespace content.
func (v Value) Blank() bool {
	if v.IsList {
		for _, item := range v.List {
			if strings.TrimSpace(item) != "" {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(v.Single) == ""
}

// First returns the single value, or the first list element.
func (v Value) First() string {
	if v.IsList {
		if len(v.List) == 0 {
			return ""
		}
		return v.List[0]
	}
	return v.Single
}

// Items splits a single value on commas; lists are returned as they are.
func (v Value) Items() []string {
	if v.IsList {
		return append([]string{}, v.List...)
	}
	return splitCommas(v.Single)
}

// Raw is the loosely typed parameter mapping of an inbound request.
type Raw map[string]Value

// FromValues builds Raw from a parsed query string. Keys written as `key[]`
// or repeated become lists under the bare key.
func FromValues(values url.Values) Raw {
	raw := Raw{}
	for key, vals := range values {
		if strings.HasSuffix(key, "[]") {
			name := strings.TrimSuffix(key, "[]")
			existing := raw[name]
			raw[name] = List(append(existing.List, vals...)...)
			continue
		}
		if len(vals) == 1 {
			raw[key] = String(vals[0])
			continue
		}
		raw[key] = List(vals...)
	}
	return raw
}

func (r Raw) Get(key string) string {
	return r[key].First()
}

func (r Raw) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Present is true when the key exists and is not blank.
func (r Raw) Present(key string) bool {
	v, ok := r[key]
	return ok && !v.Blank()
}

func (r Raw) Clone() Raw {
	out := make(Raw, len(r))
	for k, v := range r {
		if v.IsList {
			v.List = append([]string{}, v.List...)
		}
		out[k] = v
	}
	return out
}

// Except returns a copy without the given keys.
func (r Raw) Except(keys ...string) Raw {
	out := r.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Merge returns a copy with every key of other overriding r.
func (r Raw) Merge(other Raw) Raw {
	out := r.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Values encodes r with lists written as `key[]`.
func (r Raw) Values() url.Values {
	out := url.Values{}
	for _, k := range r.sortedKeys() {
		v := r[k]
		if v.IsList {
			for _, item := range v.List {
				out.Add(k+"[]", item)
			}
			continue
		}
		out.Set(k, v.Single)
	}
	return out
}

func (r Raw) sortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func splitCommas(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
