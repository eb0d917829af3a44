package envfile

import "sort"

// Vars is a config-var mapping. A nil value marks the key for deletion when
// the mapping is pushed to the platform (serialized as JSON null).
type Vars map[string]*string

// FromStringMap converts a plain string map into Vars.
func FromStringMap(m map[string]string) Vars {
	if m == nil {
		return nil
	}
	out := Vars{}
	for k, v := range m {
		val := v
		out[k] = &val
	}
	return out
}

// SortedKeys returns the keys in lexical order. The writer relies on this so
// that dumping the same mapping twice produces byte-identical files.
func (v Vars) SortedKeys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
