package utils

import (
	"encoding/json"
	"sort"
)

// GetKeys returns the keys of m in lexicographic order.
func GetKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Remarshal converts input into output going through its JSON
// representation.
func Remarshal(input, output interface{}) error {
	b, err := json.Marshal(input)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, output)
}
