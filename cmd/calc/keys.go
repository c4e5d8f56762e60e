package main

import "strings"

var namedKeys = map[string]struct{}{
	"Enter":     {},
	"Escape":    {},
	"Backspace": {},
	"Delete":    {},
}

// splitKeys breaks an input line into key names.
func splitKeys(line string) []string {
	var keys []string
	for _, field := range strings.Fields(line) {
		if _, ok := namedKeys[field]; ok {
			keys = append(keys, field)
			continue
		}
		for _, r := range field {
			keys = append(keys, string(r))
		}
	}
	return keys
}
