package config

import "strings"

// ParseProcessList splits a comma-separated process list into an ordered,
// deduplicated slice of names. Empty entries are dropped.
func ParseProcessList(value string) []string {
	parts := strings.Split(value, ",")
	names := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ParseLaunchPaths splits a semicolon-separated list of name:path pairs into
// a map. Each pair is split on the first colon only, so paths may contain
// colons. Pairs without a colon, or with an empty name or path, are skipped.
func ParseLaunchPaths(value string) map[string]string {
	pairs := strings.Split(value, ";")
	paths := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		path := strings.TrimSpace(parts[1])
		if name == "" || path == "" {
			continue
		}
		paths[name] = path
	}
	return paths
}
