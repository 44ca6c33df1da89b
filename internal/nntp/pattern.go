package nntp

import "fmt"

// MatchPattern implements the wildmat-style pattern grammar shared by NEWNEWS,
// LIST ACTIVE/NEWSGROUPS, and the puller's catalog filter: a
// comma-separated list of glob items, each optionally prefixed "!" to
// negate it. A name matches iff there is at least one item whose
// positive/negative polarity matches its glob, evaluated short-circuit
// in item order.
func MatchPattern(name, pattern string) (bool, error) {
	items, err := splitPattern(pattern)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if matchGlob(name, it.glob) {
			return !it.negate, nil
		}
	}
	return false, nil
}

type patternItem struct {
	glob   string
	negate bool
}

func splitPattern(pattern string) ([]patternItem, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	var items []patternItem
	start := 0
	for i := 0; i <= len(pattern); i++ {
		if i == len(pattern) || pattern[i] == ',' {
			raw := pattern[start:i]
			if raw == "" {
				return nil, fmt.Errorf("malformed pattern %q: empty item", pattern)
			}
			negate := false
			if raw[0] == '!' {
				negate = true
				raw = raw[1:]
				if raw == "" {
					return nil, fmt.Errorf("malformed pattern %q: bare negation", pattern)
				}
			}
			items = append(items, patternItem{glob: raw, negate: negate})
			start = i + 1
		}
	}
	return items, nil
}

// matchGlob matches text against a glob where '*' matches any run of
// characters and '?' matches exactly one.
func matchGlob(text, glob string) bool {
	return matchGlobRecursive(text, glob, 0, 0)
}

func matchGlobRecursive(text, glob string, ti, gi int) bool {
	if gi == len(glob) && ti == len(text) {
		return true
	}
	if gi == len(glob) {
		return false
	}
	if glob[gi] == '*' {
		for i := ti; i <= len(text); i++ {
			if matchGlobRecursive(text, glob, i, gi+1) {
				return true
			}
		}
		return false
	}
	if ti == len(text) {
		for i := gi; i < len(glob); i++ {
			if glob[i] != '*' {
				return false
			}
		}
		return true
	}
	if glob[gi] == '?' || glob[gi] == text[ti] {
		return matchGlobRecursive(text, glob, ti+1, gi+1)
	}
	return false
}
