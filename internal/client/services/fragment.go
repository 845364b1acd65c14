package services

import (
	"net/url"
	"strings"
)

const resetFragmentPrefix = "reset_password?"

// ParseResetFragment parses "#reset_password?k=v&k2=v2". The leading "#" is
// optional. Values are URL-unescaped; a malformed escape keeps the raw text.
// Empty pieces are skipped and a later duplicate key wins.
func ParseResetFragment(fragment string) (map[string]string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimPrefix(fragment, "#"), resetFragmentPrefix)
	if !ok {
		return nil, false
	}

	params := make(map[string]string)
	for _, piece := range strings.Split(rest, "&") {
		if piece == "" {
			continue
		}
		k, v, _ := strings.Cut(piece, "=")
		params[unescape(k)] = unescape(v)
	}
	return params, true
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}
