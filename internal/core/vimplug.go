// ABOUTME: vim-plug directive extraction from Vimscript snippets
// ABOUTME: Collects Plug arguments in order without duplicates
package core

import (
	"regexp"
	"strings"
)

var plugDirective = regexp.MustCompile(`(?m)^\s*Plug\s+(['"][^'"]+['"])`)

// plugArguments returns the quoted first argument of every Plug line, deduplicated by exact text
func plugArguments(code string) []string {
	var args []string
	seen := map[string]bool{}
	for _, m := range plugDirective.FindAllStringSubmatch(code, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		args = append(args, m[1])
	}
	return args
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// extractVimPlug returns the Plug arguments one per line when one of them names repo
func extractVimPlug(code, repo string) (string, error) {
	args := plugArguments(code)
	if len(args) == 0 {
		return "", reject(ErrNoMatch, "no Plug directives")
	}
	for _, a := range args {
		if strings.EqualFold(unquote(a), repo) {
			return strings.Join(args, "\n"), nil
		}
	}
	return "", reject(ErrNoMatch, "no Plug directive for %s", repo)
}
