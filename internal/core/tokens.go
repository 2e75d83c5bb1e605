// ABOUTME: Token matcher primitives shared by the plugin-manager suites
// ABOUTME: A token inspects chunk context and contributes a fixed weight when it matches
package core

import (
	"regexp"
	"strings"

	"github.com/harper/plugstore/internal/models"
)

// TokenMatcher is one weighted syntax hint for a plugin manager
type TokenMatcher struct {
	Description string
	Weight      int
	Match       func(repo string, chunk models.Chunk) bool
}

// chunk region selectors
type region func(models.Chunk) string

func inPrev(c models.Chunk) string    { return c.Prev }
func inContent(c models.Chunk) string { return c.Content }

func inPrevContent(c models.Chunk) string { return c.Prev + " " + c.Content }
func inPrevAfter(c models.Chunk) string   { return c.Prev + " " + c.After }
func inAll(c models.Chunk) string         { return c.Prev + " " + c.Content + " " + c.After }

// inContentFlat joins content onto one line
func inContentFlat(c models.Chunk) string { return strings.ReplaceAll(c.Content, "\n", " ") }

// word matches a pattern not glued to word characters or hyphens on either side
func word(pattern string, caseInsensitive bool) *regexp.Regexp {
	flags := ""
	if caseInsensitive {
		flags = "(?i)"
	}
	return regexp.MustCompile(flags + `(?:^|[^\w-])` + pattern + `(?:$|[^\w-])`)
}

func token(desc string, weight int, re *regexp.Regexp, in region) TokenMatcher {
	return TokenMatcher{
		Description: desc,
		Weight:      weight,
		Match: func(_ string, c models.Chunk) bool {
			return re.MatchString(in(c))
		},
	}
}

var openBrace = regexp.MustCompile(`\{`)

// tableKey matches a key assignment inside content that contains a table constructor
func tableKey(desc string, weight int, key string) TokenMatcher {
	re := regexp.MustCompile(key)
	return TokenMatcher{
		Description: desc,
		Weight:      weight,
		Match: func(_ string, c models.Chunk) bool {
			return openBrace.MatchString(c.Content) && re.MatchString(c.Content)
		},
	}
}

// shared content tokens used by both Lua suites
func luaTableTokens() []TokenMatcher {
	return []TokenMatcher{
		token(`{ ['"] - Lua table with quote start`, 2, regexp.MustCompile(`\s*\{\s*['"]`), inContent),
		token("cmd = - command specification", 2, regexp.MustCompile(`cmd\s*=`), inContent),
		token("ft = - filetype specification", 2, regexp.MustCompile(`ft\s*=`), inContent),
		token("config = - configuration function", 2, regexp.MustCompile(`config\s*=`), inContent),
		token("event = - event specification", 2, regexp.MustCompile(`event\s*=`), inContent),
		token("keys = - keybinding specification", 2, regexp.MustCompile(`keys\s*=`), inContent),
		token("Lua table with quoted plugin name", 2, regexp.MustCompile(`\{\s*["'][^"']+/[^"']+["']`), inContentFlat),
	}
}

var pluginSpec = regexp.MustCompile(`\{\s*['"](\w+)/\w+['"]\s*\}`)
