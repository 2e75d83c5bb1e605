// ABOUTME: Ordered matchers that locate a plugin declaration in a Lua syntax tree
// ABOUTME: The first matcher to accept a node wins for that node
package core

import (
	"strings"

	"github.com/harper/plugstore/internal/lua"
	"github.com/yuin/gopher-lua/ast"
)

// luaMatcher returns the declaration text for a node that declares repo
type luaMatcher struct {
	Name  string
	Match func(src *lua.Source, n lua.Node, repo string) (string, bool)
}

var luaMatchers = []luaMatcher{
	{Name: "plugin table", Match: matchPluginTable},
	{Name: "plugin string", Match: matchPluginString},
}

// matchPluginTable accepts { "repo", ... } or { { "repo", ... }, ... } and returns the
// exact source of the table that names repo first
func matchPluginTable(src *lua.Source, n lua.Node, repo string) (string, bool) {
	t, ok := n.(*ast.TableExpr)
	if !ok {
		return "", false
	}
	first, ok := lua.FirstPositional(t)
	if !ok {
		return "", false
	}
	switch v := first.(type) {
	case *ast.StringExpr:
		if !strings.EqualFold(v.Value, repo) {
			return "", false
		}
		return src.TableText(t)
	case *ast.TableExpr:
		inner, ok := lua.FirstPositional(v)
		if !ok {
			return "", false
		}
		name, ok := lua.StringValue(inner)
		if !ok || !strings.EqualFold(name, repo) {
			return "", false
		}
		return src.TableText(v)
	}
	return "", false
}

// matchPluginString accepts a bare "repo" literal
func matchPluginString(_ *lua.Source, n lua.Node, repo string) (string, bool) {
	s, ok := n.(*ast.StringExpr)
	if !ok || !strings.EqualFold(s.Value, repo) {
		return "", false
	}
	return lua.Quote(repo), true
}

// normalizeLuaSnippet turns a README snippet that opens with a bare table into a chunk:
// the first code line gets "return " and anything after the last closing brace is cut
func normalizeLuaSnippet(code string) string {
	lines := strings.Split(lua.NormalizeNewlines(code), "\n")
	first := -1
	for i, l := range lines {
		t := strings.TrimSpace(l)
		if t == "" || strings.HasPrefix(t, "--") {
			continue
		}
		if strings.HasPrefix(t, "{") {
			first = i
		}
		break
	}
	if first < 0 {
		return code
	}
	lines[first] = "return " + lines[first]
	out := strings.Join(lines, "\n")
	if idx := strings.LastIndex(out, "}"); idx >= 0 {
		out = out[:idx+1]
	}
	return out
}
