// ABOUTME: vim-plug migration: the target directive is the plugin, the rest are dependencies
// ABOUTME: Produces a lazy.nvim spec and one vim.pack.add per plugin
package core

import (
	"strings"

	"github.com/harper/plugstore/internal/lua"
	"github.com/harper/plugstore/internal/models"
	"github.com/yuin/gopher-lua/ast"
)

func migrateVimPlug(repo models.Repository, extracted string) (translation, error) {
	var main string
	var deps []string
	for _, line := range strings.Split(extracted, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		name := unquote(line)
		if main == "" && strings.EqualFold(name, repo.FullName) {
			main = name
			continue
		}
		deps = append(deps, name)
	}
	if main == "" {
		return translation{}, reject(ErrNoMatch, "no Plug directive for %s", repo.FullName)
	}

	fields := []*ast.Field{lua.Positional(lua.Str(main))}
	if len(deps) > 0 {
		list := make([]*ast.Field, 0, len(deps))
		for _, d := range deps {
			list = append(list, lua.Positional(lua.Str(d)))
		}
		fields = append(fields, lua.Keyed("dependencies", lua.Table(list...)))
	}
	fields = append(fields, lua.Keyed("event", lua.Str(defaultEvent)))

	return translation{
		lazy:    []ast.Stmt{lua.Return(lua.Table(fields...))},
		vimPack: vimPackSections(repo, deps, nil),
	}, nil
}
