// ABOUTME: lazy.nvim migration: the declaration is already a lazy spec and passes through
// ABOUTME: Only the default trigger is added; comments and long strings survive the reprint
package core

import (
	"github.com/harper/plugstore/internal/lua"
	"github.com/harper/plugstore/internal/models"
	"github.com/yuin/gopher-lua/ast"
)

func migrateLazy(repo models.Repository, extracted string) (translation, error) {
	decl, src, err := parseDeclaration(extracted)
	if err != nil {
		return translation{}, err
	}

	switch v := decl.(type) {
	case *ast.StringExpr:
		return translation{
			lazy:    lazySpec(v.Value),
			vimPack: vimPackSections(repo, nil, nil),
		}, nil
	case *ast.TableExpr:
		var deps []string
		if d, ok := tableField(v, "dependencies"); ok {
			deps = dependencyNames(d)
		}
		setup, err := setupCall(repo, v, src)
		if err != nil {
			return translation{}, err
		}
		v.Fields = withDefaultTrigger(v.Fields)
		return translation{
			source:  src,
			lazy:    []ast.Stmt{lua.Return(v)},
			vimPack: vimPackSections(repo, deps, setup),
		}, nil
	}
	return translation{}, reject(ErrUnsupportedValue, "lazy declaration %s", lua.PrintExpr(decl))
}
