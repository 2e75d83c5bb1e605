// ABOUTME: vim.pack target generation shared by every source format
// ABOUTME: Emits vim.pack.add statements for dependencies, the plugin, then its setup call
package core

import (
	"strings"

	"github.com/harper/plugstore/internal/lua"
	"github.com/harper/plugstore/internal/models"
	"github.com/yuin/gopher-lua/ast"
)

// vimPackAdd builds vim.pack.add({ { src = "<url>" } })
func vimPackAdd(url string) ast.Stmt {
	spec := lua.Table(lua.Keyed("src", lua.Str(url)))
	return lua.CallStmt(lua.Call(lua.Attr(lua.Ident("vim"), "pack", "add"), lua.Table(lua.Positional(spec))))
}

// vimPackSections returns the add statements followed by the setup statements
func vimPackSections(repo models.Repository, deps []string, setup []ast.Stmt) [][]ast.Stmt {
	adds := make([]ast.Stmt, 0, len(deps)+1)
	for _, d := range deps {
		adds = append(adds, vimPackAdd(pluginURL(d)))
	}
	adds = append(adds, vimPackAdd(repo.URL))
	return [][]ast.Stmt{adds, setup}
}

// requireSetup builds require("<module>").setup(args...)
func requireSetup(module string, args ...ast.Expr) ast.Stmt {
	req := lua.Call(lua.Ident("require"), lua.Str(module))
	return lua.CallStmt(lua.Call(lua.Attr(req, "setup"), args...))
}

// setupCall derives the statements that configure the plugin after it is added.
// opts wins over config; config = true calls setup() and a config function body is
// spliced in as written, comments included.
func setupCall(repo models.Repository, t *ast.TableExpr, src *lua.Source) ([]ast.Stmt, error) {
	module := repo.ModuleName()
	if opts, ok := tableField(t, "opts"); ok {
		if _, isFunc := opts.(*ast.FunctionExpr); isFunc {
			return nil, reject(ErrUnsupportedValue, "opts function cannot be evaluated ahead of setup")
		}
		arg := opts
		if tbl, ok := opts.(*ast.TableExpr); ok && src != nil {
			if text, ok := src.TableText(tbl); ok {
				arg = lua.RawValue(text)
			}
		}
		return []ast.Stmt{requireSetup(module, arg)}, nil
	}
	config, ok := tableField(t, "config")
	if !ok {
		return nil, nil
	}
	switch v := config.(type) {
	case *ast.TrueExpr:
		return []ast.Stmt{requireSetup(module)}, nil
	case *ast.FalseExpr, *ast.NilExpr:
		return nil, nil
	case *ast.FunctionExpr:
		if src != nil {
			if body, ok := src.FunctionBody(v); ok {
				if body == "" {
					return nil, nil
				}
				return []ast.Stmt{lua.Raw(body)}, nil
			}
		}
		return v.Stmts, nil
	case *ast.StringExpr:
		if err := validateHook(v.Value); err != nil {
			return nil, err
		}
		if code := strings.TrimSpace(v.Value); code != "" {
			return []ast.Stmt{lua.Raw(code)}, nil
		}
		return nil, nil
	}
	return nil, reject(ErrUnsupportedValue, "config value %s", lua.PrintExpr(config))
}

// validateHook checks that a string hook compiles as a function body
func validateHook(code string) error {
	if err := lua.Validate("return function()\n" + code + "\nend"); err != nil {
		return reject(ErrUnsupportedValue, "config string is not lua: %v", err)
	}
	return nil
}
