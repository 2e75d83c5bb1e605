// ABOUTME: packer.nvim migration through a fixed key rename table and denylist
// ABOUTME: Any denylisted key rejects the whole declaration
package core

import (
	"strings"

	"github.com/harper/plugstore/internal/lua"
	"github.com/harper/plugstore/internal/models"
	"github.com/yuin/gopher-lua/ast"
)

// packerRenames maps packer keys to their lazy.nvim names
var packerRenames = map[string]string{
	"requires": "dependencies",
	"opt":      "lazy",
	"disable":  "enabled",
	"run":      "build",
	"setup":    "init",
}

// packerInverted lists renamed keys whose value is negated
var packerInverted = map[string]bool{
	"disable": true,
}

// packerDenied lists keys without a faithful lazy.nvim equivalent
var packerDenied = map[string]bool{
	"as":             true,
	"rocks":          true,
	"module":         true,
	"module_pattern": true,
	"fn":             true,
	"after":          true,
	"installer":      true,
	"updater":        true,
	"rtp":            true,
	"bufread":        true,
	"lock":           true,
}

// packerHooks are keys whose string form is Lua source that lazy.nvim only accepts as a function
var packerHooks = map[string]bool{
	"config": true,
	"setup":  true,
}

func migratePacker(repo models.Repository, extracted string) (translation, error) {
	decl, src, err := parseDeclaration(extracted)
	if err != nil {
		return translation{}, err
	}

	switch v := decl.(type) {
	case *ast.StringExpr:
		return translation{
			lazy:    lazySpec(repo.FullName),
			vimPack: vimPackSections(repo, nil, nil),
		}, nil
	case *ast.TableExpr:
		return migratePackerTable(repo, v, src)
	}
	return translation{}, reject(ErrUnsupportedValue, "packer declaration %s", lua.PrintExpr(decl))
}

func migratePackerTable(repo models.Repository, t *ast.TableExpr, src *lua.Source) (translation, error) {
	first, ok := lua.FirstPositional(t)
	if !ok {
		return translation{}, reject(ErrNoMatch, "declaration does not start with a plugin name")
	}
	if _, ok := lua.StringValue(first); !ok {
		return translation{}, reject(ErrNoMatch, "declaration does not start with a plugin name")
	}

	fields := []*ast.Field{lua.Positional(lua.Str(repo.FullName))}
	for _, f := range t.Fields[1:] {
		name, ok := lua.FieldName(f)
		if !ok {
			return translation{}, reject(ErrUnsupportedValue, "field %s has no name", lua.PrintExpr(f.Value))
		}
		if packerDenied[name] {
			return translation{}, reject(ErrIncompatibleField, "%s", name)
		}
		value := f.Value
		if packerInverted[name] {
			value = lua.Not(value)
		}
		if code, ok := lua.StringValue(value); ok && packerHooks[name] {
			if err := validateHook(code); err != nil {
				return translation{}, err
			}
			value = lua.Function(lua.Raw(strings.TrimSpace(code)))
		}
		if renamed, ok := packerRenames[name]; ok {
			name = renamed
		}
		fields = append(fields, lua.Keyed(name, value))
	}

	var deps []string
	if v, ok := tableField(t, "requires"); ok {
		deps = dependencyNames(v)
	}
	setup, err := setupCall(repo, t, src)
	if err != nil {
		return translation{}, err
	}

	t.Fields = withDefaultTrigger(fields)
	return translation{
		source:  src,
		lazy:    []ast.Stmt{lua.Return(t)},
		vimPack: vimPackSections(repo, deps, setup),
	}, nil
}
