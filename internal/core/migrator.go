// ABOUTME: Migrator translates an extracted declaration into lazy.nvim and vim.pack code
// ABOUTME: Output is built as a syntax tree, printed, and re-parsed before it is accepted
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/plugstore/internal/lua"
	"github.com/harper/plugstore/internal/models"
	"github.com/yuin/gopher-lua/ast"
)

// defaultEvent is the lazy-loading trigger appended when a declaration has none
const defaultEvent = "VeryLazy"

// migratedWidth is a generous layout for intermediate output; the formatter narrows it
const migratedWidth = 100

// lazyTriggers are the lazy.nvim keys that already defer loading
var lazyTriggers = map[string]bool{
	"cmd":   true,
	"ft":    true,
	"event": true,
	"keys":  true,
}

// translation holds both target renditions before printing.
// source is set when the lazy statements reuse nodes parsed from the declaration.
type translation struct {
	source  *lua.Source
	lazy    []ast.Stmt
	vimPack [][]ast.Stmt
}

// Migrator converts extracted chunks to the target formats
type Migrator struct {
	logger *log.Logger
}

// NewMigrator creates a migrator
func NewMigrator(logger *log.Logger) *Migrator {
	return &Migrator{logger: logger}
}

// Migrate converts every chunk. Rejected chunks are dropped and counted;
// a generation defect aborts the run and is returned.
func (m *Migrator) Migrate(repo models.Repository, chunks []models.ExtractedChunk) ([]models.MigratedChunk, int, error) {
	var out []models.MigratedChunk
	rejected := 0
	for _, c := range chunks {
		mc, err := m.MigrateChunk(repo, c)
		if err != nil {
			var genErr *GenerationError
			if errors.As(err, &genErr) {
				return nil, rejected, err
			}
			rejected++
			m.logger.Debug("migration rejected", "repo", repo.FullName, "manager", c.PluginManager, "err", err)
			continue
		}
		out = append(out, mc)
	}
	if rejected > 0 {
		m.logger.Warn("migrations failed", "repo", repo.FullName, "count", rejected)
	}
	return out, rejected, nil
}

// MigrateChunk converts one chunk
func (m *Migrator) MigrateChunk(repo models.Repository, c models.ExtractedChunk) (models.MigratedChunk, error) {
	var (
		t   translation
		err error
	)
	switch c.PluginManager {
	case models.VimPlug:
		t, err = migrateVimPlug(repo, c.Extracted)
	case models.PackerNvim:
		t, err = migratePacker(repo, c.Extracted)
	case models.LazyNvim:
		t, err = migrateLazy(repo, c.Extracted)
	case models.VimPack:
		err = reject(ErrUnsupportedValue, "%s is not a source format", c.PluginManager)
	default:
		err = fmt.Errorf("unknown plugin manager %q", c.PluginManager)
	}
	if err != nil {
		return models.MigratedChunk{}, err
	}

	lazy := lua.PrintSource(t.source, migratedWidth, t.lazy)
	if err := lua.Validate(lazy); err != nil {
		return models.MigratedChunk{}, &GenerationError{Manager: c.PluginManager, Target: models.LazyNvim, Source: lazy, Err: err}
	}
	vimPack := lua.Print(migratedWidth, t.vimPack...)
	if err := lua.Validate(vimPack); err != nil {
		return models.MigratedChunk{}, &GenerationError{Manager: c.PluginManager, Target: models.VimPack, Source: vimPack, Err: err}
	}

	return models.MigratedChunk{
		ExtractedChunk:  c,
		MigratedLazy:    lazy,
		MigratedVimPack: vimPack,
	}, nil
}

// parseDeclaration parses an extracted declaration as a single expression.
// Declarations that parse but do not compile, such as '...' in a plain function, are rejected here.
func parseDeclaration(extracted string) (ast.Expr, *lua.Source, error) {
	code := "return " + extracted
	src, err := lua.Load(code)
	if err != nil {
		return nil, nil, reject(ErrUnparseable, "%v", err)
	}
	if len(src.Chunk) != 1 {
		return nil, nil, reject(ErrUnparseable, "declaration is not a single expression")
	}
	ret, ok := src.Chunk[0].(*ast.ReturnStmt)
	if !ok || len(ret.Exprs) != 1 {
		return nil, nil, reject(ErrUnparseable, "declaration is not a single expression")
	}
	if err := lua.Validate(code); err != nil {
		return nil, nil, reject(ErrUnparseable, "%v", err)
	}
	return ret.Exprs[0], src, nil
}

// withDefaultTrigger appends event = "VeryLazy" unless a trigger key is present
func withDefaultTrigger(fields []*ast.Field) []*ast.Field {
	for _, f := range fields {
		if name, ok := lua.FieldName(f); ok && lazyTriggers[name] {
			return fields
		}
	}
	return append(fields, lua.Keyed("event", lua.Str(defaultEvent)))
}

// lazySpec builds return { "<name>", event = "VeryLazy" }
func lazySpec(name string) []ast.Stmt {
	return []ast.Stmt{lua.Return(lua.Table(withDefaultTrigger([]*ast.Field{lua.Positional(lua.Str(name))})...))}
}

// tableField returns the value of the first name = value field called name
func tableField(t *ast.TableExpr, name string) (ast.Expr, bool) {
	for _, f := range t.Fields {
		if n, ok := lua.FieldName(f); ok && n == name {
			return f.Value, true
		}
	}
	return nil, false
}

// dependencyNames reads a dependency list: a string, or a table of strings
// and tables whose first positional field is a string
func dependencyNames(v ast.Expr) []string {
	switch d := v.(type) {
	case *ast.StringExpr:
		return []string{d.Value}
	case *ast.TableExpr:
		var names []string
		for _, f := range d.Fields {
			if f.Key != nil {
				continue
			}
			switch item := f.Value.(type) {
			case *ast.StringExpr:
				names = append(names, item.Value)
			case *ast.TableExpr:
				if first, ok := lua.FirstPositional(item); ok {
					if name, ok := lua.StringValue(first); ok {
						names = append(names, name)
					}
				}
			}
		}
		return names
	}
	return nil
}

// pluginURL expands owner/name shorthand to a GitHub URL
func pluginURL(name string) string {
	if strings.Contains(name, "/") && !strings.HasPrefix(name, "http") {
		return "https://github.com/" + name
	}
	return name
}
