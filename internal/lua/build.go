// ABOUTME: Constructors for synthesizing gopher-lua syntax trees
// ABOUTME: Used by the migrator to emit target declarations without string splicing
package lua

import "github.com/yuin/gopher-lua/ast"

// Str builds a string literal
func Str(s string) ast.Expr { return &ast.StringExpr{Value: s} }

// Ident builds a name reference
func Ident(name string) ast.Expr { return &ast.IdentExpr{Value: name} }

// RawStmt is source text spliced into printed output as written
type RawStmt struct {
	ast.StmtBase
	Text string
}

// RawExpr is an expression spliced into printed output as written
type RawExpr struct {
	ast.ExprBase
	Text string
}

// Raw wraps source text as a statement
func Raw(text string) *RawStmt { return &RawStmt{Text: text} }

// RawValue wraps source text as an expression
func RawValue(text string) *RawExpr { return &RawExpr{Text: text} }

// Function builds function() <stmts> end
func Function(stmts ...ast.Stmt) *ast.FunctionExpr {
	return &ast.FunctionExpr{ParList: &ast.ParList{Names: []string{}}, Stmts: stmts}
}

// Attr builds obj.name for each name in turn
func Attr(obj ast.Expr, names ...string) ast.Expr {
	for _, n := range names {
		obj = &ast.AttrGetExpr{Object: obj, Key: Str(n)}
	}
	return obj
}

// Call builds fn(args...)
func Call(fn ast.Expr, args ...ast.Expr) *ast.FuncCallExpr {
	return &ast.FuncCallExpr{Func: fn, Args: args}
}

// CallStmt wraps a call as a statement
func CallStmt(call *ast.FuncCallExpr) ast.Stmt { return &ast.FuncCallStmt{Expr: call} }

// Return builds a return statement
func Return(exprs ...ast.Expr) ast.Stmt { return &ast.ReturnStmt{Exprs: exprs} }

// Table builds a table constructor
func Table(fields ...*ast.Field) *ast.TableExpr { return &ast.TableExpr{Fields: fields} }

// Positional builds an array-part field
func Positional(value ast.Expr) *ast.Field { return &ast.Field{Value: value} }

// Keyed builds a name = value field
func Keyed(name string, value ast.Expr) *ast.Field {
	return &ast.Field{Key: Str(name), Value: value}
}

// Not negates e, folding boolean literals
func Not(e ast.Expr) ast.Expr {
	switch e.(type) {
	case *ast.TrueExpr:
		return &ast.FalseExpr{}
	case *ast.FalseExpr:
		return &ast.TrueExpr{}
	}
	return &ast.UnaryNotOpExpr{Expr: e}
}

// FieldName returns the name of a name = value field
func FieldName(f *ast.Field) (string, bool) {
	if f.Key == nil {
		return "", false
	}
	s, ok := f.Key.(*ast.StringExpr)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// StringValue returns the value of a string literal
func StringValue(e ast.Expr) (string, bool) {
	s, ok := e.(*ast.StringExpr)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// FirstPositional returns the first array-part field of t
func FirstPositional(t *ast.TableExpr) (ast.Expr, bool) {
	if len(t.Fields) == 0 || t.Fields[0].Key != nil {
		return nil, false
	}
	return t.Fields[0].Value, true
}
