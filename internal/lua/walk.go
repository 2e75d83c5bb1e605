// ABOUTME: Source-order traversal of gopher-lua syntax trees with a depth counter
// ABOUTME: Top-level statements sit at depth 1 and every child is one level deeper
package lua

import "github.com/yuin/gopher-lua/ast"

// Node is any statement, expression or table field
type Node interface{}

// Inspect visits every node under chunk in source order.
// Children are skipped when visit returns false.
func Inspect(chunk []ast.Stmt, visit func(n Node, depth int) bool) {
	for _, st := range chunk {
		inspect(st, 1, visit)
	}
}

// WalkDepth visits nodes no deeper than maxDepth
func WalkDepth(chunk []ast.Stmt, maxDepth int, visit func(n Node, depth int)) {
	Inspect(chunk, func(n Node, depth int) bool {
		if depth > maxDepth {
			return false
		}
		visit(n, depth)
		return true
	})
}

func inspect(n Node, depth int, visit func(Node, int) bool) {
	if isNil(n) || !visit(n, depth) {
		return
	}
	for _, child := range children(n) {
		inspect(child, depth+1, visit)
	}
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	if f, ok := n.(*ast.Field); ok {
		return f == nil
	}
	return false
}

func children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}
	exprs := func(list []ast.Expr) {
		for _, e := range list {
			add(e)
		}
	}
	stmts := func(list []ast.Stmt) {
		for _, s := range list {
			add(s)
		}
	}

	switch v := n.(type) {
	case *ast.AssignStmt:
		exprs(v.Lhs)
		exprs(v.Rhs)
	case *ast.LocalAssignStmt:
		exprs(v.Exprs)
	case *ast.FuncCallStmt:
		add(v.Expr)
	case *ast.DoBlockStmt:
		stmts(v.Stmts)
	case *ast.WhileStmt:
		add(v.Condition)
		stmts(v.Stmts)
	case *ast.RepeatStmt:
		stmts(v.Stmts)
		add(v.Condition)
	case *ast.IfStmt:
		add(v.Condition)
		stmts(v.Then)
		stmts(v.Else)
	case *ast.NumberForStmt:
		add(v.Init, v.Limit, v.Step)
		stmts(v.Stmts)
	case *ast.GenericForStmt:
		exprs(v.Exprs)
		stmts(v.Stmts)
	case *ast.FuncDefStmt:
		if v.Name != nil {
			add(v.Name.Func, v.Name.Receiver)
		}
		add(v.Func)
	case *ast.ReturnStmt:
		exprs(v.Exprs)
	case *ast.AttrGetExpr:
		add(v.Object, v.Key)
	case *ast.TableExpr:
		for _, f := range v.Fields {
			add(f)
		}
	case *ast.Field:
		add(v.Key, v.Value)
	case *ast.FuncCallExpr:
		add(v.Func, v.Receiver)
		exprs(v.Args)
	case *ast.LogicalOpExpr:
		add(v.Lhs, v.Rhs)
	case *ast.RelationalOpExpr:
		add(v.Lhs, v.Rhs)
	case *ast.StringConcatOpExpr:
		add(v.Lhs, v.Rhs)
	case *ast.ArithmeticOpExpr:
		add(v.Lhs, v.Rhs)
	case *ast.UnaryMinusOpExpr:
		add(v.Expr)
	case *ast.UnaryNotOpExpr:
		add(v.Expr)
	case *ast.UnaryLenOpExpr:
		add(v.Expr)
	case *ast.FunctionExpr:
		stmts(v.Stmts)
	}
	return out
}
