// ABOUTME: Pretty-printer from gopher-lua syntax trees back to Lua source
// ABOUTME: Keeps comments, literal spellings and blank lines when the source is known
package lua

import (
	"strings"

	"github.com/yuin/gopher-lua/ast"
)

const indentUnit = "    "

type printer struct {
	source   *Source
	comments []Comment
}

func newPrinter(src *Source) *printer {
	p := &printer{source: src}
	if src != nil {
		p.comments = src.Comments()
	}
	return p
}

// takeComments removes and returns the pending comments that start before line
func (p *printer) takeComments(line int) []Comment {
	if line <= 0 {
		return nil
	}
	n := 0
	for n < len(p.comments) && p.comments[n].Line < line {
		n++
	}
	taken := p.comments[:n]
	p.comments = p.comments[n:]
	return taken
}

// splitTrailing separates the comments that continue the previous line
func splitTrailing(cs []Comment) (trailing, own []Comment) {
	for i, c := range cs {
		if !c.Trailing {
			return cs[:i], cs[i:]
		}
	}
	return cs, nil
}

func trailingDocs(cs []Comment) []doc {
	out := make([]doc, 0, len(cs))
	for _, c := range cs {
		out = append(out, text(" "+c.Text))
	}
	return out
}

func (p *printer) block(stmts []ast.Stmt) doc {
	parts := make([]doc, 0, len(stmts)*2)
	prevLine := 0
	for i, st := range stmts {
		cs := p.takeComments(st.Line())
		d := p.stmt(st)
		if i > 0 {
			var trailing []Comment
			trailing, cs = splitTrailing(cs)
			parts = append(parts, trailingDocs(trailing)...)
			parts = append(parts, hardline)
			top := st.Line()
			if len(cs) > 0 {
				top = cs[0].Line
			}
			if p.blankBefore(top, prevLine) {
				parts = append(parts, hardline)
			}
			if stmtStartsWithParen(st) {
				d = concat(text(";"), d)
			}
		}
		for _, c := range cs {
			parts = append(parts, text(c.Text), hardline)
		}
		parts = append(parts, d)
		if st.Line() > 0 {
			prevLine = st.Line()
		}
	}
	return concatDoc(parts)
}

// closing renders comments that sit at the end of a block, after its last statement
func (p *printer) closing(cs []Comment, afterStmt bool) []doc {
	var parts []doc
	if afterStmt {
		var trailing []Comment
		trailing, cs = splitTrailing(cs)
		parts = append(parts, trailingDocs(trailing)...)
	}
	for _, c := range cs {
		parts = append(parts, hardline, text(c.Text))
	}
	return parts
}

func (p *printer) blankBefore(line, prevLine int) bool {
	if p.source == nil || line <= 0 || prevLine <= 0 {
		return false
	}
	return line-1 > prevLine && p.source.Blank(line-1)
}

func (p *printer) body(stmts []ast.Stmt) doc {
	if len(stmts) == 0 {
		return nil
	}
	return indent(hardline, p.block(stmts))
}

func (p *printer) stmt(st ast.Stmt) doc {
	switch v := st.(type) {
	case *ast.AssignStmt:
		return concat(p.exprList(v.Lhs), text(" = "), p.exprList(v.Rhs))
	case *ast.LocalAssignStmt:
		if p.source != nil && p.source.localFunction(v) && len(v.Names) == 1 && len(v.Exprs) == 1 {
			if fn, ok := v.Exprs[0].(*ast.FunctionExpr); ok {
				return concat(text("local function "+v.Names[0]), p.funcBody(fn))
			}
		}
		head := text("local " + strings.Join(v.Names, ", "))
		if len(v.Exprs) == 0 {
			return head
		}
		return concat(head, text(" = "), p.exprList(v.Exprs))
	case *ast.FuncCallStmt:
		return p.expr(v.Expr)
	case *ast.DoBlockStmt:
		return p.keywordBlock(text("do"), v.Stmts, "end")
	case *ast.WhileStmt:
		return p.keywordBlock(concat(text("while "), p.expr(v.Condition), text(" do")), v.Stmts, "end")
	case *ast.RepeatStmt:
		return concat(text("repeat"), p.body(v.Stmts), hardline, text("until "), p.expr(v.Condition))
	case *ast.IfStmt:
		return p.ifStmt(v, "if")
	case *ast.NumberForStmt:
		head := []doc{text("for " + v.Name + " = "), p.expr(v.Init), text(", "), p.expr(v.Limit)}
		if v.Step != nil {
			head = append(head, text(", "), p.expr(v.Step))
		}
		head = append(head, text(" do"))
		return p.keywordBlock(concatDoc(head), v.Stmts, "end")
	case *ast.GenericForStmt:
		head := concat(text("for "+strings.Join(v.Names, ", ")+" in "), p.exprList(v.Exprs), text(" do"))
		return p.keywordBlock(head, v.Stmts, "end")
	case *ast.FuncDefStmt:
		return concat(text("function "), p.funcName(v.Name), p.funcBody(v.Func))
	case *ast.ReturnStmt:
		if len(v.Exprs) == 0 {
			return text("return")
		}
		return concat(text("return "), p.exprList(v.Exprs))
	case *ast.BreakStmt:
		return text("break")
	case *ast.LabelStmt:
		return text("::" + v.Name + "::")
	case *ast.GotoStmt:
		return text("goto " + v.Label)
	case *RawStmt:
		return text(v.Text)
	}
	return nil
}

func (p *printer) keywordBlock(head doc, stmts []ast.Stmt, closer string) doc {
	if len(stmts) == 0 {
		return concat(head, text(" "+closer))
	}
	return concat(head, p.body(stmts), hardline, text(closer))
}

func (p *printer) ifStmt(v *ast.IfStmt, keyword string) doc {
	parts := []doc{text(keyword + " "), p.expr(v.Condition), text(" then"), p.body(v.Then)}
	if len(v.Else) == 1 {
		if elif, ok := v.Else[0].(*ast.IfStmt); ok {
			return concat(append(parts, hardline, p.ifStmt(elif, "elseif"))...)
		}
	}
	if len(v.Else) > 0 {
		parts = append(parts, hardline, text("else"), p.body(v.Else))
	}
	return concat(append(parts, hardline, text("end"))...)
}

func (p *printer) funcName(n *ast.FuncName) doc {
	if n.Func != nil {
		return p.expr(n.Func)
	}
	return concat(p.prefixExpr(n.Receiver), text(":"+n.Method))
}

func (p *printer) funcBody(fn *ast.FunctionExpr) doc {
	var params []string
	if fn.ParList != nil {
		params = fn.ParList.Names
		if fn.ParList.HasVargs {
			params = append(append([]string{}, params...), "...")
		}
	}
	head := text("(" + strings.Join(params, ", ") + ")")
	block := p.block(fn.Stmts)
	tail := p.closing(p.takeComments(fn.LastLine()), len(fn.Stmts) > 0)
	if len(fn.Stmts) == 0 && len(tail) == 0 {
		return concat(head, text(" end"))
	}
	if len(fn.Stmts) == 0 {
		// closing emits a hardline before each own-line comment
		return concat(head, indent(concatDoc(tail)), hardline, text("end"))
	}
	return concat(head, indent(hardline, block, concatDoc(tail)), hardline, text("end"))
}

func (p *printer) exprList(list []ast.Expr) doc {
	docs := make([]doc, len(list))
	for i, e := range list {
		docs[i] = p.expr(e)
	}
	return join(text(", "), docs)
}

func (p *printer) expr(e ast.Expr) doc {
	switch v := e.(type) {
	case *ast.NilExpr:
		return text("nil")
	case *ast.TrueExpr:
		return text("true")
	case *ast.FalseExpr:
		return text("false")
	case *ast.NumberExpr:
		return text(v.Value)
	case *ast.StringExpr:
		// long brackets are kept as written; quoted strings are normalized
		if p.source != nil {
			if raw, ok := p.source.StringText(v); ok && strings.HasPrefix(raw, "[") {
				return text(raw)
			}
		}
		return text(Quote(v.Value))
	case *ast.Comma3Expr:
		if v.AdjustRet {
			return text("(...)")
		}
		return text("...")
	case *ast.IdentExpr:
		return text(v.Value)
	case *ast.AttrGetExpr:
		return concat(p.prefixExpr(v.Object), p.index(v.Key))
	case *ast.TableExpr:
		return p.table(v)
	case *ast.FuncCallExpr:
		return p.call(v)
	case *ast.LogicalOpExpr:
		return p.binary(e, v.Operator, v.Lhs, v.Rhs)
	case *ast.RelationalOpExpr:
		return p.binary(e, v.Operator, v.Lhs, v.Rhs)
	case *ast.StringConcatOpExpr:
		return p.binary(e, "..", v.Lhs, v.Rhs)
	case *ast.ArithmeticOpExpr:
		return p.binary(e, v.Operator, v.Lhs, v.Rhs)
	case *ast.UnaryMinusOpExpr:
		return p.unary("-", v.Expr)
	case *ast.UnaryNotOpExpr:
		return p.unary("not ", v.Expr)
	case *ast.UnaryLenOpExpr:
		return p.unary("#", v.Expr)
	case *ast.FunctionExpr:
		return concat(text("function"), p.funcBody(v))
	case *RawExpr:
		return text(v.Text)
	}
	return nil
}

func (p *printer) index(key ast.Expr) doc {
	if s, ok := key.(*ast.StringExpr); ok && IsIdentifier(s.Value) {
		return text("." + s.Value)
	}
	return concat(text("["), p.expr(key), text("]"))
}

// prefixExpr prints e where Lua grammar requires a prefix expression
func (p *printer) prefixExpr(e ast.Expr) doc {
	if isPrefixExpr(e) {
		return p.expr(e)
	}
	return concat(text("("), p.expr(e), text(")"))
}

func isPrefixExpr(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.IdentExpr, *ast.AttrGetExpr:
		return true
	case *ast.FuncCallExpr:
		return true
	case *ast.Comma3Expr:
		return v.AdjustRet
	}
	return false
}

func (p *printer) call(v *ast.FuncCallExpr) doc {
	var callee doc
	if v.Func != nil {
		callee = p.prefixExpr(v.Func)
	} else {
		callee = concat(p.prefixExpr(v.Receiver), text(":"+v.Method))
	}
	d := concat(callee, p.args(v.Args))
	if v.AdjustRet {
		return concat(text("("), d, text(")"))
	}
	return d
}

func (p *printer) args(args []ast.Expr) doc {
	if len(args) == 0 {
		return text("()")
	}
	docs := make([]doc, len(args))
	for i, a := range args {
		docs[i] = p.expr(a)
	}
	last := args[len(args)-1]
	switch last.(type) {
	case *ast.FunctionExpr:
		return concat(text("("), join(text(", "), docs), text(")"))
	case *ast.TableExpr:
		if len(args) == 1 {
			return concat(text("("), docs[0], text(")"))
		}
	}
	return group(text("("), indent(softline, join(concat(text(","), line), docs)), softline, text(")"))
}

func (p *printer) table(t *ast.TableExpr) doc {
	endLine := 0
	if p.source != nil {
		endLine, _ = p.source.tableEndLine(t)
	}
	if len(t.Fields) == 0 {
		if tail := p.closing(p.takeComments(endLine), false); len(tail) > 0 {
			return concat(text("{"), indent(concatDoc(tail)), hardline, text("}"))
		}
		return text("{}")
	}

	commented := false
	items := make([]doc, 0, len(t.Fields)*3)
	for i, f := range t.Fields {
		cs := p.takeComments(fieldLine(f))
		d := p.field(f)
		if i > 0 {
			var trailing []Comment
			trailing, cs = splitTrailing(cs)
			items = append(items, text(","))
			items = append(items, trailingDocs(trailing)...)
			items = append(items, line)
			commented = commented || len(trailing) > 0
		}
		for _, c := range cs {
			items = append(items, text(c.Text), hardline)
		}
		commented = commented || len(cs) > 0
		items = append(items, d)
	}
	items = append(items, ifBreak(text(","), nil))
	if tail := p.closing(p.takeComments(endLine), true); len(tail) > 0 {
		items = append(items, tail...)
		commented = true
	}

	body := concat(text("{"), indent(line, concatDoc(items)), line, text("}"))
	if commented {
		return groupDoc{body: body, hardened: true}
	}
	return group(body)
}

// fieldLine is the line a field starts on; name keys carry no position of their own
func fieldLine(f *ast.Field) int {
	if f.Key != nil && f.Key.Line() > 0 {
		return f.Key.Line()
	}
	if f.Value != nil {
		return f.Value.Line()
	}
	return 0
}

func (p *printer) field(f *ast.Field) doc {
	if f.Key == nil {
		return p.expr(f.Value)
	}
	if s, ok := f.Key.(*ast.StringExpr); ok && IsIdentifier(s.Value) {
		return concat(text(s.Value+" = "), p.expr(f.Value))
	}
	return concat(text("["), p.expr(f.Key), text("] = "), p.expr(f.Value))
}

const unaryPrecedence = 7

func precedence(e ast.Expr) int {
	switch v := e.(type) {
	case *ast.LogicalOpExpr:
		if v.Operator == "or" {
			return 1
		}
		return 2
	case *ast.RelationalOpExpr:
		return 3
	case *ast.StringConcatOpExpr:
		return 4
	case *ast.ArithmeticOpExpr:
		switch v.Operator {
		case "+", "-":
			return 5
		case "^":
			return 8
		}
		return 6
	case *ast.UnaryMinusOpExpr, *ast.UnaryNotOpExpr, *ast.UnaryLenOpExpr:
		return unaryPrecedence
	}
	return 9
}

func rightAssociative(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.StringConcatOpExpr:
		return true
	case *ast.ArithmeticOpExpr:
		return v.Operator == "^"
	}
	return false
}

func (p *printer) binary(parent ast.Expr, op string, lhs, rhs ast.Expr) doc {
	prec := precedence(parent)
	right := rightAssociative(parent)
	return concat(
		p.operand(lhs, prec, right, false),
		text(" "+op+" "),
		p.operand(rhs, prec, right, true),
	)
}

// operand parenthesizes child when it binds looser than its parent,
// or equally tight on the side the operator does not associate toward
func (p *printer) operand(child ast.Expr, parentPrec int, rightAssoc, rightSide bool) doc {
	prec := precedence(child)
	if prec < parentPrec || (prec == parentPrec && rightAssoc != rightSide) {
		return concat(text("("), p.expr(child), text(")"))
	}
	return p.expr(child)
}

func (p *printer) unary(op string, operand ast.Expr) doc {
	_, nested := operand.(*ast.UnaryMinusOpExpr)
	if precedence(operand) < unaryPrecedence || (op == "-" && nested) {
		return concat(text(op+"("), p.expr(operand), text(")"))
	}
	return concat(text(op), p.expr(operand))
}

func stmtStartsWithParen(st ast.Stmt) bool {
	switch v := st.(type) {
	case *ast.FuncCallStmt:
		return exprStartsWithParen(v.Expr)
	case *ast.AssignStmt:
		return len(v.Lhs) > 0 && exprStartsWithParen(v.Lhs[0])
	}
	return false
}

func exprStartsWithParen(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.FuncCallExpr:
		if v.AdjustRet {
			return true
		}
		if v.Func != nil {
			return !isPrefixExpr(v.Func) || exprStartsWithParen(v.Func)
		}
		return !isPrefixExpr(v.Receiver) || exprStartsWithParen(v.Receiver)
	case *ast.AttrGetExpr:
		return !isPrefixExpr(v.Object) || exprStartsWithParen(v.Object)
	case *ast.Comma3Expr:
		return v.AdjustRet
	}
	return false
}
