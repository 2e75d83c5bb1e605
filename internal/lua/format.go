// ABOUTME: Formatting entry points: reformat Lua text or print a synthesized chunk
// ABOUTME: Output is always re-validated before it is returned
package lua

import (
	"fmt"

	"github.com/yuin/gopher-lua/ast"
)

// Format reprints src within width columns.
// Comments, literal spellings and single blank lines between statements are kept.
func Format(src string, width int) (string, error) {
	if width <= 0 {
		return "", fmt.Errorf("line width must be positive, got %d", width)
	}
	source, err := Load(src)
	if err != nil {
		return "", err
	}
	out := PrintSource(source, width, source.Chunk)
	if err := Validate(out); err != nil {
		return "", fmt.Errorf("formatted output is not valid lua: %w", err)
	}
	return out, nil
}

// Print renders synthesized statements, separating sections with a blank line
func Print(width int, sections ...[]ast.Stmt) string {
	return PrintSource(nil, width, sections...)
}

// PrintSource renders statements parsed from src, which may be mixed with synthesized
// ones. Comments of src are placed by line and any left over are appended.
func PrintSource(src *Source, width int, sections ...[]ast.Stmt) string {
	p := newPrinter(src)
	var parts []doc
	for _, section := range sections {
		if len(section) == 0 {
			continue
		}
		if len(parts) > 0 {
			parts = append(parts, hardline, hardline)
		}
		parts = append(parts, p.block(section))
	}
	rest := p.comments
	p.comments = nil
	if len(parts) == 0 {
		for i, c := range rest {
			if i > 0 {
				parts = append(parts, hardline)
			}
			parts = append(parts, text(c.Text))
		}
	} else {
		parts = append(parts, p.closing(rest, true)...)
	}
	return render(concatDoc(parts), width, indentUnit)
}

// PrintExpr renders a single expression on as few lines as possible
func PrintExpr(e ast.Expr) string {
	p := &printer{}
	return render(p.expr(e), 1<<20, indentUnit)
}
