// ABOUTME: Lua parsing and validation on top of gopher-lua's parser and compiler
// ABOUTME: Every generated snippet is proven parseable here before it is surfaced
package lua

import (
	"fmt"
	"strings"

	glua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/ast"
	"github.com/yuin/gopher-lua/parse"
)

const chunkName = "<snippet>"

// NormalizeNewlines converts CRLF and lone CR line endings to LF
func NormalizeNewlines(src string) string {
	if !strings.Contains(src, "\r") {
		return src
	}
	src = strings.ReplaceAll(src, "\r\n", "\n")
	return strings.ReplaceAll(src, "\r", "\n")
}

// Parse parses src into a statement list
func Parse(src string) ([]ast.Stmt, error) {
	chunk, err := parse.Parse(strings.NewReader(NormalizeNewlines(src)), chunkName)
	if err != nil {
		return nil, fmt.Errorf("parsing lua: %w", err)
	}
	return chunk, nil
}

// Validate parses and compiles src without executing it.
// Compilation catches what the grammar alone accepts, such as '...' outside a vararg function.
func Validate(src string) error {
	chunk, err := Parse(src)
	if err != nil {
		return err
	}
	return check(chunk)
}

func check(chunk []ast.Stmt) error {
	if _, err := glua.Compile(chunk, chunkName); err != nil {
		return fmt.Errorf("compiling lua: %w", err)
	}
	return nil
}

// IsIdentifier reports whether s is a valid Lua name that is not a reserved word
func IsIdentifier(s string) bool {
	if s == "" || reserved[s] {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

var reserved = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

// Quote renders s as a double-quoted Lua string literal
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03d`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
