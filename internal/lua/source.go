// ABOUTME: Source pairs a parsed chunk with positions recovered from the token stream
// ABOUTME: gopher-lua only records lines, so spans and comments are rebuilt from tokens
package lua

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/gopher-lua/ast"
	"github.com/yuin/gopher-lua/parse"
)

// Span is a half-open byte range into Source.Text
type Span struct {
	Start int
	End   int
}

// Comment is a comment found between tokens
type Comment struct {
	Text   string
	Line   int
	Offset int
	// Trailing is set when a token precedes the comment on its line
	Trailing bool
}

// Source is parsed Lua text with enough position data to slice nodes back out
type Source struct {
	Text     string
	Chunk    []ast.Stmt
	offsets  []int
	lines    map[int]bool
	multi    []Span
	comments []Comment
	tables   map[*ast.TableExpr]Span
	strs     map[*ast.StringExpr]Span
	bodies   map[*ast.FunctionExpr]Span
	sugared  map[*ast.LocalAssignStmt]bool
}

type token struct {
	typ  int
	str  string
	line int
	span Span
}

// Load parses text and indexes the spans of its tables, strings and function bodies
func Load(text string) (*Source, error) {
	text = NormalizeNewlines(text)
	chunk, err := Parse(text)
	if err != nil {
		return nil, err
	}
	src := &Source{
		Text:    text,
		Chunk:   chunk,
		offsets: lineOffsets(text),
		lines:   make(map[int]bool),
	}
	tokens, err := src.scan()
	if err != nil {
		return nil, err
	}
	src.collectComments(tokens)
	src.index(tokens)
	return src, nil
}

// TableText returns the exact source text of a table constructor
func (s *Source) TableText(t *ast.TableExpr) (string, bool) {
	span, ok := s.tables[t]
	if !ok {
		return "", false
	}
	return s.Text[span.Start:span.End], true
}

// StringText returns a string literal as written, delimiters included
func (s *Source) StringText(e *ast.StringExpr) (string, bool) {
	span, ok := s.strs[e]
	if !ok {
		return "", false
	}
	return s.Text[span.Start:span.End], true
}

// FunctionBody returns the statements of fn as written, dedented and without surrounding blank lines
func (s *Source) FunctionBody(fn *ast.FunctionExpr) (string, bool) {
	span, ok := s.bodies[fn]
	if !ok {
		return "", false
	}
	return s.dedent(span), true
}

// Comments returns every comment in source order
func (s *Source) Comments() []Comment {
	return append([]Comment(nil), s.comments...)
}

// Blank reports whether the 1-based line holds neither tokens nor comments
func (s *Source) Blank(line int) bool {
	return !s.lines[line]
}

func (s *Source) tableEndLine(t *ast.TableExpr) (int, bool) {
	span, ok := s.tables[t]
	if !ok {
		return 0, false
	}
	return s.lineOf(span.End - 1), true
}

func (s *Source) localFunction(st *ast.LocalAssignStmt) bool {
	return s.sugared[st]
}

func lineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// lineOf returns the 1-based line holding byte offset off
func (s *Source) lineOf(off int) int {
	return sort.Search(len(s.offsets), func(i int) bool { return s.offsets[i] > off })
}

func (s *Source) offset(line, column int) (int, bool) {
	if line < 1 || line > len(s.offsets) {
		return 0, false
	}
	off := s.offsets[line-1] + column
	if off > len(s.Text) {
		return 0, false
	}
	return off, true
}

func (s *Source) mark(span Span) {
	first, last := s.lineOf(span.Start), s.lineOf(span.End-1)
	for l := first; l <= last; l++ {
		s.lines[l] = true
	}
	if last > first {
		s.multi = append(s.multi, span)
	}
}

// scan lexes the text and records the byte span of every token
func (s *Source) scan() ([]token, error) {
	scanner := parse.NewScanner(strings.NewReader(s.Text), chunkName)
	lexer := &parse.Lexer{}
	var tokens []token
	for {
		tok, err := scanner.Scan(lexer)
		if err != nil {
			return nil, fmt.Errorf("scanning lua: %w", err)
		}
		if tok.Type == parse.EOF {
			break
		}
		lexer.PrevTokenType = tok.Type
		start, ok := s.offset(tok.Pos.Line, tok.Pos.Column-1)
		if !ok {
			return nil, errors.New("scanning lua: token outside of text")
		}
		end, ok := s.offset(scanner.Pos.Line, scanner.Pos.Column)
		if !ok || end <= start {
			end = len(s.Text)
		}
		t := token{typ: tok.Type, str: tok.Str, line: tok.Pos.Line, span: Span{Start: start, End: end}}
		s.mark(t.span)
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// collectComments reads the gaps between tokens, which hold only whitespace and comments
func (s *Source) collectComments(tokens []token) {
	prev := 0
	for i := 0; i <= len(tokens); i++ {
		end := len(s.Text)
		if i < len(tokens) {
			end = tokens[i].span.Start
		}
		s.gapComments(prev, end, i > 0)
		if i < len(tokens) {
			prev = tokens[i].span.End
		}
	}
}

func (s *Source) gapComments(start, end int, afterToken bool) {
	trailing := afterToken
	for i := start; i < end; {
		switch {
		case s.Text[i] == '\n':
			trailing = false
			i++
		case strings.HasPrefix(s.Text[i:end], "--"):
			stop := commentEnd(s.Text[:end], i)
			span := Span{Start: i, End: stop}
			s.mark(span)
			s.comments = append(s.comments, Comment{
				Text:     strings.TrimRight(s.Text[i:stop], " \t"),
				Line:     s.lineOf(i),
				Offset:   i,
				Trailing: trailing,
			})
			i = stop
		default:
			i++
		}
	}
}

// commentEnd returns the offset just past the comment starting at i
func commentEnd(text string, i int) int {
	rest := text[i+2:]
	if strings.HasPrefix(rest, "[") {
		level := strings.IndexFunc(rest[1:], func(r rune) bool { return r != '=' })
		if level >= 0 && rest[1+level] == '[' {
			closer := "]" + strings.Repeat("=", level) + "]"
			if j := strings.Index(rest[2+level:], closer); j >= 0 {
				return i + 2 + 2 + level + j + len(closer)
			}
			return len(text)
		}
	}
	if j := strings.IndexByte(text[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(text)
}

// index pairs syntax nodes with tokens. Each node kind is visited in source order and
// matched against the tokens that produce it; any disagreement leaves that index empty.
func (s *Source) index(tokens []token) {
	var (
		tables []*ast.TableExpr
		strs   []*ast.StringExpr
		funcs  []*ast.FunctionExpr
		locals []*ast.LocalAssignStmt
	)
	Inspect(s.Chunk, func(n Node, _ int) bool {
		switch v := n.(type) {
		case *ast.TableExpr:
			tables = append(tables, v)
		case *ast.StringExpr:
			strs = append(strs, v)
		case *ast.FunctionExpr:
			funcs = append(funcs, v)
		case *ast.LocalAssignStmt:
			locals = append(locals, v)
		}
		return true
	})
	s.tables = indexTables(tables, tokens)
	s.strs = indexStrings(strs, tokens)
	s.bodies = indexBodies(funcs, tokens)
	s.sugared = indexLocals(locals, tokens)
}

// indexTables pairs the k-th table constructor with the k-th opening brace
func indexTables(tables []*ast.TableExpr, tokens []token) map[*ast.TableExpr]Span {
	var opens []Span
	var stack []int
	for _, t := range tokens {
		switch t.typ {
		case '{':
			stack = append(stack, len(opens))
			opens = append(opens, Span{Start: t.span.Start, End: -1})
		case '}':
			if len(stack) == 0 {
				return nil
			}
			opens[stack[len(stack)-1]].End = t.span.End
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 || len(opens) != len(tables) {
		return nil
	}

	index := make(map[*ast.TableExpr]Span, len(tables))
	for i, t := range tables {
		index[t] = opens[i]
	}
	return index
}

// indexStrings pairs string literals with string tokens of the same value and line.
// Field and attribute names are string nodes without a token and are skipped.
func indexStrings(strs []*ast.StringExpr, tokens []token) map[*ast.StringExpr]Span {
	var lits []token
	for _, t := range tokens {
		if t.typ == parse.TString {
			lits = append(lits, t)
		}
	}
	index := make(map[*ast.StringExpr]Span, len(lits))
	next := 0
	for _, e := range strs {
		if next == len(lits) {
			break
		}
		if t := lits[next]; e.Line() == t.line && e.Value == t.str {
			index[e] = t.span
			next++
		}
	}
	return index
}

// indexBodies pairs the k-th function with the k-th function keyword and records the
// text between its parameter list and the matching end
func indexBodies(funcs []*ast.FunctionExpr, tokens []token) map[*ast.FunctionExpr]Span {
	var bodies []Span
	var stack []int
	for i, t := range tokens {
		switch t.typ {
		case parse.TFunction:
			start := -1
			for j := i + 1; j < len(tokens); j++ {
				if tokens[j].typ == ')' {
					start = tokens[j].span.End
					break
				}
			}
			stack = append(stack, len(bodies))
			bodies = append(bodies, Span{Start: start, End: -1})
		case parse.TIf, parse.TDo:
			stack = append(stack, -1)
		case parse.TEnd:
			if len(stack) == 0 {
				return nil
			}
			if top := stack[len(stack)-1]; top >= 0 {
				bodies[top].End = t.span.Start
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 || len(bodies) != len(funcs) {
		return nil
	}

	index := make(map[*ast.FunctionExpr]Span, len(funcs))
	for i, fn := range funcs {
		if bodies[i].Start < 0 || bodies[i].End < bodies[i].Start {
			return nil
		}
		index[fn] = bodies[i]
	}
	return index
}

// indexLocals records which local statements were written as local function
func indexLocals(locals []*ast.LocalAssignStmt, tokens []token) map[*ast.LocalAssignStmt]bool {
	var sugared []bool
	for i, t := range tokens {
		if t.typ == parse.TLocal {
			sugared = append(sugared, i+1 < len(tokens) && tokens[i+1].typ == parse.TFunction)
		}
	}
	if len(sugared) != len(locals) {
		return nil
	}
	index := make(map[*ast.LocalAssignStmt]bool, len(locals))
	for i, st := range locals {
		index[st] = sugared[i]
	}
	return index
}

// dedent returns the lines of span with blank edges trimmed and the common
// indentation removed. Lines that continue a multi-line string or comment are kept as is.
func (s *Source) dedent(span Span) string {
	type piece struct {
		text  string
		fixed bool
	}
	var pieces []piece
	for off := span.Start; off < span.End; {
		stop := strings.IndexByte(s.Text[off:span.End], '\n')
		if stop < 0 {
			stop = span.End
		} else {
			stop += off
		}
		pieces = append(pieces, piece{text: s.Text[off:stop], fixed: s.insideMulti(off)})
		off = stop + 1
	}

	for len(pieces) > 0 && !pieces[0].fixed && strings.TrimSpace(pieces[0].text) == "" {
		pieces = pieces[1:]
	}
	for len(pieces) > 0 && !pieces[len(pieces)-1].fixed && strings.TrimSpace(pieces[len(pieces)-1].text) == "" {
		pieces = pieces[:len(pieces)-1]
	}

	common := -1
	for _, p := range pieces {
		if p.fixed || strings.TrimSpace(p.text) == "" {
			continue
		}
		n := len(p.text) - len(strings.TrimLeft(p.text, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}

	out := make([]string, len(pieces))
	for i, p := range pieces {
		switch {
		case p.fixed:
			out[i] = p.text
		case strings.TrimSpace(p.text) == "":
			out[i] = ""
		default:
			out[i] = strings.TrimRight(p.text[common:], " \t")
		}
	}
	return strings.Join(out, "\n")
}

// insideMulti reports whether off falls after the first line of a multi-line token or comment
func (s *Source) insideMulti(off int) bool {
	for _, m := range s.multi {
		if off > m.Start && off < m.End {
			return true
		}
	}
	return false
}
