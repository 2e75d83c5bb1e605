// ABOUTME: Minimal Wadler-style document algebra used by the Lua printer
// ABOUTME: Groups print flat when they fit the line width and break otherwise
package lua

import (
	"strings"
	"unicode/utf8"
)

type doc interface{}

type textDoc string

// lineDoc is a space when flat and a newline when broken; soft lines vanish when flat
type lineDoc struct{ soft bool }

type hardlineDoc struct{}

type concatDoc []doc

type groupDoc struct {
	body     doc
	hardened bool
}

type indentDoc struct{ body doc }

type ifBreakDoc struct {
	broken doc
	flat   doc
}

var (
	line     = lineDoc{}
	softline = lineDoc{soft: true}
	hardline = hardlineDoc{}
)

func text(s string) doc { return textDoc(s) }

func concat(parts ...doc) doc { return concatDoc(parts) }

func indent(parts ...doc) doc { return indentDoc{body: concatDoc(parts)} }

func group(parts ...doc) doc {
	body := concatDoc(parts)
	return groupDoc{body: body, hardened: hasHardline(body)}
}

func ifBreak(broken, flat doc) doc { return ifBreakDoc{broken: broken, flat: flat} }

func join(sep doc, parts []doc) doc {
	out := make(concatDoc, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}

func hasHardline(d doc) bool {
	switch v := d.(type) {
	case hardlineDoc:
		return true
	case concatDoc:
		for _, p := range v {
			if hasHardline(p) {
				return true
			}
		}
	case groupDoc:
		return v.hardened
	case indentDoc:
		return hasHardline(v.body)
	case ifBreakDoc:
		return hasHardline(v.broken) || hasHardline(v.flat)
	}
	return false
}

type mode int

const (
	modeBreak mode = iota
	modeFlat
)

type command struct {
	indent int
	mode   mode
	doc    doc
}

type layout struct {
	width  int
	tab    string
	out    []byte
	column int
}

// render lays d out within width columns using tab for each indent level
func render(d doc, width int, tab string) string {
	l := &layout{width: width, tab: tab}
	stack := []command{{indent: 0, mode: modeBreak, doc: d}}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch v := c.doc.(type) {
		case nil:
		case textDoc:
			l.write(string(v))
		case concatDoc:
			for i := len(v) - 1; i >= 0; i-- {
				stack = append(stack, command{c.indent, c.mode, v[i]})
			}
		case indentDoc:
			stack = append(stack, command{c.indent + 1, c.mode, v.body})
		case groupDoc:
			next := command{c.indent, modeFlat, v.body}
			if v.hardened || (c.mode == modeBreak && !fits(next, stack, l.width-l.column)) {
				next.mode = modeBreak
			}
			stack = append(stack, next)
		case ifBreakDoc:
			if c.mode == modeBreak {
				stack = append(stack, command{c.indent, c.mode, v.broken})
			} else {
				stack = append(stack, command{c.indent, c.mode, v.flat})
			}
		case lineDoc:
			if c.mode == modeFlat {
				if !v.soft {
					l.write(" ")
				}
				continue
			}
			l.newline(c.indent)
		case hardlineDoc:
			l.newline(c.indent)
		}
	}
	return strings.TrimRight(string(l.out), " \t")
}

func (l *layout) write(s string) {
	l.out = append(l.out, s...)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		l.column = utf8.RuneCountInString(s[i+1:])
		return
	}
	l.column += utf8.RuneCountInString(s)
}

func (l *layout) newline(level int) {
	end := len(l.out)
	for end > 0 && (l.out[end-1] == ' ' || l.out[end-1] == '\t') {
		end--
	}
	l.out = append(l.out[:end], '\n')
	l.column = 0
	l.write(strings.Repeat(l.tab, level))
}

// fits reports whether next, followed by the pending commands up to their first line break, fits in width
func fits(next command, rest []command, width int) bool {
	stack := []command{next}
	restIdx := len(rest)
	for width >= 0 {
		if len(stack) == 0 {
			if restIdx == 0 {
				return true
			}
			restIdx--
			stack = append(stack, rest[restIdx])
			continue
		}
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch v := c.doc.(type) {
		case textDoc:
			// verbatim text may span lines; only its first line counts
			if i := strings.IndexByte(string(v), '\n'); i >= 0 {
				return width-utf8.RuneCountInString(string(v[:i])) >= 0
			}
			width -= utf8.RuneCountInString(string(v))
		case concatDoc:
			for i := len(v) - 1; i >= 0; i-- {
				stack = append(stack, command{c.indent, c.mode, v[i]})
			}
		case indentDoc:
			stack = append(stack, command{c.indent + 1, c.mode, v.body})
		case groupDoc:
			m := c.mode
			if v.hardened {
				m = modeBreak
			}
			stack = append(stack, command{c.indent, m, v.body})
		case ifBreakDoc:
			if c.mode == modeBreak {
				stack = append(stack, command{c.indent, c.mode, v.broken})
			} else {
				stack = append(stack, command{c.indent, c.mode, v.flat})
			}
		case lineDoc:
			if c.mode == modeBreak {
				return true
			}
			if !v.soft {
				width--
			}
		case hardlineDoc:
			return true
		}
	}
	return false
}
