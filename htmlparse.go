package pagetree

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseError is returned by a ParseFunc when the source text cannot be
// turned into a syntax tree at all.
type ParseError struct {
	Message string
	Loc     Position
}

func (e *ParseError) Error() string { return e.Message }

// ParseFunc is the external collaborator this package depends on: something
// that turns page source text into a tree rooted at a single Element. The
// loader never evaluates expression islands; ParseFunc only needs to carve
// them out as opaque Expr fragments.
//
// DefaultParse below is a concrete, usable implementation (grounded on
// golang.org/x/net/html's tokenizer) so this module is runnable end to end;
// production pipelines are free to swap in a richer parser that understands
// more of the expression language while still satisfying this signature.
type ParseFunc func(text []byte, filename string) (*Element, error)

// posTracker advances line/column/offset bookkeeping as raw token bytes are
// consumed from the tokenizer.
type posTracker struct {
	file   string
	offset int
	line   int
	col    int
}

func newPosTracker(file string) *posTracker {
	return &posTracker{file: file, line: 1, col: 1}
}

// consume advances the tracker past raw and returns the Position spanning
// exactly those bytes.
func (p *posTracker) consume(raw []byte) Position {
	pos := Position{
		File:        p.file,
		StartOffset: p.offset,
		StartLine:   p.line,
		StartCol:    p.col,
	}
	for _, b := range raw {
		if b == '\n' {
			p.line++
			p.col = 1
		} else {
			p.col++
		}
	}
	p.offset += len(raw)
	pos.EndOffset = p.offset
	pos.EndLine = p.line
	pos.EndCol = p.col
	return pos
}

// DefaultParse tokenizes src with golang.org/x/net/html and builds a
// Element/Text/Expr tree. It does not attempt browser-grade HTML5 insertion
// mode semantics (the teacher library's domain is server-side template
// composition, not a browser DOM) — just a straightforward stack of open
// elements, matching this spec's "matched opening/closing tag" invariant.
func DefaultParse(src []byte, filename string) (*Element, error) {
	// The tokenizer only recognizes a tag whose name starts with a letter, so
	// directive tags (`<:include>`, `</:define>`) are rewritten to a marker
	// prefix before tokenizing and mapped back to the `:` prefix afterwards.
	const dirMarker = "x-pagetree-directive-"
	src = bytes.ReplaceAll(src, []byte("<"+directivePrefix), []byte("<"+dirMarker))
	src = bytes.ReplaceAll(src, []byte("</"+directivePrefix), []byte("</"+dirMarker))
	unmark := func(s string) string { return strings.ReplaceAll(s, dirMarker, directivePrefix) }

	z := html.NewTokenizer(bytes.NewReader(src))
	pt := newPosTracker(filename)

	var root *Element
	var stack []*Element

	top := func() *Element {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	appendChild := func(c Child) {
		if p := top(); p != nil {
			p.Children = append(p.Children, c)
		}
	}

	for {
		tt := z.Next()
		raw := []byte(unmark(string(z.Raw())))
		loc := pt.consume(raw)

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return root, &ParseError{Message: err.Error(), Loc: loc}
			}
			if len(stack) > 0 {
				return root, &ParseError{
					Message: fmt.Sprintf("unclosed tag <%s> in %q", top().Tag, filename),
					Loc:     top().Loc,
				}
			}
			if root == nil {
				return nil, &ParseError{Message: fmt.Sprintf("HTML tag expected %q", filename), Loc: loc}
			}
			return root, nil

		case html.TextToken, html.CommentToken:
			if tt == html.CommentToken {
				continue
			}
			if root == nil && len(stack) == 0 && len(z.Text()) > 0 {
				// The first statement must be a single markup element. This
				// is intentionally strict even for whitespace-only leading
				// text, matching the upstream parser's known behavior.
				return nil, &ParseError{Message: fmt.Sprintf("HTML tag expected %q", filename), Loc: loc}
			}
			appendExpressionFragments(appendChild, string(z.Text()), loc)

		case html.DoctypeToken:
			// Not part of this tree model; ignored.

		case html.SelfClosingTagToken, html.StartTagToken:
			name, hasAttr := z.TagName()
			el := &Element{
				Tag:         unmark(string(name)),
				SelfClosing: tt == html.SelfClosingTagToken,
				Loc:         loc,
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				el.Attrs = append(el.Attrs, parseAttrValue(string(key), unmark(string(val)), loc))
			}
			if root == nil && len(stack) == 0 {
				root = el
			} else {
				appendChild(el)
			}
			if !el.SelfClosing {
				stack = append(stack, el)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := unmark(string(name))
			cur := top()
			if cur == nil || cur.Tag != tag {
				got := "nothing open"
				if cur != nil {
					got = "<" + cur.Tag + ">"
				}
				return root, &ParseError{
					Message: fmt.Sprintf("mismatched closing tag </%s> (expected %s) in %q", tag, got, filename),
					Loc:     loc,
				}
			}
			stack = stack[:len(stack)-1]
		}
	}
}

// parseAttrValue decides whether an attribute value is a literal or an
// opaque expression island (a value that is, in its entirety, `{{ ... }}`).
// Partial interpolation inside a literal (e.g. class="a {{ .B }}") is kept
// as a literal string; the loader has no opinion on the expression
// language's syntax beyond the island delimiters.
func parseAttrValue(name, val string, loc Position) *Attribute {
	trimmed := strings.TrimSpace(val)
	if strings.HasPrefix(trimmed, "{{") && strings.HasSuffix(trimmed, "}}") && len(trimmed) >= 4 {
		return &Attribute{
			Name:   name,
			IsExpr: true,
			Expr:   strings.TrimSpace(trimmed[2 : len(trimmed)-2]),
			At:     loc,
		}
	}
	return &Attribute{Name: name, Value: val, At: loc}
}

// appendExpressionFragments splits a run of text on `{{ ... }}` expression
// islands, appending alternating Text and Expr children via add.
func appendExpressionFragments(add func(Child), text string, loc Position) {
	rest := text
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			if rest != "" {
				add(&Text{Value: rest, Loc: loc})
			}
			return
		}
		end := strings.Index(rest[start:], "}}")
		if end == -1 {
			// Unterminated island: treat the rest as literal text rather than
			// failing the whole parse over a stray "{{".
			add(&Text{Value: rest, Loc: loc})
			return
		}
		end += start
		if start > 0 {
			add(&Text{Value: rest[:start], Loc: loc})
		}
		add(&Expr{Source: strings.TrimSpace(rest[start+2 : end]), Loc: loc})
		rest = rest[end+2:]
	}
}
