package pagetree

import "testing"

func TestDefaultParseSimple(t *testing.T) {
	root, err := DefaultParse([]byte(`<div class="a">hello {{ .Name }}</div>`), "t.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Tag != "div" {
		t.Fatalf("tag = %q", root.Tag)
	}
	if v, _ := root.AttrValue("class"); v != "a" {
		t.Fatalf("class = %q", v)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	text, ok := root.Children[0].(*Text)
	if !ok || text.Value != "hello " {
		t.Fatalf("first child = %#v", root.Children[0])
	}
	expr, ok := root.Children[1].(*Expr)
	if !ok || expr.Source != ".Name" {
		t.Fatalf("second child = %#v", root.Children[1])
	}
}

func TestDefaultParseExprAttribute(t *testing.T) {
	root, err := DefaultParse([]byte(`<img src="{{ .URL }}"/>`), "t.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attr, ok := root.Attr("src")
	if !ok || !attr.IsExpr || attr.Expr != ".URL" {
		t.Fatalf("src attr = %#v", attr)
	}
}

func TestDefaultParseRejectsLeadingText(t *testing.T) {
	_, err := DefaultParse([]byte("  <div></div>"), "t.html")
	if err == nil {
		t.Fatal("expected error for leading whitespace before root element")
	}
}

func TestDefaultParseMismatchedTag(t *testing.T) {
	_, err := DefaultParse([]byte("<div><span></div></span>"), "t.html")
	if err == nil {
		t.Fatal("expected mismatched closing tag error")
	}
}

func TestDefaultParseUnclosedTag(t *testing.T) {
	_, err := DefaultParse([]byte("<div><span></span>"), "t.html")
	if err == nil {
		t.Fatal("expected unclosed tag error")
	}
}

func TestDefaultParseSelfClosing(t *testing.T) {
	root, err := DefaultParse([]byte(`<:include src="x.html"/>`), "t.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Tag != ":include" || !root.SelfClosing {
		t.Fatalf("root = %#v", root)
	}
}
