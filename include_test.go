package pagetree

import (
	"strings"
	"testing"
)

func render(t *testing.T, el *Element) string {
	t.Helper()
	var b strings.Builder
	var walk func(c Child)
	walk = func(c Child) {
		switch v := c.(type) {
		case *Element:
			b.WriteString("<" + v.Tag)
			for _, a := range v.Attrs {
				b.WriteString(" " + a.Name + `="` + a.Value + `"`)
			}
			b.WriteString(">")
			for _, ch := range v.Children {
				walk(ch)
			}
			b.WriteString("</" + v.Tag + ">")
		case *Text:
			b.WriteString(v.Value)
		case *Expr:
			b.WriteString("{{" + v.Source + "}}")
		}
	}
	walk(el)
	return b.String()
}

func TestLoadSimpleInclude(t *testing.T) {
	fsys := MapFileSystem{
		"/index.html":  []byte(`<div><:include src="header.html"/>body</div>`),
		"/header.html": []byte(`<header>hi</header>`),
	}
	s, err := Load("/", "index.html", WithFileSystem(fsys))
	if err != nil {
		t.Fatal(err)
	}
	if HasErrors(s.Diagnostics) {
		t.Fatalf("unexpected diagnostics: %v", s.Diagnostics)
	}
	if got := render(t, s.Tree); got != "<div>hibody</div>" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadForbiddenPath(t *testing.T) {
	fsys := MapFileSystem{
		"/site/index.html": []byte(`<div><:include src="../../etc/passwd"/></div>`),
	}
	s, err := Load("/site", "index.html", WithFileSystem(fsys))
	if err != nil {
		t.Fatal(err)
	}
	if !HasErrors(s.Diagnostics) {
		t.Fatal("expected a forbidden-path diagnostic")
	}
	if got := render(t, s.Tree); got != "<div></div>" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadAttributePropagation(t *testing.T) {
	fsys := MapFileSystem{
		"/index.html": []byte(`<div class="outer"><:include src="inner.html"/></div>`),
		"/inner.html": []byte(`<span class="inner" data-x="1">hi</span>`),
	}
	s, err := Load("/", "index.html", WithFileSystem(fsys))
	if err != nil {
		t.Fatal(err)
	}
	if HasErrors(s.Diagnostics) {
		t.Fatalf("unexpected diagnostics: %v", s.Diagnostics)
	}
	if v, _ := s.Tree.AttrValue("class"); v != "outer" {
		t.Fatalf("host attr should win over included attr, got %q", v)
	}
	if v, _ := s.Tree.AttrValue("data-x"); v != "1" {
		t.Fatalf("non-conflicting included attr should propagate, got %q", v)
	}
}

func TestLoadImportOnce(t *testing.T) {
	fsys := MapFileSystem{
		"/index.html": []byte(`<div><:import src="shared.html"/><:import src="shared.html"/></div>`),
		"/shared.html": []byte(`<p>once</p>`),
	}
	s, err := Load("/", "index.html", WithFileSystem(fsys))
	if err != nil {
		t.Fatal(err)
	}
	if HasErrors(s.Diagnostics) {
		t.Fatalf("unexpected diagnostics: %v", s.Diagnostics)
	}
	count := 0
	for _, f := range s.Files {
		if f == "shared.html" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected shared.html processed once, got %d times (Files=%v)", count, s.Files)
	}
	if got := render(t, s.Tree); got != "<div>once</div>" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadIncludeReprocessesEachTime(t *testing.T) {
	fsys := MapFileSystem{
		"/index.html":  []byte(`<div><:include src="shared.html"/><:include src="shared.html"/></div>`),
		"/shared.html": []byte(`<p>x</p>`),
	}
	s, err := Load("/", "index.html", WithFileSystem(fsys))
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, f := range s.Files {
		if f == "shared.html" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected shared.html processed twice via :include, got %d", count)
	}
}

func TestLoadMissingSrcAttribute(t *testing.T) {
	fsys := MapFileSystem{
		"/index.html": []byte(`<div><:include/></div>`),
	}
	s, err := Load("/", "index.html", WithFileSystem(fsys))
	if err != nil {
		t.Fatal(err)
	}
	if !HasErrors(s.Diagnostics) {
		t.Fatal("expected missing src attribute diagnostic")
	}
}

func TestLoadUnknownDirectiveWarns(t *testing.T) {
	fsys := MapFileSystem{
		"/index.html": []byte(`<div><:bogus/>x</div>`),
	}
	s, err := Load("/", "index.html", WithFileSystem(fsys))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Diagnostics) != 1 || s.Diagnostics[0].Severity != SeverityWarning {
		t.Fatalf("expected one warning diagnostic, got %v", s.Diagnostics)
	}
	if got := render(t, s.Tree); got != "<div>x</div>" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadDefineBodyDirectivesNotLiveProcessed(t *testing.T) {
	fsys := MapFileSystem{
		"/index.html": []byte(`<div><:define tag="my-card"><:include src="never.html"/></:define></div>`),
		"/never.html": []byte(`<p>should not be read</p>`),
	}
	s, err := Load("/", "index.html", WithFileSystem(fsys))
	if err != nil {
		t.Fatal(err)
	}
	if HasErrors(s.Diagnostics) {
		t.Fatalf("unexpected diagnostics: %v", s.Diagnostics)
	}
	for _, f := range s.Files {
		if f == "never.html" {
			t.Fatalf("an :include nested inside a :define body must not be live-processed, but Files=%v", s.Files)
		}
	}
	if len(s.Files) != 1 {
		t.Fatalf("expected only the entry file to be read, got %v", s.Files)
	}
}

func TestLoadTooManyNestedInclusions(t *testing.T) {
	fsys := MapFileSystem{}
	for i := 0; i < 102; i++ {
		name := "/f" + itoa(i) + ".html"
		next := "/f" + itoa(i+1) + ".html"
		fsys[name] = []byte(`<div><:include src="` + strings.TrimPrefix(next, "/") + `"/></div>`)
	}
	fsys["/f102.html"] = []byte(`<p>bottom</p>`)

	s, err := Load("/", "f0.html", WithFileSystem(fsys))
	if err != nil {
		t.Fatal(err)
	}
	errs := 0
	for _, d := range s.Diagnostics {
		if d.Severity == SeverityError {
			errs++
		}
	}
	if errs != 1 {
		t.Fatalf("expected exactly one nesting diagnostic, got %d (%v)", errs, s.Diagnostics)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
