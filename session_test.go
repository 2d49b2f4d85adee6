package pagetree

import "testing"

func TestLoadPanicOnError(t *testing.T) {
	fsys := MapFileSystem{
		"/index.html": []byte(`<div><:include src="../escape.html"/></div>`),
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic from PanicOnError")
		}
	}()
	_, _ = Load("/", "index.html", WithFileSystem(fsys), WithPanicOnError(true))
}

func TestLoadCustomParseFunc(t *testing.T) {
	called := false
	parse := func(text []byte, filename string) (*Element, error) {
		called = true
		return &Element{Tag: "root"}, nil
	}
	fsys := MapFileSystem{"/index.html": []byte(`anything`)}

	s, err := Load("/", "index.html", WithFileSystem(fsys), WithParseFunc(parse))
	if err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("expected custom ParseFunc to be invoked")
	}
	if s.Tree.Tag != "root" {
		t.Fatalf("tree = %#v", s.Tree)
	}
}

func TestLoadEntryFileMissing(t *testing.T) {
	fsys := MapFileSystem{}
	s, err := Load("/", "missing.html", WithFileSystem(fsys))
	if err != nil {
		t.Fatal(err)
	}
	if s.Tree != nil {
		t.Fatal("expected nil tree when entry file cannot be read")
	}
	if !HasErrors(s.Diagnostics) {
		t.Fatal("expected an error diagnostic")
	}
}
