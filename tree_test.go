package pagetree

import "testing"

func TestElementAttrLastWriteWins(t *testing.T) {
	e := &Element{Attrs: []*Attribute{
		{Name: "class", Value: "a"},
		{Name: "class", Value: "b"},
	}}
	v, ok := e.AttrValue("class")
	if !ok || v != "b" {
		t.Fatalf("AttrValue = %q, %v; want b, true", v, ok)
	}
}

func TestElementSetAttr(t *testing.T) {
	e := &Element{}
	e.SetAttr("id", "x")
	e.SetAttr("id", "y")
	if v, _ := e.AttrValue("id"); v != "y" {
		t.Fatalf("SetAttr overwrite failed, got %q", v)
	}
	if len(e.Attrs) != 1 {
		t.Fatalf("expected 1 attr, got %d", len(e.Attrs))
	}
}

func TestElementMergeAttrFromExistingWins(t *testing.T) {
	e := &Element{Attrs: []*Attribute{{Name: "class", Value: "mine"}}}
	e.MergeAttrFrom(&Attribute{Name: "class", Value: "theirs"})
	e.MergeAttrFrom(&Attribute{Name: "id", Value: "new"})

	if v, _ := e.AttrValue("class"); v != "mine" {
		t.Fatalf("existing attr should win, got %q", v)
	}
	if v, _ := e.AttrValue("id"); v != "new" {
		t.Fatalf("non-conflicting attr should be added, got %q", v)
	}
}

func TestCloneElementDeepCopy(t *testing.T) {
	orig := &Element{
		Tag:   "div",
		Attrs: []*Attribute{{Name: "class", Value: "a"}},
		Children: []Child{
			&Text{Value: "hi"},
			&Element{Tag: "span"},
		},
	}
	clone := orig.CloneElement()

	clone.Attrs[0].Value = "b"
	clone.Children[0].(*Text).Value = "bye"
	clone.Children[1].(*Element).Tag = "p"

	if orig.Attrs[0].Value != "a" {
		t.Error("clone mutated original attribute")
	}
	if orig.Children[0].(*Text).Value != "hi" {
		t.Error("clone mutated original text child")
	}
	if orig.Children[1].(*Element).Tag != "span" {
		t.Error("clone mutated original element child")
	}
}

func TestReplaceChildByIdentity(t *testing.T) {
	a := &Text{Value: "a"}
	b := &Text{Value: "b"}
	c := &Text{Value: "c"}
	parent := &Element{Children: []Child{a, b, c}}

	ok := replaceChild(parent, b, []Child{&Text{Value: "x"}, &Text{Value: "y"}})
	if !ok {
		t.Fatal("replaceChild returned false")
	}
	if len(parent.Children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(parent.Children))
	}
	if parent.Children[0] != a || parent.Children[3] != c {
		t.Fatal("replaceChild disturbed surrounding siblings")
	}
}

func TestRemoveChildByIdentity(t *testing.T) {
	a := &Text{Value: "a"}
	b := &Text{Value: "b"}
	parent := &Element{Children: []Child{a, b}}

	if !removeChild(parent, a) {
		t.Fatal("removeChild returned false")
	}
	if len(parent.Children) != 1 || parent.Children[0] != b {
		t.Fatalf("unexpected children after removeChild: %v", parent.Children)
	}
}

func TestIsAllWhitespace(t *testing.T) {
	cases := map[string]bool{
		"   \n\t": true,
		"":       true,
		"  x ":   false,
	}
	for in, want := range cases {
		if got := (&Text{Value: in}).IsAllWhitespace(); got != want {
			t.Errorf("IsAllWhitespace(%q) = %v, want %v", in, got, want)
		}
	}
}
