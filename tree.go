package pagetree

// Position records where a node came from in its originating source file.
// Synthesized nodes (default slots, promoted macro bodies) inherit the
// Position of whatever triggered their creation rather than getting a zero
// value, so downstream tooling can still point at something meaningful.
type Position struct {
	File        string
	StartOffset int
	EndOffset   int
	StartLine   int
	StartCol    int
	EndLine     int
	EndCol      int
}

// Child is the sum type for anything that can live inside an Element's
// children list: an Element, a Text run, or an opaque Expr fragment.
type Child interface {
	isChild()
	Pos() Position
	Clone() Child
}

// Attribute is a single name/value pair on an Element's opening tag. Value
// holds a literal string unless IsExpr is set, in which case Expr carries
// the verbatim, unparsed expression source (opaque to this package).
type Attribute struct {
	Name   string
	Value  string
	IsExpr bool
	Expr   string
	At     Position
}

func (a *Attribute) Clone() *Attribute {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Element is a markup node: a tag, its attributes, and (unless self-closing)
// its children.
type Element struct {
	Tag         string
	Attrs       []*Attribute
	SelfClosing bool
	Children    []Child
	Loc         Position
}

func (e *Element) isChild()      {}
func (e *Element) Pos() Position { return e.Loc }

func (e *Element) Clone() Child {
	return e.CloneElement()
}

// CloneElement performs a deep copy of the element and everything beneath
// it. No sub-tree is ever shared between two macro expansions or two
// inclusion splices: every use allocates its own copy.
func (e *Element) CloneElement() *Element {
	if e == nil {
		return nil
	}
	c := &Element{
		Tag:         e.Tag,
		SelfClosing: e.SelfClosing,
		Loc:         e.Loc,
	}
	if e.Attrs != nil {
		c.Attrs = make([]*Attribute, len(e.Attrs))
		for i, a := range e.Attrs {
			c.Attrs[i] = a.Clone()
		}
	}
	if e.Children != nil {
		c.Children = make([]Child, len(e.Children))
		for i, ch := range e.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// Attr looks up an attribute by name. Attribute names are unique within one
// element; if duplicates were ever written the last one wins, so this walks
// from the end.
func (e *Element) Attr(name string) (*Attribute, bool) {
	for i := len(e.Attrs) - 1; i >= 0; i-- {
		if e.Attrs[i].Name == name {
			return e.Attrs[i], true
		}
	}
	return nil, false
}

// AttrValue is a convenience wrapper around Attr for the common case of a
// plain literal attribute.
func (e *Element) AttrValue(name string) (string, bool) {
	a, ok := e.Attr(name)
	if !ok {
		return "", false
	}
	return a.Value, true
}

// SetAttr overwrites the value of an existing attribute with the given name,
// or appends a new one if none exists yet. This is the "last written wins"
// rule from the data model.
func (e *Element) SetAttr(name, value string) {
	if a, ok := e.Attr(name); ok {
		a.Value = value
		a.IsExpr = false
		a.Expr = ""
		return
	}
	e.Attrs = append(e.Attrs, &Attribute{Name: name, Value: value, At: e.Loc})
}

// MergeAttrFrom appends a clone of attr to e's attribute list unless an
// attribute with the same name is already present, in which case the
// existing value on e wins. This implements the inclusion attribute-merge
// law; macro stamping overwrites instead (see stamp in expand.go).
func (e *Element) MergeAttrFrom(attr *Attribute) {
	if existing, ok := e.Attr(attr.Name); ok {
		_ = existing // existing wins; nothing to do
		return
	}
	e.Attrs = append(e.Attrs, attr.Clone())
}

// RemoveAttr deletes the named attribute, if present.
func (e *Element) RemoveAttr(name string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return
		}
	}
}

// Text is a literal run of text between markup.
type Text struct {
	Value string
	Loc   Position
}

func (t *Text) isChild()      {}
func (t *Text) Pos() Position { return t.Loc }
func (t *Text) Clone() Child  { return &Text{Value: t.Value, Loc: t.Loc} }

// IsAllWhitespace reports whether the text run is made up entirely of
// whitespace runes (used by the inclusion splice trimming rule).
func (t *Text) IsAllWhitespace() bool {
	for _, r := range t.Value {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

// Expr is an opaque expression island (e.g. `{{ .Foo }}`) carried verbatim.
// The loader never evaluates or even parses its contents.
type Expr struct {
	Source string
	Loc    Position
}

func (x *Expr) isChild()      {}
func (x *Expr) Pos() Position { return x.Loc }
func (x *Expr) Clone() Child  { return &Expr{Source: x.Source, Loc: x.Loc} }

// replaceChild finds target inside parent.Children by identity (not index,
// since earlier splices in the same parent can shift positions) and replaces
// it with the given replacement slice, preserving order.
func replaceChild(parent *Element, target Child, replacement []Child) bool {
	for i, c := range parent.Children {
		if c == target {
			out := make([]Child, 0, len(parent.Children)-1+len(replacement))
			out = append(out, parent.Children[:i]...)
			out = append(out, replacement...)
			out = append(out, parent.Children[i+1:]...)
			parent.Children = out
			return true
		}
	}
	return false
}

// removeChild deletes target from parent.Children by identity.
func removeChild(parent *Element, target Child) bool {
	return replaceChild(parent, target, nil)
}

// insertBefore inserts newChild immediately before target inside
// parent.Children, by identity.
func insertBefore(parent *Element, target Child, newChild Child) bool {
	for i, c := range parent.Children {
		if c == target {
			out := make([]Child, 0, len(parent.Children)+1)
			out = append(out, parent.Children[:i]...)
			out = append(out, newChild)
			out = append(out, parent.Children[i:]...)
			parent.Children = out
			return true
		}
	}
	return false
}
