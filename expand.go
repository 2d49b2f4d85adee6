package pagetree

// MaxNesting bounds both inclusion recursion (include.go) and macro
// expansion recursion (below) to guard against cyclic definitions.
const MaxNesting = 100

type slotMode int

const (
	stampFinal slotMode = iota
	stampInherit
)

type slotRef struct {
	name   string
	elem   *Element
	parent *Element
}

// discoverSlots walks body for `:slot` elements, keyed by their `name`
// attribute. A slot missing a name is reported and ignored. If body
// contains no slot named `default`, one is synthesized as the last child of
// body itself (carrying body's Position), so unnamed use-site children are
// routable even when the macro's author never wrote a default `:slot`.
func discoverSlots(body *Element) (map[string]slotRef, []Diagnostic) {
	slots := map[string]slotRef{}
	var diags []Diagnostic

	var walk func(parent *Element)
	walk = func(parent *Element) {
		for _, c := range parent.Children {
			el, ok := c.(*Element)
			if !ok {
				continue
			}
			if el.Tag == ":slot" {
				name, ok := el.AttrValue("name")
				if !ok || name == "" {
					diags = append(diags, errorAt(el.Loc, "missing name attribute on slot"))
				} else {
					slots[name] = slotRef{name: name, elem: el, parent: parent}
				}
			}
			walk(el)
		}
	}
	walk(body)

	if _, ok := slots["default"]; !ok {
		def := &Element{Tag: ":slot", Loc: body.Loc}
		def.SetAttr("name", "default")
		body.Children = append(body.Children, def)
		slots["default"] = slotRef{name: "default", elem: def, parent: body}
	}
	return slots, diags
}

// stamp clones macro's body, merges useSite's attributes onto the clone's
// root (a use-site attribute overwrites a same-named one on the body), routes useSite's children into the clone's named slots, and
// resolves those slots according to mode.
//
// stampFinal fully resolves every slot, replacing each `:slot` placeholder
// with the content routed to it (or the slot's own children, as default
// content, when nothing was routed there). stampInherit is used once, at
// `:define` registration time, when a new macro's base is itself a macro:
// it fills slot content but leaves the `:slot` wrappers themselves in
// place, so a later, final-mode stamp against the resulting body can still
// route into them by name.
func stamp(macro *MacroDescriptor, useSite *Element, mode slotMode) (*Element, []Diagnostic) {
	clone := macro.Body.CloneElement()

	for _, a := range useSite.Attrs {
		if existing, ok := clone.Attr(a.Name); ok {
			*existing = *a.Clone()
		} else {
			clone.Attrs = append(clone.Attrs, a.Clone())
		}
	}

	oldSlots, diags := discoverSlots(clone)

	routed := map[string][]Child{}
	for _, c := range useSite.Children {
		name := "default"
		if el, ok := c.(*Element); ok {
			if v, has := el.AttrValue("name"); has {
				name = v
				if el.Tag != ":slot" {
					el.RemoveAttr("name")
				}
			}
		}
		if _, ok := oldSlots[name]; !ok {
			continue // no matching slot: routed content is silently dropped
		}
		routed[name] = append(routed[name], c)
	}

	switch mode {
	case stampFinal:
		for name, s := range oldSlots {
			content, has := routed[name]
			if !has || len(content) == 0 {
				content = s.elem.Children
			}
			replaceChild(s.parent, s.elem, content)
		}
	case stampInherit:
		for name, s := range oldSlots {
			content, has := routed[name]
			if !has || len(content) == 0 {
				continue
			}
			if len(content) == 1 {
				if slotEl, ok := content[0].(*Element); ok && slotEl.Tag == ":slot" {
					// The child macro redefines this slot itself: its own
					// slot node supersedes the parent's outright, as a
					// sibling swap, rather than nesting one :slot inside
					// another.
					replaceChild(s.parent, s.elem, []Child{slotEl})
					continue
				}
			}
			s.elem.Children = content
		}
	}

	return clone, diags
}

// expandMacros applies every registered macro use across tree, including a
// tree whose root element itself names a macro.
func (s *Session) expandMacros(root *Element) (*Element, []Diagnostic) {
	return s.expandNode(root, 1)
}

func (s *Session) expandNode(el *Element, depth int) (*Element, []Diagnostic) {
	m, ok := s.Macros[el.Tag]
	if !ok {
		return s.expandChildrenInPlace(el, depth)
	}

	if depth > s.maxNesting {
		return el, []Diagnostic{errorAt(el.Loc, "too many nested macros %q", el.Tag)}
	}

	expanded, diags := stamp(m, el, stampFinal)
	expanded, d2 := s.expandChildrenInPlace(expanded, depth+1)
	diags = append(diags, d2...)
	return expanded, diags
}

func (s *Session) expandChildrenInPlace(el *Element, depth int) (*Element, []Diagnostic) {
	var diags []Diagnostic
	for i, c := range el.Children {
		childEl, ok := c.(*Element)
		if !ok {
			continue
		}
		newChild, d := s.expandNode(childEl, depth)
		diags = append(diags, d...)
		el.Children[i] = newChild
	}
	return el, diags
}
