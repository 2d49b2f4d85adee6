package pagetree

import "strings"

// directivePrefix is the reserved prefix identifying a directive element.
const directivePrefix = ":"

type directiveKind int

const (
	dirInclude directiveKind = iota
	dirImport
	dirDefine
	dirSlot
	dirUnknown
)

func classifyDirective(tag string) directiveKind {
	switch tag {
	case ":include":
		return dirInclude
	case ":import":
		return dirImport
	case ":define":
		return dirDefine
	case ":slot":
		return dirSlot
	default:
		return dirUnknown
	}
}

// directiveRef is a directive element located during a single collection
// pass, along with the parent it was found under. Mutations are later
// applied by identity (see replaceChild/removeChild in tree.go), not by a
// recorded index, since earlier siblings' splices can shift later ones.
type directiveRef struct {
	kind   directiveKind
	elem   *Element
	parent *Element
}

// collectDirectives walks root in document order and returns every
// directive element found, skipping root itself (the root of a tree is
// never a directive — this is what lets an included file's root element
// pass through splicing untouched even if, hypothetically, it shared a name
// with a directive). A `:define` element's own body is a macro template, not
// live document flow, so the walk does not descend into it — any
// `:include`/`:import` written inside a macro definition is captured
// verbatim into the registered macro body (see registerDefine) and is never
// collected or processed here.
func collectDirectives(root *Element) []directiveRef {
	var out []directiveRef
	var walk func(parent *Element)
	walk = func(parent *Element) {
		for _, c := range parent.Children {
			el, ok := c.(*Element)
			if !ok {
				continue
			}
			if strings.HasPrefix(el.Tag, directivePrefix) {
				kind := classifyDirective(el.Tag)
				out = append(out, directiveRef{kind: kind, elem: el, parent: parent})
				if kind == dirDefine {
					continue
				}
			}
			walk(el)
		}
	}
	walk(root)
	return out
}
