package pagetree

import "regexp"

// tagNamePattern matches the custom-element-ish shape required of both a
// macro's own name and its base tag component: letters, digits, underscore
// and dash.
var tagNamePattern = regexp.MustCompile(`^[-\w]+$`)

// MacroDescriptor is a registered macro definition, ready to be stamped out
// at each use site. Body is owned by the registry; every expansion clones it
// fresh (see expand.go).
type MacroDescriptor struct {
	Name string
	Base string
	Body *Element
	From *MacroDescriptor // non-nil when this macro inherits from another
}

// registerDefine processes one `:define` directive: it builds (or rejects)
// a MacroDescriptor and adds it to the session's registry. The directive
// element itself is always removed from the tree by the caller, independent
// of whether registration succeeds.
func (s *Session) registerDefine(def *Element) {
	tagAttr, ok := def.AttrValue("tag")
	if !ok || tagAttr == "" {
		s.panicOrDiagnostic(warningAt(def.Loc, "invalid tag name"))
		return
	}

	name, base := tagAttr, ""
	if idx := indexByte(tagAttr, ':'); idx >= 0 {
		name, base = tagAttr[:idx], tagAttr[idx+1:]
	}
	if !tagNamePattern.MatchString(name) || !hasDash(name) {
		s.panicOrDiagnostic(warningAt(def.Loc, "invalid tag name"))
		return
	}
	if base == "" {
		base = "div"
	} else if !tagNamePattern.MatchString(base) {
		s.panicOrDiagnostic(warningAt(def.Loc, "invalid tag name"))
		return
	}

	body := def.CloneElement()
	body.RemoveAttr("tag")
	body.Tag = base
	if body.SelfClosing {
		body.SelfClosing = false
		body.Children = nil
	}

	m := &MacroDescriptor{Name: name, Base: base, Body: body}

	if parent, inherits := s.Macros[base]; inherits {
		m.From = parent
		expanded, diags := stamp(parent, body, stampInherit)
		for _, d := range diags {
			s.panicOrDiagnostic(d)
		}
		m.Body = expanded
	}

	s.Macros[name] = m
}

func hasDash(s string) bool {
	for _, r := range s {
		if r == '-' {
			return true
		}
	}
	return false
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
