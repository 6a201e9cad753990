package gpxdoc

import (
	"github.com/beevik/etree"
	"slices"
	"strconv"
	"strings"
)

// Direction is a sibling walk direction.
type Direction int

const (
	Before Direction = -1
	After  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Before:
		return "before"
	case After:
		return "after"
	}
	return "unknown"
}

// Children returns the element children of el in document order.
// Character data, comments and processing instructions are skipped.
func Children(el *etree.Element) []*etree.Element {
	if el == nil {
		return nil
	}
	return el.ChildElements()
}

// Tag returns the local tag of el, without any namespace prefix.
func Tag(el *etree.Element) string {
	return el.Tag
}

// Attr returns the value of the attribute key on el.
func Attr(el *etree.Element, key string) (string, bool) {
	a := el.SelectAttr(key)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// Text returns the character data directly inside el.
// Text is absent when el has no character data or only whitespace.
func Text(el *etree.Element) (string, bool) {
	t := el.Text()
	if strings.TrimSpace(t) == "" {
		return "", false
	}
	return t, true
}

// HasChildren reports whether el has any child token at all,
// including whitespace between elements.
func HasChildren(el *etree.Element) bool {
	return len(el.Child) > 0
}

// WalkSiblings calls fn with each element sibling of el, moving away from el
// in direction dir, until fn returns false or the siblings run out.
func WalkSiblings(el *etree.Element, dir Direction, fn func(*etree.Element) bool) {
	parent := el.Parent()
	if parent == nil {
		return
	}
	for i := indexOf(parent, el) + int(dir); i >= 0 && i < len(parent.Child); i += int(dir) {
		sib, ok := parent.Child[i].(*etree.Element)
		if !ok {
			continue
		}
		if !fn(sib) {
			return
		}
	}
}

// PrevSibling returns the nearest element sibling before el, or nil.
func PrevSibling(el *etree.Element) *etree.Element {
	return sibling(el, Before)
}

// NextSibling returns the nearest element sibling after el, or nil.
func NextSibling(el *etree.Element) *etree.Element {
	return sibling(el, After)
}

func sibling(el *etree.Element, dir Direction) (found *etree.Element) {
	WalkSiblings(el, dir, func(sib *etree.Element) bool {
		found = sib
		return false
	})
	return found
}

// Detach removes el from its parent, along with the whitespace-only
// character data immediately preceding it, which keeps the surrounding
// indentation intact.
func Detach(el *etree.Element) error {
	parent := el.Parent()
	if parent == nil {
		return ErrDetached
	}
	i := indexOf(parent, el)
	if i < 0 {
		return ErrDetached
	}
	parent.RemoveChildAt(i)
	if i > 0 {
		if cd, ok := parent.Child[i-1].(*etree.CharData); ok && cd.IsWhitespace() {
			parent.RemoveChildAt(i - 1)
		}
	}
	return nil
}

// indexOf finds el among parent's child tokens.
// etree keeps Index up to date; the scan covers tokens moved behind its back.
func indexOf(parent *etree.Element, el *etree.Element) int {
	if i := el.Index(); i >= 0 && i < len(parent.Child) && parent.Child[i] == etree.Token(el) {
		return i
	}
	for i, t := range parent.Child {
		if t == etree.Token(el) {
			return i
		}
	}
	return -1
}

// Path returns an XPath-like location of el, with 1-based positions
// among same-tag siblings, eg. /gpx/trk[1]/trkseg[2]/trkpt[17].
func Path(el *etree.Element) string {
	var parts []string
	for e := el; e != nil && e.Parent() != nil; e = e.Parent() {
		pos, n := 0, 0
		for _, sib := range e.Parent().ChildElements() {
			if sib.Tag != e.Tag {
				continue
			}
			n++
			if sib == e {
				pos = n
			}
		}
		part := e.Tag
		if e.Parent().Parent() != nil {
			part += "[" + strconv.Itoa(pos) + "]"
		}
		parts = append(parts, part)
	}
	slices.Reverse(parts)
	return "/" + strings.Join(parts, "/")
}
