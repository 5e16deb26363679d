package render

import (
	"fmt"
	"html/template"
	"strings"
)

// Fragment is an opaque piece of markup. Consumers attach it to the
// client-side tree but never inspect it.
type Fragment string

// Join concatenates fragments into one.
func Join(frags ...Fragment) Fragment {
	var b strings.Builder
	for _, f := range frags {
		b.WriteString(string(f))
	}
	return Fragment(b.String())
}

// Element id helpers. These addresses are the shared vocabulary between
// produced fragments and the deltas that later update them in place.

// ElementID returns the id of a span's outer element.
func ElementID(spanID string) string { return "span-" + spanID }

// HeaderID returns the id of a span's header element.
func HeaderID(spanID string) string { return "span-header-" + spanID }

// BodyID returns the id of a span's attribute body element.
func BodyID(spanID string) string { return "span-body-" + spanID }

// StatusID returns the id of a span's status element.
func StatusID(spanID string) string { return "span-status-" + spanID }

// ChildrenID returns the id of the container holding a span's children.
func ChildrenID(spanID string) string { return "span-children-" + spanID }

// AppendTo wraps a fragment in an out-of-band swap that appends it to
// the element with the given id.
func AppendTo(targetID string, f Fragment) Fragment {
	return Fragment(fmt.Sprintf(`<div hx-swap-oob="beforeend" id=%q>%s</div>`, targetID, f))
}

// ReplaceIn wraps a fragment in an out-of-band swap that replaces the
// contents of the element with the given id.
func ReplaceIn(targetID string, f Fragment) Fragment {
	return Fragment(fmt.Sprintf(`<div hx-swap-oob="innerHTML" id=%q>%s</div>`, targetID, f))
}

func escape(s string) string {
	return template.HTMLEscapeString(s)
}
