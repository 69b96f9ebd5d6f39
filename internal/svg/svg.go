// Package svg builds small SVG documents from validated elements.
package svg

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
)

// Namespace is the SVG XML namespace.
const Namespace = "http://www.w3.org/2000/svg"

var ErrInvalidTag = errors.New("svg: invalid element tag")

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// Attr is a single attribute. Value may be a string, a number or a
// fmt.Stringer; nil values are dropped with a warning.
type Attr struct {
	Key   string
	Value any
}

func A(key string, value any) Attr { return Attr{Key: key, Value: value} }

type attr struct {
	key, value string
}

// Element is one SVG node. Text is written escaped after the attributes and
// before the children.
type Element struct {
	Tag      string
	Text     string
	attrs    []attr
	children []*Element
}

// Builder creates elements and reports malformed attributes to its logger.
type Builder struct {
	logger *log.Logger
}

// NewBuilder returns a builder logging to logger, or discarding warnings if logger is nil.
func NewBuilder(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Builder{logger: logger}
}

// New validates tag and attaches every well-formed attribute, in order.
func (b *Builder) New(tag string, attrs ...Attr) (*Element, error) {
	if !validName(tag) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	el := &Element{Tag: tag, attrs: make([]attr, 0, len(attrs))}
	for _, a := range attrs {
		value, ok := format(a.Value)
		if !validName(a.Key) || !ok {
			b.logger.Printf("Invalid attribute: %s=%v", a.Key, a.Value)
			continue
		}
		el.attrs = append(el.attrs, attr{key: a.Key, value: value})
	}
	return el, nil
}

// MustNew is New for static markup whose tags are known to be valid.
func (b *Builder) MustNew(tag string, attrs ...Attr) *Element {
	el, err := b.New(tag, attrs...)
	if err != nil {
		panic(err)
	}
	return el
}

func format(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case fmt.Stringer:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}

// validName accepts XML names made of letters, digits and "-_.:".
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// Append adds children in order and returns el.
func (el *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			el.children = append(el.children, c)
		}
	}
	return el
}

// Attr returns the value of key and whether it is set.
func (el *Element) Attr(key string) (string, bool) {
	for _, a := range el.attrs {
		if a.key == key {
			return a.value, true
		}
	}
	return "", false
}

func (el *Element) Children() []*Element { return el.children }

// Find returns the first descendant (or el itself) with the given id.
func (el *Element) Find(id string) *Element {
	if v, ok := el.Attr("id"); ok && v == id {
		return el
	}
	for _, c := range el.children {
		if f := c.Find(id); f != nil {
			return f
		}
	}
	return nil
}

// Count returns how many elements in the subtree have the given tag.
func (el *Element) Count(tag string) int {
	n := 0
	if el.Tag == tag {
		n++
	}
	for _, c := range el.children {
		n += c.Count(tag)
	}
	return n
}

// WriteTo writes the element tree as indented markup.
func (el *Element) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	el.write(&sb, 0)
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

func (el *Element) String() string {
	var sb strings.Builder
	el.write(&sb, 0)
	return sb.String()
}

func (el *Element) write(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteByte('<')
	sb.WriteString(el.Tag)
	for _, a := range el.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.key)
		sb.WriteString(`="`)
		sb.WriteString(escaper.Replace(a.value))
		sb.WriteByte('"')
	}
	if el.Text == "" && len(el.children) == 0 {
		sb.WriteString("/>\n")
		return
	}
	sb.WriteByte('>')
	if el.Text != "" {
		sb.WriteString(escaper.Replace(el.Text))
	}
	if len(el.children) > 0 {
		sb.WriteByte('\n')
		for _, c := range el.children {
			c.write(sb, depth+1)
		}
		sb.WriteString(indent)
	}
	sb.WriteString("</")
	sb.WriteString(el.Tag)
	sb.WriteString(">\n")
}
