// Package vkxml models the Vulkan API description: alias chains between
// names, device limit metadata, and struct layouts, plus the name
// normalizer built on them.
package vkxml

import (
	"fmt"
	"iter"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/beevik/etree"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
	"github.com/linyaa-kiwi/vk-tower/internal/log"
)

// LimitKey identifies a limit by its owning struct and member. Neither
// name may contain "." since the porcelain form joins them with one.
type LimitKey struct {
	Struct string
	Member string
}

func newLimitKey(structName, member string) (LimitKey, error) {
	if strings.Contains(structName, ".") {
		return LimitKey{}, fmt.Errorf("bad struct name %q", structName)
	}
	if strings.Contains(member, ".") {
		return LimitKey{}, fmt.Errorf("bad member name %q", member)
	}
	return LimitKey{Struct: structName, Member: member}, nil
}

func (k LimitKey) String() string {
	return k.Struct + "." + k.Member
}

// Limit is one struct member's limit metadata.
type Limit struct {
	Struct     string
	Member     string
	Type       string
	LimitTypes []LimitType
}

func (l Limit) Key() LimitKey {
	return LimitKey{Struct: l.Struct, Member: l.Member}
}

// Porcelain returns the serializable description of the limit.
func (l Limit) Porcelain() *jsontree.Object {
	types := make([]jsontree.Value, len(l.LimitTypes))
	for i, t := range l.LimitTypes {
		types[i] = string(t)
	}
	obj := jsontree.NewObject()
	obj.Set("struct", l.Struct)
	obj.Set("member", l.Member)
	obj.Set("type", l.Type)
	obj.Set("limit_types", types)
	return obj
}

// Layout is a struct's member list in declaration order, mapping member
// name to base type text.
type Layout struct {
	name    string
	members *orderedmap.OrderedMap[string, string]
}

func (l *Layout) Name() string {
	return l.name
}

func (l *Layout) Member(name string) (string, bool) {
	return l.members.Get(name)
}

func (l *Layout) Has(name string) bool {
	_, ok := l.members.Get(name)
	return ok
}

func (l *Layout) Len() int {
	return l.members.Len()
}

// Members iterates the layout in declaration order.
func (l *Layout) Members() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for pair := l.members.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Model accumulates API description data. Data from multiple XML documents
// can share one model: normally just vk.xml, but video.xml or custom
// documents can be added on top.
type Model struct {
	aliases map[string]string
	limits  map[LimitKey]Limit
	layouts map[string]*Layout
}

func NewModel() *Model {
	return &Model{
		aliases: make(map[string]string),
		limits:  make(map[LimitKey]Limit),
		layouts: make(map[string]*Layout),
	}
}

// AddFile reads one XML document and adds it to the model.
func (m *Model) AddFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read registry xml: %w", err)
	}
	return m.AddDocument(data, path)
}

// AddDocument parses one XML document and folds its aliases, limits and
// struct layouts into the model. The root element must be <registry>.
func (m *Model) AddDocument(data []byte, origin string) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("failed to parse registry xml %q: %w", origin, err)
	}
	root := doc.Root()
	if root == nil {
		return &ValidationError{Code: ErrRootTag, Origin: origin,
			Message: "document has no root element"}
	}
	if root.Tag != "registry" {
		return &ValidationError{Code: ErrRootTag, Origin: origin,
			Message: fmt.Sprintf("root element has tag %q, expected %q", root.Tag, "registry")}
	}

	aliases := 0
	for _, e := range elementsInDocOrder(root) {
		if name, alias, ok := aliasAttrs(e); ok {
			m.aliases[name] = alias
			aliases++
		}
		switch {
		case e.Tag == "member" && e.SelectAttr("limittype") != nil:
			if err := m.addLimit(e, origin); err != nil {
				return err
			}
		case e.Tag == "type" && e.SelectAttrValue("category", "") == "struct" && e.SelectAttr("alias") == nil:
			if err := m.addLayout(e, origin); err != nil {
				return err
			}
		}
	}

	log.Debug(log.CatXML, "xml document added", "origin", origin,
		"aliases", aliases, "limits", len(m.limits), "structs", len(m.layouts))
	return nil
}

// Alias returns the replacement recorded for a name.
func (m *Model) Alias(name string) (string, bool) {
	alias, ok := m.aliases[name]
	return alias, ok
}

// Limit returns the limit metadata recorded for a struct member.
func (m *Model) Limit(structName, member string) (Limit, bool) {
	l, ok := m.limits[LimitKey{Struct: structName, Member: member}]
	return l, ok
}

// Layout returns the named struct's layout.
func (m *Model) Layout(name string) (*Layout, bool) {
	l, ok := m.layouts[name]
	return l, ok
}

// addLimit records the limit declared by a member element carrying a
// limittype attribute. Only struct-categorized type elements may own such
// members.
func (m *Model) addLimit(member *etree.Element, origin string) error {
	parent := member.Parent()
	if parent == nil || parent.Tag != "type" || parent.SelectAttrValue("category", "") != "struct" {
		ref := elementRef(member)
		if parent != nil {
			ref = elementRef(parent)
		}
		return &ValidationError{Code: ErrNotStruct, Origin: origin, Element: ref,
			Message: "only struct types may declare members with limittype"}
	}

	structName := parent.SelectAttrValue("name", "")
	if structName == "" {
		return &ValidationError{Code: ErrMissingName, Origin: origin, Element: elementRef(parent),
			Message: "struct <type> must have a name attribute"}
	}

	baseType, memberName, err := memberTypeAndName(member)
	if err != nil {
		return &ValidationError{Code: ErrMemberShape, Origin: origin, Element: elementRef(parent),
			Message: err.Error()}
	}

	limitTypes, err := ParseLimitTypes(member.SelectAttrValue("limittype", ""))
	if err != nil {
		return &ValidationError{Code: ErrLimitTypeVocab, Origin: origin, Element: elementRef(parent),
			Message: err.Error()}
	}

	key, err := newLimitKey(structName, memberName)
	if err != nil {
		return &ValidationError{Code: ErrInvalidName, Origin: origin, Element: elementRef(parent),
			Message: err.Error()}
	}

	m.limits[key] = Limit{
		Struct:     structName,
		Member:     memberName,
		Type:       baseType,
		LimitTypes: limitTypes,
	}
	return nil
}

// addLayout records a struct's ordered member layout. A redefinition
// replaces the previous layout with a warning.
func (m *Model) addLayout(typeElem *etree.Element, origin string) error {
	name := typeElem.SelectAttrValue("name", "")
	if name == "" {
		return &ValidationError{Code: ErrMissingName, Origin: origin, Element: elementRef(typeElem),
			Message: "struct <type> must have a name attribute"}
	}

	layout := &Layout{name: name, members: orderedmap.New[string, string]()}
	for _, child := range typeElem.ChildElements() {
		if child.Tag != "member" {
			continue
		}
		baseType, memberName, err := memberTypeAndName(child)
		if err != nil {
			return &ValidationError{Code: ErrMemberShape, Origin: origin, Element: elementRef(typeElem),
				Message: err.Error()}
		}
		layout.members.Set(memberName, baseType)
	}

	if prior, exists := m.layouts[name]; exists {
		log.Warn(log.CatXML, "struct layout redefined", "struct", name,
			"origin", origin, "prior_members", prior.Len(), "members", layout.Len())
	}
	m.layouts[name] = layout
	return nil
}

// PorcelainTree returns the serializable view of the model, sorted for
// stable output.
func (m *Model) PorcelainTree() *jsontree.Object {
	aliases := jsontree.NewObject()
	for _, name := range slices.Sorted(maps.Keys(m.aliases)) {
		aliases.Set(name, m.aliases[name])
	}

	limits := jsontree.NewObject()
	keys := slices.Collect(maps.Keys(m.limits))
	slices.SortFunc(keys, func(a, b LimitKey) int {
		return strings.Compare(a.String(), b.String())
	})
	for _, k := range keys {
		limits.Set(k.String(), m.limits[k].Porcelain())
	}

	structs := jsontree.NewObject()
	for _, name := range slices.Sorted(maps.Keys(m.layouts)) {
		members := jsontree.NewObject()
		for member, baseType := range m.layouts[name].Members() {
			members.Set(member, baseType)
		}
		structs.Set(name, members)
	}

	obj := jsontree.NewObject()
	obj.Set("aliases", aliases)
	obj.Set("limits", limits)
	obj.Set("structs", structs)
	return obj
}

// memberTypeAndName extracts a member's declared base type and name from
// its first two child elements.
func memberTypeAndName(member *etree.Element) (baseType, name string, err error) {
	children := member.ChildElements()
	if len(children) < 2 || children[0].Tag != "type" || children[1].Tag != "name" {
		return "", "", fmt.Errorf("member's first two children must be <type> then <name>")
	}
	return strings.TrimSpace(children[0].Text()), strings.TrimSpace(children[1].Text()), nil
}

// aliasAttrs reports an element's name and alias attributes when both are
// present. The alias names the replacement for the element's name.
func aliasAttrs(e *etree.Element) (name, alias string, ok bool) {
	name = e.SelectAttrValue("name", "")
	alias = e.SelectAttrValue("alias", "")
	if name == "" || alias == "" {
		return "", "", false
	}
	return name, alias, true
}

// elementsInDocOrder flattens the element tree in document order using an
// explicit stack.
func elementsInDocOrder(root *etree.Element) []*etree.Element {
	var out []*etree.Element
	stack := []*etree.Element{root}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, e)
		children := e.ChildElements()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}

// elementRef renders a compact reference to an element for error messages.
func elementRef(e *etree.Element) string {
	if name := e.SelectAttrValue("name", ""); name != "" {
		return fmt.Sprintf("<%s name=%q>", e.Tag, name)
	}
	return fmt.Sprintf("<%s>", e.Tag)
}
