// Package pattern matches declarative tree-shape patterns against rbast nodes.
//
// A Pattern is immutable data. Matching is a pure, depth-first, positional
// comparison of the shape the pattern declares: it never searches below the
// declared shape and never tries alternative child orderings.
//
// Every node is compared through its slot view, an s-expression style list
// of operands:
//
//	send   [receiver|nil :method args...]
//	block  [call params|nil body...]
//	def    [:name params|nil body...]
//	defs   [receiver :name params|nil body...]
//	class  [name superclass|nil body...]
//	module [name body...]
//	sclass [receiver body...]
//	sym, str, lvar, const  [:value]
//	others [children...]
package pattern

import (
	"maps"
	"strconv"
	"strings"

	"github.com/yaklabco/gorblint/pkg/rbast"
)

// Captures maps capture names to the matched subtrees.
type Captures map[string]*rbast.Node

// Pattern describes an expected node shape.
type Pattern interface {
	// String renders the pattern in its textual form.
	String() string

	match(s slot, caps Captures) bool
}

// Match tests node against p. On success it returns the captures (an empty,
// non-nil map when the pattern declares none) and true. On failure it
// returns nil and false.
func Match(p Pattern, node *rbast.Node) (Captures, bool) {
	if p == nil || node == nil {
		return nil, false
	}
	caps := Captures{}
	if !p.match(slot{node: node}, caps) {
		return nil, false
	}
	return caps, true
}

// Matches reports whether node matches p, discarding captures.
func Matches(p Pattern, node *rbast.Node) bool {
	_, ok := Match(p, node)
	return ok
}

// slot is one operand of a node's slot view: a child node, an atom, or
// an absent optional child (neither set).
type slot struct {
	node   *rbast.Node
	atom   string
	isAtom bool
}

func (s slot) isNil() bool {
	return s.node == nil && !s.isAtom
}

func nodeSlot(n *rbast.Node) slot {
	return slot{node: n}
}

func atomSlot(value string) slot {
	return slot{atom: value, isAtom: true}
}

// slotsOf returns the slot view of n.
func slotsOf(n *rbast.Node) []slot {
	var out []slot
	appendNodes := func(nodes []*rbast.Node) {
		for _, child := range nodes {
			out = append(out, nodeSlot(child))
		}
	}

	switch n.Kind {
	case rbast.NodeSend:
		out = append(out, nodeSlot(n.Receiver), atomSlot(n.Name))
		appendNodes(n.Args())
	case rbast.NodeBlock:
		out = append(out, nodeSlot(n.Call()), nodeSlot(n.Params))
		appendNodes(n.Body())
	case rbast.NodeDef:
		out = append(out, atomSlot(n.Name), nodeSlot(n.Params))
		appendNodes(n.Body())
	case rbast.NodeDefs:
		out = append(out, nodeSlot(n.Receiver), atomSlot(n.Name), nodeSlot(n.Params))
		appendNodes(n.Body())
	case rbast.NodeClass:
		out = append(out, nodeSlot(n.NameNode), nodeSlot(n.Superclass))
		appendNodes(n.Body())
	case rbast.NodeModule:
		out = append(out, nodeSlot(n.NameNode))
		appendNodes(n.Body())
	case rbast.NodeSClass:
		out = append(out, nodeSlot(n.Receiver))
		appendNodes(n.Body())
	case rbast.NodeSym, rbast.NodeStr, rbast.NodeLvar, rbast.NodeConst:
		out = append(out, atomSlot(n.Name))
	default:
		appendNodes(n.Children)
	}

	return out
}

// Node matches a node of the given kind whose slots match slots positionally.
// The slot count must match exactly unless the last slot pattern is Rest.
func Node(kind rbast.NodeKind, slots ...Pattern) Pattern {
	return &nodePattern{kind: kind, slots: slots}
}

// Kind matches any node of the given kind, regardless of its slots.
func Kind(kind rbast.NodeKind) Pattern {
	return &nodePattern{kind: kind, slots: []Pattern{Rest()}}
}

// Any matches any single slot, including an absent one.
func Any() Pattern {
	return anyPattern{}
}

// Rest matches all remaining slots of the enclosing node. It is only
// meaningful as the last slot pattern of Node.
func Rest() Pattern {
	return restPattern{}
}

// Nil matches an absent optional slot.
func Nil() Pattern {
	return nilPattern{}
}

// Atom matches an atom slot equal to value.
func Atom(value string) Pattern {
	return atomPattern{value: value}
}

// Capture matches inner and records the matched node under name.
// A nil inner matches anything.
func Capture(name string, inner Pattern) Pattern {
	if inner == nil {
		inner = Any()
	}
	return &capturePattern{name: name, inner: inner}
}

// Union matches if any alternative matches, trying them left to right.
func Union(alts ...Pattern) Pattern {
	return &unionPattern{alts: alts}
}

// Predicate matches a node slot for which fn returns true.
func Predicate(name string, fn func(*rbast.Node) bool) Pattern {
	return &predicatePattern{name: name, fn: fn}
}

type nodePattern struct {
	kind  rbast.NodeKind
	slots []Pattern
}

func (p *nodePattern) match(s slot, caps Captures) bool {
	if s.node == nil || s.node.Kind != p.kind {
		return false
	}
	return matchSlots(p.slots, slotsOf(s.node), caps)
}

func (p *nodePattern) String() string {
	if len(p.slots) == 1 {
		if _, ok := p.slots[0].(restPattern); ok {
			return p.kind.String()
		}
	}
	parts := make([]string, 0, len(p.slots)+1)
	parts = append(parts, p.kind.String())
	for _, sp := range p.slots {
		parts = append(parts, sp.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func matchSlots(patterns []Pattern, slots []slot, caps Captures) bool {
	idx := 0
	for pi, sp := range patterns {
		if _, ok := sp.(restPattern); ok && pi == len(patterns)-1 {
			return true
		}
		if idx >= len(slots) {
			return false
		}
		if !sp.match(slots[idx], caps) {
			return false
		}
		idx++
	}
	return idx == len(slots)
}

type anyPattern struct{}

func (anyPattern) match(slot, Captures) bool { return true }
func (anyPattern) String() string            { return "_" }

type restPattern struct{}

func (restPattern) match(slot, Captures) bool { return true }
func (restPattern) String() string            { return "..." }

type nilPattern struct{}

func (nilPattern) match(s slot, _ Captures) bool { return s.isNil() }
func (nilPattern) String() string                { return "nil" }

type atomPattern struct {
	value string
}

func (p atomPattern) match(s slot, _ Captures) bool {
	return s.isAtom && s.atom == p.value
}

func (p atomPattern) String() string {
	if isAtomWord(p.value) {
		return ":" + p.value
	}
	return strconv.Quote(p.value)
}

type capturePattern struct {
	name  string
	inner Pattern
}

func (p *capturePattern) match(s slot, caps Captures) bool {
	if s.node == nil {
		return false
	}
	if !p.inner.match(s, caps) {
		return false
	}
	caps[p.name] = s.node
	return true
}

func (p *capturePattern) String() string {
	if _, ok := p.inner.(anyPattern); ok {
		return "$" + p.name
	}
	return "$" + p.name + "=" + p.inner.String()
}

type unionPattern struct {
	alts []Pattern
}

func (p *unionPattern) match(s slot, caps Captures) bool {
	for _, alt := range p.alts {
		trial := maps.Clone(caps)
		if alt.match(s, trial) {
			maps.Copy(caps, trial)
			return true
		}
	}
	return false
}

func (p *unionPattern) String() string {
	parts := make([]string, 0, len(p.alts))
	for _, alt := range p.alts {
		parts = append(parts, alt.String())
	}
	return "{" + strings.Join(parts, " ") + "}"
}

type predicatePattern struct {
	name string
	fn   func(*rbast.Node) bool
}

func (p *predicatePattern) match(s slot, _ Captures) bool {
	return s.node != nil && p.fn(s.node)
}

func (p *predicatePattern) String() string {
	return "#" + p.name
}
