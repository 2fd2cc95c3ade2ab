package rbast

import "iter"

// NodeKind classifies the type of an AST node.
type NodeKind uint16

// Node kinds. Names follow the s-expression vocabulary used by pattern strings.
const (
	NodeProgram NodeKind = iota

	// Definitions.
	NodeClass
	NodeModule
	NodeSClass
	NodeDef
	NodeDefs

	// Calls and blocks.
	NodeSend
	NodeBlock
	NodeArgs

	// Leaves.
	NodeSym
	NodeStr
	NodeConst
	NodeLvar
	NodeSelf

	// Fallback for grammar constructs no rule inspects.
	NodeOther
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [...]string{
	NodeProgram: "program",
	NodeClass:   "class",
	NodeModule:  "module",
	NodeSClass:  "sclass",
	NodeDef:     "def",
	NodeDefs:    "defs",
	NodeSend:    "send",
	NodeBlock:   "block",
	NodeArgs:    "args",
	NodeSym:     "sym",
	NodeStr:     "str",
	NodeConst:   "const",
	NodeLvar:    "lvar",
	NodeSelf:    "self",
	NodeOther:   "other",
}

// String returns the s-expression name of the kind.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindByName returns the kind with the given s-expression name.
func KindByName(name string) (NodeKind, bool) {
	for kind, kindName := range kindNames {
		if kindName == name {
			return NodeKind(kind), true
		}
	}
	return 0, false
}

// Node represents a single node in the Ruby AST.
//
// The tree is owned top-down: a node owns its Children. Parent is a
// non-owning back pointer. Role pointers (Receiver, Params, NameNode,
// Superclass) always refer to members of Children.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Name holds the kind-specific atom: method name for send/def/defs,
	// symbol value for sym, constant path for const, identifier for lvar,
	// literal content for str and the raw grammar type for other.
	Name string

	// Start and End are the half-open byte range of the node in File.Content.
	Start int
	End   int

	// Tree structure.
	Parent   *Node
	Children []*Node

	// Role pointers into Children.
	Receiver   *Node // send, defs, sclass
	Params     *Node // block, def, defs
	NameNode   *Node // class, module
	Superclass *Node // class

	// File is a back-reference to the containing FileSnapshot.
	File *FileSnapshot

	// index is the position of this node in Parent.Children.
	index int
}

// NewNode creates a detached node of the given kind.
func NewNode(kind NodeKind, name string, start, end int) *Node {
	return &Node{Kind: kind, Name: name, Start: start, End: end, index: -1}
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	child.index = len(n.Children)
	n.Children = append(n.Children, child)
}

// Is reports whether the node has one of the given kinds.
func (n *Node) Is(kinds ...NodeKind) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// Range returns the byte range of the node.
func (n *Node) Range() SourceRange {
	return SourceRange{StartOffset: n.Start, EndOffset: n.End}
}

// Text returns the source text covered by the node.
func (n *Node) Text() string {
	if n.File == nil || n.Start < 0 || n.End > len(n.File.Content) || n.Start > n.End {
		return ""
	}
	return string(n.File.Content[n.Start:n.End])
}

// Call returns the call head of a block node, or nil for other kinds.
func (n *Node) Call() *Node {
	if n.Kind != NodeBlock || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// Args returns the arguments of a send node.
func (n *Node) Args() []*Node {
	if n.Kind != NodeSend {
		return nil
	}
	return n.withoutRoles()
}

// Body returns the statements of a block, definition or program node:
// the children that are neither role children nor a block's call head.
func (n *Node) Body() []*Node {
	switch n.Kind {
	case NodeProgram, NodeClass, NodeModule, NodeSClass, NodeDef, NodeDefs, NodeBlock:
		return n.withoutRoles()
	default:
		return nil
	}
}

func (n *Node) withoutRoles() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for i, child := range n.Children {
		if n.Kind == NodeBlock && i == 0 {
			continue
		}
		if child == n.Receiver || child == n.Params || child == n.NameNode || child == n.Superclass {
			continue
		}
		out = append(out, child)
	}
	return out
}

// PrevSibling returns the previous sibling, or nil.
func (n *Node) PrevSibling() *Node {
	if n.Parent == nil || n.index <= 0 {
		return nil
	}
	return n.Parent.Children[n.index-1]
}

// NextSibling returns the next sibling, or nil.
func (n *Node) NextSibling() *Node {
	if n.Parent == nil || n.index < 0 || n.index+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[n.index+1]
}

// Ancestors yields the parent chain, nearest first.
func (n *Node) Ancestors() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for p := n.Parent; p != nil; p = p.Parent {
			if !yield(p) {
				return
			}
		}
	}
}

// Descendants yields all nodes below n in pre-order, excluding n itself.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var visit func(*Node) bool
		visit = func(cur *Node) bool {
			for _, child := range cur.Children {
				if !yield(child) || !visit(child) {
					return false
				}
			}
			return true
		}
		visit(n)
	}
}

// Enclosing returns the nearest ancestor of one of the given kinds, or nil.
func (n *Node) Enclosing(kinds ...NodeKind) *Node {
	for p := range n.Ancestors() {
		if p.Is(kinds...) {
			return p
		}
	}
	return nil
}
