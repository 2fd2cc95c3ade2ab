package treesitter

import (
	"strings"

	"fortio.org/safecast"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/yaklabco/gorblint/pkg/rbast"
)

// Grammar node types consumed by the mapper.
const (
	tsProgram          = "program"
	tsClass            = "class"
	tsModule           = "module"
	tsSingletonClass   = "singleton_class"
	tsMethod           = "method"
	tsSingletonMethod  = "singleton_method"
	tsCall             = "call"
	tsDoBlock          = "do_block"
	tsBraceBlock       = "block"
	tsBodyStatement    = "body_statement"
	tsBlockBody        = "block_body"
	tsArgumentList     = "argument_list"
	tsSuperclass       = "superclass"
	tsMethodParameters = "method_parameters"
	tsBlockParameters  = "block_parameters"
	tsLambdaParameters = "lambda_parameters"
	tsIdentifier       = "identifier"
	tsConstant         = "constant"
	tsScopeResolution  = "scope_resolution"
	tsSelf             = "self"
	tsSimpleSymbol     = "simple_symbol"
	tsDelimitedSymbol  = "delimited_symbol"
	tsHashKeySymbol    = "hash_key_symbol"
	tsString           = "string"
	tsComment          = "comment"
)

// mapper converts tree-sitter nodes into rbast nodes.
//
// The resulting shapes follow the s-expression conventions documented on
// rbast.Node: calls with a block become a block node whose first child is
// the send, body_statement wrappers are flattened into their owner, and
// comments are dropped.
type mapper struct {
	content []byte
}

// program maps the root node. The program always spans the whole content.
func (m *mapper) program(ts sitter.Node) *rbast.Node {
	node := rbast.NewNode(rbast.NodeProgram, "", 0, len(m.content))
	m.appendStatements(node, ts)
	return node
}

// appendStatements maps the named children of ts as statements of owner,
// flattening body wrappers.
func (m *mapper) appendStatements(owner *rbast.Node, ts sitter.Node) {
	for idx := range ts.NamedChildCount() {
		m.appendStatement(owner, ts.NamedChild(idx))
	}
}

func (m *mapper) appendStatement(owner *rbast.Node, child sitter.Node) {
	if child.IsNull() {
		return
	}
	switch child.Type() {
	case tsComment:
		return
	case tsBodyStatement, tsBlockBody:
		m.appendStatements(owner, child)
		return
	}
	if mapped := m.node(child, true); mapped != nil {
		owner.AppendChild(mapped)
	}
}

// node maps a single tree-sitter node. stmt reports whether the node sits
// in statement position, where a bare identifier is a receiverless call.
func (m *mapper) node(ts sitter.Node, stmt bool) *rbast.Node {
	switch ts.Type() {
	case tsComment:
		return nil
	case tsClass:
		return m.class(ts)
	case tsModule:
		return m.module(ts)
	case tsSingletonClass:
		return m.singletonClass(ts)
	case tsMethod:
		return m.method(ts)
	case tsSingletonMethod:
		return m.singletonMethod(ts)
	case tsCall:
		return m.call(ts)
	case tsIdentifier:
		if stmt {
			return m.leaf(ts, rbast.NodeSend, m.text(ts))
		}
		return m.leaf(ts, rbast.NodeLvar, m.text(ts))
	case tsConstant, tsScopeResolution:
		return m.leaf(ts, rbast.NodeConst, strings.TrimPrefix(m.text(ts), "::"))
	case tsSelf:
		return m.leaf(ts, rbast.NodeSelf, "self")
	case tsSimpleSymbol:
		return m.leaf(ts, rbast.NodeSym, strings.TrimPrefix(m.text(ts), ":"))
	case tsDelimitedSymbol:
		return m.leaf(ts, rbast.NodeSym, unquote(strings.TrimPrefix(m.text(ts), ":")))
	case tsHashKeySymbol:
		return m.leaf(ts, rbast.NodeSym, m.text(ts))
	case tsString:
		return m.leaf(ts, rbast.NodeStr, unquote(m.text(ts)))
	case tsMethodParameters, tsBlockParameters, tsLambdaParameters:
		return m.generic(ts, rbast.NodeArgs, "")
	default:
		return m.generic(ts, rbast.NodeOther, ts.Type())
	}
}

func (m *mapper) class(ts sitter.Node) *rbast.Node {
	node := m.empty(ts, rbast.NodeClass, "")
	for idx := range ts.NamedChildCount() {
		child := ts.NamedChild(idx)
		switch {
		case idx == 0:
			if name := m.node(child, false); name != nil {
				node.AppendChild(name)
				node.NameNode = name
				node.Name = name.Name
			}
		case child.Type() == tsSuperclass:
			if child.NamedChildCount() == 0 {
				continue
			}
			if super := m.node(child.NamedChild(0), false); super != nil {
				node.AppendChild(super)
				node.Superclass = super
			}
		default:
			m.appendStatement(node, child)
		}
	}
	return node
}

func (m *mapper) module(ts sitter.Node) *rbast.Node {
	node := m.empty(ts, rbast.NodeModule, "")
	for idx := range ts.NamedChildCount() {
		child := ts.NamedChild(idx)
		if idx == 0 {
			if name := m.node(child, false); name != nil {
				node.AppendChild(name)
				node.NameNode = name
				node.Name = name.Name
			}
			continue
		}
		m.appendStatement(node, child)
	}
	return node
}

func (m *mapper) singletonClass(ts sitter.Node) *rbast.Node {
	node := m.empty(ts, rbast.NodeSClass, "")
	for idx := range ts.NamedChildCount() {
		child := ts.NamedChild(idx)
		if idx == 0 {
			if recv := m.node(child, false); recv != nil {
				node.AppendChild(recv)
				node.Receiver = recv
			}
			continue
		}
		m.appendStatement(node, child)
	}
	return node
}

func (m *mapper) method(ts sitter.Node) *rbast.Node {
	node := m.empty(ts, rbast.NodeDef, m.fieldText(ts, "name"))
	for idx := range ts.NamedChildCount() {
		child := ts.NamedChild(idx)
		switch {
		case idx == 0:
			// Method name.
		case child.Type() == tsMethodParameters:
			params := m.node(child, false)
			node.AppendChild(params)
			node.Params = params
		default:
			m.appendStatement(node, child)
		}
	}
	return node
}

func (m *mapper) singletonMethod(ts sitter.Node) *rbast.Node {
	node := m.empty(ts, rbast.NodeDefs, m.fieldText(ts, "name"))
	for idx := range ts.NamedChildCount() {
		child := ts.NamedChild(idx)
		switch {
		case idx == 0:
			if recv := m.node(child, false); recv != nil {
				node.AppendChild(recv)
				node.Receiver = recv
			}
		case idx == 1:
			// Method name.
		case child.Type() == tsMethodParameters:
			params := m.node(child, false)
			node.AppendChild(params)
			node.Params = params
		default:
			m.appendStatement(node, child)
		}
	}
	return node
}

// call maps a call. A call carrying a block becomes a block node whose
// first child is the send covering the call head only.
func (m *mapper) call(ts sitter.Node) *rbast.Node {
	receiver := ts.ChildByFieldName("receiver")
	method := ts.ChildByFieldName("method")
	arguments := ts.ChildByFieldName("arguments")
	block := ts.ChildByFieldName("block")

	name := "call"
	if !method.IsNull() {
		name = m.text(method)
	}

	start, end := byteRange(ts)
	headEnd := end
	if !block.IsNull() {
		headEnd = start
		for _, part := range []sitter.Node{receiver, method, arguments} {
			if part.IsNull() {
				continue
			}
			if _, partEnd := byteRange(part); partEnd > headEnd {
				headEnd = partEnd
			}
		}
	}

	send := rbast.NewNode(rbast.NodeSend, name, start, headEnd)
	if !receiver.IsNull() {
		if recv := m.node(receiver, false); recv != nil {
			send.AppendChild(recv)
			send.Receiver = recv
		}
	}
	if !arguments.IsNull() {
		if arguments.Type() == tsArgumentList {
			for idx := range arguments.NamedChildCount() {
				if arg := m.node(arguments.NamedChild(idx), false); arg != nil {
					send.AppendChild(arg)
				}
			}
		} else if arg := m.node(arguments, false); arg != nil {
			send.AppendChild(arg)
		}
	}

	if block.IsNull() {
		return send
	}

	node := rbast.NewNode(rbast.NodeBlock, name, start, end)
	node.AppendChild(send)
	for idx := range block.NamedChildCount() {
		child := block.NamedChild(idx)
		if child.Type() == tsBlockParameters {
			params := m.node(child, false)
			node.AppendChild(params)
			node.Params = params
			continue
		}
		m.appendStatement(node, child)
	}
	return node
}

// generic maps ts with all named children mapped in order.
func (m *mapper) generic(ts sitter.Node, kind rbast.NodeKind, name string) *rbast.Node {
	node := m.empty(ts, kind, name)
	for idx := range ts.NamedChildCount() {
		child := ts.NamedChild(idx)
		if child.Type() == tsBodyStatement || child.Type() == tsBlockBody {
			m.appendStatements(node, child)
			continue
		}
		if mapped := m.node(child, false); mapped != nil {
			node.AppendChild(mapped)
		}
	}
	return node
}

func (m *mapper) leaf(ts sitter.Node, kind rbast.NodeKind, name string) *rbast.Node {
	return m.empty(ts, kind, name)
}

func (m *mapper) empty(ts sitter.Node, kind rbast.NodeKind, name string) *rbast.Node {
	start, end := byteRange(ts)
	return rbast.NewNode(kind, name, start, end)
}

func (m *mapper) fieldText(ts sitter.Node, field string) string {
	child := ts.ChildByFieldName(field)
	if child.IsNull() {
		return ""
	}
	return m.text(child)
}

func (m *mapper) text(ts sitter.Node) string {
	start, end := byteRange(ts)
	if start > end || end > len(m.content) {
		return ""
	}
	return string(m.content[start:end])
}

// byteRange returns the byte offsets of ts as ints.
func byteRange(ts sitter.Node) (int, int) {
	start, err := safecast.Conv[int](ts.StartByte())
	if err != nil {
		return 0, 0
	}
	end, err := safecast.Conv[int](ts.EndByte())
	if err != nil {
		return start, start
	}
	return start, end
}

// unquote strips one pair of matching quote characters.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' || first == '\'') && last == first {
		return s[1 : len(s)-1]
	}
	return s
}
