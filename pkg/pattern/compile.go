package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gorblint/pkg/rbast"
)

// SyntaxError reports a malformed pattern string.
type SyntaxError struct {
	// Source is the pattern being compiled.
	Source string

	// Offset is the byte offset of the offending token.
	Offset int

	// Msg describes the problem.
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern syntax error at offset %d: %s (in %q)", e.Offset, e.Msg, e.Source)
}

// Option configures Compile.
type Option func(*compiler)

// WithPredicate makes #name available to the compiled pattern.
func WithPredicate(name string, fn func(*rbast.Node) bool) Option {
	return func(c *compiler) {
		c.predicates[name] = fn
	}
}

// MustCompile is like Compile but panics on error. It is intended for
// package-level pattern variables.
func MustCompile(src string, opts ...Option) Pattern {
	p, err := Compile(src, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Compile parses the textual pattern syntax:
//
//	(kind p...)   node of kind with positional slot patterns
//	kind          node of kind with any slots
//	_             any single slot
//	...           the remaining slots (last position in a node only)
//	nil           an absent optional slot
//	:word "text"  atom slots (method names, symbol values, constants)
//	$name         capture any node
//	$name=p       capture the node matched by p
//	{p1 p2}       union, first matching alternative wins
//	#name         predicate registered with WithPredicate
func Compile(src string, opts ...Option) (Pattern, error) {
	comp := &compiler{
		lex:        lexer{src: src},
		predicates: map[string]func(*rbast.Node) bool{},
		captures:   map[string]bool{},
	}
	for _, opt := range opts {
		opt(comp)
	}

	if err := comp.advance(); err != nil {
		return nil, err
	}
	if comp.tok.kind == tokEOF {
		return nil, comp.errorf("empty pattern")
	}

	pat, err := comp.parse(contextTop)
	if err != nil {
		return nil, err
	}
	if comp.tok.kind != tokEOF {
		return nil, comp.errorf("unexpected %q after pattern", comp.tok.text)
	}

	return pat, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokRest
	tokWord
	tokAtom
	tokCapture
	tokPredicate
)

type token struct {
	kind tokenKind
	text string
	pos  int
	// assign is set on a capture token written as $name=.
	assign bool
}

type lexer struct {
	src string
	pos int
}

func isWordByte(b byte) bool {
	return b == '_' || b == '?' || b == '!' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isAtomByte(b byte) bool {
	return isWordByte(b) || b == '=' || b == ':'
}

// isAtomWord reports whether value can be written as :value.
func isAtomWord(value string) bool {
	if value == "" {
		return false
	}
	for i := range len(value) {
		if !isAtomByte(value[i]) {
			return false
		}
	}
	return true
}

func (l *lexer) scan(pred func(byte) bool) string {
	start := l.pos
	for l.pos < len(l.src) && pred(l.src[l.pos]) {
		l.pos++
	}
	return l.src[start:l.pos]
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && strings.IndexByte(" \t\r\n", l.src[l.pos]) >= 0 {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	switch ch := l.src[l.pos]; {
	case ch == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case ch == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case ch == '{':
		l.pos++
		return token{kind: tokLBrace, text: "{", pos: start}, nil
	case ch == '}':
		l.pos++
		return token{kind: tokRBrace, text: "}", pos: start}, nil
	case strings.HasPrefix(l.src[l.pos:], "..."):
		l.pos += 3
		return token{kind: tokRest, text: "...", pos: start}, nil
	case ch == ':':
		l.pos++
		value := l.scan(isAtomByte)
		if value == "" {
			return token{}, &SyntaxError{Source: l.src, Offset: start, Msg: "empty atom"}
		}
		return token{kind: tokAtom, text: value, pos: start}, nil
	case ch == '"':
		return l.quoted(start)
	case ch == '$':
		l.pos++
		name := l.scan(isWordByte)
		if name == "" {
			return token{}, &SyntaxError{Source: l.src, Offset: start, Msg: "capture needs a name"}
		}
		tok := token{kind: tokCapture, text: name, pos: start}
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			tok.assign = true
		}
		return tok, nil
	case ch == '#':
		l.pos++
		name := l.scan(isWordByte)
		if name == "" {
			return token{}, &SyntaxError{Source: l.src, Offset: start, Msg: "predicate needs a name"}
		}
		return token{kind: tokPredicate, text: name, pos: start}, nil
	case isWordByte(ch):
		return token{kind: tokWord, text: l.scan(isWordByte), pos: start}, nil
	default:
		return token{}, &SyntaxError{Source: l.src, Offset: start, Msg: fmt.Sprintf("unexpected character %q", ch)}
	}
}

func (l *lexer) quoted(start int) (token, error) {
	end := start + 1
	for end < len(l.src) {
		switch l.src[end] {
		case '\\':
			end += 2
			continue
		case '"':
			value, err := strconv.Unquote(l.src[start : end+1])
			if err != nil {
				return token{}, &SyntaxError{Source: l.src, Offset: start, Msg: "invalid string atom"}
			}
			l.pos = end + 1
			return token{kind: tokAtom, text: value, pos: start}, nil
		}
		end++
	}
	return token{}, &SyntaxError{Source: l.src, Offset: start, Msg: "unterminated string atom"}
}

// parseContext tells parse where the pattern appears.
type parseContext int

const (
	contextTop parseContext = iota
	contextSlot
	contextUnion
)

type compiler struct {
	lex        lexer
	tok        token
	predicates map[string]func(*rbast.Node) bool
	captures   map[string]bool
}

func (c *compiler) advance() error {
	tok, err := c.lex.next()
	if err != nil {
		return err
	}
	c.tok = tok
	return nil
}

func (c *compiler) errorf(format string, args ...any) error {
	return &SyntaxError{Source: c.lex.src, Offset: c.tok.pos, Msg: fmt.Sprintf(format, args...)}
}

// parse reads one pattern starting at the current token and leaves the
// token after it current.
func (c *compiler) parse(where parseContext) (Pattern, error) {
	tok := c.tok
	switch tok.kind {
	case tokEOF:
		return nil, c.errorf("unexpected end of pattern")
	case tokLParen:
		return c.parseNode()
	case tokLBrace:
		return c.parseUnion()
	case tokRest:
		if where != contextSlot {
			return nil, c.errorf("... is only allowed inside a node")
		}
		return Rest(), c.advance()
	case tokAtom:
		return Atom(tok.text), c.advance()
	case tokCapture:
		return c.parseCapture()
	case tokPredicate:
		fn, ok := c.predicates[tok.text]
		if !ok {
			return nil, c.errorf("unknown predicate #%s", tok.text)
		}
		return Predicate(tok.text, fn), c.advance()
	case tokWord:
		switch tok.text {
		case "_":
			return Any(), c.advance()
		case "nil":
			return Nil(), c.advance()
		}
		kind, ok := rbast.KindByName(tok.text)
		if !ok {
			return nil, c.errorf("unknown node kind %q", tok.text)
		}
		return Kind(kind), c.advance()
	default:
		return nil, c.errorf("unexpected %q", tok.text)
	}
}

func (c *compiler) parseNode() (Pattern, error) {
	if err := c.advance(); err != nil {
		return nil, err
	}
	if c.tok.kind != tokWord {
		return nil, c.errorf("expected node kind after (")
	}
	kind, ok := rbast.KindByName(c.tok.text)
	if !ok {
		return nil, c.errorf("unknown node kind %q", c.tok.text)
	}
	if err := c.advance(); err != nil {
		return nil, err
	}

	var slots []Pattern
	for c.tok.kind != tokRParen {
		if c.tok.kind == tokEOF {
			return nil, c.errorf("missing )")
		}
		if len(slots) > 0 {
			if _, ok := slots[len(slots)-1].(restPattern); ok {
				return nil, c.errorf("... must be the last slot")
			}
		}
		slot, err := c.parse(contextSlot)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return Node(kind, slots...), c.advance()
}

func (c *compiler) parseUnion() (Pattern, error) {
	if err := c.advance(); err != nil {
		return nil, err
	}

	var alts []Pattern
	for c.tok.kind != tokRBrace {
		if c.tok.kind == tokEOF {
			return nil, c.errorf("missing }")
		}
		alt, err := c.parse(contextUnion)
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}
	if len(alts) == 0 {
		return nil, c.errorf("empty union")
	}

	return Union(alts...), c.advance()
}

func (c *compiler) parseCapture() (Pattern, error) {
	tok := c.tok
	if c.captures[tok.text] {
		return nil, c.errorf("duplicate capture $%s", tok.text)
	}
	c.captures[tok.text] = true

	if err := c.advance(); err != nil {
		return nil, err
	}
	if !tok.assign {
		return Capture(tok.text, nil), nil
	}

	inner, err := c.parse(contextUnion)
	if err != nil {
		return nil, err
	}
	if _, ok := inner.(atomPattern); ok {
		return nil, &SyntaxError{
			Source: c.lex.src,
			Offset: tok.pos,
			Msg:    fmt.Sprintf("$%s captures an atom; captures must name a node", tok.text),
		}
	}

	return Capture(tok.text, inner), nil
}
