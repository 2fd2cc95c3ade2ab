// Package treesitter parses Ruby source into rbast trees using the
// tree-sitter Ruby grammar.
package treesitter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/ruby"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/yaklabco/gorblint/pkg/rbast"
)

var (
	errNoRootNode = errors.New("tree-sitter returned no root node")
	errPoolType   = errors.New("unexpected parser pool entry")
)

// Parser implements lint.Parser for Ruby using tree-sitter.
// It is safe for concurrent use: each Parse call borrows its own
// tree-sitter parser from a pool.
type Parser struct {
	language *sitter.Language
	pool     sync.Pool
}

// New creates a new Ruby parser.
func New() *Parser {
	lang := sitter.NewLanguage(ruby.GetLanguage())

	parser := &Parser{language: lang}
	parser.pool = sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(lang)

			return tsParser
		},
	}

	return parser
}

// Parse converts Ruby source into a FileSnapshot.
// Syntax errors do not fail the parse; the grammar's error nodes are kept
// as NodeOther so rules simply fail to match them, and the snapshot is
// flagged with SyntaxErrors.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*rbast.FileSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}
	defer p.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	m := &mapper{content: content}
	program := m.program(root)

	file := rbast.NewFileSnapshot(path, content)
	file.SyntaxErrors = root.HasError()
	rbast.Attach(file, program)

	return file, nil
}
