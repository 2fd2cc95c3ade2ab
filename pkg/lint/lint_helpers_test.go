package lint_test

import (
	"context"
	"errors"
	"strings"

	"github.com/yaklabco/gorblint/pkg/fix"
	"github.com/yaklabco/gorblint/pkg/lint"
	"github.com/yaklabco/gorblint/pkg/rbast"
)

var errParse = errors.New("syntax error")

// lineParser turns every non-empty line into a receiverless send named after
// the line text. A line reading "!" fails the parse; a line reading "?" is
// kept but flags the snapshot with syntax errors.
type lineParser struct{}

func (lineParser) Parse(_ context.Context, path string, content []byte) (*rbast.FileSnapshot, error) {
	file := rbast.NewFileSnapshot(path, content)
	root := rbast.NewNode(rbast.NodeProgram, "", 0, len(content))

	for _, line := range file.Lines {
		text := string(content[line.StartOffset:line.NewlineStart])
		if strings.TrimSpace(text) == "!" {
			return nil, errParse
		}
		if text == "" {
			continue
		}
		if strings.TrimSpace(text) == "?" {
			file.SyntaxErrors = true
		}
		root.AppendChild(rbast.NewNode(rbast.NodeSend, text, line.StartOffset, line.NewlineStart))
	}

	rbast.Attach(file, root)
	return file, nil
}

// sendRule reports every send whose name starts with prefix and optionally
// rewrites it to replacement.
type sendRule struct {
	lint.BaseRule
	prefix      string
	replacement string
	checkErr    error
	panicOn     string
	badFix      bool
}

func newSendRule(id, prefix string) *sendRule {
	return &sendRule{
		BaseRule: lint.NewBaseRule(id, "send-"+strings.ToLower(id), "test rule", []string{"test"}, false, rbast.NodeSend),
		prefix:   prefix,
	}
}

func newFixingRule(id, prefix, replacement string) *sendRule {
	rule := newSendRule(id, prefix)
	rule.BaseRule = lint.NewBaseRule(id, "fix-"+strings.ToLower(id), "test fixer", []string{"test"}, true, rbast.NodeSend)
	rule.replacement = replacement
	return rule
}

func (r *sendRule) Check(ctx *lint.RuleContext, node *rbast.Node) error {
	if r.panicOn != "" && node.Name == r.panicOn {
		panic("boom")
	}
	if r.checkErr != nil {
		return r.checkErr
	}
	if !strings.HasPrefix(node.Name, r.prefix) {
		return nil
	}

	builder := lint.NewDiagnostic(r.ID(), node, "found "+node.Name)
	if r.replacement != "" {
		start, end, text := node.Start, node.End, r.replacement
		builder.WithCorrection(func(c *fix.Corrector) {
			if r.badFix {
				panic("bad correction")
			}
			c.Replace(start, end, text)
		})
	}
	ctx.Report(builder.Build())
	return nil
}

// countingRule counts visits per kind.
type countingRule struct {
	lint.BaseRule
	visits map[rbast.NodeKind]int
}

func newCountingRule(kinds ...rbast.NodeKind) *countingRule {
	return &countingRule{
		BaseRule: lint.NewBaseRule("RB900", "counting", "counts visits", nil, false, kinds...),
		visits:   make(map[rbast.NodeKind]int),
	}
}

func (r *countingRule) Check(_ *lint.RuleContext, node *rbast.Node) error {
	r.visits[node.Kind]++
	return nil
}
