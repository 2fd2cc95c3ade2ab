package lint

import (
	"context"

	"github.com/yaklabco/gorblint/pkg/rbast"
)

// Parser parses Ruby source into a FileSnapshot.
//
// Implementations (e.g., parser/treesitter) must be safe for concurrent use
// and free of I/O. The returned snapshot satisfies:
//   - snapshot.Path == path and snapshot.Content is content, unmodified
//   - snapshot.Root.Kind == rbast.NodeProgram
//   - every node has node.File == snapshot
//
// Syntax errors in the source are not parse failures: they appear as
// NodeOther subtrees that rules do not match.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*rbast.FileSnapshot, error)
}
