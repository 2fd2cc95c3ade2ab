// Package langdetect decides which files gorblint should treat as Ruby.
// It relies on go-enry's linguist data: file names (Gemfile, Rakefile),
// extensions (.rb, .rake, .gemspec, .ru) and shebang lines for
// extensionless scripts.
package langdetect

import (
	"bytes"
	"path/filepath"
	"slices"

	"github.com/go-enry/go-enry/v2"
)

// Ruby is the linguist name of the Ruby language.
const Ruby = "Ruby"

// ShebangProbeSize is how much of an extensionless file Detect needs.
const ShebangProbeSize = 256

// ByPath reports whether the file name or extension alone identifies Ruby.
func ByPath(path string) bool {
	name := filepath.Base(path)
	if slices.Contains(enry.GetLanguagesByFilename(name, nil, nil), Ruby) {
		return true
	}
	return slices.Contains(enry.GetLanguagesByExtension(name, nil, nil), Ruby)
}

// NeedsContent reports whether path has no extension, so only its content
// (a shebang) can tell whether it is Ruby.
func NeedsContent(path string) bool {
	name := filepath.Base(path)
	return filepath.Ext(name) == "" && !ByPath(path)
}

// Detect reports whether the file is Ruby, using the path first and then
// the shebang of head, which only needs the first ShebangProbeSize bytes.
func Detect(path string, head []byte) bool {
	if ByPath(path) {
		return true
	}
	if !bytes.HasPrefix(head, []byte("#!")) {
		return false
	}
	lang, _ := enry.GetLanguageByShebang(head)
	return lang == Ruby
}

// IsVendored reports whether a slash-separated relative path lies in a
// directory of third-party code (vendor/bundle, node_modules, ...).
func IsVendored(relPath string) bool {
	return enry.IsVendor(relPath)
}
