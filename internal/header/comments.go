package header

import (
	"path/filepath"
	"slices"
	"strings"
)

// AutoComment selects the comment prefix from each file's extension.
const AutoComment = "auto"

// CommentStyle describes the line comment syntax of a language.
type CommentStyle struct {
	Language   string
	Prefix     string
	Extensions []string
}

var commentStyles = []CommentStyle{
	{Language: "Go", Prefix: "//", Extensions: []string{".go"}},
	{Language: "C", Prefix: "//", Extensions: []string{".c", ".h"}},
	{Language: "C++", Prefix: "//", Extensions: []string{".cc", ".cpp", ".cxx", ".hh", ".hpp"}},
	{Language: "C#", Prefix: "//", Extensions: []string{".cs"}},
	{Language: "Java", Prefix: "//", Extensions: []string{".java"}},
	{Language: "Kotlin", Prefix: "//", Extensions: []string{".kt", ".kts"}},
	{Language: "Scala", Prefix: "//", Extensions: []string{".scala"}},
	{Language: "Swift", Prefix: "//", Extensions: []string{".swift"}},
	{Language: "Dart", Prefix: "//", Extensions: []string{".dart"}},
	{Language: "Rust", Prefix: "//", Extensions: []string{".rs"}},
	{Language: "Zig", Prefix: "//", Extensions: []string{".zig"}},
	{Language: "JavaScript", Prefix: "//", Extensions: []string{".js", ".jsx", ".mjs", ".cjs"}},
	{Language: "TypeScript", Prefix: "//", Extensions: []string{".ts", ".tsx", ".mts", ".cts"}},
	{Language: "PHP", Prefix: "//", Extensions: []string{".php"}},
	{Language: "Python", Prefix: "#", Extensions: []string{".py", ".pyi"}},
	{Language: "Ruby", Prefix: "#", Extensions: []string{".rb"}},
	{Language: "Elixir", Prefix: "#", Extensions: []string{".ex", ".exs"}},
	{Language: "R", Prefix: "#", Extensions: []string{".r"}},
	{Language: "Shell", Prefix: "#", Extensions: []string{".sh", ".bash", ".zsh"}},
	{Language: "Perl", Prefix: "#", Extensions: []string{".pl", ".pm"}},
	{Language: "YAML", Prefix: "#", Extensions: []string{".yaml", ".yml"}},
	{Language: "TOML", Prefix: "#", Extensions: []string{".toml"}},
	{Language: "Haskell", Prefix: "--", Extensions: []string{".hs"}},
	{Language: "Lua", Prefix: "--", Extensions: []string{".lua"}},
	{Language: "SQL", Prefix: "--", Extensions: []string{".sql"}},
	{Language: "Erlang", Prefix: "%", Extensions: []string{".erl", ".hrl"}},
	{Language: "Lisp", Prefix: ";;", Extensions: []string{".lisp", ".el", ".clj"}},
}

// CommentFor returns the line comment prefix for path's extension. The
// lookup is case-insensitive; ok is false for unknown extensions.
func CommentFor(path string) (prefix string, ok bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	for _, cs := range commentStyles {
		if slices.Contains(cs.Extensions, ext) {
			return cs.Prefix, true
		}
	}
	return "", false
}

// CommentStyles returns a copy of the known comment styles.
func CommentStyles() []CommentStyle {
	out := make([]CommentStyle, len(commentStyles))
	for i, cs := range commentStyles {
		cs.Extensions = slices.Clone(cs.Extensions)
		out[i] = cs
	}
	return out
}
