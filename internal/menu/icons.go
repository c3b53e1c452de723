package menu

import (
	"path"
	"strings"
)

// Nerd Font glyphs for file types.
const (
	iconFileDefault  = "\uf15b"
	iconFileGo       = "\ue627"
	iconFileJS       = "\U000f031e"
	iconFileTS       = "\U000f06e6"
	iconFilePython   = "\ue235"
	iconFileMarkdown = "\ueb1d"
	iconFileJSON     = "\ueb0f"
	iconFileYAML     = "\ue6a8"
	iconFileTOML     = "\ue615"
	iconFileHTML     = "\ue60e"
	iconFileCSS      = "\ue614"
	iconFileRust     = "\ue68b"
	iconFileC        = "\ue61e"
	iconFileCPP      = "\ue646"
	iconFileJava     = "\ue256"
	iconFileRuby     = "\ue605"
	iconFileShell    = "\uea85"
	iconFileLua      = "\ue620"
	iconFileDocker   = "\U000f0868"
	iconFileMakefile = "\ue673"
	iconFileGit      = "\ue702"
)

// IconFor returns the file type icon for p.
func IconFor(p string) string {
	base := path.Base(p)
	switch {
	case base == "Dockerfile" || strings.HasPrefix(base, "Dockerfile."):
		return iconFileDocker
	case base == "Makefile":
		return iconFileMakefile
	case strings.HasPrefix(base, ".git"):
		return iconFileGit
	}

	switch strings.ToLower(path.Ext(base)) {
	case ".go", ".mod", ".sum":
		return iconFileGo
	case ".js", ".jsx", ".mjs", ".cjs":
		return iconFileJS
	case ".ts", ".tsx":
		return iconFileTS
	case ".py":
		return iconFilePython
	case ".md", ".markdown":
		return iconFileMarkdown
	case ".json":
		return iconFileJSON
	case ".yaml", ".yml":
		return iconFileYAML
	case ".toml":
		return iconFileTOML
	case ".html":
		return iconFileHTML
	case ".css", ".scss":
		return iconFileCSS
	case ".rs":
		return iconFileRust
	case ".c", ".h":
		return iconFileC
	case ".cpp", ".cc", ".cxx", ".hpp":
		return iconFileCPP
	case ".java":
		return iconFileJava
	case ".rb":
		return iconFileRuby
	case ".sh", ".bash", ".zsh":
		return iconFileShell
	case ".lua":
		return iconFileLua
	default:
		return iconFileDefault
	}
}

