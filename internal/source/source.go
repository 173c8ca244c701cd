// Package source parses individual JS/TS/JSX/TSX files into syntax trees.
//
// Parsing uses the tree-sitter TSX grammar, which is a superset of the
// JavaScript and TypeScript grammars and accepts JSX in either. Each Parse
// call creates its own parser instance, so the package is safe for
// concurrent use across files.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// MaxFileSize is the largest source file Parse will accept. Generated
// bundles and vendored blobs above this are skipped rather than parsed.
const MaxFileSize = 10 * 1024 * 1024

// File is one parsed source unit. Content must outlive Tree: tree-sitter
// nodes return their text by slicing into it.
type File struct {
	Path    string
	Content []byte
	Tree    *sitter.Tree
}

// Root returns the file's top-level program node.
func (f *File) Root() *sitter.Node {
	return f.Tree.RootNode()
}

// Close releases the underlying tree. The File must not be used afterwards.
func (f *File) Close() {
	if f.Tree != nil {
		f.Tree.Close()
		f.Tree = nil
	}
}

// Parse parses one file's text into a syntax tree. A tree containing any
// syntax error is treated as a parse failure: the analyzer excludes such
// files entirely instead of guessing at partial structure.
func Parse(ctx context.Context, path string, content []byte) (*File, error) {
	if len(content) > MaxFileSize {
		return nil, fmt.Errorf("file exceeds %d bytes", MaxFileSize)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(languageFor(path))

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("syntax error in %s", path)
	}

	return &File{Path: path, Content: content, Tree: tree}, nil
}

// languageFor picks the grammar by extension. Plain .ts uses the
// TypeScript grammar so angle-bracket type assertions parse; everything
// else gets TSX, which also covers plain JavaScript and JSX.
func languageFor(path string) *sitter.Language {
	if strings.ToLower(filepath.Ext(path)) == ".ts" {
		return typescript.GetLanguage()
	}
	return tsx.GetLanguage()
}
