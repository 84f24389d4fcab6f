package indexer

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

// scannedFileTypes maps the extensions the scanner indexes to their grammar.
var scannedFileTypes = map[string]func() *tree_sitter.Language{
	".php": func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP()) },
}

// CreateTreesitterParsers returns one parser per scanned extension. Parsers are not safe for
// concurrent use, so every worker creates its own set.
func CreateTreesitterParsers() map[string]*tree_sitter.Parser {
	parsers := make(map[string]*tree_sitter.Parser, len(scannedFileTypes))
	for ext, language := range scannedFileTypes {
		parser := tree_sitter.NewParser()
		if err := parser.SetLanguage(language()); err != nil {
			parser.Close()
			continue
		}
		parsers[ext] = parser
	}
	return parsers
}

func CloseTreesitterParsers(parsers map[string]*tree_sitter.Parser) {
	for _, parser := range parsers {
		parser.Close()
	}
}

func isScannedFile(path string, ext string) bool {
	_, ok := scannedFileTypes[ext]
	return ok && !hasSuffixFold(path, ".phar.php")
}
