package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/shopware/phpdoc-reader/internal/php"
)

type options struct {
	Args struct {
		Files []string `positional-arg-name:"file" description:"PHP files to print" required:"1"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	for _, filePath := range opts.Args.Files {
		fmt.Printf("Analyzing AST for file: %s\n\n", filePath)
		if err := php.DebugAST(os.Stdout, filePath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
	}
}
