package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/shopware/phpdoc-reader/internal/server"
	"github.com/shopware/phpdoc-reader/phpdoc"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var options Options

func main() {
	log.SetFlags(0)

	parser := flags.NewParser(&options, flags.Default)
	if _, err := parser.Parse(); err != nil {
		// the parser prints errors itself
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

func (c *ServeCommand) Execute(args []string) error {
	p, err := openProject(&options)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("Error closing index: %v", err)
		}
	}()

	if err := p.indexAll(context.Background()); err != nil {
		return err
	}

	srv := server.New(p.index, p.scanner, p.readerConfig())

	if c.Watch || p.cfg.Watch {
		if err := p.scanner.StartWatcher(); err != nil {
			log.Printf("Failed to start file watcher: %v", err)
		}
	}

	if err := srv.Start(os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (c *IndexCommand) Execute(args []string) error {
	p, err := openProject(&options)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("Error closing index: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Clear {
		if err := p.scanner.Reset(); err != nil {
			return err
		}
	}

	if err := p.indexAll(ctx); err != nil {
		return err
	}

	out, err := indexSummaryJSON(p.root, p.scanner.Roots(), p.index.Len())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(pretty.Pretty([]byte(out)))
	return err
}

// indexSummaryJSON renders {"root": ..., "scanRoots": [...], "classes": n}.
func indexSummaryJSON(root string, scanRoots []string, classes int) (string, error) {
	out, err := sjson.Set(`{}`, "root", root)
	if err != nil {
		return "", err
	}
	if out, err = sjson.Set(out, "scanRoots", scanRoots); err != nil {
		return "", err
	}
	return sjson.Set(out, "classes", classes)
}

func (c *ResolveCommand) Execute(args []string) error {
	ref, err := parseMember(c.Args.Member)
	if err != nil {
		return err
	}

	p, err := openProject(&options)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("Error closing index: %v", err)
		}
	}()

	if err := p.indexAll(context.Background()); err != nil {
		return err
	}

	reader := phpdoc.NewReader(p.index, p.readerConfig())
	out, err := resolveJSON(p.index, reader, ref, c.All)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(pretty.Pretty([]byte(out)))
	return err
}
