package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/shopware/phpdoc-reader/internal/composer"
	"github.com/shopware/phpdoc-reader/internal/config"
	"github.com/shopware/phpdoc-reader/internal/indexer"
	"github.com/shopware/phpdoc-reader/internal/php"
	"github.com/shopware/phpdoc-reader/phpdoc"
)

// project bundles the class index of a project root and the scanner feeding it.
type project struct {
	root    string
	cfg     *config.Config
	index   *php.PHPIndex
	scanner *indexer.FileScanner
}

func openProject(opts *Options) (*project, error) {
	root := opts.Project
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if opts.IgnorePhpDocErrors {
		cfg.IgnorePhpDocErrors = true
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir = cfg.CacheDir
	}
	if cacheDir == "" {
		if cacheDir, err = config.ProjectCacheDir(root); err != nil {
			return nil, err
		}
	}

	cleared, err := indexer.CheckAndMigrateCache(cacheDir)
	if err != nil {
		return nil, err
	}
	if cleared {
		log.Printf("Index cache in %s was reset", cacheDir)
	}

	index, err := php.NewPHPIndex(cacheDir)
	if err != nil {
		return nil, err
	}

	scanner := indexer.NewFileScanner(scanRoots(root, cfg), cfg.SkipDirs)
	scanner.AddIndexer(index)

	return &project{root: root, cfg: cfg, index: index, scanner: scanner}, nil
}

// scanRoots prefers the configured paths, then the composer autoload directories
// including vendor, then the project root itself.
func scanRoots(root string, cfg *config.Config) []string {
	if len(cfg.Paths) > 0 {
		return cfg.Paths
	}

	autoload, err := composer.Load(root)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Ignoring composer.json: %v", err)
		}
		return []string{root}
	}

	if roots := autoload.ScanRoots(true); len(roots) > 0 {
		return roots
	}
	return []string{root}
}

func (p *project) readerConfig() phpdoc.Config {
	return phpdoc.Config{IgnorePhpDocErrors: p.cfg.IgnorePhpDocErrors}
}

// indexAll scans all roots and logs how long it took.
func (p *project) indexAll(ctx context.Context) error {
	start := time.Now()
	if err := p.scanner.IndexAll(ctx); err != nil {
		return err
	}
	log.Printf("Indexed %d classes in %.2fs", p.index.Len(), time.Since(start).Seconds())
	return nil
}

// Close stops the watcher and closes the index through the scanner.
func (p *project) Close() error {
	return p.scanner.Close()
}
