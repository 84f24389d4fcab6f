package phpdoc

import (
	"bufio"
	"errors"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// FileReader reads the beginning of a source file.
type FileReader interface {
	// ReadPrefix returns the first lines of the file at path.
	ReadPrefix(path string, lines int) (string, error)
}

// OSFileReader reads files from the local file system.
type OSFileReader struct{}

func (OSFileReader) ReadPrefix(path string, lines int) (string, error) {
	if lines <= 0 {
		return "", nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	var content strings.Builder
	reader := bufio.NewReader(file)
	for i := 0; i < lines; i++ {
		line, err := reader.ReadString('\n')
		content.WriteString(line)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return content.String(), nil
}

// CacheStats counts import table lookups.
type CacheStats struct {
	Hits      int64
	Misses    int64
	FileReads int64
}

// ImportCache builds and memoizes the import table of each class. It lives as long as
// the Reader owning it; class declarations are not expected to change meanwhile.
type ImportCache struct {
	mu        sync.RWMutex
	tables    map[string]ImportTable
	group     singleflight.Group
	files     FileReader
	tokenizer Tokenizer

	hits      atomic.Int64
	misses    atomic.Int64
	fileReads atomic.Int64
}

func NewImportCache(files FileReader, tokenizer Tokenizer) *ImportCache {
	if files == nil {
		files = OSFileReader{}
	}
	if tokenizer == nil {
		tokenizer = TreeSitterTokenizer{}
	}
	return &ImportCache{
		tables:    make(map[string]ImportTable),
		files:     files,
		tokenizer: tokenizer,
	}
}

// Get returns the import table for the class, building it on first use.
func (c *ImportCache) Get(class Class) ImportTable {
	key := strings.ToLower(class.Name())

	if table, ok := c.cached(key); ok {
		c.hits.Add(1)
		return table
	}

	value, _, _ := c.group.Do(key, func() (any, error) {
		if table, ok := c.cached(key); ok {
			return table, nil
		}
		c.misses.Add(1)
		table := c.build(class)

		c.mu.Lock()
		c.tables[key] = table
		c.mu.Unlock()
		return table, nil
	})

	return value.(ImportTable)
}

func (c *ImportCache) cached(key string) (ImportTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	table, ok := c.tables[key]
	return table, ok
}

// Len returns the number of cached tables.
func (c *ImportCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

func (c *ImportCache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		FileReads: c.fileReads.Load(),
	}
}

func (c *ImportCache) build(class Class) ImportTable {
	path := class.FileName()
	if path == "" {
		return ImportTable{}
	}

	c.fileReads.Add(1)
	content, err := c.files.ReadPrefix(path, class.StartLine()-1)
	if err != nil {
		log.Printf("Could not read imports of %s from %s: %v", class.Name(), path, err)
		return ImportTable{}
	}
	if content == "" {
		return ImportTable{}
	}

	source := trimToNamespace(content, class.Namespace())
	return ParseUseStatements(c.tokenizer.Tokenize([]byte(source)), class.Namespace())
}

// trimToNamespace drops everything in front of the declaration of the namespace.
// Without a matching declaration the content is returned unchanged.
func trimToNamespace(content, namespace string) string {
	// the global namespace is only declared braced, with or without a space
	separator := `\s+`
	if namespace == "" {
		separator = `\s*`
	}
	pattern, err := regexp.Compile(`(?i)\bnamespace` + separator + regexp.QuoteMeta(namespace) + `\s*[;{]`)
	if err != nil {
		return content
	}

	loc := pattern.FindStringIndex(content)
	if loc == nil {
		return content
	}
	return "<?php " + content[loc[0]:]
}
