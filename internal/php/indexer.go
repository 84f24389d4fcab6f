package php

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/shopware/phpdoc-reader/internal/indexer"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

var (
	ErrClassNotFound  = errors.New("class not found")
	ErrMemberNotFound = errors.New("member not found")
)

const classStoreFile = "php_classes.db"

// PHPIndex holds the classes of a project in memory. With a cache directory the classes
// are also persisted, so a restarted process starts with the previous index.
type PHPIndex struct {
	mu      sync.RWMutex
	classes map[string]*PHPClass // lower-cased name -> class
	files   map[string][]string  // path -> lower-cased names declared in it
	store   *indexer.DataIndexer[PHPClass]
}

func NewPHPIndex(cacheDir string) (*PHPIndex, error) {
	idx := &PHPIndex{
		classes: make(map[string]*PHPClass),
		files:   make(map[string][]string),
	}

	if cacheDir == "" {
		return idx, nil
	}

	store, err := indexer.NewDataIndexer[PHPClass](filepath.Join(cacheDir, classStoreFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open class store: %w", err)
	}
	idx.store = store

	if err := idx.load(); err != nil {
		_ = store.Close()
		return nil, err
	}

	return idx, nil
}

func (idx *PHPIndex) load() error {
	classes, err := idx.store.GetAllValues()
	if err != nil {
		return fmt.Errorf("failed to load classes: %w", err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i := range classes {
		idx.addLocked(&classes[i])
	}

	if len(classes) > 0 {
		log.Printf("Loaded %d classes from cache", len(classes))
	}
	return nil
}

func (idx *PHPIndex) ID() string {
	return "php.index"
}

// Index replaces the classes of the file with the ones declared in the parsed content.
func (idx *PHPIndex) Index(path string, node *tree_sitter.Node, fileContent []byte) error {
	classes := GetClassesOfFile(path, node, fileContent)

	idx.mu.Lock()
	idx.removeFileLocked(path)
	for _, class := range classes {
		class := class
		idx.addLocked(&class)
	}
	idx.mu.Unlock()

	if idx.store == nil {
		return nil
	}

	items := make(map[string]PHPClass, len(classes))
	for _, class := range classes {
		items[class.key()] = class
	}
	if err := idx.store.ReplaceFileItems(path, items); err != nil {
		return fmt.Errorf("failed to store classes of %s: %w", path, err)
	}
	return nil
}

// IndexSource parses PHP source and indexes it as the content of path.
func (idx *PHPIndex) IndexSource(path string, content []byte) error {
	parser, err := NewParser()
	if err != nil {
		return err
	}
	defer parser.Close()

	tree := parser.Parse(content, nil)
	if tree == nil {
		return fmt.Errorf("failed to parse %s", path)
	}
	defer tree.Close()

	return idx.Index(path, tree.RootNode(), content)
}

func (idx *PHPIndex) RemovedFiles(paths []string) error {
	idx.mu.Lock()
	for _, path := range paths {
		idx.removeFileLocked(path)
	}
	idx.mu.Unlock()

	if idx.store == nil {
		return nil
	}
	return idx.store.BatchDeleteByFilePaths(paths)
}

func (idx *PHPIndex) Clear() error {
	idx.mu.Lock()
	idx.classes = make(map[string]*PHPClass)
	idx.files = make(map[string][]string)
	idx.mu.Unlock()

	if idx.store == nil {
		return nil
	}
	return idx.store.Clear()
}

func (idx *PHPIndex) Close() error {
	if idx.store == nil {
		return nil
	}
	return idx.store.Close()
}

func (idx *PHPIndex) addLocked(class *PHPClass) {
	key := class.key()
	idx.classes[key] = class
	idx.files[class.Path] = append(idx.files[class.Path], key)
}

func (idx *PHPIndex) removeFileLocked(path string) {
	for _, key := range idx.files[path] {
		// a class redeclared in another file stays
		if class, ok := idx.classes[key]; ok && class.Path == path {
			delete(idx.classes, key)
		}
	}
	delete(idx.files, path)
}

// GetClass returns the class, interface, trait or enum with the given name, ignoring case
// and a leading separator.
func (idx *PHPIndex) GetClass(className string) *PHPClass {
	if className == "" {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.classes[strings.ToLower(strings.TrimPrefix(className, `\`))]
}

// Exists reports whether name denotes a class, interface or enum, including PHP's
// built-in ones. Traits do not count.
func (idx *PHPIndex) Exists(name string) bool {
	if class := idx.GetClass(name); class != nil {
		return class.Kind != KindTrait
	}
	return isBuiltinClass(name)
}

// GetClassNames returns the names of all indexed classes, sorted.
func (idx *PHPIndex) GetClassNames() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	names := make([]string, 0, len(idx.classes))
	for _, class := range idx.classes {
		names = append(names, class.Name)
	}
	sort.Strings(names)
	return names
}

func (idx *PHPIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.classes)
}
