package indexer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"golang.org/x/sync/errgroup"
)

// Indexer receives every parsed file of the scanned roots. Index replaces whatever the
// indexer extracted from path earlier.
type Indexer interface {
	ID() string
	Index(path string, node *tree_sitter.Node, fileContent []byte) error
	RemovedFiles(paths []string) error
	Clear() error
	Close() error
}

// DefaultSkipDirs are directory names never descended into. vendor is not among them,
// classes of dependencies have to be known to resolve doc comments.
var DefaultSkipDirs = []string{
	"node_modules",
	"var",
	"vendor-bin",
	"cache",
	".git",
	".github",
	".gitlab",
	".idea",
	".vscode",
	"public",
}

const defaultDebounce = 200 * time.Millisecond

// FileScanner finds the PHP files below a set of roots, feeds changed files to the
// registered indexers and optionally keeps them up to date with a file watcher.
type FileScanner struct {
	roots    []string
	skipDirs map[string]bool
	indexer  []Indexer
	onUpdate func()
	debounce time.Duration

	stateMu sync.Mutex
	states  map[string]fileState

	watcher    *fsnotify.Watcher
	watcherCtx context.Context
	cancel     context.CancelFunc
	watcherWg  sync.WaitGroup
}

// fileState is what decides whether a file changed since it was indexed.
type fileState struct {
	size    int64
	modTime int64
}

func stateOf(info os.FileInfo) fileState {
	return fileState{size: info.Size(), modTime: info.ModTime().UnixNano()}
}

// NewFileScanner creates a scanner for roots. A nil skipDirs uses DefaultSkipDirs.
func NewFileScanner(roots []string, skipDirs []string) *FileScanner {
	if skipDirs == nil {
		skipDirs = DefaultSkipDirs
	}

	skip := make(map[string]bool, len(skipDirs))
	for _, dir := range skipDirs {
		skip[dir] = true
	}

	cleaned := make([]string, 0, len(roots))
	for _, root := range roots {
		cleaned = append(cleaned, filepath.Clean(root))
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &FileScanner{
		roots:      cleaned,
		skipDirs:   skip,
		debounce:   defaultDebounce,
		states:     make(map[string]fileState),
		watcherCtx: ctx,
		cancel:     cancel,
	}
}

func (fs *FileScanner) Roots() []string {
	return fs.roots
}

// SetOnUpdate registers a callback run after every batch of index changes.
func (fs *FileScanner) SetOnUpdate(onUpdate func()) {
	fs.onUpdate = onUpdate
}

func (fs *FileScanner) AddIndexer(indexer Indexer) {
	fs.indexer = append(fs.indexer, indexer)
}

// isSkipped reports whether path lies in a skipped directory below one of the roots.
func (fs *FileScanner) isSkipped(path string) bool {
	for _, root := range fs.roots {
		relPath, err := filepath.Rel(root, path)
		if err != nil || relPath == "." || strings.HasPrefix(relPath, "..") {
			continue
		}
		for _, part := range strings.Split(relPath, string(os.PathSeparator)) {
			if fs.skipDirs[part] {
				return true
			}
		}
	}
	return false
}

func isScannedPath(path string) bool {
	return isScannedFile(path, strings.ToLower(filepath.Ext(path)))
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// FindFiles walks all roots and returns the scanned files, sorted.
func (fs *FileScanner) FindFiles(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)

	for _, root := range fs.roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				// unreadable entries are skipped
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path != root && fs.skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}

			if isScannedPath(path) {
				seen[path] = true
			}
			return nil
		})
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	files := make([]string, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// IndexAll indexes every scanned file below the roots and drops files indexed earlier that
// no longer exist.
func (fs *FileScanner) IndexAll(ctx context.Context) error {
	files, err := fs.FindFiles(ctx)
	if err != nil {
		return err
	}

	log.Printf("Found %d files to index", len(files))
	startTime := time.Now()

	if err := fs.IndexFiles(ctx, files); err != nil {
		return fmt.Errorf("failed to index files: %w", err)
	}

	present := make(map[string]bool, len(files))
	for _, path := range files {
		present[path] = true
	}
	var gone []string
	fs.stateMu.Lock()
	for path := range fs.states {
		if !present[path] {
			gone = append(gone, path)
		}
	}
	fs.stateMu.Unlock()
	if len(gone) > 0 {
		if err := fs.RemoveFiles(ctx, gone); err != nil {
			return err
		}
	}

	log.Printf("Indexing took %s", time.Since(startTime))
	return nil
}

// fileNeedsIndexing returns the content of path when it changed since it was last indexed.
func (fs *FileScanner) fileNeedsIndexing(path string) (bool, []byte, fileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, nil, fileState{}, err
	}

	state := stateOf(info)
	fs.stateMu.Lock()
	stored, ok := fs.states[path]
	fs.stateMu.Unlock()
	if ok && stored == state {
		return false, nil, state, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, nil, state, err
	}
	return true, content, state, nil
}

type fileWork struct {
	path    string
	content []byte
	state   fileState
}

// IndexFiles parses the changed files among files with a pool of workers, each owning its
// own parsers, and hands the trees to every indexer. Indexer errors are logged, a failing
// file does not stop the others.
func (fs *FileScanner) IndexFiles(ctx context.Context, files []string) error {
	filtered := make([]string, 0, len(files))
	for _, path := range files {
		if isScannedPath(path) && !fs.isSkipped(path) {
			filtered = append(filtered, path)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	workerCount := min(runtime.NumCPU()+2, 16, len(filtered))

	g, ctx := errgroup.WithContext(ctx)
	fileChan := make(chan string)

	g.Go(func() error {
		defer close(fileChan)
		for _, path := range filtered {
			select {
			case fileChan <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < workerCount; i++ {
		g.Go(func() error {
			parsers := CreateTreesitterParsers()
			defer CloseTreesitterParsers(parsers)

			for path := range fileChan {
				needsIndexing, content, state, err := fs.fileNeedsIndexing(path)
				if err != nil || !needsIndexing {
					continue
				}
				fs.indexFile(parsers, fileWork{path: path, content: content, state: state})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if fs.onUpdate != nil {
		fs.onUpdate()
	}
	return nil
}

func (fs *FileScanner) indexFile(parsers map[string]*tree_sitter.Parser, item fileWork) {
	parser := parsers[strings.ToLower(filepath.Ext(item.path))]
	if parser == nil {
		log.Printf("No parser for %s", item.path)
		return
	}

	tree := parser.Parse(item.content, nil)
	if tree == nil {
		log.Printf("Failed to parse %s", item.path)
		return
	}
	defer tree.Close()

	for _, indexer := range fs.indexer {
		if err := indexer.Index(item.path, tree.RootNode(), item.content); err != nil {
			log.Printf("Error indexing %s with %s: %v", item.path, indexer.ID(), err)
		}
	}

	fs.stateMu.Lock()
	fs.states[item.path] = item.state
	fs.stateMu.Unlock()
}

// RemoveFiles drops files from every indexer.
func (fs *FileScanner) RemoveFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	for _, indexer := range fs.indexer {
		if err := indexer.RemovedFiles(paths); err != nil {
			return fmt.Errorf("%s: %w", indexer.ID(), err)
		}
	}

	fs.stateMu.Lock()
	for _, path := range paths {
		delete(fs.states, path)
	}
	fs.stateMu.Unlock()

	if fs.onUpdate != nil {
		fs.onUpdate()
	}
	return nil
}

// Reset clears every indexer and forgets which files were indexed, so the next IndexAll
// parses everything again.
func (fs *FileScanner) Reset() error {
	for _, indexer := range fs.indexer {
		if err := indexer.Clear(); err != nil {
			return fmt.Errorf("%s: %w", indexer.ID(), err)
		}
	}

	fs.stateMu.Lock()
	fs.states = make(map[string]fileState)
	fs.stateMu.Unlock()
	return nil
}

// StartWatcher watches the roots and reindexes changed files after a short quiet period.
func (fs *FileScanner) StartWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	fs.watcher = watcher

	for _, root := range fs.roots {
		if err := fs.addDirectoryToWatcher(root); err != nil {
			_ = watcher.Close()
			fs.watcher = nil
			return err
		}
	}

	fs.watcherWg.Add(1)
	go fs.watch()
	return nil
}

func (fs *FileScanner) watch() {
	defer fs.watcherWg.Done()
	defer func() { _ = fs.watcher.Close() }()

	pendingAdds := make(map[string]bool)
	pendingRemoves := make(map[string]bool)
	debounceTimer := time.NewTimer(time.Hour)
	debounceTimer.Stop()

	resetTimer := func() {
		if !debounceTimer.Stop() {
			select {
			case <-debounceTimer.C:
			default:
			}
		}
		debounceTimer.Reset(fs.debounce)
	}

	processChanges := func() {
		if len(pendingAdds) > 0 {
			files := sortedPaths(pendingAdds)
			pendingAdds = make(map[string]bool)

			log.Printf("Processing %d changed/added files", len(files))
			if err := fs.IndexFiles(context.Background(), files); err != nil {
				log.Printf("Error indexing files: %v", err)
			}
		}

		if len(pendingRemoves) > 0 {
			files := sortedPaths(pendingRemoves)
			pendingRemoves = make(map[string]bool)

			log.Printf("Processing %d deleted files", len(files))
			if err := fs.RemoveFiles(context.Background(), files); err != nil {
				log.Printf("Error removing files: %v", err)
			}
		}
	}

	for {
		select {
		case <-fs.watcherCtx.Done():
			processChanges()
			return

		case event, ok := <-fs.watcher.Events:
			if !ok {
				return
			}
			if fs.isSkipped(event.Name) {
				continue
			}

			info, statErr := os.Stat(event.Name)
			if statErr == nil && info.IsDir() {
				if event.Has(fsnotify.Create) {
					if err := fs.addDirectoryToWatcher(event.Name); err != nil {
						log.Printf("Error adding directory to watcher: %v", err)
					}
				}
				continue
			}

			if !isScannedPath(event.Name) {
				continue
			}

			switch {
			case statErr == nil && (event.Has(fsnotify.Create) || event.Has(fsnotify.Write)):
				pendingAdds[event.Name] = true
				delete(pendingRemoves, event.Name)
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				pendingRemoves[event.Name] = true
				delete(pendingAdds, event.Name)
			default:
				continue
			}
			resetTimer()

		case err, ok := <-fs.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)

		case <-debounceTimer.C:
			processChanges()
		}
	}
}

func sortedPaths(set map[string]bool) []string {
	paths := make([]string, 0, len(set))
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// addDirectoryToWatcher adds dir and its subdirectories, except skipped ones, to the watcher.
func (fs *FileScanner) addDirectoryToWatcher(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != dir && fs.skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := fs.watcher.Add(path); err != nil {
			log.Printf("Error watching directory %s: %v", path, err)
		}
		return nil
	})
}

// StopWatcher stops the watcher after indexing the changes still pending.
func (fs *FileScanner) StopWatcher() {
	if fs.watcher == nil {
		return
	}
	fs.cancel()
	fs.watcherWg.Wait()
	fs.watcher = nil
}

// Close stops the watcher and closes every indexer.
func (fs *FileScanner) Close() error {
	fs.StopWatcher()

	var errs []error
	for _, indexer := range fs.indexer {
		if err := indexer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", indexer.ID(), err))
		}
	}
	return errors.Join(errs...)
}
