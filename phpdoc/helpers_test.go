package phpdoc

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

type testClass struct {
	name       string
	file       string
	line       int
	parent     *testClass
	traits     []*testClass
	properties []string
	methods    []string
}

func (c *testClass) Name() string { return c.name }

func (c *testClass) Namespace() string {
	if i := strings.LastIndex(c.name, `\`); i >= 0 {
		return c.name[:i]
	}
	return ""
}

func (c *testClass) FileName() string { return c.file }
func (c *testClass) StartLine() int   { return c.line }

func (c *testClass) Traits() []Class {
	traits := make([]Class, 0, len(c.traits))
	for _, trait := range c.traits {
		traits = append(traits, trait)
	}
	return traits
}

func (c *testClass) Parent() Class {
	if c.parent == nil {
		return nil
	}
	return c.parent
}

func (c *testClass) HasProperty(name string) bool {
	for _, property := range c.properties {
		if property == name {
			return true
		}
	}
	return false
}

func (c *testClass) HasMethod(name string) bool {
	for _, method := range c.methods {
		if strings.EqualFold(method, name) {
			return true
		}
	}
	return false
}

type testRegistry map[string]bool

func newTestRegistry(names ...string) testRegistry {
	registry := testRegistry{}
	for _, name := range names {
		registry[strings.ToLower(name)] = true
	}
	return registry
}

func (r testRegistry) Exists(name string) bool {
	return r[strings.ToLower(strings.TrimPrefix(name, `\`))]
}

// memoryFiles serves source files from memory and counts reads.
type memoryFiles struct {
	mu    sync.Mutex
	files map[string]string
	reads map[string]int
}

func newMemoryFiles(files map[string]string) *memoryFiles {
	return &memoryFiles{files: files, reads: make(map[string]int)}
}

func (m *memoryFiles) ReadPrefix(path string, lines int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[path]++

	content, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}

	all := strings.SplitAfter(content, "\n")
	if lines < len(all) {
		all = all[:lines]
	}
	return strings.Join(all, ""), nil
}

func (m *memoryFiles) readCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[path]
}

// lineOf returns the 1-based line of the first line containing needle.
func lineOf(content, needle string) int {
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(line, needle) {
			return i + 1
		}
	}
	return 0
}
