// Package composer reads the autoload configuration of a composer.json file.
package composer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tidwall/gjson"
)

var ErrInvalidComposerJSON = errors.New("invalid composer.json")

// Autoload holds the autoload directories of a project. Paths are joined with the
// project root.
type Autoload struct {
	Root      string
	VendorDir string
	// namespace prefix -> directories
	PSR4     map[string][]string
	PSR0     map[string][]string
	Classmap []string
}

// Load reads composer.json from projectRoot.
func Load(projectRoot string) (*Autoload, error) {
	data, err := os.ReadFile(filepath.Join(projectRoot, "composer.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read composer.json: %w", err)
	}
	return Parse(projectRoot, data)
}

// Parse reads the autoload and autoload-dev sections and the vendor directory of a
// composer.json document.
func Parse(projectRoot string, data []byte) (*Autoload, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidComposerJSON
	}

	doc := gjson.ParseBytes(data)
	autoload := &Autoload{
		Root:      projectRoot,
		VendorDir: filepath.Join(projectRoot, "vendor"),
		PSR4:      make(map[string][]string),
		PSR0:      make(map[string][]string),
	}

	if vendorDir := doc.Get("config.vendor-dir"); vendorDir.Type == gjson.String && vendorDir.String() != "" {
		autoload.VendorDir = autoload.path(vendorDir.String())
	}

	for _, section := range []string{"autoload", "autoload-dev"} {
		autoload.addNamespaces(autoload.PSR4, doc.Get(section+".psr-4"))
		autoload.addNamespaces(autoload.PSR0, doc.Get(section+".psr-0"))
		doc.Get(section + ".classmap").ForEach(func(_, value gjson.Result) bool {
			if value.String() != "" {
				autoload.Classmap = append(autoload.Classmap, autoload.path(value.String()))
			}
			return true
		})
	}

	return autoload, nil
}

// addNamespaces reads a psr-4 or psr-0 map. A prefix maps to a directory or a list of them.
func (a *Autoload) addNamespaces(target map[string][]string, section gjson.Result) {
	section.ForEach(func(prefix, dirs gjson.Result) bool {
		if dirs.IsArray() {
			for _, dir := range dirs.Array() {
				target[prefix.String()] = append(target[prefix.String()], a.path(dir.String()))
			}
		} else {
			target[prefix.String()] = append(target[prefix.String()], a.path(dirs.String()))
		}
		return true
	})
}

func (a *Autoload) path(relative string) string {
	if filepath.IsAbs(relative) {
		return filepath.Clean(relative)
	}
	return filepath.Join(a.Root, relative)
}

// ScanRoots returns the distinct autoload directories and files, sorted, optionally
// followed by the vendor directory.
func (a *Autoload) ScanRoots(includeVendor bool) []string {
	seen := make(map[string]bool)
	var roots []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			roots = append(roots, path)
		}
	}

	for _, dirs := range a.PSR4 {
		for _, dir := range dirs {
			add(dir)
		}
	}
	for _, dirs := range a.PSR0 {
		for _, dir := range dirs {
			add(dir)
		}
	}
	for _, path := range a.Classmap {
		add(path)
	}
	sort.Strings(roots)

	if includeVendor && !seen[a.VendorDir] {
		roots = append(roots, a.VendorDir)
	}
	return roots
}
