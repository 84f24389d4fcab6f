package indexer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// IndexVersion is the schema version of the stored class records. Bump it whenever the
// PHPClass layout changes so stale caches are dropped instead of decoded.
const IndexVersion = 1

const versionFileName = "index_version"

// CheckAndMigrateCache empties cacheDir unless it was written with the current
// IndexVersion. It reports whether the cache was emptied and has to be rebuilt.
func CheckAndMigrateCache(cacheDir string) (bool, error) {
	versionFile := filepath.Join(cacheDir, versionFileName)

	stored, err := readVersion(versionFile)
	if err == nil && stored == IndexVersion {
		return false, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) && !errors.Is(err, strconv.ErrSyntax) {
		return false, fmt.Errorf("failed to read version file: %w", err)
	}

	if err := clearCacheDir(cacheDir); err != nil {
		return false, fmt.Errorf("failed to clear cache: %w", err)
	}
	if err := os.WriteFile(versionFile, []byte(strconv.Itoa(IndexVersion)), 0o644); err != nil {
		return false, fmt.Errorf("failed to write version: %w", err)
	}

	return true, nil
}

func readVersion(versionFile string) (int, error) {
	data, err := os.ReadFile(versionFile)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// clearCacheDir removes the content of cacheDir, creating it when missing.
func clearCacheDir(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if errors.Is(err, os.ErrNotExist) {
		return os.MkdirAll(cacheDir, 0o755)
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(cacheDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}
