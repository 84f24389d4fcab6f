package indexer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL,
		value BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_data_key ON data(key);

	CREATE TABLE IF NOT EXISTS files (
		file_path TEXT NOT NULL,
		data_id INTEGER NOT NULL,
		PRIMARY KEY (file_path, data_id),
		FOREIGN KEY (data_id) REFERENCES data(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_files_path ON files(file_path);
`

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA auto_vacuum=INCREMENTAL",
}

// DataIndexer stores msgpack encoded items in SQLite. Every item belongs to the file it
// was extracted from, so the items of a file can be replaced or dropped together.
type DataIndexer[T any] struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

func NewDataIndexer[T any](dbPath string) (*DataIndexer[T], error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	// _txlock=immediate takes the write lock at BEGIN and avoids SQLITE_BUSY on upgrade
	db, err := sql.Open("sqlite", dbPath+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return &DataIndexer[T]{db: db, dbPath: dbPath}, nil
}

func (idx *DataIndexer[T]) Path() string {
	return idx.dbPath
}

// ReplaceFileItems drops everything stored for filePath and stores items, keyed by their
// map key, in one transaction.
func (idx *DataIndexer[T]) ReplaceFileItems(filePath string, items map[string]T) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteFile(tx, filePath); err != nil {
		return err
	}
	if err := insertItems(tx, filePath, items); err != nil {
		return err
	}

	return tx.Commit()
}

// BatchSaveItems stores items grouped by file path without touching what is already stored.
func (idx *DataIndexer[T]) BatchSaveItems(items map[string]map[string]T) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for filePath, fileItems := range items {
		if err := insertItems(tx, filePath, fileItems); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertItems[T any](tx *sql.Tx, filePath string, items map[string]T) error {
	if len(items) == 0 {
		return nil
	}

	dataStmt, err := tx.Prepare("INSERT INTO data (key, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare data statement: %w", err)
	}
	defer func() { _ = dataStmt.Close() }()

	fileStmt, err := tx.Prepare("INSERT INTO files (file_path, data_id) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare file statement: %w", err)
	}
	defer func() { _ = fileStmt.Close() }()

	for key, item := range items {
		data, err := msgpack.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", key, err)
		}

		result, err := dataStmt.Exec(key, data)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		dataID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}

		if _, err := fileStmt.Exec(filePath, dataID); err != nil {
			return fmt.Errorf("failed to save file association: %w", err)
		}
	}

	return nil
}

func deleteFile(tx *sql.Tx, filePath string) error {
	if _, err := tx.Exec("DELETE FROM data WHERE id IN (SELECT data_id FROM files WHERE file_path = ?)", filePath); err != nil {
		return fmt.Errorf("failed to delete data of %s: %w", filePath, err)
	}
	if _, err := tx.Exec("DELETE FROM files WHERE file_path = ?", filePath); err != nil {
		return fmt.Errorf("failed to delete file associations of %s: %w", filePath, err)
	}
	return nil
}

// GetValues returns every item stored under key, across files.
func (idx *DataIndexer[T]) GetValues(key string) ([]T, error) {
	return idx.query("SELECT value FROM data WHERE key = ?", key)
}

func (idx *DataIndexer[T]) GetAllValues() ([]T, error) {
	return idx.query("SELECT value FROM data")
}

func (idx *DataIndexer[T]) query(query string, args ...any) ([]T, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rows, err := idx.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query data: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []T
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if len(data) == 0 {
			continue
		}

		var item T
		if err := msgpack.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// FilePaths returns the distinct paths that have items stored.
func (idx *DataIndexer[T]) FilePaths() ([]string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rows, err := idx.db.Query("SELECT DISTINCT file_path FROM files ORDER BY file_path")
	if err != nil {
		return nil, fmt.Errorf("failed to query file paths: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan file path: %w", err)
		}
		paths = append(paths, path)
	}

	return paths, rows.Err()
}

func (idx *DataIndexer[T]) BatchDeleteByFilePaths(filePaths []string) error {
	if len(filePaths) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, filePath := range filePaths {
		if err := deleteFile(tx, filePath); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (idx *DataIndexer[T]) Clear() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, err := idx.db.Exec("DELETE FROM files; DELETE FROM data;"); err != nil {
		return err
	}

	_, err := idx.db.Exec("PRAGMA incremental_vacuum")
	return err
}

// Close checkpoints the WAL into the database file before closing it.
func (idx *DataIndexer[T]) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	_, _ = idx.db.Exec("PRAGMA optimize")
	_, _ = idx.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")

	return idx.db.Close()
}
