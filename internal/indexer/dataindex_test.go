package indexer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Name  string
	Lines []int
}

func openTestIndexer(t *testing.T) *DataIndexer[testRecord] {
	t.Helper()
	idx, err := NewDataIndexer[testRecord](filepath.Join(t.TempDir(), "cache", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := idx.Close(); err != nil {
			t.Logf("closing test database: %v", err)
		}
	})
	return idx
}

func TestDataIndexerEmpty(t *testing.T) {
	idx := openTestIndexer(t)

	values, err := idx.GetAllValues()
	require.NoError(t, err)
	assert.Empty(t, values)

	paths, err := idx.FilePaths()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestDataIndexerReplaceFileItems(t *testing.T) {
	idx := openTestIndexer(t)

	product := testRecord{Name: `App\Product`, Lines: []int{3, 17}}
	category := testRecord{Name: `App\Category`}
	require.NoError(t, idx.ReplaceFileItems("src/Product.php", map[string]testRecord{
		`app\product`:  product,
		`app\category`: category,
	}))
	require.NoError(t, idx.ReplaceFileItems("src/Other.php", map[string]testRecord{
		`app\other`: {Name: `App\Other`},
	}))

	values, err := idx.GetValues(`app\product`)
	require.NoError(t, err)
	assert.Equal(t, []testRecord{product}, values)

	renamed := testRecord{Name: `App\Item`}
	require.NoError(t, idx.ReplaceFileItems("src/Product.php", map[string]testRecord{
		`app\item`: renamed,
	}))

	values, err = idx.GetValues(`app\product`)
	require.NoError(t, err)
	assert.Empty(t, values, "replaced items are gone")

	all, err := idx.GetAllValues()
	require.NoError(t, err)
	assert.ElementsMatch(t, []testRecord{renamed, {Name: `App\Other`}}, all)

	require.NoError(t, idx.ReplaceFileItems("src/Product.php", nil))
	paths, err := idx.FilePaths()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Other.php"}, paths)
}

func TestDataIndexerBatchSaveAndDelete(t *testing.T) {
	idx := openTestIndexer(t)

	require.NoError(t, idx.BatchSaveItems(map[string]map[string]testRecord{
		"a.php": {"a": {Name: "A"}, "shared": {Name: "shared from a"}},
		"b.php": {"shared": {Name: "shared from b"}},
		"c.php": {"c": {Name: "C"}},
	}))

	shared, err := idx.GetValues("shared")
	require.NoError(t, err)
	assert.Len(t, shared, 2)

	require.NoError(t, idx.BatchDeleteByFilePaths([]string{"a.php", "c.php"}))
	require.NoError(t, idx.BatchDeleteByFilePaths(nil))

	all, err := idx.GetAllValues()
	require.NoError(t, err)
	assert.Equal(t, []testRecord{{Name: "shared from b"}}, all)
}

func TestDataIndexerClear(t *testing.T) {
	idx := openTestIndexer(t)

	require.NoError(t, idx.ReplaceFileItems("a.php", map[string]testRecord{"a": {Name: "A"}}))
	require.NoError(t, idx.Clear())

	all, err := idx.GetAllValues()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDataIndexerReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	idx, err := NewDataIndexer[testRecord](dbPath)
	require.NoError(t, err)
	assert.Equal(t, dbPath, idx.Path())
	require.NoError(t, idx.ReplaceFileItems("a.php", map[string]testRecord{"a": {Name: "A", Lines: []int{1}}}))
	require.NoError(t, idx.Close())

	reopened, err := NewDataIndexer[testRecord](dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	all, err := reopened.GetAllValues()
	require.NoError(t, err)
	assert.Equal(t, []testRecord{{Name: "A", Lines: []int{1}}}, all)
}
