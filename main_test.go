package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopware/phpdoc-reader/internal/config"
	"github.com/shopware/phpdoc-reader/internal/php"
	"github.com/shopware/phpdoc-reader/phpdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMember(t *testing.T) {
	tests := []struct {
		ref      string
		expected memberRef
		err      bool
	}{
		{ref: `App\Product::$price`, expected: memberRef{Class: `App\Product`, Kind: propertyMember, Member: "price"}},
		{ref: `\App\Product::getPrice()`, expected: memberRef{Class: `App\Product`, Kind: methodMember, Member: "getPrice"}},
		{ref: `App\Product::setPrice($price)`, expected: memberRef{Class: `App\Product`, Kind: parameterMember, Member: "setPrice", Parameter: "price"}},
		{ref: `App\Product::setPrice(price)`, expected: memberRef{Class: `App\Product`, Kind: parameterMember, Member: "setPrice", Parameter: "price"}},
		{ref: `App\Product`, err: true},
		{ref: `App\Product::$`, err: true},
		{ref: `App\Product::getPrice`, err: true},
		{ref: `::$price`, err: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			ref, err := parseMember(tt.ref)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref)
		})
	}
}

func TestMemberRefString(t *testing.T) {
	for _, ref := range []string{`App\Product::$price`, `App\Product::getPrice()`, `App\Product::setPrice($price)`} {
		parsed, err := parseMember(ref)
		require.NoError(t, err)
		assert.Equal(t, ref, parsed.String())
	}
}

func TestResolveJSON(t *testing.T) {
	idx, err := php.NewPHPIndex("")
	require.NoError(t, err)

	src := filepath.Join("internal", "php", "testdata", "src")
	for _, path := range []string{
		filepath.Join(src, "Catalog", "Product.php"),
		filepath.Join(src, "Catalog", "BaseEntity.php"),
		filepath.Join(src, "Catalog", "Category.php"),
		filepath.Join(src, "Behavior", "Timestampable.php"),
		filepath.Join(src, "Clock.php"),
	} {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, idx.IndexSource(path, content))
	}
	reader := phpdoc.NewReader(idx, phpdoc.Config{})

	tests := []struct {
		ref      string
		all      bool
		expected string
	}{
		{ref: `App\Catalog\Product::$price`, expected: `{"member":"App\\Catalog\\Product::$price","class":"App\\Catalog\\Price\\Money"}`},
		{ref: `App\Catalog\Product::$defaultCategory`, expected: `{"member":"App\\Catalog\\Product::$defaultCategory","class":null}`},
		{ref: `App\Catalog\Product::$cover`, all: true, expected: `{"member":"App\\Catalog\\Product::$cover","classes":["App\\Media\\Image","App\\Media\\Gallery"]}`},
		{ref: `App\Catalog\Product::getId()`, expected: `{"member":"App\\Catalog\\Product::getId()","class":"App\\Catalog\\Identity\\Uuid"}`},
		{ref: `App\Catalog\Product::compare($options)`, all: true, expected: `{"member":"App\\Catalog\\Product::compare($options)","classes":[]}`},
		{ref: `App\Catalog\Product::setPrice($price)`, expected: `{"member":"App\\Catalog\\Product::setPrice($price)","class":"App\\Catalog\\Price\\Money"}`},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			ref, err := parseMember(tt.ref)
			require.NoError(t, err)

			out, err := resolveJSON(idx, reader, ref, tt.all)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, out)
		})
	}

	t.Run("unknown member", func(t *testing.T) {
		_, err := resolveJSON(idx, reader, memberRef{Class: `App\Catalog\Product`, Kind: methodMember, Member: "missing"}, false)
		assert.ErrorIs(t, err, php.ErrMemberNotFound)
	})
}

func TestIndexSummaryJSON(t *testing.T) {
	out, err := indexSummaryJSON(`/srv/app`, []string{`/srv/app/src`, `/srv/app/vendor`}, 42)
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":"/srv/app","scanRoots":["/srv/app/src","/srv/app/vendor"],"classes":42}`, out)

	out, err = indexSummaryJSON(`/srv/app`, nil, 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":"/srv/app","scanRoots":null,"classes":0}`, out)
}

func TestScanRoots(t *testing.T) {
	t.Run("configured paths win", func(t *testing.T) {
		root := t.TempDir()
		cfg := &config.Config{Paths: []string{filepath.Join(root, "lib")}}
		assert.Equal(t, []string{filepath.Join(root, "lib")}, scanRoots(root, cfg))
	})

	t.Run("composer autoload", func(t *testing.T) {
		root := t.TempDir()
		composerJSON := `{"autoload": {"psr-4": {"App\\": "src/"}}}`
		require.NoError(t, os.WriteFile(filepath.Join(root, "composer.json"), []byte(composerJSON), 0o644))

		roots := scanRoots(root, &config.Config{})
		assert.Contains(t, roots, filepath.Join(root, "src"))
		assert.Contains(t, roots, filepath.Join(root, "vendor"))
	})

	t.Run("project root without composer.json", func(t *testing.T) {
		root := t.TempDir()
		assert.Equal(t, []string{root}, scanRoots(root, &config.Config{}))
	})

	t.Run("invalid composer.json", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "composer.json"), []byte("{"), 0o644))
		assert.Equal(t, []string{root}, scanRoots(root, &config.Config{}))
	})
}

func TestOpenProject(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "A.php"), []byte("<?php\nnamespace App;\n\nclass A\n{\n    /** @var B */\n    public $b;\n}\n\nclass B {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte("ignore_phpdoc_errors: false\npaths: [src]\n"), 0o644))

	opts := &Options{Project: root, CacheDir: filepath.Join(t.TempDir(), "cache"), IgnorePhpDocErrors: true}
	p, err := openProject(opts)
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	assert.True(t, p.readerConfig().IgnorePhpDocErrors, "flags override the config file")
	assert.Equal(t, []string{filepath.Join(root, "src")}, p.scanner.Roots())

	require.NoError(t, p.indexAll(t.Context()))
	assert.Equal(t, 2, p.index.Len())

	ref, err := parseMember(`App\A::$b`)
	require.NoError(t, err)
	out, err := resolveJSON(p.index, phpdoc.NewReader(p.index, p.readerConfig()), ref, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"member":"App\\A::$b","class":"App\\B"}`, out)
}
