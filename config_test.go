package sds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artofthestate/sds/internal/pkg/bundlefs"
)

func TestConfigDefaults(t *testing.T) {
	c := buildConfig(nil)
	assert.Equal(t, ".", c.BundleLocation)
	assert.Equal(t, 64, c.CacheEntries)
	assert.Equal(t, 8, c.MaxConcurrency)
}

func TestConfigOptions(t *testing.T) {
	c := buildConfig([]Option{
		WithBundleLocation("s3://bucket/prefix"),
		WithCacheEntries(0),
		WithMaxConcurrency(0),
		WithAWSRegion("eu-west-1"),
	})
	assert.Equal(t, "s3://bucket/prefix", c.BundleLocation)
	assert.Equal(t, 0, c.CacheEntries)
	assert.Equal(t, 1, c.MaxConcurrency)
	assert.Equal(t, "eu-west-1", c.AWSRegion)
}

func TestConfigEnvironment(t *testing.T) {
	t.Setenv("SDS_MAX_CONCURRENCY", "3")
	t.Setenv("SDS_BUNDLE_LOCATION", "assets.zip")

	c := buildConfig(nil)
	assert.Equal(t, 3, c.MaxConcurrency)
	assert.Equal(t, "assets.zip", c.BundleLocation)

	c = buildConfig([]Option{WithMaxConcurrency(5)})
	assert.Equal(t, 5, c.MaxConcurrency)
}

func TestOpenBundle(t *testing.T) {
	dir, err := os.MkdirTemp("", "sds")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	assert.Nil(t, os.WriteFile(filepath.Join(dir, "settings.txt"), []byte("a=0"), 0644))

	b, err := OpenBundle(WithBundleLocation(dir))
	assert.Nil(t, err)
	_, ok := b.(*bundlefs.CachedBundle)
	assert.True(t, ok)

	s := OpenStream(b, "settings.txt", ReadOnly, true)
	assert.True(t, s.IsBundle())
	assert.Equal(t, int64(3), s.FileSize(true))
	s.Close()

	b, err = OpenBundle(WithBundleLocation(dir), WithCacheEntries(0))
	assert.Nil(t, err)
	_, ok = b.(*bundlefs.DirBundle)
	assert.True(t, ok)

	mem := NewMemBundle(nil)
	b, err = OpenBundle(WithBundle(mem))
	assert.Nil(t, err)
	assert.Equal(t, mem, b)

	_, err = OpenBundle(WithBundleLocation(filepath.Join(dir, "missing.zip")))
	assert.NotNil(t, err)
}
