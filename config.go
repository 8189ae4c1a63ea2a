package sds

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/artofthestate/sds/internal/pkg/bundlefs"
)

func loadConfig() {
	viper.SetConfigName("sdsrc")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.sds")

	setupDefaults()

	viper.ReadInConfig()

	viper.SetEnvPrefix("sds")
	viper.AutomaticEnv()
}

func setupDefaults() {
	defaultSettings := map[string]interface{}{
		"bundle_location":      ".",
		"bundle_cache_entries": 64, // Assets kept in memory after first open
		"max_concurrency":      8,  // Maximum number of concurrent extractions
		"verbose":              false,
		"aws_region":           "",
	}
	for key, value := range defaultSettings {
		viper.SetDefault(key, value)
	}

	aliases := map[string]string{
		"verbose":         "v",
		"bundle_location": "b",
	}
	for key, alias := range aliases {
		viper.RegisterAlias(alias, key)
	}
}

// config holds the settings used to build a Bundle and run an Extractor
type config struct {
	BundleLocation string
	CacheEntries   int
	MaxConcurrency int
	AWSRegion      string

	bundle Bundle
}

func newConfig() *config {
	loadConfig() // Load viper config from settings file(s) and environment
	return &config{
		BundleLocation: viper.GetString("bundle_location"),
		CacheEntries:   viper.GetInt("bundle_cache_entries"),
		MaxConcurrency: viper.GetInt("max_concurrency"),
		AWSRegion:      viper.GetString("aws_region"),
	}
}

func buildConfig(options []Option) *config {
	c := newConfig()
	for _, f := range options {
		f(c)
	}

	if c.MaxConcurrency < 1 {
		log.Warnf("Configured max concurrency %d is below 1, using 1", c.MaxConcurrency)
		c.MaxConcurrency = 1
	}
	return c
}

// Option allows configuration of OpenBundle and NewExtractor
type Option func(*config)

// WithBundleLocation sets the location of the bundle. The backend is
// inferred from it: s3://bucket/prefix, a .zip or .apk archive, or a
// directory.
func WithBundleLocation(location string) Option {
	return func(c *config) {
		c.BundleLocation = location
	}
}

// WithCacheEntries sets how many assets are kept in memory. Zero disables
// caching.
func WithCacheEntries(n int) Option {
	return func(c *config) {
		c.CacheEntries = n
	}
}

// WithMaxConcurrency sets the number of entries extracted at once
func WithMaxConcurrency(n int) Option {
	return func(c *config) {
		c.MaxConcurrency = n
	}
}

// WithAWSRegion sets the region used by S3 bundles
func WithAWSRegion(region string) Option {
	return func(c *config) {
		c.AWSRegion = region
	}
}

// WithBundle uses b instead of building a bundle from the configured
// location.
func WithBundle(b Bundle) Option {
	return func(c *config) {
		c.bundle = b
	}
}

// OpenBundle builds the bundle described by the configuration files,
// environment and options, wrapped in an asset cache unless the cache is
// disabled.
func OpenBundle(options ...Option) (Bundle, error) {
	return openBundle(buildConfig(options))
}

func openBundle(c *config) (Bundle, error) {
	if c.bundle != nil {
		return c.bundle, nil
	}

	var (
		b   Bundle
		err error
	)
	bundleType := bundlefs.InferBundleType(c.BundleLocation)
	if bundleType == bundlefs.S3 && c.AWSRegion != "" {
		b, err = bundlefs.NewS3Bundle(c.BundleLocation, aws.NewConfig().WithRegion(c.AWSRegion))
	} else {
		b, err = bundlefs.InitBundle(bundleType, c.BundleLocation)
	}
	if err != nil {
		return nil, fmt.Errorf("open bundle %s: %w", c.BundleLocation, err)
	}
	log.Debugf("Opened bundle %s", c.BundleLocation)

	if c.CacheEntries <= 0 {
		return b, nil
	}
	cached, err := bundlefs.NewCachedBundle(b, c.CacheEntries)
	if err != nil {
		return nil, err
	}
	return cached, nil
}
