package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/artofthestate/sds"
)

var (
	cfgFile        string
	bundleLocation string
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "sds",
	Short: "Inspect and extract resource bundles",
	Long: `sds reads entries out of resource bundles through the same seekable streams
applications use at runtime.

A bundle is an asset directory, a zip or apk archive, or an S3 prefix
(s3://bucket/prefix). Settings are read from sdsrc in the working directory or
$HOME/.sds, from SDS_* environment variables, and from flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		}
		return nil
	},
}

// openBundle builds the configured bundle and sets the log level from the
// loaded configuration.
func openBundle() (sds.Bundle, error) {
	bundle, err := sds.OpenBundle()

	if viper.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}
	return bundle, nil
}

// closeBundle releases bundles that keep files open, such as zip archives.
func closeBundle(bundle sds.Bundle) {
	if closer, ok := bundle.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Debugf("Closing bundle: %s", err)
		}
	}
}

// bindFlags makes viper read each config key from the named flag when the
// flag is set on the command line.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			log.Fatalf("binding flag %s: %s", name, err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	log.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is sdsrc in pwd or $HOME/.sds)")
	rootCmd.PersistentFlags().StringVarP(&bundleLocation, "bundle", "b", ".", "bundle location: directory, .zip/.apk archive or s3://bucket/prefix")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"bundle_location": "bundle",
		"verbose":         "verbose",
	})

	rootCmd.AddCommand(lsCmd, catCmd, extractCmd, putCmd, statCmd)
}
