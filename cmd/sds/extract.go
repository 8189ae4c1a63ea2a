package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/artofthestate/sds"
)

var (
	outDir      string
	concurrency int
	noProgress  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [name]...",
	Short: "Copy bundle entries to a directory",
	Long: `Extract copies the named entries, or every entry when no name is given,
into the output directory. Entry paths are kept relative to the output
directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := openBundle()
		if err != nil {
			return err
		}
		defer closeBundle(bundle)

		var options []sds.Option
		if cmd.Flags().Changed("concurrency") {
			options = append(options, sds.WithMaxConcurrency(concurrency))
		}
		extractor, err := sds.NewExtractor(bundle, options...)
		if err != nil {
			return err
		}
		extractor.Progress = !noProgress

		names := args
		if len(names) == 0 {
			entries, err := bundle.ListEntries("")
			if err != nil {
				return fmt.Errorf("listing entries: %w", err)
			}
			for _, entry := range entries {
				names = append(names, entry.Name)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		log.Infof("Extracting %d entries to %s", len(names), outDir)
		return extractor.Extract(ctx, names, outDir)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	extractCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 8, "number of entries extracted at once")
	extractCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
}
