package main

import (
	"fmt"
	"io"

	humanize "github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/artofthestate/sds"
)

var putCmd = &cobra.Command{
	Use:   "put <local-file> <name>",
	Short: "Store a local file as a bundle entry",
	Long: `Put copies a local file into the bundle under name. Only directory and S3
bundles accept new entries.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := openBundle()
		if err != nil {
			return err
		}
		defer closeBundle(bundle)
		writer, ok := bundle.(sds.BundleWriter)
		if !ok {
			return fmt.Errorf("bundle %T is read-only", bundle)
		}

		in := sds.OpenStream(nil, args[0], sds.ReadOnly, false)
		if !in.IsOpen() {
			return fmt.Errorf("cannot open %s", args[0])
		}
		defer in.Close()

		out, err := writer.OpenWriter(args[1])
		if err != nil {
			return err
		}
		n, err := io.Copy(out, in.ReadWriteSeeker())
		if err != nil {
			out.Close()
			return fmt.Errorf("copying %s: %w", args[0], err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("storing %s: %w", args[1], err)
		}

		log.Infof("Stored %s as %s (%s)", args[0], args[1], humanize.Bytes(uint64(n)))
		return nil
	},
}
