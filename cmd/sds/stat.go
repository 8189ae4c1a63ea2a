package main

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/artofthestate/sds"
)

var fromFile bool

var statCmd = &cobra.Command{
	Use:   "stat <name>",
	Short: "Show size and backend of a stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := openBundle()
		if err != nil {
			return err
		}
		defer closeBundle(bundle)

		s := sds.OpenStream(bundle, args[0], sds.ReadOnly, !fromFile)
		if !s.IsOpen() {
			return fmt.Errorf("cannot open %s", args[0])
		}
		defer s.Close()

		backend := "file"
		if s.IsBundle() {
			backend = "bundle"
		}
		size := s.FileSize(false)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "name:    %s\n", args[0])
		fmt.Fprintf(out, "backend: %s\n", backend)
		fmt.Fprintf(out, "size:    %d (%s)\n", size, humanize.Bytes(uint64(size)))
		fmt.Fprintf(out, "status:  %s\n", s.Status())
		return nil
	},
}

func init() {
	statCmd.Flags().BoolVarP(&fromFile, "file", "f", false, "open name on the filesystem instead of the bundle")
}
