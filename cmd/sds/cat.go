package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/artofthestate/sds"
)

var catCmd = &cobra.Command{
	Use:   "cat <name>...",
	Short: "Write bundle entries to stdout",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := openBundle()
		if err != nil {
			return err
		}
		defer closeBundle(bundle)

		s := sds.NewStream(bundle)
		defer s.Close()
		for _, name := range args {
			if !s.Open(name, sds.ReadOnly, true) {
				return fmt.Errorf("cannot open %s", name)
			}
			if _, err := io.Copy(cmd.OutOrStdout(), s.ReadWriteSeeker()); err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
		}
		return nil
	},
}
