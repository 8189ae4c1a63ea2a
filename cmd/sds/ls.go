package main

import (
	"fmt"
	"text/tabwriter"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [pattern]",
	Short: "List bundle entries",
	Long: `List the entries of the bundle with their sizes. pattern is a path.Match
pattern; entries under a matching directory are listed too.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := openBundle()
		if err != nil {
			return err
		}
		defer closeBundle(bundle)

		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
		}
		entries, err := bundle.ListEntries(pattern)
		if err != nil {
			return fmt.Errorf("listing entries: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
		var total int64
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t  %s\n", humanize.Bytes(uint64(entry.Size)), entry.Name)
			total += entry.Size
		}
		fmt.Fprintf(w, "%s\t  total (%d entries)\n", humanize.Bytes(uint64(total)), len(entries))
		return w.Flush()
	},
}
