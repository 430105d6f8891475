package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maxdata/claude-code-log/config"
	"github.com/maxdata/claude-code-log/spans"
)

func newSpansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spans [path]",
		Short: "Segment transcript entries into activity spans",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := load(cmd.Context(), args)
			if err != nil {
				return err
			}

			segmented := spans.Segment(result.Entries, flagGapSeconds)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tENTRIES\tSTART\tEND\tTITLE")
			for _, s := range segmented {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
					s.ID, s.Kind, len(s.EntryIndices), s.StartTimestamp, s.EndTimestamp, s.Title)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&flagGapSeconds, "gap-seconds", config.Get().GapSeconds,
		"silence threshold in seconds before a new span begins")
	return cmd
}
