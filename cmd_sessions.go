package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maxdata/claude-code-log/transcript"
)

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions [path]",
		Short: "List sessions found in the transcripts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := load(cmd.Context(), args)
			if err != nil {
				return err
			}

			sessions := transcript.BuildSessionIndex(result.Entries)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tENTRIES\tFIRST\tLAST\tTITLE")
			for _, s := range sessions {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					s.SessionID, s.EntryCount, s.FirstTimestamp, s.LastTimestamp, s.DisplayTitle())
			}
			return w.Flush()
		},
	}
}
