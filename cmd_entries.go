package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maxdata/claude-code-log/log"
)

func newEntriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entries [path]",
		Short: "Parse transcripts and print entries as JSON lines",
		Long: `Parses the given JSONL transcript file or directory of transcripts
and prints every recognized entry, one JSON object per line, in its
original serialized form. Skipped lines are reported on stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := load(cmd.Context(), args)
			if err != nil {
				return err
			}

			for _, d := range result.Diagnostics {
				log.Warn().
					Str("source", d.Source).
					Int("line", d.Line).
					Str("kind", string(d.Kind)).
					Msg(d.Message)
			}

			out := bufio.NewWriter(os.Stdout)
			defer out.Flush()
			for _, entry := range result.Entries {
				data, err := entry.MarshalJSON()
				if err != nil {
					return fmt.Errorf("marshal entry %s: %w", entry.GetUUID(), err)
				}
				out.Write(data)
				out.WriteByte('\n')
			}
			return nil
		},
	}
}
