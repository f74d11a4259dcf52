package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mind-engage/courseplayer/internal/content"
	"github.com/mind-engage/courseplayer/internal/session"
)

func newOutlineCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "Print the normalized, numbered course outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			o := session.BuildOutline(content.Decode(doc))
			if asJSON {
				return printJSON(cmd.OutOrStdout(), o)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if o.Title != "" {
				fmt.Fprintf(tw, "%s\n", o.Title)
			}
			for _, u := range o.Units {
				fmt.Fprintf(tw, "%s\t%s\n", u.ID, u.Title)
				for _, l := range u.Lessons {
					fmt.Fprintf(tw, "  %s\t%s\t%s\t%d exercises\n", orDash(l.Number), l.Key, l.Kind, len(l.Exercises))
				}
			}
			fmt.Fprintf(tw, "countable lessons: %d\n", o.Countable)
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the outline as JSON")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
