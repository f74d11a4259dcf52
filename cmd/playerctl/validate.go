package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mind-engage/courseplayer/internal/content"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a course document against the course schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			if err := content.Validate(doc); err != nil {
				return err
			}
			c := content.Decode(doc)
			lessons := 0
			for _, u := range c.Units {
				lessons += len(u.Lessons)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d units, %d lessons\n", len(c.Units), lessons)
			return nil
		},
	}
}
