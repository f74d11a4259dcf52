package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/courseplayer/internal/content"
	"github.com/mind-engage/courseplayer/internal/grading"
)

func newGradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grade <file> <lessonKey> <answers.json>",
		Short: "Grade answers for one lesson's exercises",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			l, ok := content.Decode(doc).Lesson(args[1])
			if !ok {
				return fmt.Errorf("unknown lesson %q", args[1])
			}
			data, err := os.ReadFile(args[2])
			if err != nil {
				return fmt.Errorf("read answers: %w", err)
			}
			var answers map[string]any
			if err := json.Unmarshal(data, &answers); err != nil {
				return fmt.Errorf("parse answers: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), grading.NewEvaluator().Evaluate(l.Exercises, answers))
		},
	}
}
