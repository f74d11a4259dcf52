package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/courseplayer/internal/content"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "playerctl",
		Short:         "Inspect and check course documents offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newOutlineCmd(), newValidateCmd(), newGradeCmd())
	return root
}

// loadDocument reads a JSON or YAML course document. "-" reads stdin.
func loadDocument(cmd *cobra.Command, path string) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content.Parse(data)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
