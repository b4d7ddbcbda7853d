package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yungbote/flightsim-backend/internal/simulator/extract"
)

func ExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the JSON payload from raw model output on stdin",
		Long: `Reads raw model text (prose, markdown fences, trailing commentary) from stdin
and prints the extracted JSON object or array, compacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shapeFlag, _ := cmd.Flags().GetString("shape")
			shape, err := parseShape(shapeFlag)
			if err != nil {
				return err
			}
			raw, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 8<<20))
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			payload, err := extract.Extract(string(raw), shape)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), color.New(color.FgRed).Sprint("✗ ")+err.Error())
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}
	cmd.Flags().String("shape", "object", "payload shape: object or array")
	return cmd
}

func parseShape(s string) (extract.Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "object":
		return extract.Object, nil
	case "array":
		return extract.Array, nil
	}
	return extract.Object, fmt.Errorf("invalid shape: %s\nValid shapes: object, array", s)
}
