package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/signalnine/tonebench/internal/result"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <results.json>...",
		Short: "Check results files against the results schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := resolveInputs(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			ok := color.New(color.FgGreen).SprintFunc()
			bad := color.New(color.FgRed).SprintFunc()

			failed := 0
			for _, p := range paths {
				data, err := os.ReadFile(p)
				if err != nil {
					return fmt.Errorf("reading results: %w", err)
				}
				err = result.ValidateResults(data)
				var schemaErr *result.SchemaError
				switch {
				case err == nil:
					fmt.Fprintf(out, "%s %s\n", ok("✓"), p)
				case errors.As(err, &schemaErr):
					failed++
					fmt.Fprintf(out, "%s %s\n", bad("✗"), p)
					for _, v := range schemaErr.Violations {
						fmt.Fprintf(out, "    %s\n", v)
					}
				default:
					failed++
					fmt.Fprintf(out, "%s %s: %v\n", bad("✗"), p, err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed validation", failed, len(paths))
			}
			return nil
		},
	}
}
