package cmd

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/signalnine/tonebench/internal/config"
	"github.com/spf13/cobra"
)

var flagDump bool

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured tasks and tone patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flagDump {
				pp.Fprintln(out, cfg)
				return nil
			}
			fmt.Fprintf(out, "Model: %s\n", cfg.Model)
			fmt.Fprintln(out, "\nTasks:")
			for _, t := range cfg.Tasks {
				fmt.Fprintf(out, "  - %s [%s] %d run(s)\n", t.Name, t.Type, cfg.RunsFor(t))
			}
			fmt.Fprintln(out, "\nTone patterns:")
			for _, p := range cfg.TonePatterns {
				fmt.Fprintf(out, "  - %s: %s\n", p.Name, p.Instruction)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagDump, "dump", false, "pretty-print the fully resolved config")
	return cmd
}
