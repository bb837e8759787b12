package cmd

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/signalnine/tonebench/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	cfgFile string

	// settings merges flags with TONEBENCH_* environment variables. Flags win.
	settings *viper.Viper
)

func NewRootCmd() *cobra.Command {
	settings = viper.New()
	settings.SetEnvPrefix("tonebench")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	root := &cobra.Command{
		Use:          "tonebench",
		Short:        "Measure how prompt tone changes LLM answers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(settings.GetString("log-level"))
			if err != nil {
				return err
			}
			logging.Init(level, settings.GetString("log-format"), cmd.ErrOrStderr())
			color.NoColor = settings.GetBool("no-color") || os.Getenv("NO_COLOR") != "" ||
				!term.IsTerminal(int(os.Stdout.Fd()))
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "tonebench.yaml", "config file path (.yaml or .toml)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.Bool("no-color", false, "disable colored output")
	for _, name := range []string{"log-level", "log-format", "no-color"} {
		_ = settings.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newValidateCmd())
	return root
}
