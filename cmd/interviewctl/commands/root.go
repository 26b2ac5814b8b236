package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

// NewRootCommand creates the interviewctl root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "interviewctl",
		Short:         "Inspect finished mock interviews",
		Long:          `interviewctl reads the transcript store configured for the interview server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the TOML config (defaults to $CONFIG_FILE or configs/config.toml)")
	rootCmd.AddCommand(NewTranscriptsCommand())

	return rootCmd
}

func Execute() {
	_ = godotenv.Load()

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
