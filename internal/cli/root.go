package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "exportview",
	Short: "Explore conversation exports",
	Long: `exportview reads the ZIP archive produced by a conversation data export
and shows who used the assistant, how much, when, and with which tools.

Every data command takes the archive (or an extracted export directory) as
its first argument. Use --json for machine-readable output.`,
	SilenceUsage: true,
}

var jsonOutput bool

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")
}
