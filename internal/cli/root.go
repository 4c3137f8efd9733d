package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ubiquibot/askbot/internal/logging"
)

var (
	verbose bool
	version = "dev"

	rootCmd = &cobra.Command{
		Use:   "askbot",
		Short: "LLM-powered GitHub issue assistant",
		Long: `askbot answers /ask and /research commands on GitHub issues. It gathers the
issue's conversation plus every linked issue and pull request, asks the model
to triage the gathered context, and generates a Markdown answer.`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		logging.Setup(verbose)
	}

	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newResearchCmd())
	rootCmd.AddCommand(newPermitCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func Execute() error {
	return rootCmd.Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("askbot version %s\n", version)
		},
	}
}
