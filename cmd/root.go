package cmd

import "github.com/spf13/cobra"

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:           "mnemo",
		Short:         "mnemo: retrieval-augmented chat over a local knowledge base",
		Long:          "mnemo runs a retrieval-augmented chat pipeline: a short-term conversation buffer, a vector knowledge store, and a concept graph feed context into prompts for a language model backend.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a config file (default: ./mnemo.yaml if present)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newChatCmd(&cfgPath),
		newIngestCmd(&cfgPath),
		newServeCmd(&cfgPath),
	)

	return rootCmd
}
