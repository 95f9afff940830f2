// Command vernonchat is a terminal client for the clinic assistant. It drives
// the same session controller and photo capture flow as the website widget.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
)

var logLevel = "warn"

var rootCmd = &cobra.Command{
	Use:   "vernonchat",
	Short: "Chat with the Vernon Skin Clinic assistant from the terminal",
	Long: `vernonchat talks to the assistant API: an interactive chat with follow-up
suggestions, the booking and callback forms, and photo skin analysis gated
behind name and phone.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitFromEnv("LOG_LEVEL", logLevel)
	},
}

func main() {
	rootCmd.AddCommand(
		NewChatCommand(),
		NewBookCommand(),
		NewCallbackCommand(),
		NewAnalyzeCommand(),
	)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel,
		"Log level (debug,info,warn,error)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
