package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ManrajK5/Studdy-Buddy/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "studdybuddy",
		Short: "StuddyBuddy API Server",
		Long:  `StuddyBuddy turns syllabi into a task board and keeps deadlines synced to Google Calendar.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
