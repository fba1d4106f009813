package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/thaiba/mediatasks/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mediatasks",
		Short: "Thaiba Media task sync API",
		Long:  `Thaiba Media task sync API serves the media team's task dashboard from a shared Google Sheet, normalizing the free-text rows editors type into canonical task records.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
