package main

import (
	"os"

	"github.com/spf13/cobra"

	"sobrio/internal/interfaces/cli/migrate"
	"sobrio/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sobrio",
		Short: "Sobrio - relapse-prevention companion backend",
		Long:  `Sobrio is the backend service of the relapse-prevention companion app: authentication, craving tracking and exercise progress.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
